package loam

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/savestate/internal/testutils"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Contract(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"caves.md": `---
tag: multiplayer
id: 2p_Caves
name: Caves of the Bats
---`,
		"default_era.md": `---
tag: era
id: era_default
name: Default
---`,
	})

	catalog, err := New(context.Background(), repo)
	require.NoError(t, err)

	tests.CatalogContractTest(t, catalog, map[string]map[string]*document.Config{
		"multiplayer": {
			"2p_Caves": document.FromMap(map[string]any{"id": "2p_Caves", "name": "Caves of the Bats"}),
		},
		"era": {
			"era_default": document.FromMap(map[string]any{"id": "era_default", "name": "Default"}),
		},
	})
}

func TestCatalog_NestedDefinitions(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"ford.md": `---
tag: scenario
id: s2
name: The Ford
turns: 12
side:
  - id: p1
    gold: 100
  - id: p2
generator:
  size: 4
---
The river runs high this spring.`,
	})

	catalog, err := New(context.Background(), repo)
	require.NoError(t, err)

	def, ok := catalog.Find("scenario", "s2")
	require.True(t, ok)
	assert.Equal(t, "12", def.Get("turns").Str())
	assert.Equal(t, 2, def.ChildCount("side"))
	assert.Equal(t, "100", def.Child("side").Get("gold").Str())
	assert.Equal(t, "4", def.Child("generator").Get("size").Str())
	assert.Equal(t, "The river runs high this spring.", def.Get("description").Str())
	assert.False(t, def.Has("tag"))
}

func TestCatalog_FileNameIsDefaultID(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"plan_unit_advance.md": `---
tag: modification
name: Plan Unit Advance
---`,
		"notes.md": `---
title: not a definition
---`,
	})

	catalog, err := New(context.Background(), repo)
	require.NoError(t, err)

	def, ok := catalog.Find("modification", "plan_unit_advance")
	require.True(t, ok)
	assert.Equal(t, "Plan Unit Advance", def.Get("name").Str())
	assert.Equal(t, "plan_unit_advance", def.Get("id").Str())
}

func TestCatalog_DetectsCollisions(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"a.md": `---
tag: era
id: era_default
---`,
		"b.md": `---
tag: era
id: era_default
---`,
	})

	_, err := New(context.Background(), repo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLocate(t *testing.T) {
	tag, id := locate("multiplayer/2p_Caves.md", map[string]any{})
	assert.Equal(t, "multiplayer", tag)
	assert.Equal(t, "2p_Caves", id)

	tag, id = locate("eras/default.md", map[string]any{"tag": "era", "id": "era_default"})
	assert.Equal(t, "era", tag)
	assert.Equal(t, "era_default", id)

	tag, _ = locate("loose.md", map[string]any{})
	assert.Empty(t, tag)
}

// listOnly hides every optional capability of the wrapped repository.
type listOnly struct {
	core.Repository
}

func TestCatalog_WatchUnsupported(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)

	catalog, err := New(context.Background(), listOnly{repo})
	require.NoError(t, err)

	_, err = catalog.Watch(context.Background())
	assert.ErrorIs(t, err, ErrNotWatchable)
}

func TestCatalog_WatchReloads(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	catalog, err := New(context.Background(), repo)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := catalog.Watch(ctx)
	require.NoError(t, err)

	testutils.WriteFiles(t, dir, map[string]string{
		"ford.md": `---
tag: scenario
id: s2
---`,
	})

	// The create and the write may arrive as separate reloads.
	timeout := time.After(5 * time.Second)
	for {
		if _, ok := catalog.Find("scenario", "s2"); ok {
			break
		}
		select {
		case <-changes:
		case <-timeout:
			t.Fatal("no reload after a definition was added")
		}
	}

	cancel()
	for range changes {
	}
}
