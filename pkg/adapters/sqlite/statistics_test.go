package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/savestate/pkg/adapters/sqlite"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *sqlite.Statistics {
	t.Helper()
	stats, err := sqlite.Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = stats.Close() })
	return stats
}

func block(scenarios ...string) *document.Config {
	b := document.New()
	for i, name := range scenarios {
		sc := b.AddChild("scenario", nil)
		sc.Set("scenario", name)
		sc.Set("turns", 10+i)
	}
	return b
}

func TestStatistics_LoadAndLatest(t *testing.T) {
	stats := open(t)
	ctx := context.Background()

	stats.Load(block("s1"))
	stats.Load(block("s1", "s2"))

	latest, err := stats.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, block("s1", "s2").Equal(latest))

	sums, err := stats.Scenarios(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 3)
	assert.Equal(t, "s2", sums[2].Scenario)
	assert.Equal(t, 11, sums[2].Turns)
	assert.Equal(t, 1, sums[2].Position)
	assert.Equal(t, sums[1].BlockID, sums[2].BlockID)
}

func TestStatistics_Reset(t *testing.T) {
	stats := open(t)
	ctx := context.Background()

	stats.Load(block("s1"))
	stats.Reset()

	latest, err := stats.Latest(ctx)
	require.NoError(t, err)
	assert.True(t, latest.Empty())

	sums, err := stats.Scenarios(ctx)
	require.NoError(t, err)
	assert.Empty(t, sums)
}

func TestStatistics_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	ctx := context.Background()

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	id, err := first.Store(ctx, block("s7"))
	require.NoError(t, err)
	assert.Positive(t, id)
	require.NoError(t, first.Close())

	second, err := sqlite.Open(path)
	require.NoError(t, err)
	defer second.Close()

	latest, err := second.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s7", latest.Child("scenario").Get("scenario").Str())
}
