package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSave(nextScenario string) *document.Config {
	doc := document.New()
	doc.Set("label", "Contract")
	doc.Set("campaign_type", "scenario")
	carry := doc.AddChild(domain.TagCarryoverSidesStart, nil)
	carry.Set("next_scenario", nextScenario)
	side := carry.AddChild("side", nil)
	side.Set("save_id", "p1")
	side.Set("gold", 120)
	doc.AddChild(domain.TagReplay, nil)
	return doc
}

// RunSaveStoreContract runs a suite of tests to verify that a SaveStore implementation
// adheres to the defined interface contract.
func RunSaveStoreContract(t *testing.T, store SaveStore) {
	ctx := context.Background()
	saveID := "contract-test-save-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := contractSave("s2")

		err := store.Save(ctx, saveID, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, saveID)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, doc.Equal(loaded), "loaded document should equal the saved one")
		assert.Equal(t, "120", loaded.Child(domain.TagCarryoverSidesStart).Child("side").Get("gold").Str())
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, saveID, contractSave("s3")))

		loaded, err := store.Load(ctx, saveID)
		require.NoError(t, err)
		assert.Equal(t, "s3", loaded.Child(domain.TagCarryoverSidesStart).Get("next_scenario").Str())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+saveID)
		assert.ErrorIs(t, err, domain.ErrSaveNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, saveID, contractSave("s2"))
		require.NoError(t, err)

		err = store.Delete(ctx, saveID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, saveID)
		assert.ErrorIs(t, err, domain.ErrSaveNotFound, "Load after Delete should return ErrSaveNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := saveID + "-1"
		id2 := saveID + "-2"
		require.NoError(t, store.Save(ctx, id1, contractSave("s2")))
		require.NoError(t, store.Save(ctx, id2, contractSave("s2")))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		saves, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, saves, id1)
		assert.Contains(t, saves, id2)
	})
}
