package tests

import (
	"testing"

	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/ports"
)

// CatalogContractTest is a reusable test suite that verifies if an adapter complies with ports.Catalog.
// setupData maps tag to id to the definition the adapter was seeded with.
func CatalogContractTest(t *testing.T, catalog ports.Catalog, setupData map[string]map[string]*document.Config) {
	t.Helper()

	t.Run("Find_Success", func(t *testing.T) {
		for tag, byID := range setupData {
			for id, want := range byID {
				got, ok := catalog.Find(tag, id)
				if !ok {
					t.Fatalf("expected %s %q to be found", tag, id)
				}
				if !want.Equal(got) {
					t.Errorf("content mismatch for %s %q.\ngot:  %v\nwant: %v", tag, id, got, want)
				}
			}
		}
	})

	t.Run("Find_NotFound", func(t *testing.T) {
		if _, ok := catalog.Find("multiplayer", "non-existent-scenario"); ok {
			t.Error("expected non-existent scenario to be missing")
		}
	})

	t.Run("Find_WrongTag", func(t *testing.T) {
		for tag, byID := range setupData {
			for id := range byID {
				if _, ok := catalog.Find(tag+"_other", id); ok {
					t.Errorf("expected %q under tag %s_other to be missing", id, tag)
				}
			}
		}
	})
}
