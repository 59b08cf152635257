package ports

import (
	"context"

	"github.com/aretw0/savestate/pkg/document"
)

// SaveStore defines the interface for persisting save documents.
type SaveStore interface {
	// Save persists the document under the given save ID, replacing any previous one.
	Save(ctx context.Context, id string, doc *document.Config) error

	// Load retrieves the document for a given save ID.
	// Returns domain.ErrSaveNotFound if the save does not exist.
	Load(ctx context.Context, id string) (*document.Config, error)

	// Delete removes the save. Deleting a missing save is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of every stored save.
	List(ctx context.Context) ([]string, error)
}
