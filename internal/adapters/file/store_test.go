package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/savestate/internal/adapters/file"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/aretw0/savestate/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSaveStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_WritesYAML(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	doc := document.New()
	doc.Set("label", "Heir")
	doc.AddChild("snapshot", nil).Set("id", "s1")

	require.NoError(t, store.Save(context.Background(), "campaign", doc))

	data, err := os.ReadFile(filepath.Join(dir, "campaign.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "label: Heir")
	assert.Contains(t, string(data), "[snapshot]")
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../outside", "a/b", "/abs"} {
		err := store.Save(ctx, id, document.New())
		assert.ErrorIs(t, err, domain.ErrInvalidSaveID, id)
	}
}

func TestFileStore_ListSkipsTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-a-123.yaml"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	require.NoError(t, store.Save(context.Background(), "b", document.New()))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent"))

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = store.Load(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrSaveNotFound)
}
