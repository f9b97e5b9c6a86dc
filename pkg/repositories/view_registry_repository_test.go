package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skald-ai/skald-engine/pkg/models"
)

func sheetRecord(viewName, link string) models.ViewRegistryRecord {
	return models.ViewRegistryRecord{
		ViewName:           viewName,
		DisplayName:        "Sheet " + viewName,
		SharedLink:         link,
		DatasourceProvider: "google",
		DatasourceType:     models.DatasourceTypeForeign,
	}
}

func TestViewRegistryLoad_MissingFileIsEmpty(t *testing.T) {
	repo := NewViewRegistryRepository()

	records, err := repo.Load(context.Background(), filepath.Join(t.TempDir(), "conv-1"))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestViewRegistrySaveLoadRoundTrip(t *testing.T) {
	repo := NewViewRegistryRepository()
	dir := filepath.Join(t.TempDir(), "conv-1")

	now := time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)
	in := []models.ViewRegistryRecord{
		{
			ID:                 uuid.New(),
			ViewName:           "sales_q1",
			DisplayName:        "Sales Q1",
			SharedLink:         "https://example.com/sheet/1",
			DatasourceProvider: "google",
			DatasourceType:     models.DatasourceTypeForeign,
			CreatedAt:          now,
			UpdatedAt:          now,
			LastUsedAt:         now,
		},
	}

	require.NoError(t, repo.Save(context.Background(), dir, in))

	out, err := repo.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestViewRegistryLoad_CorruptDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conv-1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "views.json"), []byte("{not json"), 0o644))

	repo := NewViewRegistryRepository()
	_, err := repo.Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse view registry")
}

func TestViewRegistryUpsert_InsertsNewRecord(t *testing.T) {
	repo := NewViewRegistryRepository()
	dir := filepath.Join(t.TempDir(), "conv-1")

	saved, err := repo.Upsert(context.Background(), dir, sheetRecord("sales_q1", "https://example.com/sheet/1"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	records, err := repo.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sales_q1", records[0].ViewName)
}

func TestViewRegistryUpsert_IdempotentBySharedLink(t *testing.T) {
	repo := NewViewRegistryRepository()
	dir := filepath.Join(t.TempDir(), "conv-1")
	link := "https://example.com/sheet/1"

	first, err := repo.Upsert(context.Background(), dir, sheetRecord("sales_q1", link))
	require.NoError(t, err)

	// Re-import of the same link under a different proposed name.
	reimport := sheetRecord("sales_q1_copy", link)
	reimport.DisplayName = "Sales Q1 (renamed)"
	second, err := repo.Upsert(context.Background(), dir, reimport)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "sales_q1", second.ViewName, "re-import keeps the original view name")
	assert.Equal(t, "Sales Q1 (renamed)", second.DisplayName)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	records, err := repo.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestViewRegistryUpsert_DistinctLinksAppend(t *testing.T) {
	repo := NewViewRegistryRepository()
	dir := filepath.Join(t.TempDir(), "conv-1")

	_, err := repo.Upsert(context.Background(), dir, sheetRecord("a", "https://example.com/sheet/1"))
	require.NoError(t, err)
	_, err = repo.Upsert(context.Background(), dir, sheetRecord("b", "https://example.com/sheet/2"))
	require.NoError(t, err)

	records, err := repo.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestViewRegistryUpsert_EmptyLinkNeverMatches(t *testing.T) {
	repo := NewViewRegistryRepository()
	dir := filepath.Join(t.TempDir(), "conv-1")

	_, err := repo.Upsert(context.Background(), dir, sheetRecord("native_a", ""))
	require.NoError(t, err)
	_, err = repo.Upsert(context.Background(), dir, sheetRecord("native_b", ""))
	require.NoError(t, err)

	records, err := repo.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestWriteDocument_CreatesConversationDir(t *testing.T) {
	repo := NewViewRegistryRepository()
	dir := filepath.Join(t.TempDir(), "nested", "conv-1")

	require.NoError(t, repo.Save(context.Background(), dir, []models.ViewRegistryRecord{}))

	_, err := os.Stat(filepath.Join(dir, "views.json"))
	assert.NoError(t, err)
}
