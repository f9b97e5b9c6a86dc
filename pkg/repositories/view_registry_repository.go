// Package repositories implements the durable document stores backing the
// view registry and business-context snapshots. Documents are scoped by
// conversation directory.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/skald-ai/skald-engine/pkg/models"
)

const registryFileName = "views.json"

// ViewRegistryRepository reads and writes the per-conversation registry of
// imported views.
type ViewRegistryRepository interface {
	// Load returns all registry records for a conversation. A missing
	// registry document yields an empty slice, not an error.
	Load(ctx context.Context, conversationDir string) ([]models.ViewRegistryRecord, error)

	// Save overwrites the registry document with records.
	Save(ctx context.Context, conversationDir string, records []models.ViewRegistryRecord) error

	// Upsert registers an imported view. Records are identified by
	// SharedLink: re-importing the same link updates the existing record in
	// place and keeps its ViewName, so imports are idempotent.
	Upsert(ctx context.Context, conversationDir string, record models.ViewRegistryRecord) (models.ViewRegistryRecord, error)
}

type viewRegistryRepository struct{}

// NewViewRegistryRepository creates a file-backed ViewRegistryRepository.
func NewViewRegistryRepository() ViewRegistryRepository {
	return &viewRegistryRepository{}
}

func (r *viewRegistryRepository) Load(_ context.Context, conversationDir string) ([]models.ViewRegistryRecord, error) {
	path := filepath.Join(conversationDir, registryFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.ViewRegistryRecord{}, nil
		}
		return nil, fmt.Errorf("read view registry: %w", err)
	}

	var records []models.ViewRegistryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse view registry: %w", err)
	}
	return records, nil
}

func (r *viewRegistryRepository) Save(_ context.Context, conversationDir string, records []models.ViewRegistryRecord) error {
	return writeDocument(conversationDir, registryFileName, records)
}

func (r *viewRegistryRepository) Upsert(ctx context.Context, conversationDir string, record models.ViewRegistryRecord) (models.ViewRegistryRecord, error) {
	records, err := r.Load(ctx, conversationDir)
	if err != nil {
		return models.ViewRegistryRecord{}, err
	}

	now := time.Now().UTC()
	for i := range records {
		if record.SharedLink != "" && records[i].SharedLink == record.SharedLink {
			// Same source re-imported: keep the original ViewName and
			// creation time, refresh the rest.
			records[i].DisplayName = record.DisplayName
			records[i].DatasourceProvider = record.DatasourceProvider
			records[i].DatasourceType = record.DatasourceType
			records[i].UpdatedAt = now
			records[i].LastUsedAt = now
			if err := r.Save(ctx, conversationDir, records); err != nil {
				return models.ViewRegistryRecord{}, err
			}
			return records[i], nil
		}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	record.LastUsedAt = now
	records = append(records, record)
	if err := r.Save(ctx, conversationDir, records); err != nil {
		return models.ViewRegistryRecord{}, err
	}
	return record, nil
}

// writeDocument marshals v and writes it atomically via a temp file rename,
// creating the conversation directory if needed.
func writeDocument(conversationDir, name string, v any) error {
	if err := os.MkdirAll(conversationDir, 0o755); err != nil {
		return fmt.Errorf("create conversation dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(conversationDir, name)
	tmp, err := os.CreateTemp(conversationDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
