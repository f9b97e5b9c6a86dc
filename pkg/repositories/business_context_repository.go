package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/skald-ai/skald-engine/pkg/apperrors"
	"github.com/skald-ai/skald-engine/pkg/models"
)

const contextFileName = "business_context.json"

// BusinessContextRepository persists business-context snapshots per
// conversation. Saves are whole-document overwrites; the fast path never
// merges across saves.
type BusinessContextRepository interface {
	Save(ctx context.Context, conversationDir string, bc *models.BusinessContext) error
	Load(ctx context.Context, conversationDir string) (*models.BusinessContext, error)
}

type businessContextRepository struct{}

// NewBusinessContextRepository creates a file-backed BusinessContextRepository.
func NewBusinessContextRepository() BusinessContextRepository {
	return &businessContextRepository{}
}

func (r *businessContextRepository) Save(_ context.Context, conversationDir string, bc *models.BusinessContext) error {
	return writeDocument(conversationDir, contextFileName, bc)
}

func (r *businessContextRepository) Load(_ context.Context, conversationDir string) (*models.BusinessContext, error) {
	data, err := os.ReadFile(filepath.Join(conversationDir, contextFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("business context for %s: %w", conversationDir, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("read business context: %w", err)
	}

	var bc models.BusinessContext
	if err := json.Unmarshal(data, &bc); err != nil {
		return nil, fmt.Errorf("parse business context: %w", err)
	}
	return &bc, nil
}
