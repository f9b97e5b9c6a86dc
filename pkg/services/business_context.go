package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skald-ai/skald-engine/pkg/apperrors"
	"github.com/skald-ai/skald-engine/pkg/models"
	"github.com/skald-ai/skald-engine/pkg/repositories"
	"github.com/skald-ai/skald-engine/pkg/retry"
)

// DefaultFastPathBudget is the advisory latency budget for the fast-path
// context builder. Exceeding it logs a warning; nothing is enforced.
const DefaultFastPathBudget = 100 * time.Millisecond

// BuildContextRequest is the input to the fast-path context builder.
type BuildContextRequest struct {
	ConversationDir string
	ViewName        string
	Schema          models.Schema
}

// ContextService builds business contexts on the fast path: ID columns
// only, fixed confidences, no relationship or domain inference. The full
// inference pipeline runs elsewhere and is not time-boxed.
type ContextService interface {
	// BuildBusinessContext returns the context immediately; persistence
	// happens in the background and its failure is logged, never returned.
	BuildBusinessContext(ctx context.Context, req BuildContextRequest) (*models.BusinessContext, error)

	// SaveDone reports the outcome of each background save, one value per
	// build. Production callers ignore it; tests observe it.
	SaveDone() <-chan error
}

type contextService struct {
	contextRepo repositories.BusinessContextRepository
	retryCfg    *retry.Config
	budget      time.Duration
	saveDone    chan error
	logger      *zap.Logger
}

// NewContextService creates a ContextService. A non-positive budget means
// DefaultFastPathBudget.
func NewContextService(contextRepo repositories.BusinessContextRepository, budget time.Duration, logger *zap.Logger) ContextService {
	if budget <= 0 {
		budget = DefaultFastPathBudget
	}
	return &contextService{
		contextRepo: contextRepo,
		retryCfg:    retry.DefaultConfig(),
		budget:      budget,
		saveDone:    make(chan error, 16),
		logger:      logger,
	}
}

func (s *contextService) SaveDone() <-chan error { return s.saveDone }

func (s *contextService) BuildBusinessContext(ctx context.Context, req BuildContextRequest) (*models.BusinessContext, error) {
	start := time.Now()

	filtered := req.Schema
	filtered.Tables = nil
	for _, table := range req.Schema.Tables {
		if !IsSystemOrTempTable(table.TableName) {
			filtered.Tables = append(filtered.Tables, table)
		}
	}
	if len(filtered.Tables) == 0 {
		return nil, fmt.Errorf("no valid tables found in schema for view %q: %w", req.ViewName, apperrors.ErrNoUserTables)
	}

	entities := make(map[string]*models.BusinessEntity)
	entityOrder := make([]string, 0)
	vocabulary := make(map[string]*models.VocabularyEntry)

	for _, table := range filtered.Tables {
		for _, column := range table.Columns {
			colName := strings.ToLower(column.ColumnName)
			if !strings.HasSuffix(colName, "_id") && colName != "id" {
				continue
			}

			entityName := InferEntityName(column.ColumnName)
			entityKey := strings.ToLower(entityName)

			if existing, ok := entities[entityKey]; ok {
				if !containsString(existing.Columns, column.ColumnName) {
					existing.Columns = append(existing.Columns, column.ColumnName)
				}
			} else {
				entities[entityKey] = &models.BusinessEntity{
					Name:         entityName,
					Columns:      []string{column.ColumnName},
					Views:        []string{req.ViewName},
					DataType:     column.ColumnType,
					BusinessType: models.BusinessTypeRelationship,
					Confidence:   0.8, // fixed for identifier columns
				}
				entityOrder = append(entityOrder, entityKey)
			}

			// Literal vocabulary only; no synonyms or variations on the
			// fast path.
			vocabulary[colName] = &models.VocabularyEntry{
				BusinessTerm:   entityName,
				TechnicalTerms: []string{column.ColumnName},
				Confidence:     1.0,
				Synonyms:       []string{},
			}
		}
	}

	entityNames := make([]string, 0, len(entityOrder))
	for _, key := range entityOrder {
		entityNames = append(entityNames, entities[key].Name)
	}

	now := time.Now().UTC()
	bc := &models.BusinessContext{
		Entities:      entities,
		Vocabulary:    vocabulary,
		Relationships: []models.Relationship{},
		EntityGraph:   map[string][]string{},
		Domain:        DefaultDomain(),
		Views: map[string]*models.ViewSummary{
			req.ViewName: {
				ViewName:     req.ViewName,
				Schema:       filtered,
				Entities:     entityNames,
				LastAnalyzed: now,
			},
		},
		UpdatedAt: now,
	}

	go s.saveInBackground(req.ConversationDir, req.ViewName, bc)

	if elapsed := time.Since(start); elapsed > s.budget {
		s.logger.Warn("fast-path context build exceeded budget",
			zap.String("view", req.ViewName),
			zap.Duration("elapsed", elapsed),
			zap.Duration("budget", s.budget))
	}

	return bc, nil
}

// saveInBackground persists the context without blocking the caller. The
// outcome goes to saveDone if anyone is listening; a full channel drops it.
func (s *contextService) saveInBackground(conversationDir, viewName string, bc *models.BusinessContext) {
	err := retry.Do(context.Background(), s.retryCfg, func() error {
		return s.contextRepo.Save(context.Background(), conversationDir, bc)
	})
	if err != nil {
		s.logger.Warn("failed to save business context",
			zap.String("view", viewName),
			zap.String("conversation_dir", conversationDir),
			zap.Error(err))
	}

	select {
	case s.saveDone <- err:
	default:
	}
}
