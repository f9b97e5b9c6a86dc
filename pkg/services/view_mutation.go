package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skald-ai/skald-engine/pkg/apperrors"
	"github.com/skald-ai/skald-engine/pkg/engine"
)

// FailedSheet reports one name a batch delete could not remove.
type FailedSheet struct {
	SheetName string `json:"sheet_name"`
	Error     string `json:"error"`
}

// DeleteResult is the aggregated outcome of a batch delete. The batch never
// aborts early; every name is reported on one side or the other.
type DeleteResult struct {
	DeletedSheets []string      `json:"deleted_sheets"`
	FailedSheets  []FailedSheet `json:"failed_sheets"`
	Message       string        `json:"message"`
}

// RenameResult is the outcome of a successful rename.
type RenameResult struct {
	OldSheetName string `json:"old_sheet_name"`
	NewSheetName string `json:"new_sheet_name"`
	Message      string `json:"message"`
}

// MutationService performs view delete and rename against the engine
// catalog. The engine handle is caller-owned and supplied per call.
type MutationService interface {
	DeleteSheets(ctx context.Context, sheetNames []string, eng engine.QueryEngine) (*DeleteResult, error)
	RenameSheet(ctx context.Context, oldName, newName string, eng engine.QueryEngine) (*RenameResult, error)
}

type mutationService struct {
	logger *zap.Logger
}

// NewMutationService creates a MutationService.
func NewMutationService(logger *zap.Logger) MutationService {
	return &mutationService{logger: logger}
}

// escapeIdent doubles embedded quote characters for use inside a quoted
// identifier.
func escapeIdent(name string) string {
	return strings.ReplaceAll(name, `"`, `""`)
}

// DeleteSheets drops each named object, first as a view and then as a
// table, both with "if exists" semantics so absence is not an error.
// Successes and per-name failures are both collected; the batch never
// aborts early.
func (s *mutationService) DeleteSheets(ctx context.Context, sheetNames []string, eng engine.QueryEngine) (*DeleteResult, error) {
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("at least one sheet name is required: %w", apperrors.ErrInvalidInput)
	}
	if eng == nil {
		return nil, fmt.Errorf("query engine is required: %w", apperrors.ErrInvalidInput)
	}

	result := &DeleteResult{
		DeletedSheets: make([]string, 0, len(sheetNames)),
		FailedSheets:  make([]FailedSheet, 0),
	}

	for _, sheetName := range sheetNames {
		escaped := escapeIdent(sheetName)

		// Engines differ on whether DROP VIEW IF EXISTS errors when the
		// object is a table, so a name only fails when both drops error.
		_, viewErr := eng.Query(ctx, fmt.Sprintf(`DROP VIEW IF EXISTS "%s"`, escaped))
		_, tableErr := eng.Query(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, escaped))

		if viewErr != nil && tableErr != nil {
			s.logger.Warn("failed to delete sheet",
				zap.String("sheet", sheetName),
				zap.Error(viewErr))
			result.FailedSheets = append(result.FailedSheets, FailedSheet{
				SheetName: sheetName,
				Error:     viewErr.Error(),
			})
			continue
		}
		result.DeletedSheets = append(result.DeletedSheets, sheetName)
	}

	successCount := len(result.DeletedSheets)
	failCount := len(result.FailedSheets)
	switch {
	case successCount == len(sheetNames):
		result.Message = fmt.Sprintf("Successfully deleted %d sheet(s): %s",
			successCount, strings.Join(result.DeletedSheets, ", "))
	case successCount > 0:
		failedNames := make([]string, 0, failCount)
		for _, f := range result.FailedSheets {
			failedNames = append(failedNames, f.SheetName)
		}
		result.Message = fmt.Sprintf("Deleted %d sheet(s): %s. Failed to delete %d sheet(s): %s",
			successCount, strings.Join(result.DeletedSheets, ", "),
			failCount, strings.Join(failedNames, ", "))
	default:
		result.Message = fmt.Sprintf("Failed to delete all %d sheet(s)", failCount)
	}

	return result, nil
}

// RenameSheet renames a view after verifying the old name resolves and the
// new name does not. Ambiguous probe errors propagate unchanged rather than
// being guessed at.
func (s *mutationService) RenameSheet(ctx context.Context, oldName, newName string, eng engine.QueryEngine) (*RenameResult, error) {
	if oldName == "" || newName == "" {
		return nil, fmt.Errorf("both old and new sheet names are required: %w", apperrors.ErrInvalidInput)
	}
	if oldName == newName {
		return nil, fmt.Errorf("old and new sheet names cannot be the same: %w", apperrors.ErrInvalidInput)
	}
	if eng == nil {
		return nil, fmt.Errorf("query engine is required: %w", apperrors.ErrInvalidInput)
	}

	escapedOld := escapeIdent(oldName)
	escapedNew := escapeIdent(newName)

	if _, err := eng.Query(ctx, fmt.Sprintf(`SELECT 1 FROM "%s" LIMIT 1`, escapedOld)); err != nil {
		if engine.IsNotFound(err) {
			return nil, &apperrors.ViewNotFoundError{ViewName: oldName}
		}
		return nil, err
	}

	if _, err := eng.Query(ctx, fmt.Sprintf(`SELECT 1 FROM "%s" LIMIT 1`, escapedNew)); err != nil {
		switch {
		case engine.IsNotFound(err):
			// The name is free.
		case engine.IsAlreadyExists(err):
			return nil, &apperrors.ViewExistsError{ViewName: newName}
		default:
			return nil, err
		}
	} else {
		// Probe resolved: the target name is taken.
		return nil, &apperrors.ViewExistsError{ViewName: newName}
	}

	if _, err := eng.Query(ctx, fmt.Sprintf(`ALTER VIEW "%s" RENAME TO "%s"`, escapedOld, escapedNew)); err != nil {
		return nil, fmt.Errorf("rename view %q: %w", oldName, err)
	}

	return &RenameResult{
		OldSheetName: oldName,
		NewSheetName: newName,
		Message:      fmt.Sprintf("Successfully renamed view %q to %q", oldName, newName),
	}, nil
}
