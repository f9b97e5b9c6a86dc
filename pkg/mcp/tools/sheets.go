package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/skald-ai/skald-engine/pkg/apperrors"
	"github.com/skald-ai/skald-engine/pkg/engine"
	"github.com/skald-ai/skald-engine/pkg/services"
)

// SheetToolDeps contains dependencies for sheet mutation tools.
type SheetToolDeps struct {
	Mutations services.MutationService
	Engine    engine.QueryEngine
	Logger    *zap.Logger
}

// RegisterSheetTools registers sheet delete and rename MCP tools.
func RegisterSheetTools(s *server.MCPServer, deps *SheetToolDeps) {
	registerDeleteSheetTool(s, deps)
	registerRenameSheetTool(s, deps)
}

func registerDeleteSheetTool(s *server.MCPServer, deps *SheetToolDeps) {
	tool := mcp.NewTool(
		"delete_sheet",
		mcp.WithDescription(
			"Delete one or more sheets (views or tables) from the engine catalog. "+
				"Each name is processed independently with if-exists semantics: a name that is already absent still counts as deleted, "+
				"and one failure never aborts the batch. The result reports deleted and failed names separately.",
		),
		mcp.WithArray(
			"sheet_names",
			mcp.Required(),
			mcp.Description("Names of the sheets to delete"),
		),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sheetNames := getStringSlice(req, "sheet_names")
		if len(sheetNames) == 0 {
			return NewErrorResult("invalid_parameters", "at least one sheet name is required"), nil
		}

		result, err := deps.Mutations.DeleteSheets(ctx, sheetNames, deps.Engine)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidInput) {
				return NewErrorResult("invalid_parameters", err.Error()), nil
			}
			deps.Logger.Error("delete_sheet failed", zap.Strings("sheets", sheetNames), zap.Error(err))
			return nil, err
		}

		return jsonResult(result)
	})
}

func registerRenameSheetTool(s *server.MCPServer, deps *SheetToolDeps) {
	tool := mcp.NewTool(
		"rename_sheet",
		mcp.WithDescription(
			"Rename a view in the engine catalog. Fails if the old name does not exist "+
				"or the new name is already taken; no catalog mutation is issued in either case.",
		),
		mcp.WithString(
			"old_sheet_name",
			mcp.Required(),
			mcp.Description("Current name of the sheet"),
		),
		mcp.WithString(
			"new_sheet_name",
			mcp.Required(),
			mcp.Description("New name for the sheet"),
		),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		oldName, err := req.RequireString("old_sheet_name")
		if err != nil {
			return nil, err
		}
		newName, err := req.RequireString("new_sheet_name")
		if err != nil {
			return nil, err
		}
		oldName = trimString(oldName)
		newName = trimString(newName)

		result, err := deps.Mutations.RenameSheet(ctx, oldName, newName, deps.Engine)
		if err != nil {
			var notFound *apperrors.ViewNotFoundError
			var exists *apperrors.ViewExistsError
			switch {
			case errors.Is(err, apperrors.ErrInvalidInput):
				return NewErrorResult("invalid_parameters", err.Error()), nil
			case errors.As(err, &notFound):
				return NewErrorResultWithDetails("view_not_found", err.Error(),
					map[string]any{"view_name": notFound.ViewName}), nil
			case errors.As(err, &exists):
				return NewErrorResultWithDetails("view_already_exists", err.Error(),
					map[string]any{"view_name": exists.ViewName}), nil
			}
			deps.Logger.Error("rename_sheet failed",
				zap.String("old", oldName),
				zap.String("new", newName),
				zap.Error(err))
			return nil, err
		}

		return jsonResult(result)
	})
}
