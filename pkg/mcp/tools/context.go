package tools

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/skald-ai/skald-engine/pkg/apperrors"
	"github.com/skald-ai/skald-engine/pkg/models"
	"github.com/skald-ai/skald-engine/pkg/services"
)

// ContextToolDeps contains dependencies for business-context tools.
type ContextToolDeps struct {
	Context       services.ContextService
	WorkspaceRoot string
	Logger        *zap.Logger
}

// RegisterContextTools registers business-context MCP tools.
func RegisterContextTools(s *server.MCPServer, deps *ContextToolDeps) {
	registerBuildBusinessContextTool(s, deps)
}

func registerBuildBusinessContextTool(s *server.MCPServer, deps *ContextToolDeps) {
	tool := mcp.NewTool(
		"build_business_context",
		mcp.WithDescription(
			"Build a fast business context for a freshly imported view from its schema: "+
				"identifier columns become entities with a literal vocabulary. "+
				"The context is returned immediately and persisted in the background.",
		),
		mcp.WithString(
			"conversation_id",
			mcp.Required(),
			mcp.Description("Conversation the view belongs to"),
		),
		mcp.WithString(
			"view_name",
			mcp.Required(),
			mcp.Description("Name of the imported view"),
		),
		mcp.WithString(
			"schema",
			mcp.Required(),
			mcp.Description("JSON-encoded schema of the view (database_name, schema_name, tables)"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		conversationID, err := req.RequireString("conversation_id")
		if err != nil {
			return nil, err
		}
		viewName, err := req.RequireString("view_name")
		if err != nil {
			return nil, err
		}
		schemaJSON, err := req.RequireString("schema")
		if err != nil {
			return nil, err
		}
		conversationID = trimString(conversationID)
		viewName = trimString(viewName)
		if conversationID == "" || viewName == "" {
			return NewErrorResult("invalid_parameters", "conversation_id and view_name cannot be empty"), nil
		}

		var schema models.Schema
		if err := json.Unmarshal([]byte(schemaJSON), &schema); err != nil {
			return NewErrorResult("invalid_parameters", "schema is not valid JSON: "+err.Error()), nil
		}

		bc, err := deps.Context.BuildBusinessContext(ctx, services.BuildContextRequest{
			ConversationDir: filepath.Join(deps.WorkspaceRoot, conversationID),
			ViewName:        viewName,
			Schema:          schema,
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrNoUserTables) {
				return NewErrorResultWithDetails("no_user_tables", err.Error(),
					map[string]any{"view_name": viewName}), nil
			}
			deps.Logger.Error("build_business_context failed",
				zap.String("view", viewName),
				zap.Error(err))
			return nil, err
		}

		return jsonResult(bc)
	})
}
