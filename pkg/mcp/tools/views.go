// Package tools provides the MCP tool surface the conversational agent
// uses to inspect and mutate the view catalog.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/skald-ai/skald-engine/pkg/services"
)

// ViewToolDeps contains dependencies for view listing tools.
type ViewToolDeps struct {
	Listing services.ListingService
	Logger  *zap.Logger
}

// RegisterViewTools registers view listing MCP tools.
func RegisterViewTools(s *server.MCPServer, deps *ViewToolDeps) {
	registerListViewsTool(s, deps)
}

func registerListViewsTool(s *server.MCPServer, deps *ViewToolDeps) {
	tool := mcp.NewTool(
		"list_views",
		mcp.WithDescription(
			"List all views and tables available to this conversation. "+
				"Combines the durable view registry (imported sheets) with the live engine catalog. "+
				"Results are cached briefly; set force_refresh=true after imports or deletions to recompute.",
		),
		mcp.WithString(
			"conversation_id",
			mcp.Required(),
			mcp.Description("Conversation whose views to list"),
		),
		mcp.WithString(
			"workspace",
			mcp.Required(),
			mcp.Description("Workspace root directory for the conversation"),
		),
		mcp.WithBoolean(
			"force_refresh",
			mcp.Description("Optional - bypass the listing cache and recompute"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		conversationID, err := req.RequireString("conversation_id")
		if err != nil {
			return nil, err
		}
		workspace, err := req.RequireString("workspace")
		if err != nil {
			return nil, err
		}
		conversationID = trimString(conversationID)
		workspace = trimString(workspace)
		if conversationID == "" || workspace == "" {
			return NewErrorResult("invalid_parameters", "conversation_id and workspace cannot be empty"), nil
		}
		forceRefresh := getOptionalBool(req, "force_refresh", false)

		result, err := deps.Listing.ListViews(ctx, services.ListViewsRequest{
			ConversationID: conversationID,
			Workspace:      workspace,
			ForceRefresh:   forceRefresh,
		})
		if err != nil {
			deps.Logger.Error("list_views failed",
				zap.String("conversation_id", conversationID),
				zap.Error(err))
			return nil, err
		}

		return jsonResult(result)
	})
}
