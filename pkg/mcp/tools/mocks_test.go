package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/skald-ai/skald-engine/pkg/engine"
	"github.com/skald-ai/skald-engine/pkg/models"
	"github.com/skald-ai/skald-engine/pkg/services"
)

// mockListingService returns canned listings.
type mockListingService struct {
	result  *services.ListViewsResult
	err     error
	lastReq services.ListViewsRequest
	calls   int
}

func (m *mockListingService) ListViews(_ context.Context, req services.ListViewsRequest) (*services.ListViewsResult, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockMutationService returns canned delete/rename outcomes.
type mockMutationService struct {
	deleteResult *services.DeleteResult
	deleteErr    error
	renameResult *services.RenameResult
	renameErr    error
	lastDeleted  []string
	lastOldName  string
	lastNewName  string
}

func (m *mockMutationService) DeleteSheets(_ context.Context, sheetNames []string, _ engine.QueryEngine) (*services.DeleteResult, error) {
	m.lastDeleted = sheetNames
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return m.deleteResult, nil
}

func (m *mockMutationService) RenameSheet(_ context.Context, oldName, newName string, _ engine.QueryEngine) (*services.RenameResult, error) {
	m.lastOldName = oldName
	m.lastNewName = newName
	if m.renameErr != nil {
		return nil, m.renameErr
	}
	return m.renameResult, nil
}

// mockContextService returns a canned business context.
type mockContextService struct {
	result   *models.BusinessContext
	err      error
	lastReq  services.BuildContextRequest
	saveDone chan error
}

func (m *mockContextService) BuildBusinessContext(_ context.Context, req services.BuildContextRequest) (*models.BusinessContext, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockContextService) SaveDone() <-chan error {
	if m.saveDone == nil {
		m.saveDone = make(chan error)
	}
	return m.saveDone
}

func newTestServer() *server.MCPServer {
	return server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
}

// callTool invokes a tool over JSON-RPC and returns the first text content
// block together with the isError flag.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "tools/call",
		"id":      1,
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	raw := s.HandleMessage(context.Background(), payload)
	resultBytes, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.Error != nil {
		return response.Error.Message, true
	}
	if len(response.Result.Content) == 0 {
		t.Fatal("expected content in tool response")
	}
	return response.Result.Content[0].Text, response.Result.IsError
}

// listedTools returns the registered tool names.
func listedTools(t *testing.T, s *server.MCPServer) map[string]string {
	t.Helper()

	raw := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	resultBytes, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			Tools []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	tools := make(map[string]string, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		tools[tool.Name] = tool.Description
	}
	return tools
}

// parseErrorResponse decodes a structured tool error payload.
func parseErrorResponse(t *testing.T, text string) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("failed to parse error response %q: %v", text, err)
	}
	return resp
}
