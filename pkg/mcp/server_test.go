package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

func TestNewServer(t *testing.T) {
	s := NewServer("1.0.0", zap.NewNop())

	if s.MCP() == nil {
		t.Fatal("expected non-nil mcp server")
	}
	if s.NewStreamableHTTPServer() == nil {
		t.Fatal("expected non-nil HTTP server")
	}
}

func TestServer_RegisterTool(t *testing.T) {
	s := NewServer("1.0.0", zap.NewNop())

	handlerCalled := false
	s.RegisterTool(mcp.NewTool("echo", mcp.WithDescription("Echoes")), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		handlerCalled = true
		return mcp.NewToolResultText("pong"), nil
	})
	if handlerCalled {
		t.Error("handler should not be called during registration")
	}

	result := s.MCP().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"echo"},"id":1}`))
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !handlerCalled {
		t.Error("expected handler to be called")
	}
	if len(response.Result.Content) != 1 || response.Result.Content[0].Text != "pong" {
		t.Errorf("unexpected response: %s", raw)
	}
}
