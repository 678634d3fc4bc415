package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/mcp"
	"github.com/ekaya-inc/bizget-engine/pkg/mcp/tools"
	"github.com/ekaya-inc/bizget-engine/pkg/services"
)

func newTestMCPMux() *http.ServeMux {
	logger := zap.NewNop()
	catalog := services.NewDefaultDomainCatalog()
	mcpServer := mcp.NewServer("test-version", logger)
	tools.RegisterUseCaseTools(mcpServer.MCP(), &tools.UseCaseToolDeps{
		Catalog:   catalog,
		Generator: services.NewUseCaseGenerator(catalog, services.DefaultTemplateLibrary(), logger),
		Analyzer:  services.NewUseCaseAnalyzer(),
		Logger:    logger,
	})

	mux := http.NewServeMux()
	NewMCPHandler(mcpServer, logger).RegisterRoutes(mux)
	return mux
}

func postMCP(mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestMCPHandler_ToolsList(t *testing.T) {
	rec := postMCP(newTestMCPMux(), `{"jsonrpc":"2.0","method":"tools/list","id":1}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response struct {
		JSONRPC string  `json:"jsonrpc"`
		ID      float64 `json:"id"`
		Result  struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.JSONRPC != "2.0" || response.ID != 1 {
		t.Errorf("unexpected envelope: %+v", response)
	}
	if len(response.Result.Tools) != 6 {
		t.Errorf("expected 6 tools, got %d", len(response.Result.Tools))
	}
}

func TestMCPHandler_ToolsCall(t *testing.T) {
	rec := postMCP(newTestMCPMux(), `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"list_domains"},"id":1}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Result.Content) == 0 {
		t.Fatal("expected content in response")
	}

	var domains struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(response.Result.Content[0].Text), &domains); err != nil {
		t.Fatalf("failed to unmarshal tool result: %v", err)
	}
	if domains.Count != 6 {
		t.Errorf("expected 6 domains, got %d", domains.Count)
	}
}

func TestMCPHandler_RejectsGet(t *testing.T) {
	mux := newTestMCPMux()

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("expected Allow: POST, got %q", rec.Header().Get("Allow"))
	}
}
