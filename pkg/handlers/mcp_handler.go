package handlers

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/mcp"
	"github.com/ekaya-inc/bizget-engine/pkg/middleware"
)

// MCPHandler serves MCP JSON-RPC over streamable HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
}

// NewMCPHandler creates a new MCP handler from an MCP server.
func NewMCPHandler(mcpServer *mcp.Server, logger *zap.Logger) *MCPHandler {
	return &MCPHandler{
		httpServer: mcpServer.NewStreamableHTTPServer(),
		logger:     logger,
	}
}

// RegisterRoutes registers the MCP endpoint at /mcp.
// Non-POST requests are rejected before the JSON-RPC body is read.
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux) {
	logged := middleware.MCPRequestLogger(h.logger)(h.httpServer)
	mux.Handle("/mcp", requirePOST(logged))
}

// requirePOST returns 405 Method Not Allowed for non-POST requests.
// The server is stateless, so there is no SSE stream to GET.
func requirePOST(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
