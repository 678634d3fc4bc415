package handlers

import (
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/config"
	"github.com/ekaya-inc/bizget-engine/pkg/keyvault"
)

// PingResponse contains service status and version information.
type PingResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Service     string `json:"service"`
	GoVersion   string `json:"go_version"`
	Hostname    string `json:"hostname"`
	Environment string `json:"environment"`
}

// ConfigHealthResponse reports whether newsletters can be generated and sent.
type ConfigHealthResponse struct {
	Success     bool             `json:"success"`
	Ready       bool             `json:"ready"`
	AIProvider  string           `json:"aiProvider"`
	KeyVault    keyvault.Summary `json:"keyVault"`
	MissingVars []string         `json:"missingVars"`
}

// HealthHandler handles health check and ping endpoints.
type HealthHandler struct {
	cfg    *config.Config
	vault  *keyvault.Status
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. vault is the startup hydration
// result and may be nil.
func NewHealthHandler(cfg *config.Config, vault *keyvault.Status, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{cfg: cfg, vault: vault, logger: logger}
}

// RegisterRoutes registers the health handler's routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ping", h.Ping)
	mux.HandleFunc("GET /api/health/config", h.ConfigHealth)
}

// Health handles GET /health requests.
// Returns a simple "ok" status for container health checks.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ping handles GET /ping requests.
// Returns detailed service information including version and environment.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	hostname, err := os.Hostname()
	if err != nil {
		http.Error(w, "failed to get hostname", http.StatusInternalServerError)
		return
	}

	response := PingResponse{
		Status:      "ok",
		Version:     h.cfg.Version,
		Service:     "bizget-engine",
		GoVersion:   runtime.Version(),
		Hostname:    hostname,
		Environment: h.cfg.Env,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode ping response", zap.Error(err))
	}
}

// ConfigHealth handles GET /api/health/config.
// Responds 503 while any AI or SMTP variable is missing.
func (h *HealthHandler) ConfigHealth(w http.ResponseWriter, r *http.Request) {
	health := h.cfg.Health()

	response := ConfigHealthResponse{
		Success:     health.Ready,
		Ready:       health.Ready,
		AIProvider:  health.AIProvider,
		KeyVault:    h.vault.Summary(),
		MissingVars: health.MissingVars,
	}

	status := http.StatusOK
	if !health.Ready {
		status = http.StatusServiceUnavailable
	}
	if err := WriteJSON(w, status, response); err != nil {
		h.logger.Error("Failed to encode config health response", zap.Error(err))
	}
}
