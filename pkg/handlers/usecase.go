package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/services"
)

// DefaultTopCount is used by GET /api/usecases/top when count is omitted.
const DefaultTopCount = 5

// GenerateUseCaseRequest is the body of POST /api/usecases.
type GenerateUseCaseRequest struct {
	Domain          string `json:"domain"`
	CustomChallenge string `json:"customChallenge,omitempty"`
}

// ROIRequest is the body of POST /api/usecases/{id}/roi.
type ROIRequest struct {
	Cost          float64 `json:"cost"`
	AnnualBenefit float64 `json:"annualBenefit"`
}

// RoadmapResponse pairs a use case with its implementation phases.
type RoadmapResponse struct {
	UseCaseID uuid.UUID             `json:"useCaseId"`
	Title     string                `json:"title"`
	Phases    []models.RoadmapPhase `json:"phases"`
}

// ROIResponse is an ROI result for a specific use case.
type ROIResponse struct {
	UseCaseID uuid.UUID `json:"useCaseId"`
	models.ROIResult
}

// UseCaseHandler exposes the use-case generator and analyzer.
type UseCaseHandler struct {
	catalog   services.DomainCatalog
	generator services.UseCaseGenerator
	analyzer  services.UseCaseAnalyzer
	logger    *zap.Logger
}

// NewUseCaseHandler creates a new use-case handler.
func NewUseCaseHandler(catalog services.DomainCatalog, generator services.UseCaseGenerator, analyzer services.UseCaseAnalyzer, logger *zap.Logger) *UseCaseHandler {
	return &UseCaseHandler{
		catalog:   catalog,
		generator: generator,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// RegisterRoutes registers the use-case handler's routes on the given mux.
func (h *UseCaseHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/domains", h.ListDomains)
	mux.HandleFunc("POST /api/usecases", h.Generate)
	mux.HandleFunc("GET /api/usecases", h.List)
	mux.HandleFunc("GET /api/usecases/top", h.Top)
	mux.HandleFunc("GET /api/usecases/analysis", h.Analysis)
	mux.HandleFunc("GET /api/usecases/export", h.Export)
	mux.HandleFunc("GET /api/usecases/{id}/roadmap", h.Roadmap)
	mux.HandleFunc("GET /api/usecases/{id}/complexity", h.Complexity)
	mux.HandleFunc("POST /api/usecases/{id}/roi", h.ROI)
}

// ListDomains handles GET /api/domains.
func (h *UseCaseHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.logger, http.StatusOK, h.catalog.List(), "")
}

// Generate handles POST /api/usecases.
func (h *UseCaseHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateUseCaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Request body must be a JSON object with a domain")
		return
	}
	if strings.TrimSpace(req.Domain) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "domain is required")
		return
	}

	uc, err := h.generator.GenerateForDomain(req.Domain, req.CustomChallenge)
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, uc.ToRecord(), "")
}

// List handles GET /api/usecases with an optional ?domain= filter.
func (h *UseCaseHandler) List(w http.ResponseWriter, r *http.Request) {
	var useCases []*models.UseCase
	if domain := r.URL.Query().Get("domain"); domain != "" {
		useCases = h.generator.GetByDomain(domain)
	} else {
		useCases = h.generator.GetAll()
	}
	writeData(w, h.logger, http.StatusOK, toRecords(useCases), "")
}

// Top handles GET /api/usecases/top?count=N.
func (h *UseCaseHandler) Top(w http.ResponseWriter, r *http.Request) {
	count := DefaultTopCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, h.logger, http.StatusBadRequest, "invalid_count", "count must be a non-negative integer")
			return
		}
		count = n
	}
	writeData(w, h.logger, http.StatusOK, toRecords(h.generator.GetTop(count)), "")
}

// Analysis handles GET /api/usecases/analysis.
func (h *UseCaseHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.logger, http.StatusOK, h.generator.Analyze(), "")
}

// Export handles GET /api/usecases/export?format=json|yaml. The export is written
// as-is rather than wrapped in a response envelope.
func (h *UseCaseHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.ExportFormatJSON
	}

	out, err := h.generator.Export(format)
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	contentType := "application/json"
	if strings.EqualFold(strings.TrimSpace(format), services.ExportFormatYAML) {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		h.logger.Error("Failed to write export", zap.Error(err))
	}
}

// Roadmap handles GET /api/usecases/{id}/roadmap.
func (h *UseCaseHandler) Roadmap(w http.ResponseWriter, r *http.Request) {
	uc, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeData(w, h.logger, http.StatusOK, RoadmapResponse{
		UseCaseID: uc.ID,
		Title:     uc.Title,
		Phases:    h.analyzer.GenerateRoadmap(uc),
	}, "")
}

// Complexity handles GET /api/usecases/{id}/complexity.
func (h *UseCaseHandler) Complexity(w http.ResponseWriter, r *http.Request) {
	uc, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeData(w, h.logger, http.StatusOK, h.analyzer.AnalyzeComplexity(uc), "")
}

// ROI handles POST /api/usecases/{id}/roi.
func (h *UseCaseHandler) ROI(w http.ResponseWriter, r *http.Request) {
	uc, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req ROIRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Request body must be a JSON object with cost and annualBenefit")
		return
	}

	result, err := h.analyzer.CalculateROI(uc, req.Cost, req.AnnualBenefit)
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, ROIResponse{UseCaseID: uc.ID, ROIResult: result}, "")
}

func (h *UseCaseHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.UseCase, bool) {
	id, ok := ParseUseCaseID(w, r, h.logger)
	if !ok {
		return nil, false
	}
	uc, err := h.generator.Get(id)
	if err != nil {
		h.writeUseCaseError(w, err)
		return nil, false
	}
	return uc, true
}

func (h *UseCaseHandler) writeUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrDomainNotFound):
		writeError(w, h.logger, http.StatusNotFound, "domain_not_found", err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, h.logger, http.StatusNotFound, "not_found", "Use case not found")
	case errors.Is(err, apperrors.ErrInvalidCostInput):
		writeError(w, h.logger, http.StatusBadRequest, "invalid_cost_input", err.Error())
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		writeError(w, h.logger, http.StatusBadRequest, "unsupported_format", "format must be json or yaml")
	default:
		h.logger.Error("Use case request failed", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func toRecords(useCases []*models.UseCase) []models.UseCaseRecord {
	records := make([]models.UseCaseRecord, len(useCases))
	for i, uc := range useCases {
		records[i] = uc.ToRecord()
	}
	return records
}
