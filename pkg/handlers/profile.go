package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/logging"
	"github.com/ekaya-inc/bizget-engine/pkg/mailer"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/services"
)

// Response messages shown by the onboarding UI.
const (
	profileSavedMessage     = "Profile saved. Your first personalized newsletter was emailed successfully."
	newsletterRunMessage    = "Weekly newsletter job executed."
	newsletterFailedMessage = "Failed to run newsletter job."
)

// ProfilesResponse is the body of GET /api/profiles.
type ProfilesResponse struct {
	Success  bool                    `json:"success"`
	Profiles []models.ProfileSummary `json:"profiles"`
}

// ProfileHandler handles profile onboarding and newsletter runs.
type ProfileHandler struct {
	profiles services.ProfileService
	job      services.NewsletterJob
	logger   *zap.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profiles services.ProfileService, job services.NewsletterJob, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		job:      job,
		logger:   logger,
	}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/profile", h.Submit)
	mux.HandleFunc("GET /api/profiles", h.List)
	mux.HandleFunc("POST /api/newsletters/run-now", h.RunNow)
}

// Submit handles POST /api/profile.
func (h *ProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input models.ProfileInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid_request", "Request body must be a valid profile JSON object")
		return
	}

	profile, err := h.profiles.Submit(r.Context(), input)
	if err != nil {
		h.writeSubmitError(w, profile, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, nil, profileSavedMessage)
}

func (h *ProfileHandler) writeSubmitError(w http.ResponseWriter, profile *models.BusinessProfile, err error) {
	var validationErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, h.logger, http.StatusBadRequest, "validation_failed", validationErr.Error())
	case errors.Is(err, apperrors.ErrAINotConfigured), errors.Is(err, mailer.ErrNotConfigured):
		h.logger.Warn("Newsletter delivery is not configured", zap.String("error", logging.SanitizeError(err)))
		writeError(w, h.logger, http.StatusServiceUnavailable, "not_configured",
			"Profile saved, but newsletter delivery is not configured. Check /api/health/config.")
	case profile != nil:
		h.logger.Error("First newsletter delivery failed",
			zap.Int64("profile_id", profile.ID),
			zap.String("error", logging.SanitizeError(err)))
		writeError(w, h.logger, http.StatusBadGateway, "delivery_failed",
			"Profile saved, but the first newsletter could not be sent. It will be retried on the next weekly run.")
	default:
		h.logger.Error("Failed to save profile", zap.String("error", logging.SanitizeError(err)))
		writeError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to process profile.")
	}
}

// List handles GET /api/profiles.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list profiles", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "internal_error", "Failed to list profiles")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ProfilesResponse{Success: true, Profiles: profiles}); err != nil {
		h.logger.Error("Failed to encode profiles response", zap.Error(err))
	}
}

// RunNow handles POST /api/newsletters/run-now.
func (h *ProfileHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	result, err := h.job.RunNow(r.Context())
	if err != nil {
		h.logger.Error("Manual newsletter run failed", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "job_failed", newsletterFailedMessage)
		return
	}

	writeData(w, h.logger, http.StatusOK, result, newsletterRunMessage)
}
