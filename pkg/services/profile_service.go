package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/logging"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/repositories"
)

// ProfileService onboards business profiles and lists subscribers.
type ProfileService interface {
	// Submit validates and upserts the profile, then delivers its first newsletter.
	// Validation failures are *apperrors.ValidationError. A delivery failure is returned
	// with the stored profile so callers can tell the two apart.
	Submit(ctx context.Context, input models.ProfileInput) (*models.BusinessProfile, error)

	// List returns every profile, newest first, with the subject of its latest newsletter.
	List(ctx context.Context) ([]models.ProfileSummary, error)
}

type profileService struct {
	repo     repositories.ProfileRepository
	delivery NewsletterDelivery
	validate *validator.Validate
	logger   *zap.Logger
}

var _ ProfileService = (*profileService)(nil)

// NewProfileService creates a profile service.
func NewProfileService(repo repositories.ProfileRepository, delivery NewsletterDelivery, logger *zap.Logger) ProfileService {
	return &profileService{
		repo:     repo,
		delivery: delivery,
		validate: newProfileValidator(),
		logger:   logger.Named("profiles"),
	}
}

func newProfileValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Names and locations reach the LLM prompt and the email subject verbatim.
	_ = v.RegisterValidation("nomarkup", func(fl validator.FieldLevel) bool {
		return !libinjection.IsXSS(fl.Field().String())
	})
	return v
}

func (s *profileService) Submit(ctx context.Context, input models.ProfileInput) (*models.BusinessProfile, error) {
	input = input.Normalize()
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	profile, err := s.repo.Upsert(ctx, input.ToProfile())
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	s.logger.Info("Profile saved",
		zap.Int64("profile_id", profile.ID),
		zap.String("email", logging.MaskEmail(profile.Email)))

	if _, err := s.delivery.Deliver(ctx, profile); err != nil {
		s.logger.Error("First newsletter failed",
			zap.Int64("profile_id", profile.ID),
			zap.String("error", logging.SanitizeError(err)))
		return profile, fmt.Errorf("failed to deliver first newsletter: %w", err)
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context) ([]models.ProfileSummary, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ProfileSummary, 0, len(profiles))
	for _, p := range profiles {
		latest, err := s.repo.LatestNewsletter(ctx, p.ID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		summaries = append(summaries, models.NewProfileSummary(p, latest))
	}
	return summaries, nil
}

// validateInput converts validator failures into readable, de-duplicated problems.
func (s *profileService) validateInput(input models.ProfileInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate profile: %w", err)
	}

	seen := make(map[string]bool)
	var problems []string
	for _, fe := range fieldErrs {
		msg := profileProblem(fe)
		if !seen[msg] {
			seen[msg] = true
			problems = append(problems, msg)
		}
	}
	return &apperrors.ValidationError{Problems: problems}
}

func profileProblem(fe validator.FieldError) string {
	field, _, element := strings.Cut(fe.Field(), "[")

	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s is too long", field)
	case "nomarkup":
		return fmt.Sprintf("%s must not contain HTML or script markup", field)
	}

	switch field {
	case "teamSize":
		return "teamSize must be a positive integer"
	case "email":
		if fe.Tag() == "email" {
			return "email must be a valid email address"
		}
	case "locations":
		if element {
			return "Each location must be a non-empty string"
		}
		return "locations must contain at least one location"
	case "shortTermGoals":
		if element {
			return "Each short term goal must be a non-empty string"
		}
		return fmt.Sprintf("shortTermGoals must contain exactly %d goals", models.ShortTermGoalCount)
	}
	return fmt.Sprintf("Missing or invalid field: %s", field)
}
