package handlers

import (
	"context"
	"time"

	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

type mockProfileService struct {
	submitted []models.ProfileInput
	profile   *models.BusinessProfile
	submitErr error

	summaries []models.ProfileSummary
	listErr   error
}

func (m *mockProfileService) Submit(ctx context.Context, input models.ProfileInput) (*models.BusinessProfile, error) {
	m.submitted = append(m.submitted, input)
	return m.profile, m.submitErr
}

func (m *mockProfileService) List(ctx context.Context) ([]models.ProfileSummary, error) {
	return m.summaries, m.listErr
}

type mockNewsletterJob struct {
	result models.NewsletterRunResult
	err    error
	runs   int
}

func (m *mockNewsletterJob) RunNow(ctx context.Context) (models.NewsletterRunResult, error) {
	m.runs++
	return m.result, m.err
}

func (m *mockNewsletterJob) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (m *mockNewsletterJob) Schedule() string { return "0 9 * * 1" }

func (m *mockNewsletterJob) NextRun(t time.Time) (time.Time, error) {
	return t.Add(7 * 24 * time.Hour), nil
}
