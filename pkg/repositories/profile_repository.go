package repositories

import (
	"context"

	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

// ProfileRepository defines the interface for business profile and newsletter data access.
type ProfileRepository interface {
	// Upsert inserts the profile or, when a profile with the same (lower-cased) email
	// exists, updates it in place. The stored row is returned with ID and timestamps set.
	Upsert(ctx context.Context, profile *models.BusinessProfile) (*models.BusinessProfile, error)
	// List returns every profile, newest first.
	List(ctx context.Context) ([]*models.BusinessProfile, error)
	GetByID(ctx context.Context, id int64) (*models.BusinessProfile, error)
	// SaveNewsletter records a sent newsletter and stamps the profile's last_newsletter_sent_at.
	// Returns apperrors.ErrNotFound when the profile does not exist.
	SaveNewsletter(ctx context.Context, profileID int64, content *models.NewsletterContent) (*models.Newsletter, error)
	// LatestNewsletter returns apperrors.ErrNotFound when none was saved for the profile.
	LatestNewsletter(ctx context.Context, profileID int64) (*models.Newsletter, error)
}

// goalColumns splits the short-term goals into the three fixed columns.
func goalColumns(p *models.BusinessProfile) (string, string, string) {
	return p.ShortTermGoal(0), p.ShortTermGoal(1), p.ShortTermGoal(2)
}
