package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/logging"
	"github.com/ekaya-inc/bizget-engine/pkg/mailer"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/repositories"
)

// NewsletterDelivery generates, emails and records one newsletter.
type NewsletterDelivery interface {
	// Deliver saves the newsletter only after the email was accepted by the relay.
	Deliver(ctx context.Context, profile *models.BusinessProfile) (*models.Newsletter, error)
}

type newsletterDelivery struct {
	newsletters NewsletterService
	sender      mailer.Sender
	repo        repositories.ProfileRepository
	logger      *zap.Logger
}

var _ NewsletterDelivery = (*newsletterDelivery)(nil)

// NewNewsletterDelivery wires generation, mail delivery and persistence together.
func NewNewsletterDelivery(newsletters NewsletterService, sender mailer.Sender, repo repositories.ProfileRepository, logger *zap.Logger) NewsletterDelivery {
	return &newsletterDelivery{
		newsletters: newsletters,
		sender:      sender,
		repo:        repo,
		logger:      logger.Named("newsletter-delivery"),
	}
}

func (d *newsletterDelivery) Deliver(ctx context.Context, profile *models.BusinessProfile) (*models.Newsletter, error) {
	content, err := d.newsletters.Generate(ctx, profile)
	if err != nil {
		return nil, err
	}

	err = d.sender.Send(ctx, models.Email{
		To:      profile.Email,
		Subject: content.Subject,
		HTML:    content.BodyHTML,
		Text:    content.BodyText,
	})
	if err != nil {
		return nil, err
	}

	saved, err := d.repo.SaveNewsletter(ctx, profile.ID, content)
	if err != nil {
		return nil, fmt.Errorf("newsletter sent but not recorded: %w", err)
	}

	d.logger.Info("Newsletter delivered",
		zap.Int64("profile_id", profile.ID),
		zap.String("to", logging.MaskEmail(profile.Email)),
		zap.Int64("newsletter_id", saved.ID))
	return saved, nil
}
