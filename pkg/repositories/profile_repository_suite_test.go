package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

func sampleProfile(email string) *models.BusinessProfile {
	return &models.BusinessProfile{
		OwnerName:      "Dana Reyes",
		BusinessName:   "Harbor Bakery",
		Email:          email,
		Purpose:        "Neighbourhood bakery and cafe",
		TeamSize:       12,
		Locations:      []string{"Portland", "Salem"},
		LongTermGoal:   "Open a third location",
		ShortTermGoals: []string{"Cut food waste", "Grow catering", "Hire a shift lead"},
	}
}

// runProfileRepositorySuite exercises the ProfileRepository contract; both stores must pass it.
func runProfileRepositorySuite(t *testing.T, newRepo func(t *testing.T) ProfileRepository) {
	t.Run("upsert inserts and normalizes email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Upsert(ctx, sampleProfile("  Dana@Harbor.Example "))
		require.NoError(t, err)

		assert.NotZero(t, stored.ID)
		assert.Equal(t, "dana@harbor.example", stored.Email)
		assert.Equal(t, []string{"Portland", "Salem"}, stored.Locations)
		assert.Equal(t, []string{"Cut food waste", "Grow catering", "Hire a shift lead"}, stored.ShortTermGoals)
		assert.False(t, stored.CreatedAt.IsZero())
		assert.Nil(t, stored.LastNewsletterSentAt)
	})

	t.Run("upsert by email updates in place", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Upsert(ctx, sampleProfile("owner@shop.example"))
		require.NoError(t, err)

		changed := sampleProfile("OWNER@shop.example")
		changed.TeamSize = 20
		changed.Locations = []string{"Eugene"}
		second, err := repo.Upsert(ctx, changed)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 20, second.TeamSize)
		assert.Equal(t, []string{"Eugene"}, second.Locations)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "created_at must survive an update")

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("list returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, email := range []string{"a@x.example", "b@x.example", "c@x.example"} {
			_, err := repo.Upsert(ctx, sampleProfile(email))
			require.NoError(t, err)
			time.Sleep(2 * time.Millisecond)
		}

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "c@x.example", all[0].Email)
		assert.Equal(t, "a@x.example", all[2].Email)
	})

	t.Run("get by id", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Upsert(ctx, sampleProfile("get@x.example"))
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, stored.Email, got.Email)

		_, err = repo.GetByID(ctx, stored.ID+1000)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound), "got %v", err)
	})

	t.Run("save newsletter stamps profile", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Upsert(ctx, sampleProfile("news@x.example"))
		require.NoError(t, err)

		_, err = repo.LatestNewsletter(ctx, stored.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		first, err := repo.SaveNewsletter(ctx, stored.ID, &models.NewsletterContent{Subject: "Week 1", BodyHTML: "<p>1</p>", BodyText: "1"})
		require.NoError(t, err)
		assert.NotZero(t, first.ID)

		time.Sleep(2 * time.Millisecond)
		_, err = repo.SaveNewsletter(ctx, stored.ID, &models.NewsletterContent{Subject: "Week 2", BodyHTML: "<p>2</p>", BodyText: "2"})
		require.NoError(t, err)

		latest, err := repo.LatestNewsletter(ctx, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, "Week 2", latest.Subject)
		assert.Equal(t, "<p>2</p>", latest.BodyHTML)

		reloaded, err := repo.GetByID(ctx, stored.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded.LastNewsletterSentAt)
		assert.False(t, reloaded.LastNewsletterSentAt.Before(first.CreatedAt))
	})

	t.Run("save newsletter for unknown profile", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.SaveNewsletter(context.Background(), 424242, &models.NewsletterContent{Subject: "s"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
