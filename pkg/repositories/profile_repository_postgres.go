package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/database"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

const profileColumns = `id, owner_name, business_name, email, purpose, team_size, locations,
	long_term_goal, short_term_goal_1, short_term_goal_2, short_term_goal_3,
	created_at, updated_at, last_newsletter_sent_at`

// postgresProfileRepository implements ProfileRepository using PostgreSQL.
type postgresProfileRepository struct {
	db *database.DB
}

var _ ProfileRepository = (*postgresProfileRepository)(nil)

// NewPostgresProfileRepository creates a profile repository backed by a pgx pool.
func NewPostgresProfileRepository(db *database.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Upsert(ctx context.Context, profile *models.BusinessProfile) (*models.BusinessProfile, error) {
	now := time.Now().UTC()
	g1, g2, g3 := goalColumns(profile)
	locations := profile.Locations
	if locations == nil {
		locations = []string{}
	}

	query := `
		INSERT INTO business_profiles (
			owner_name, business_name, email, purpose, team_size, locations,
			long_term_goal, short_term_goal_1, short_term_goal_2, short_term_goal_3,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		ON CONFLICT (email) DO UPDATE
		SET owner_name = EXCLUDED.owner_name,
		    business_name = EXCLUDED.business_name,
		    purpose = EXCLUDED.purpose,
		    team_size = EXCLUDED.team_size,
		    locations = EXCLUDED.locations,
		    long_term_goal = EXCLUDED.long_term_goal,
		    short_term_goal_1 = EXCLUDED.short_term_goal_1,
		    short_term_goal_2 = EXCLUDED.short_term_goal_2,
		    short_term_goal_3 = EXCLUDED.short_term_goal_3,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns

	row := r.db.QueryRow(ctx, query,
		profile.OwnerName,
		profile.BusinessName,
		strings.ToLower(strings.TrimSpace(profile.Email)),
		profile.Purpose,
		profile.TeamSize,
		locations,
		profile.LongTermGoal,
		g1, g2, g3,
		now,
	)
	stored, err := scanPostgresProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return stored, nil
}

func (r *postgresProfileRepository) List(ctx context.Context) ([]*models.BusinessProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM business_profiles ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.BusinessProfile, 0)
	for rows.Next() {
		p, err := scanPostgresProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id int64) (*models.BusinessProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM business_profiles WHERE id = $1`

	p, err := scanPostgresProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *postgresProfileRepository) SaveNewsletter(ctx context.Context, profileID int64, content *models.NewsletterContent) (*models.Newsletter, error) {
	now := time.Now().UTC()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE business_profiles SET last_newsletter_sent_at = $1 WHERE id = $2`,
		now, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to stamp profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	n := &models.Newsletter{
		ProfileID: profileID,
		Subject:   content.Subject,
		BodyHTML:  content.BodyHTML,
		BodyText:  content.BodyText,
		CreatedAt: now,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO newsletters (profile_id, subject, body_html, body_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		n.ProfileID, n.Subject, n.BodyHTML, n.BodyText, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert newsletter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit newsletter: %w", err)
	}
	return n, nil
}

func (r *postgresProfileRepository) LatestNewsletter(ctx context.Context, profileID int64) (*models.Newsletter, error) {
	query := `
		SELECT id, profile_id, subject, body_html, body_text, created_at
		FROM newsletters
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var n models.Newsletter
	err := r.db.QueryRow(ctx, query, profileID).Scan(
		&n.ID, &n.ProfileID, &n.Subject, &n.BodyHTML, &n.BodyText, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest newsletter: %w", err)
	}
	return &n, nil
}

func scanPostgresProfile(row pgx.Row) (*models.BusinessProfile, error) {
	var p models.BusinessProfile
	var g1, g2, g3 string
	err := row.Scan(
		&p.ID,
		&p.OwnerName,
		&p.BusinessName,
		&p.Email,
		&p.Purpose,
		&p.TeamSize,
		&p.Locations,
		&p.LongTermGoal,
		&g1, &g2, &g3,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.LastNewsletterSentAt,
	)
	if err != nil {
		return nil, err
	}
	p.ShortTermGoals = []string{g1, g2, g3}
	return &p, nil
}
