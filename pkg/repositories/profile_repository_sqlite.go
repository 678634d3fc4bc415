package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/database"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

const sqliteProfileColumns = `id, owner_name, business_name, email, purpose, team_size, locations_json,
	long_term_goal, short_term_goal_1, short_term_goal_2, short_term_goal_3,
	created_at, updated_at, last_newsletter_sent_at`

// sqliteProfileRepository implements ProfileRepository on an embedded SQLite file.
type sqliteProfileRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ProfileRepository = (*sqliteProfileRepository)(nil)

// NewSQLiteProfileRepository creates a profile repository over a database opened
// with database.OpenSQLite and migrated.
func NewSQLiteProfileRepository(db *sql.DB) ProfileRepository {
	return &sqliteProfileRepository{db: db, now: time.Now}
}

func (r *sqliteProfileRepository) timestamp() string {
	return r.now().UTC().Format(database.SQLiteTimeLayout)
}

func (r *sqliteProfileRepository) Upsert(ctx context.Context, profile *models.BusinessProfile) (*models.BusinessProfile, error) {
	now := r.timestamp()
	g1, g2, g3 := goalColumns(profile)
	locations := profile.Locations
	if locations == nil {
		locations = []string{}
	}
	locationsJSON, err := json.Marshal(locations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode locations: %w", err)
	}

	query := `
		INSERT INTO business_profiles (
			owner_name, business_name, email, purpose, team_size, locations_json,
			long_term_goal, short_term_goal_1, short_term_goal_2, short_term_goal_3,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE
		SET owner_name = excluded.owner_name,
		    business_name = excluded.business_name,
		    purpose = excluded.purpose,
		    team_size = excluded.team_size,
		    locations_json = excluded.locations_json,
		    long_term_goal = excluded.long_term_goal,
		    short_term_goal_1 = excluded.short_term_goal_1,
		    short_term_goal_2 = excluded.short_term_goal_2,
		    short_term_goal_3 = excluded.short_term_goal_3,
		    updated_at = excluded.updated_at
		RETURNING ` + sqliteProfileColumns

	row := r.db.QueryRowContext(ctx, query,
		profile.OwnerName,
		profile.BusinessName,
		strings.ToLower(strings.TrimSpace(profile.Email)),
		profile.Purpose,
		profile.TeamSize,
		string(locationsJSON),
		profile.LongTermGoal,
		g1, g2, g3,
		now, now,
	)
	stored, err := scanSQLiteProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return stored, nil
}

func (r *sqliteProfileRepository) List(ctx context.Context) ([]*models.BusinessProfile, error) {
	query := `SELECT ` + sqliteProfileColumns + ` FROM business_profiles ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.BusinessProfile, 0)
	for rows.Next() {
		p, err := scanSQLiteProfile(rows)
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

func (r *sqliteProfileRepository) GetByID(ctx context.Context, id int64) (*models.BusinessProfile, error) {
	query := `SELECT ` + sqliteProfileColumns + ` FROM business_profiles WHERE id = ?`

	p, err := scanSQLiteProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *sqliteProfileRepository) SaveNewsletter(ctx context.Context, profileID int64, content *models.NewsletterContent) (*models.Newsletter, error) {
	nowTime := r.now().UTC()
	now := nowTime.Format(database.SQLiteTimeLayout)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE business_profiles SET last_newsletter_sent_at = ? WHERE id = ?`,
		now, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to stamp profile: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to stamp profile: %w", err)
	} else if affected == 0 {
		return nil, apperrors.ErrNotFound
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO newsletters (profile_id, subject, body_html, body_text, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		profileID, content.Subject, content.BodyHTML, content.BodyText, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert newsletter: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read newsletter id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit newsletter: %w", err)
	}

	// Round-trip through the stored layout so callers see what a later read returns.
	createdAt, _ := time.Parse(database.SQLiteTimeLayout, now)
	return &models.Newsletter{
		ID:        id,
		ProfileID: profileID,
		Subject:   content.Subject,
		BodyHTML:  content.BodyHTML,
		BodyText:  content.BodyText,
		CreatedAt: createdAt,
	}, nil
}

func (r *sqliteProfileRepository) LatestNewsletter(ctx context.Context, profileID int64) (*models.Newsletter, error) {
	query := `
		SELECT id, profile_id, subject, body_html, body_text, created_at
		FROM newsletters
		WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var n models.Newsletter
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, profileID).Scan(
		&n.ID, &n.ProfileID, &n.Subject, &n.BodyHTML, &n.BodyText, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest newsletter: %w", err)
	}
	if n.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProfile(row rowScanner) (*models.BusinessProfile, error) {
	var (
		p                    models.BusinessProfile
		locationsJSON        string
		g1, g2, g3           string
		createdAt, updatedAt string
		lastSent             sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.OwnerName,
		&p.BusinessName,
		&p.Email,
		&p.Purpose,
		&p.TeamSize,
		&locationsJSON,
		&p.LongTermGoal,
		&g1, &g2, &g3,
		&createdAt,
		&updatedAt,
		&lastSent,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(locationsJSON), &p.Locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	p.ShortTermGoals = []string{g1, g2, g3}

	if p.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseSQLiteTime(updatedAt); err != nil {
		return nil, err
	}
	if lastSent.Valid {
		t, err := parseSQLiteTime(lastSent.String)
		if err != nil {
			return nil, err
		}
		p.LastNewsletterSentAt = &t
	}
	return &p, nil
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(database.SQLiteTimeLayout, s)
	if err != nil {
		// Rows written by other tools may use plain RFC 3339.
		if t, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
