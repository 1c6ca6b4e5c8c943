package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/buildory/phodo-admin/internal/database"
	"github.com/buildory/phodo-admin/internal/models"
	"github.com/buildory/phodo-admin/internal/query"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id, email, password_hash, nickname, gender, profile_image, role, status, created_at, updated_at`

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{pool: db.Pool}
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProfileRow handles nullable fields and populates a Profile from a
// database row.
func scanProfileRow(scanner rowScanner) (*models.Profile, error) {
	var profile models.Profile
	var passwordHash, profileImage *string
	var gender, role, status string

	err := scanner.Scan(
		&profile.ID, &profile.Email, &passwordHash, &profile.Nickname,
		&gender, &profileImage, &role, &status,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if passwordHash != nil {
		profile.PasswordHash = *passwordHash
	}
	profile.ProfileImage = profileImage
	profile.Gender = models.Gender(gender)
	profile.Role = models.Role(role)
	profile.Status = models.Status(status)

	return &profile, nil
}

func scanProfileRows(rows pgx.Rows) ([]*models.Profile, error) {
	defer rows.Close()

	profiles := make([]*models.Profile, 0)

	for rows.Next() {
		profile, err := scanProfileRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return profiles, nil
}

// List returns one page of profiles plus the total count over the same
// predicate. Both statements ride a single batch round trip.
func (r *ProfileRepository) List(ctx context.Context, params models.UserListParams) ([]*models.Profile, int, error) {
	spec := query.New("profiles").
		Eq("role", params.Role).
		Eq("status", params.Status).
		Search(params.Search, "nickname", "email").
		Page(params.Page, params.Limit)

	selectSQL, selectArgs := spec.SelectSQL(profileColumns)
	countSQL, countArgs := spec.CountSQL()

	batch := &pgx.Batch{}
	batch.Queue(selectSQL, selectArgs...)
	batch.Queue(countSQL, countArgs...)

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	rows, err := results.Query()
	if err != nil {
		return nil, 0, &models.QueryError{Collection: spec.Table(), Err: err}
	}

	profiles, err := scanProfileRows(rows)
	if err != nil {
		return nil, 0, &models.QueryError{Collection: spec.Table(), Err: err}
	}

	var total int
	if err := results.QueryRow().Scan(&total); err != nil {
		return nil, 0, &models.QueryError{Collection: spec.Table(), Err: err}
	}

	return profiles, total, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	sql := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	return scanProfileRow(r.pool.QueryRow(ctx, sql, id))
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	sql := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	return scanProfileRow(r.pool.QueryRow(ctx, sql, email))
}

// Create inserts a profile row. Used by the startup admin bootstrap;
// regular profiles are created by the consumer app, not this dashboard.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	profile.ID = uuid.New().String()

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if profile.Role == "" {
		profile.Role = models.RoleUser
	}
	if profile.Status == "" {
		profile.Status = models.StatusActive
	}
	if profile.Gender == "" {
		profile.Gender = models.GenderPreferNotToSay
	}

	sql := `
		INSERT INTO profiles (id, email, password_hash, nickname, gender, profile_image, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + profileColumns

	var passwordHash *string
	if profile.PasswordHash != "" {
		passwordHash = &profile.PasswordHash
	}

	return scanProfileRow(r.pool.QueryRow(ctx, sql,
		profile.ID, profile.Email, passwordHash, profile.Nickname,
		string(profile.Gender), profile.ProfileImage, string(profile.Role), string(profile.Status),
		profile.CreatedAt, profile.UpdatedAt,
	))
}

// Count returns the total number of profile rows.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return 0, &models.QueryError{Collection: "profiles", Err: err}
	}
	return total, nil
}
