package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/buildory/phodo-admin/internal/database"
	"github.com/buildory/phodo-admin/internal/models"
	"github.com/buildory/phodo-admin/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// shootingColumns selects the projects row plus the owning profile via
// the user_id foreign key. The join is LEFT so a missing owner never
// drops the shooting row.
const shootingColumns = `p.id, p.recruit_type, p.pin_display, p.input_location, p.location_address,
	p.latitude, p.longitude, p.available_days, p.available_dates, p.date_mode,
	p.available_start_time, p.available_end_time, p.is_paid, p.price_per_hour, p.duration_hours,
	p.request_note, p.device_source, p.title, p.description, p.state, p.created_at, p.user_id,
	pr.id, pr.email, pr.nickname, pr.gender, pr.profile_image, pr.role, pr.status, pr.created_at, pr.updated_at`

const shootingJoin = `LEFT JOIN profiles pr ON pr.id = p.user_id`

type ShootingRepository struct {
	pool *pgxpool.Pool
}

func NewShootingRepository(db *database.DB) *ShootingRepository {
	return &ShootingRepository{pool: db.Pool}
}

// scanShootingRow populates a Shooting and its optional embedded
// Profile. All joined profile columns are nullable; a NULL profile id
// means the owner row is gone and the shooting carries profile = nil.
func scanShootingRow(scanner rowScanner) (*models.Shooting, error) {
	var s models.Shooting
	var recruitType, state string
	var profID, profEmail, profNickname, profGender, profImage, profRole, profStatus *string
	var profCreatedAt, profUpdatedAt *time.Time

	err := scanner.Scan(
		&s.ID, &recruitType, &s.PinDisplay, &s.InputLocation, &s.LocationAddress,
		&s.Latitude, &s.Longitude, &s.AvailableDays, &s.AvailableDates, &s.DateMode,
		&s.AvailableStartTime, &s.AvailableEndTime, &s.IsPaid, &s.PricePerHour, &s.DurationHours,
		&s.RequestNote, &s.DeviceSource, &s.Title, &s.Description, &state, &s.CreatedAt, &s.UserID,
		&profID, &profEmail, &profNickname, &profGender, &profImage, &profRole, &profStatus,
		&profCreatedAt, &profUpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	s.RecruitType = models.RecruitType(recruitType)
	s.State = models.ShootingState(state)

	if profID != nil {
		profile := &models.Profile{
			ID:           *profID,
			ProfileImage: profImage,
		}
		if profEmail != nil {
			profile.Email = *profEmail
		}
		if profNickname != nil {
			profile.Nickname = *profNickname
		}
		if profGender != nil {
			profile.Gender = models.Gender(*profGender)
		}
		if profRole != nil {
			profile.Role = models.Role(*profRole)
		}
		if profStatus != nil {
			profile.Status = models.Status(*profStatus)
		}
		if profCreatedAt != nil {
			profile.CreatedAt = *profCreatedAt
		}
		if profUpdatedAt != nil {
			profile.UpdatedAt = *profUpdatedAt
		}
		s.Profile = profile
	}

	return &s, nil
}

func scanShootingRows(rows pgx.Rows) ([]*models.Shooting, error) {
	defer rows.Close()

	shootings := make([]*models.Shooting, 0)

	for rows.Next() {
		shooting, err := scanShootingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shooting: %w", err)
		}
		shootings = append(shootings, shooting)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return shootings, nil
}

// List returns one page of shootings with embedded profiles plus the
// total count over the same predicate, in a single batch round trip.
func (r *ShootingRepository) List(ctx context.Context, params models.ShootingListParams) ([]*models.Shooting, int, error) {
	spec := query.New("projects p").
		Join(shootingJoin).
		Eq("p.state", params.State).
		Eq("p.recruit_type", params.RecruitType).
		Match("p.title", params.Title).
		Search(params.Search, "p.title", "p.description").
		OrderBy("p.created_at", true).
		Page(params.Page, params.Limit)

	selectSQL, selectArgs := spec.SelectSQL(shootingColumns)
	countSQL, countArgs := spec.CountSQL()

	batch := &pgx.Batch{}
	batch.Queue(selectSQL, selectArgs...)
	batch.Queue(countSQL, countArgs...)

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	rows, err := results.Query()
	if err != nil {
		return nil, 0, &models.QueryError{Collection: "projects", Err: err}
	}

	shootings, err := scanShootingRows(rows)
	if err != nil {
		return nil, 0, &models.QueryError{Collection: "projects", Err: err}
	}

	var total int
	if err := results.QueryRow().Scan(&total); err != nil {
		return nil, 0, &models.QueryError{Collection: "projects", Err: err}
	}

	return shootings, total, nil
}

func (r *ShootingRepository) GetByID(ctx context.Context, id int64) (*models.Shooting, error) {
	sql := `SELECT ` + shootingColumns + ` FROM projects p ` + shootingJoin + ` WHERE p.id = $1`

	return scanShootingRow(r.pool.QueryRow(ctx, sql, id))
}

// StatsByUser aggregates a user's shootings by state with one
// conditional-aggregation query.
func (r *ShootingRepository) StatsByUser(ctx context.Context, userID string) (*models.UserShootingStats, error) {
	sql := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE state = 'COMPLETED'),
			COUNT(*) FILTER (WHERE state = 'MATCHED'),
			COUNT(*) FILTER (WHERE state = 'WAITING_MATCH')
		FROM projects WHERE user_id = $1
	`

	var stats models.UserShootingStats
	err := r.pool.QueryRow(ctx, sql, userID).Scan(
		&stats.Total, &stats.Completed, &stats.Active, &stats.Waiting,
	)
	if err != nil {
		return nil, &models.QueryError{Collection: "projects", Err: err}
	}

	return &stats, nil
}

// RecentByUser returns a user's newest shootings, owner profile not
// embedded.
func (r *ShootingRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]*models.Shooting, error) {
	if limit < 1 {
		limit = 5
	}

	sql := `
		SELECT id, title, state, created_at
		FROM projects WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`

	rows, err := r.pool.Query(ctx, sql, userID, limit)
	if err != nil {
		return nil, &models.QueryError{Collection: "projects", Err: err}
	}
	defer rows.Close()

	shootings := make([]*models.Shooting, 0, limit)
	for rows.Next() {
		var s models.Shooting
		var state string
		if err := rows.Scan(&s.ID, &s.Title, &state, &s.CreatedAt); err != nil {
			return nil, &models.QueryError{Collection: "projects", Err: err}
		}
		s.State = models.ShootingState(state)
		s.UserID = userID
		shootings = append(shootings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.QueryError{Collection: "projects", Err: err}
	}

	return shootings, nil
}

// CountByState returns total shootings and a per-state breakdown.
func (r *ShootingRepository) CountByState(ctx context.Context) (int, map[models.ShootingState]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT state, COUNT(*) FROM projects GROUP BY state`)
	if err != nil {
		return 0, nil, &models.QueryError{Collection: "projects", Err: err}
	}
	defer rows.Close()

	total := 0
	byState := make(map[models.ShootingState]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return 0, nil, &models.QueryError{Collection: "projects", Err: err}
		}
		byState[models.ShootingState(state)] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return 0, nil, &models.QueryError{Collection: "projects", Err: err}
	}

	return total, byState, nil
}
