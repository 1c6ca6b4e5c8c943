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

const appVersionColumns = `id, platform, latest_version, min_supported_version, force_update, store_url, notes, min_native_supported, updated_at`

type AppVersionRepository struct {
	pool *pgxpool.Pool
}

func NewAppVersionRepository(db *database.DB) *AppVersionRepository {
	return &AppVersionRepository{pool: db.Pool}
}

func scanAppVersionRow(scanner rowScanner) (*models.AppVersion, error) {
	var v models.AppVersion
	var platform string

	err := scanner.Scan(
		&v.ID, &platform, &v.LatestVersion, &v.MinSupportedVersion,
		&v.ForceUpdate, &v.StoreURL, &v.Notes, &v.MinNativeSupported, &v.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	v.Platform = models.Platform(platform)
	return &v, nil
}

func scanAppVersionRows(rows pgx.Rows) ([]*models.AppVersion, error) {
	defer rows.Close()

	versions := make([]*models.AppVersion, 0)

	for rows.Next() {
		version, err := scanAppVersionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan app version: %w", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return versions, nil
}

// List returns all version rows, newest update first, optionally
// restricted to one platform.
func (r *AppVersionRepository) List(ctx context.Context, platform string) ([]*models.AppVersion, error) {
	spec := query.New("app_versions").
		Eq("platform", platform).
		OrderBy("updated_at", true).
		Unpaged()

	sql, args := spec.SelectSQL(appVersionColumns)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &models.QueryError{Collection: "app_versions", Err: err}
	}

	versions, err := scanAppVersionRows(rows)
	if err != nil {
		return nil, &models.QueryError{Collection: "app_versions", Err: err}
	}

	return versions, nil
}

func (r *AppVersionRepository) GetByID(ctx context.Context, id string) (*models.AppVersion, error) {
	sql := `SELECT ` + appVersionColumns + ` FROM app_versions WHERE id = $1`

	return scanAppVersionRow(r.pool.QueryRow(ctx, sql, id))
}

func (r *AppVersionRepository) Create(ctx context.Context, version *models.AppVersion) (*models.AppVersion, error) {
	version.ID = uuid.New().String()
	version.UpdatedAt = time.Now()

	sql := `
		INSERT INTO app_versions (id, platform, latest_version, min_supported_version, force_update, store_url, notes, min_native_supported, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + appVersionColumns

	return scanAppVersionRow(r.pool.QueryRow(ctx, sql,
		version.ID, string(version.Platform), version.LatestVersion, version.MinSupportedVersion,
		version.ForceUpdate, version.StoreURL, version.Notes, version.MinNativeSupported, version.UpdatedAt,
	))
}

func (r *AppVersionRepository) Update(ctx context.Context, id string, version *models.AppVersion) (*models.AppVersion, error) {
	version.UpdatedAt = time.Now()

	sql := `
		UPDATE app_versions
		SET platform = $1, latest_version = $2, min_supported_version = $3, force_update = $4,
			store_url = $5, notes = $6, min_native_supported = $7, updated_at = $8
		WHERE id = $9
		RETURNING ` + appVersionColumns

	return scanAppVersionRow(r.pool.QueryRow(ctx, sql,
		string(version.Platform), version.LatestVersion, version.MinSupportedVersion, version.ForceUpdate,
		version.StoreURL, version.Notes, version.MinNativeSupported, version.UpdatedAt, id,
	))
}

func (r *AppVersionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM app_versions WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
