package integration

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/buildory/phodo-admin/internal/database"
	"github.com/buildory/phodo-admin/internal/models"
	"github.com/buildory/phodo-admin/pkg/auth"
)

// TestDB manages PostgreSQL testcontainer and database operations
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("phodo"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         &database.DB{Pool: pool},
	}, nil
}

// runMigrations executes all goose migrations
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir, err := filepath.Abs("../../migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}

	goose.SetLogger(log.New(io.Discard, "", 0))

	// Goose needs a stdlib DB connection
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates all tables for test isolation
func (db *TestDB) CleanupTables(ctx context.Context) error {
	tables := []string{
		"app_versions",
		"projects",
		"profiles",
	}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// SeedProfile inserts a test profile with a hashed password
func SeedProfile(ctx context.Context, pool *pgxpool.Pool, email, password, nickname string, role models.Role, status models.Status) (*models.Profile, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO profiles (id, email, password_hash, nickname, gender, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, email, password_hash, nickname, gender, profile_image, role, status, created_at, updated_at
	`

	var profile models.Profile
	err = pool.QueryRow(ctx, query,
		uuid.New().String(), email, hashedPassword, nickname,
		models.GenderPreferNotToSay, role, status,
	).Scan(
		&profile.ID,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Nickname,
		&profile.Gender,
		&profile.ProfileImage,
		&profile.Role,
		&profile.Status,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}

	return &profile, nil
}

// SeedShooting inserts a test shooting row owned by the given profile
func SeedShooting(ctx context.Context, pool *pgxpool.Pool, title string, state models.ShootingState, recruitType models.RecruitType, userID string) (int64, error) {
	query := `
		INSERT INTO projects (recruit_type, title, description, state, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`

	var id int64
	err := pool.QueryRow(ctx, query, recruitType, title, "seeded for tests", state, userID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shooting: %w", err)
	}

	return id, nil
}

// SeedShootingWithLocation inserts a shooting row with every optional
// location column populated.
func SeedShootingWithLocation(ctx context.Context, pool *pgxpool.Pool, title string, state models.ShootingState, userID string) (int64, error) {
	query := `
		INSERT INTO projects (recruit_type, pin_display, input_location, location_address,
			latitude, longitude, available_start_time, available_end_time,
			title, description, state, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING id
	`

	var id int64
	err := pool.QueryRow(ctx, query,
		models.RecruitPhotographer, "Mapo-gu", "Seoul", "Mapo-gu, Seoul",
		37.5562, 126.9105, "10:00", "18:00",
		title, "seeded for tests", state, userID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shooting: %w", err)
	}

	return id, nil
}

// SeedAppVersion inserts a test app version row
func SeedAppVersion(ctx context.Context, pool *pgxpool.Pool, platform models.Platform, latest string) (string, error) {
	query := `
		INSERT INTO app_versions (id, platform, latest_version, min_supported_version, force_update, store_url, min_native_supported, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id
	`

	var id string
	err := pool.QueryRow(ctx, query,
		uuid.New().String(), platform, latest, "1.0.0", false,
		"https://store.example.com/phodo", "1.0.0",
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert app version: %w", err)
	}

	return id, nil
}
