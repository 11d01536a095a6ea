// Package testutil opens the Postgres database used by the integration tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/giomartinsdev/butecobot-reloaded/internal/adapter/repository/postgres"
	"github.com/giomartinsdev/butecobot-reloaded/internal/domain"
	"github.com/giomartinsdev/butecobot-reloaded/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB migrates and connects to DATABASE_URL. The test is skipped in
// short mode or when the variable is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(zerolog.Nop(), dbURL, migrationsPath()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 10, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{Pool: pool, t: t}
	t.Cleanup(db.Cleanup)
	return db
}

// migrationsPath walks up from the working directory to the module root.
func migrationsPath() string {
	rel := filepath.Join("internal", "infrastructure", "postgres", "migrations")
	dir, _ := os.Getwd()
	for range 4 {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return rel
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE jokenpo_players, jokenpo_games,
			roulette_bets, roulettes,
			event_bets, event_choices, events,
			entries, accounts CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestAccount inserts an account registered age ago holding balance
// as a single Initial entry.
func (db *TestDB) CreateTestAccount(ctx context.Context, username string, balance decimal.Decimal, age time.Duration) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()
	account := &domain.Account{
		ID:                   GenerateID(),
		ExternalID:           GenerateID(),
		Username:             username,
		ReceivedInitialGrant: true,
		CreatedAt:            now.Add(-age),
	}
	if err := postgresRepo.NewAccountRepository(db.Pool).Create(ctx, nil, account); err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	if balance.IsPositive() {
		err := postgresRepo.NewEntryRepository(db.Pool).Create(ctx, nil, &domain.Entry{
			ID:        GenerateID(),
			AccountID: account.ID,
			Category:  domain.CategoryInitial,
			Amount:    balance,
			CreatedAt: now,
		})
		if err != nil {
			db.t.Fatalf("failed to seed balance: %v", err)
		}
	}

	return account
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
