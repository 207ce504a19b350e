package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/simfolio/paper-portfolio-backend/internal/pricing"
	"github.com/simfolio/paper-portfolio-backend/internal/repository"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
)

// NewTestEngine creates a deterministic pricing engine. Tests that assert on
// simulated prices seed it explicitly so failures reproduce.
func NewTestEngine(t *testing.T, seed int64) *pricing.Engine {
	t.Helper()

	//nolint:gosec // G404: deterministic source is the point for tests
	return pricing.NewEngine(rand.New(rand.NewSource(seed)), nil)
}

func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	return service.NewSettingsService(repository.NewStateRepository(db))
}

func NewTestLedgerService(t *testing.T, db *sql.DB, seed int64) *service.LedgerService {
	t.Helper()

	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	stateRepo := repository.NewStateRepository(db)
	settingsService := service.NewSettingsService(stateRepo)

	return service.NewLedgerService(
		assetRepo,
		transactionRepo,
		stateRepo,
		settingsService,
		NewTestEngine(t, seed),
	)
}

func NewTestMarketService(t *testing.T, db *sql.DB, seed int64) *service.MarketService {
	t.Helper()

	assetRepo := repository.NewAssetRepository(db)
	stateRepo := repository.NewStateRepository(db)
	settingsService := service.NewSettingsService(stateRepo)

	return service.NewMarketService(assetRepo, settingsService, NewTestEngine(t, seed))
}

// NewTestBackupService creates a BackupService without encryption. Pass a
// generated fernet key to exercise the encrypted path.
func NewTestBackupService(t *testing.T, db *sql.DB, encryptionKey string) *service.BackupService {
	t.Helper()

	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	stateRepo := repository.NewStateRepository(db)

	backupService, err := service.NewBackupService(
		assetRepo,
		transactionRepo,
		stateRepo,
		NewTestLedgerService(t, db, 1),
		encryptionKey,
	)
	if err != nil {
		t.Fatalf("Failed to create backup service: %v", err)
	}

	return backupService
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
