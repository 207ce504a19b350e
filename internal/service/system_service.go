package service

import (
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/simfolio/paper-portfolio-backend/internal/database"
)

// SystemService exposes operational information about the running server.
type SystemService struct {
	db         *sql.DB
	appVersion string
}

// NewSystemService creates a new SystemService.
func NewSystemService(db *sql.DB, appVersion string) *SystemService {
	return &SystemService{
		db:         db,
		appVersion: appVersion,
	}
}

// CheckHealth verifies database connectivity.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// AppVersion returns the application version baked in at build time.
func (s *SystemService) AppVersion() string {
	return s.appVersion
}

// SchemaVersion returns the applied migration version.
func (s *SystemService) SchemaVersion() (int64, error) {
	return goose.GetDBVersion(s.db)
}
