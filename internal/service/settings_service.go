package service

import (
	"encoding/json"
	"fmt"

	"github.com/simfolio/paper-portfolio-backend/internal/model"
	"github.com/simfolio/paper-portfolio-backend/internal/repository"
)

// SettingsService owns the user settings stored in the namespaced state table.
// Settings are loaded with defaults when nothing is stored and persisted
// immediately on every change.
type SettingsService struct {
	stateRepo *repository.StateRepository
}

// NewSettingsService creates a new SettingsService with the provided repository dependency.
func NewSettingsService(stateRepo *repository.StateRepository) *SettingsService {
	return &SettingsService{stateRepo: stateRepo}
}

// Get returns the current settings, falling back to defaults when nothing is
// stored or the stored value does not parse. Callers receive a value copy and
// treat it as an immutable snapshot for the duration of an operation.
func (s *SettingsService) Get() (model.Settings, error) {
	raw, ok, err := s.stateRepo.Get(repository.SettingsKey)
	if err != nil {
		return model.Settings{}, err
	}
	if !ok {
		return model.DefaultSettings(), nil
	}

	settings := model.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		// A corrupt settings blob is recoverable: fall back to defaults
		// rather than wedging the whole application.
		return model.DefaultSettings(), nil
	}

	if settings.Currency == "" {
		settings.Currency = model.DefaultSettings().Currency
	}

	return settings, nil
}

// Update validates nothing itself (the API layer does) and persists the full
// settings object immediately.
func (s *SettingsService) Update(settings model.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.stateRepo.Set(repository.SettingsKey, string(raw))
}

// Reset restores default settings and persists them.
func (s *SettingsService) Reset() error {
	return s.Update(model.DefaultSettings())
}
