package app

import (
	"context"

	"levelup/internal/config"
	"levelup/internal/errors"
	"levelup/models"
)

// SettingsService reads and updates the user-tunable settings document,
// seeding it from the environment-derived config on first read.
type SettingsService struct {
	repo *StateRepository
	cfg  *config.Config
}

// NewSettingsService builds the service.
func NewSettingsService(repo *StateRepository, cfg *config.Config) *SettingsService {
	return &SettingsService{repo: repo, cfg: cfg}
}

// Get returns the stored settings, or the config defaults when nothing
// has been saved yet.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	stored, ok, err := s.repo.Settings(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if ok {
		return stored, nil
	}
	return s.defaults(), nil
}

// Update validates and persists new settings.
func (s *SettingsService) Update(ctx context.Context, settings models.Settings) (models.Settings, error) {
	if settings.FocusMinutes <= 0 || settings.BreakMinutes <= 0 {
		return models.Settings{}, errors.InvalidInput("session minutes must be positive")
	}
	if settings.TargetHours < 0 {
		return models.Settings{}, errors.InvalidInput("target hours must not be negative")
	}

	s.repo.Lock()
	defer s.repo.Unlock()
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *SettingsService) defaults() models.Settings {
	return models.Settings{
		FocusMinutes:  s.cfg.Timer.DefaultFocusMinutes,
		BreakMinutes:  s.cfg.Timer.DefaultBreakMinutes,
		TargetHours:   s.cfg.Timer.TargetHours,
		AIModel:       s.cfg.AI.Model,
		AIPersona:     s.cfg.AI.Persona,
		AIBackground:  s.cfg.AI.Background,
		SoundEnabled:  true,
		NotifyEnabled: true,
	}
}
