package service

import (
	"log"

	"github.com/simfolio/paper-portfolio-backend/internal/pricing"
	"github.com/simfolio/paper-portfolio-backend/internal/repository"
)

// MarketService applies simulated daily price drift to held assets. It is
// driven by the cron scheduler in main and is fully inert while the
// volatility setting is off.
type MarketService struct {
	assetRepo       *repository.AssetRepository
	settingsService *SettingsService
	engine          *pricing.Engine
}

// NewMarketService creates a new MarketService with the provided dependencies.
func NewMarketService(
	assetRepo *repository.AssetRepository,
	settingsService *SettingsService,
	engine *pricing.Engine,
) *MarketService {
	return &MarketService{
		assetRepo:       assetRepo,
		settingsService: settingsService,
		engine:          engine,
	}
}

// DriftPrices runs one drift pass over all assets and persists the ones that
// moved. Returns the number of updated assets.
func (s *MarketService) DriftPrices() (int, error) {
	settings, err := s.settingsService.Get()
	if err != nil {
		return 0, err
	}
	if !settings.EnablePriceVolatility {
		return 0, nil
	}

	assets, err := s.assetRepo.GetAssets()
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range assets {
		if s.engine.DriftPrice(&assets[i], true) {
			if err := s.assetRepo.UpdateAsset(&assets[i]); err != nil {
				return updated, err
			}
			updated++
		}
	}

	return updated, nil
}

// Run is the cron entry point. Errors are logged, never fatal: a failed drift
// pass just leaves prices where they were.
func (s *MarketService) Run() {
	updated, err := s.DriftPrices()
	if err != nil {
		log.Printf("price drift pass failed: %v", err)
		return
	}
	if updated > 0 {
		log.Printf("price drift updated %d assets", updated)
	}
}
