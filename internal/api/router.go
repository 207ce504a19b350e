package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/simfolio/paper-portfolio-backend/internal/api/handlers"
	custommiddleware "github.com/simfolio/paper-portfolio-backend/internal/api/middleware"
	"github.com/simfolio/paper-portfolio-backend/internal/config"
	"github.com/simfolio/paper-portfolio-backend/internal/quote"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
	"github.com/simfolio/paper-portfolio-backend/internal/ticker"
)

// Services bundles the service-layer dependencies the router wires into
// handlers.
type Services struct {
	System   *service.SystemService
	Ledger   *service.LedgerService
	Settings *service.SettingsService
	Backup   *service.BackupService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, quoteClient quote.Client, tickerService ticker.Searcher, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/asset", func(r chi.Router) {
			assetHandler := handlers.NewAssetHandler(services.Ledger, services.Settings)
			r.Get("/", assetHandler.Holdings)
			r.Post("/", assetHandler.BuyAsset)
			r.Get("/{id}/transactions", assetHandler.AssetTransactions)
			r.Post("/{id}/sell-all", assetHandler.SellAllShares)
			r.Delete("/{id}", assetHandler.DeleteAsset)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(services.Ledger, services.Settings)
			r.Get("/", transactionHandler.History)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Delete("/{id}", transactionHandler.DeleteTransaction)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(services.Ledger, services.Settings)
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/statement", portfolioHandler.Statement)
			r.With(custommiddleware.APIKeyMiddleware).Post("/reset", portfolioHandler.Reset)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(services.Settings)
			r.Get("/", settingsHandler.GetSettings)
			r.Put("/", settingsHandler.UpdateSettings)
		})

		settingsHandler := handlers.NewSettingsHandler(services.Settings)
		r.Get("/currencies", settingsHandler.Currencies)

		r.Route("/backup", func(r chi.Router) {
			backupHandler := handlers.NewBackupHandler(services.Backup)
			r.Get("/export", backupHandler.Export)
			r.With(custommiddleware.APIKeyMiddleware).Post("/import", backupHandler.Import)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(quoteClient, tickerService)
			r.Get("/quote/{symbol}", marketHandler.Quote)
			r.Get("/tickers", marketHandler.SearchTickers)
			r.Get("/tickers/{symbol}", marketHandler.LookupTicker)
		})
	})

	return r
}
