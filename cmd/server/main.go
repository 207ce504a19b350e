package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/simfolio/paper-portfolio-backend/internal/api"
	"github.com/simfolio/paper-portfolio-backend/internal/config"
	"github.com/simfolio/paper-portfolio-backend/internal/database"
	"github.com/simfolio/paper-portfolio-backend/internal/pricing"
	"github.com/simfolio/paper-portfolio-backend/internal/quote"
	"github.com/simfolio/paper-portfolio-backend/internal/repository"
	"github.com/simfolio/paper-portfolio-backend/internal/service"
	"github.com/simfolio/paper-portfolio-backend/internal/ticker"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	stateRepo := repository.NewStateRepository(db)

	// Create services
	engine := pricing.NewEngine(rand.New(rand.NewSource(time.Now().UnixNano())), nil)
	systemService := service.NewSystemService(db, version)
	settingsService := service.NewSettingsService(stateRepo)
	ledgerService := service.NewLedgerService(
		assetRepo,
		transactionRepo,
		stateRepo,
		settingsService,
		engine,
	)
	backupService, err := service.NewBackupService(
		assetRepo,
		transactionRepo,
		stateRepo,
		ledgerService,
		cfg.Backup.Key,
	)
	if err != nil {
		log.Fatalf("Failed to configure backup service: %v", err)
	}
	marketService := service.NewMarketService(assetRepo, settingsService, engine)

	quoteClient := quote.NewStooqClient()
	tickerService := ticker.NewService()

	// Create router
	router := api.NewRouter(api.Services{
		System:   systemService,
		Ledger:   ledgerService,
		Settings: settingsService,
		Backup:   backupService,
	}, quoteClient, tickerService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Price drift scheduler
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Market.DriftSchedule, marketService.Run); err != nil {
		log.Fatalf("Invalid drift schedule %q: %v", cfg.Market.DriftSchedule, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-ctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
