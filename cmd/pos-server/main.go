package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/db"
	"restaurant-pos/internal/expense"
	posHttp "restaurant-pos/internal/handler/http"
	"restaurant-pos/internal/meals"
	"restaurant-pos/internal/order"
	"restaurant-pos/internal/session"
	"restaurant-pos/internal/table"
	"restaurant-pos/internal/waiter"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "pos-server").Logger()

	log.Info().Msg("POS server starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := db.Migrate(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx := context.Background()

	dbConn, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	tableRepo := table.NewRepository(dbConn.Pool)
	tableSvc := table.NewService(tableRepo)

	catalogRepo := catalog.NewRepository(dbConn.Pool)
	catalogSvc := catalog.NewService(catalogRepo)

	orderRepo := order.NewRepository(dbConn.Pool, tableRepo)
	orderSvc := order.NewService(orderRepo, catalogSvc)

	waiterRepo := waiter.NewRepository(dbConn.Pool)
	waiterSvc := waiter.NewService(waiterRepo)

	expenseRepo := expense.NewRepository(dbConn.Pool)
	expenseSvc := expense.NewService(expenseRepo)

	mealsClient := meals.NewClient(cfg.Meals.BaseURL)
	mealsImporter := meals.NewImporter(mealsClient, catalogSvc)

	seeder := db.Seeder{
		Tables:     tableRepo,
		Waiters:    waiterRepo,
		WaiterSvc:  waiterSvc,
		CatalogSvc: catalogSvc,
	}
	if err := seeder.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed database")
	}

	sessions := session.NewManager(cfg.App.SessionSecret, cfg.App.SessionTTL)

	router := posHttp.NewRouter(posHttp.RouterDeps{
		Sessions: sessions,
		Tables:   tableSvc,
		Orders:   orderSvc,
		Catalog:  catalogSvc,
		Waiters:  waiterSvc,
		Expenses: expenseSvc,
		Meals:    mealsClient,
		Importer: mealsImporter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}

	log.Info().Msg("POS server stopped")
}
