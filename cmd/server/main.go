package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PortfolioSentinel/internal/api"
	"PortfolioSentinel/internal/config"
	"PortfolioSentinel/internal/portfolio"
	"PortfolioSentinel/internal/provider"
	"PortfolioSentinel/internal/scheduler"
	"PortfolioSentinel/internal/store"
	"PortfolioSentinel/internal/syncer"
	"PortfolioSentinel/internal/timestamps"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PortfolioSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	var st store.Store
	sqlStore, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite store failed, holdings will not survive a restart: %v", err)
		st = store.NewMemoryStore()
	} else {
		st = sqlStore
	}
	defer st.Close()

	// Init provider
	p := provider.NewFinnhubProvider(cfg.Finnhub.BaseURL, cfg.Finnhub.APIKey, cfg.Finnhub.SandboxKey, cfg.Proxy)
	log.Printf("[INFO] data source: %s", p.Name())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load persisted timestamps; routes that serve them answer 503 until done
	cache := timestamps.NewCache()
	go func() {
		if err := cache.Load(ctx, st); err != nil {
			log.Printf("[ERROR] load sync timestamps: %v", err)
		}
	}()

	// Init scheduler
	cycle := syncer.NewCycle(st, p, cache)
	sched := scheduler.New(ctx, cycle.Job, cfg.SyncInterval())
	if err := sched.Start(); err != nil {
		log.Fatalf("[FATAL] start scheduler: %v", err)
	}
	defer sched.Stop()

	// Init HTTP server
	gin.SetMode(gin.ReleaseMode)
	svc := portfolio.NewService(st, p, cache, cfg.Currencies, cfg.Candles.WindowDays)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewRouter(svc, cache),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Printf("[INFO] PortfolioSentinel is listening on :%s. Press Ctrl+C to stop.", cfg.Server.Port)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] PortfolioSentinel stopped")
}
