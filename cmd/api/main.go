package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"harga-pangan-go/internal/api"
	"harga-pangan-go/internal/config"
	"harga-pangan-go/internal/dataset"
	"harga-pangan-go/internal/logger"
	"harga-pangan-go/internal/metrics"
	"harga-pangan-go/internal/pipeline"
)

func main() {
	log := logger.New()
	log.WithField("service", "harga-pangan-go").Info("starting service")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	schema, err := cfg.Schema()
	if err != nil {
		log.WithError(err).Fatal("invalid schema descriptor")
	}

	m := metrics.New()
	loader := dataset.NewLoader(schema, dataset.WithRetryLimit(cfg.LoadRetry))
	cache := dataset.NewCache(loader, m)
	svc := pipeline.NewService(cache, pipeline.Paths{
		Clean:  cfg.CleanPath,
		Winsor: cfg.WinsorPath,
		Geo:    cfg.GeoPath,
	})

	// load once up front; a broken source aborts the process
	log.WithField("clean_path", cfg.CleanPath).WithField("winsor_path", cfg.WinsorPath).Info("loading price tables")
	ov, err := svc.Overview(context.Background())
	if err != nil {
		log.WithError(err).Fatal("failed to load price tables")
	}
	log.WithField("commodities", ov.Commodities).
		WithField("locations", ov.Locations).
		WithField("periods", ov.Periods).
		WithField("geo_available", ov.GeoAvailable).
		Info("price tables loaded")

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewHandler(svc, m).Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
