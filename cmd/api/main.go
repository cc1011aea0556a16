package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/studyhub/studyhub/internal/config"
	"github.com/studyhub/studyhub/internal/db"
	httpx "github.com/studyhub/studyhub/internal/http"
	"github.com/studyhub/studyhub/internal/observability"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is best effort; the server runs without a collector
	shutdownTracer, err := observability.InitTracer(context.Background(), "studyhub", cfg.OTLPEndpoint)

	if err != nil {
		log.Error("tracer init failed", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	database, err := db.Connect(cfg.MongoURI, cfg.DBName)

	if err != nil {
		log.Error("mongo client setup failed", "err", err)
		os.Exit(1)
	}

	// a dead deployment at startup is logged, not retried; the driver
	// reconnects lazily on the first request that needs it
	if err := db.Ping(database); err != nil {
		log.Error("mongo ping failed", "err", err)
	} else {
		log.Info("connected to mongo", "db", cfg.DBName)
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	router := httpx.NewRouter(log, database, prom, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}

		if err := database.Client().Disconnect(ctx); err != nil {
			log.Error("mongo disconnect failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
