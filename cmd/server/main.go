package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"metacircle/metasync/internal/api"
	"metacircle/metasync/internal/config"
	"metacircle/metasync/internal/logging"
	"metacircle/metasync/internal/metrics"
	"metacircle/metasync/internal/realtime"
	"metacircle/metasync/internal/routes"
	"metacircle/metasync/internal/store"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("MetaSync starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	st, err := buildStore(cfg)
	if err != nil {
		logging.Error("Failed to initialize store", "error", err.Error())
		log.Fatalf("Failed to initialize store: %v", err)
	}

	metricsReg := metrics.NewMetricsRegistry()

	hub := realtime.NewHub(metricsReg)
	if cfg.RedisAddr != "" {
		bridge, err := realtime.NewRedisBridge(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logging.Error("Failed to connect broadcast bridge", "addr", cfg.RedisAddr, "error", err.Error())
			log.Fatalf("Failed to connect broadcast bridge: %v", err)
		}
		defer bridge.Close()
		hub.AttachBridge(bridge)
		logging.Info("Broadcast bridge connected", "addr", cfg.RedisAddr)
	}

	deps := api.InitDependencies(cfg, st, hub, metricsReg)

	upSince := time.Now()
	router := routes.RegisterRoutes(cfg, deps, hub, upSince)

	// Setup metrics endpoint outside of the chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	logging.Info("Server starting",
		"addr", cfg.Addr,
		"environment", cfg.AppEnv,
	)

	log.Printf("Starting server on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}

// buildStore picks the backing implementation from configuration: the
// SQLite archive store when ARCHIVE_DB is set, otherwise one of the two
// in-memory datasets.
func buildStore(cfg *config.Config) (store.Store, error) {
	if cfg.ArchiveDB != "" {
		logging.Info("Using SQLite archive store", "path", cfg.ArchiveDB)
		return store.OpenArchiveStore(cfg.ArchiveDB, cfg.PointsPerLevel)
	}

	switch cfg.Seed {
	case "clean":
		logging.Info("Using clean in-memory store")
		return store.NewCleanStore(cfg.PointsPerLevel)
	default:
		logging.Info("Using seeded demo store")
		return store.NewSeededStore(cfg.PointsPerLevel)
	}
}
