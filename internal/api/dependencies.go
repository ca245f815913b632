package api

import (
	"time"

	"metacircle/metasync/internal/common"
	"metacircle/metasync/internal/config"
	"metacircle/metasync/internal/metrics"
	"metacircle/metasync/internal/realtime"
	"metacircle/metasync/internal/services"
	"metacircle/metasync/internal/store"
)

type Services struct {
	Stats *services.StatsService
	Auth  *services.AuthService
	Cache common.CacheInterface
}

// Dependencies is the explicit wiring handed to the handlers; nothing in
// the request path reaches for package-level state.
type Dependencies struct {
	Store       store.Store
	Broadcaster realtime.Broadcaster
	Metrics     *metrics.MetricsRegistry
	Services    *Services
}

// InitDependencies assembles the service graph around an already-chosen
// store and hub.
func InitDependencies(cfg *config.Config, st store.Store, hub realtime.Broadcaster, metricsReg *metrics.MetricsRegistry) *Dependencies {
	cacheSvc := common.NewCacheService(time.Minute, 10*time.Minute)

	return &Dependencies{
		Store:       st,
		Broadcaster: hub,
		Metrics:     metricsReg,
		Services: &Services{
			Stats: services.NewStatsService(st, cacheSvc, metricsReg),
			Auth:  services.NewAuthService(st, cfg.JWTSecret),
			Cache: cacheSvc,
		},
	}
}
