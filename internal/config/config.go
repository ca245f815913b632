package config

import (
	"os"
	"strconv"
)

// Config holds process-level settings, read once at startup.
type Config struct {
	AppEnv string
	Addr   string

	// Seed selects the dataset a fresh process starts with: "demo" for the
	// seeded sample community, "clean" for an empty store plus the
	// bootstrap admin.
	Seed string

	// ArchiveDB, when set, switches storage to the SQLite-backed store at
	// this path instead of process memory.
	ArchiveDB string

	// PointsPerLevel overrides the level formula divisor; 0 keeps the
	// default.
	PointsPerLevel int

	JWTSecret string

	// RedisAddr, when set, enables the cross-instance broadcast bridge.
	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Addr:           getEnv("ADDR", ":8080"),
		Seed:           getEnv("SEED", "demo"),
		ArchiveDB:      os.Getenv("ARCHIVE_DB"),
		PointsPerLevel: getEnvInt("POINTS_PER_LEVEL", 0),
		JWTSecret:      getEnv("JWT_SECRET", "dev-only-secret"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
