package config

import (
	"os"
	"strconv"
	"time"
)

func loadProductionConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DatabaseFilePath = envOr("DATABASE_FILE_PATH", "/data/clinic.sqlite")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RemoteAPIKey = os.Getenv("REMOTE_API_KEY")
	cfg.RemoteAPIURL = os.Getenv("REMOTE_API_URL")
	cfg.ServerHost = "0.0.0.0"
	cfg.SyncProbeAddr = envOr("SYNC_PROBE_ADDR", cfg.SyncProbeAddr)
	cfg.SyncWatermarkFilePath = envOr("SYNC_WATERMARK_FILE_PATH", "/data/last_sync_time")

	if interval, err := time.ParseDuration(os.Getenv("SYNC_INTERVAL")); err == nil {
		cfg.SyncInterval = interval
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
