package config

import "time"

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
	cfg.SyncInterval = 50 * time.Millisecond
	cfg.SyncProbeTimeout = 100 * time.Millisecond
	cfg.SyncWatermarkFilePath = ""
}
