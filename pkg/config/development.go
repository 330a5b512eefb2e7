package config

import (
	"os"
	"strconv"
)

func loadDevelopmentConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DatabaseDebug = true
	cfg.DatabaseFilePath = "./tmp/clinic.sqlite"
	cfg.JWTSecret = "development-secret-do-not-use"
	cfg.RemoteAPIKey = os.Getenv("REMOTE_API_KEY")
	cfg.RemoteAPIURL = os.Getenv("REMOTE_API_URL")
	cfg.ServerHost = "127.0.0.1"
	cfg.SyncWatermarkFilePath = "./tmp/last_sync_time"
}
