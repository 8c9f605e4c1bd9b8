package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	WatcherBaseURL string
	LichessAPIURL  string

	HeltourBaseURL  string
	HeltourAPIToken string

	ChatBaseURL   string
	ChatWSURL     string
	ChatTransport string

	RedisURL    string
	DatabaseURL string

	WatchChunkSize         int
	PairingRefreshInterval time.Duration

	LeagueConfigDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		WatchChunkSize:         300,
		PairingRefreshInterval: 5 * time.Minute,
		ChatTransport:          "auto",
	}

	cfg.WatcherBaseURL = strings.TrimSpace(os.Getenv("WATCHER_BASE_URL"))
	cfg.LichessAPIURL = strings.TrimSpace(os.Getenv("LICHESS_API_URL"))
	cfg.HeltourBaseURL = strings.TrimSpace(os.Getenv("HELTOUR_BASE_URL"))
	cfg.HeltourAPIToken = strings.TrimSpace(os.Getenv("HELTOUR_API_TOKEN"))

	cfg.ChatBaseURL = strings.TrimSpace(os.Getenv("CHAT_BASE_URL"))
	cfg.ChatWSURL = strings.TrimSpace(os.Getenv("CHAT_WS_URL"))
	if v := strings.TrimSpace(os.Getenv("CHAT_TRANSPORT")); v != "" {
		cfg.ChatTransport = strings.ToLower(v)
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("WATCH_CHUNK_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WatchChunkSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("PAIRING_REFRESH_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PairingRefreshInterval = d
		}
	}
	cfg.LeagueConfigDir = strings.TrimSpace(os.Getenv("LEAGUE_CONFIG_DIR"))

	if cfg.WatcherBaseURL == "" {
		return nil, errors.New("WATCHER_BASE_URL is required")
	}
	if cfg.LichessAPIURL == "" {
		return nil, errors.New("LICHESS_API_URL is required")
	}
	if cfg.HeltourBaseURL == "" {
		return nil, errors.New("HELTOUR_BASE_URL is required")
	}
	if cfg.HeltourAPIToken == "" {
		return nil, errors.New("HELTOUR_API_TOKEN is required")
	}

	return cfg, nil
}
