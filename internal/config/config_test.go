package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WATCHER_BASE_URL", "http://watcher.local/watch")
	t.Setenv("LICHESS_API_URL", "https://lichess.org")
	t.Setenv("HELTOUR_BASE_URL", "https://heltour.local")
	t.Setenv("HELTOUR_API_TOKEN", "sekrit")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WatchChunkSize != 300 {
		t.Fatalf("chunk size = %d", cfg.WatchChunkSize)
	}
	if cfg.PairingRefreshInterval != 5*time.Minute {
		t.Fatalf("refresh interval = %v", cfg.PairingRefreshInterval)
	}
	if cfg.ChatTransport != "auto" {
		t.Fatalf("chat transport = %q", cfg.ChatTransport)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("WATCH_CHUNK_SIZE", "50")
	t.Setenv("PAIRING_REFRESH_INTERVAL", "90s")
	t.Setenv("CHAT_TRANSPORT", "WS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WatchChunkSize != 50 || cfg.PairingRefreshInterval != 90*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.ChatTransport != "ws" {
		t.Fatalf("chat transport = %q", cfg.ChatTransport)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("HELTOUR_API_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("missing token must fail")
	}
}

func TestLoad_InvalidNumbersKeepDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("WATCH_CHUNK_SIZE", "-3")
	t.Setenv("PAIRING_REFRESH_INTERVAL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WatchChunkSize != 300 || cfg.PairingRefreshInterval != 5*time.Minute {
		t.Fatalf("invalid values must fall back to defaults: %+v", cfg)
	}
}
