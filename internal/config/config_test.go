package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Chat.Broadcast != "redis" {
		t.Errorf("Chat.Broadcast = %q, want redis", cfg.Chat.Broadcast)
	}
	if cfg.Chat.HistoryLimit != 100 {
		t.Errorf("Chat.HistoryLimit = %d, want 100", cfg.Chat.HistoryLimit)
	}
	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Errorf("JWT.AccessTTL = %v, want 15m", cfg.JWT.AccessTTL)
	}
}

func TestLoadChatOverrides(t *testing.T) {
	t.Setenv("CHAT_BROADCAST", "memory")
	t.Setenv("CHAT_HISTORY_LIMIT", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.Broadcast != "memory" {
		t.Errorf("Chat.Broadcast = %q, want memory", cfg.Chat.Broadcast)
	}
	if cfg.Chat.HistoryLimit != 25 {
		t.Errorf("Chat.HistoryLimit = %d, want 25", cfg.Chat.HistoryLimit)
	}
}

func TestLoadRejectsUnknownBroadcast(t *testing.T) {
	t.Setenv("CHAT_BROADCAST", "kafka")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted unknown CHAT_BROADCAST backend")
	}
}
