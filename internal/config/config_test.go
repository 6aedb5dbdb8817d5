package config_test

import (
	"testing"
	"time"

	"github.com/edgard/gifbot/internal/config"
)

// Load reads the global viper instance, so these tests set the required
// secrets through the environment and must not run in parallel.

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:test-token")
	t.Setenv("BOT_TENOR_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if cfg.Tenor.BaseURL != config.DefaultTenorBaseURL {
		t.Errorf("tenor base url = %q, want default", cfg.Tenor.BaseURL)
	}
	if cfg.Store.Path != config.DefaultStorePath {
		t.Errorf("store path = %q, want default", cfg.Store.Path)
	}
	if cfg.Passive.RateLimit != 3 || cfg.Passive.RateWindow != time.Minute {
		t.Errorf("passive limits = %d/%v, want 3 per minute", cfg.Passive.RateLimit, cfg.Passive.RateWindow)
	}
	if len(cfg.Passive.Triggers) == 0 {
		t.Fatal("no default triggers loaded")
	}

	task, ok := cfg.Scheduler.Tasks["scheduled_posts"]
	if !ok || !task.Enabled || task.Schedule == "" {
		t.Errorf("scheduled_posts task = %+v, want enabled with a schedule", task)
	}
}

func TestLoadMissingRequiredValues(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "")
	t.Setenv("BOT_TENOR_API_KEY", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("Load succeeded without telegram token and tenor key")
	}
}

func TestDefaultTriggersDeterministicOrder(t *testing.T) {
	a := config.DefaultTriggers()
	b := config.DefaultTriggers()

	if len(a) == 0 || len(a) != len(b) {
		t.Fatalf("trigger tables differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Word != b[i].Word {
			t.Errorf("trigger order differs at %d: %q vs %q", i, a[i].Word, b[i].Word)
		}
		if len(a[i].Queries) == 0 {
			t.Errorf("trigger %q has no candidate queries", a[i].Word)
		}
	}
}
