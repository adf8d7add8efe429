package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if cfg.Client.PollIntervalSec != 5 {
		t.Errorf("PollIntervalSec = %d, want 5", cfg.Client.PollIntervalSec)
	}
	if cfg.Client.DebounceMs != 400 {
		t.Errorf("DebounceMs = %d, want 400", cfg.Client.DebounceMs)
	}
	if cfg.Client.RequestTimeoutSec != 10 {
		t.Errorf("RequestTimeoutSec = %d, want 10", cfg.Client.RequestTimeoutSec)
	}
	if cfg.Server.MonitorMax != 10 {
		t.Errorf("MonitorMax = %d, want 10", cfg.Server.MonitorMax)
	}
}

func TestLoadFile(t *testing.T) {
	yamlContent := []byte(`
server:
  addr: "0.0.0.0:9001"
  sqlite_path: "/tmp/sentinel-test.db"
  jwt_secret: "test-secret"
  monitor_max: 5
client:
  base_url: "http://localhost:9001"
  poll_interval_sec: 2
  alert_limit: 25
sim:
  speed_per_tick: 7
  interval_sec: 1.5
logging:
  level: "debug"
  format: "text"
`)

	tmpFile, err := os.CreateTemp("", "sentinel-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())
	if _, err := tmpFile.Write(yamlContent); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:9001" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, "0.0.0.0:9001")
	}
	if cfg.Server.MonitorMax != 5 {
		t.Errorf("MonitorMax = %d, want 5", cfg.Server.MonitorMax)
	}
	if cfg.Client.PollIntervalSec != 2 {
		t.Errorf("PollIntervalSec = %d, want 2", cfg.Client.PollIntervalSec)
	}
	if cfg.Sim.SpeedPerTick != 7 {
		t.Errorf("Sim.SpeedPerTick = %d, want 7", cfg.Sim.SpeedPerTick)
	}
	// Unset fields keep defaults.
	if cfg.Client.DebounceMs != 400 {
		t.Errorf("DebounceMs = %d, want default 400", cfg.Client.DebounceMs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SENTINEL_BASE_URL", "http://example.test:8001")
	t.Setenv("MONITOR_MAX", "3")
	t.Setenv("UW_ENABLED", "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Client.BaseURL != "http://example.test:8001" {
		t.Errorf("BaseURL = %q, want env override", cfg.Client.BaseURL)
	}
	if cfg.Server.MonitorMax != 3 {
		t.Errorf("MonitorMax = %d, want 3", cfg.Server.MonitorMax)
	}
	if cfg.Server.UWEnabled {
		t.Error("UWEnabled should be false after UW_ENABLED=0")
	}
}
