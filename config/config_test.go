package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultValid verifies defaults pass validation
func TestDefaultValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config valid, got %v", err)
	}
	if cfg.Sim.TickInterval() != time.Second/60 {
		t.Errorf("Expected 60 Hz tick, got %v", cfg.Sim.TickInterval())
	}
	if cfg.Launcher.LinkMinLength != 0.1 || cfg.Launcher.LinkMaxLength != 20 {
		t.Errorf("Expected link limits (0.1, 20), got (%g, %g)", cfg.Launcher.LinkMinLength, cfg.Launcher.LinkMaxLength)
	}
}

// TestLoadOverlay verifies YAML overrides only named fields
func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siege.yaml")
	data := []byte("log_level: debug\nsim:\n  seed: 42\nturret:\n  cooldown: 750ms\nradar:\n  probe_size: [10, 20, 30]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sim.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Sim.Seed)
	}
	if cfg.Turret.Cooldown != 750*time.Millisecond {
		t.Errorf("Expected cooldown 750ms, got %v", cfg.Turret.Cooldown)
	}
	if cfg.Radar.ProbeSize != (Vec3{10, 20, 30}) {
		t.Errorf("Expected probe size [10 20 30], got %v", cfg.Radar.ProbeSize)
	}
	if cfg.Turret.Burst != Default().Turret.Burst {
		t.Errorf("Expected untouched burst %d, got %d", Default().Turret.Burst, cfg.Turret.Burst)
	}
}

// TestLoadUnknownField verifies typos are rejected
func TestLoadUnknownField(t *testing.T) {
	cfg := Default()
	if err := Decode([]byte("turret:\n  cooldwn: 1s\n"), &cfg); err == nil {
		t.Error("Expected error for unknown field")
	}
}

// TestLoadMissing verifies a read error is reported
func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestApplyEnv verifies prefixed nested overrides
func TestApplyEnv(t *testing.T) {
	t.Setenv("SIEGE_SIM_SEED", "7")
	t.Setenv("SIEGE_TURRET_BURST", "3")
	t.Setenv("SIEGE_SERVER_ADDR", ":9090")

	cfg := Default()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Sim.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", cfg.Sim.Seed)
	}
	if cfg.Turret.Burst != 3 {
		t.Errorf("Expected burst 3, got %d", cfg.Turret.Burst)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected addr :9090, got %s", cfg.Server.Addr)
	}
}

// TestApplyEnvBadValue verifies parse failures surface
func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("SIEGE_TURRET_BURST", "many")
	cfg := Default()
	if err := ApplyEnv(&cfg); err == nil {
		t.Error("Expected parse error")
	}
}

// TestValidate verifies inverted ranges are rejected
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"reload inverted", func(c *Config) { c.Launcher.ReloadMin, c.Launcher.ReloadMax = c.Launcher.ReloadMax, c.Launcher.ReloadMin }},
		{"link inverted", func(c *Config) { c.Launcher.LinkMaxLength = 0.05 }},
		{"zero tick rate", func(c *Config) { c.Sim.TickRate = 0 }},
		{"zero substeps", func(c *Config) { c.Physics.Substeps = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"jitter too large", func(c *Config) { c.Turret.Jitter = 1.5 }},
		{"zero arming retry", func(c *Config) { c.Launcher.ArmingRetry = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
