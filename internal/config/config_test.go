package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SF_ROOT_DIR", "SF_HTTP_ADDR", "SF_PUBLIC_BASE_URL", "SF_STEAMCMD_URL",
		"SF_LOGIN_TIMEOUT", "SF_LIMITER_RATE", "SF_LIMITER_BURST",
		"PORT", "RAILWAY_PUBLIC_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.HTTPAddr != ":7860" {
		t.Errorf("HTTPAddr = %q, want :7860", cfg.HTTPAddr)
	}
	if cfg.PublicBaseURL != "http://localhost:7860" {
		t.Errorf("PublicBaseURL = %q, want http://localhost:7860", cfg.PublicBaseURL)
	}
	if cfg.SteamCMDURL != DefaultSteamCMDURL {
		t.Errorf("SteamCMDURL = %q, want default", cfg.SteamCMDURL)
	}
	if cfg.LoginTimeout != 60*time.Second {
		t.Errorf("LoginTimeout = %v, want 60s", cfg.LoginTimeout)
	}
	if cfg.SteamCMDDir != filepath.Join(cfg.RootDir, "steamcmd") {
		t.Errorf("SteamCMDDir = %q, not under root", cfg.SteamCMDDir)
	}
	if cfg.GamesDir != filepath.Join(cfg.RootDir, "games") {
		t.Errorf("GamesDir = %q, not under root", cfg.GamesDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SF_ROOT_DIR", t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("RAILWAY_PUBLIC_URL", "https://panel.up.railway.app/")
	t.Setenv("SF_LOGIN_TIMEOUT", "30s")
	t.Setenv("SF_LIMITER_RATE", "1.5")
	t.Setenv("SF_LIMITER_BURST", "4")

	cfg := Load()

	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr = %q, want :9000", cfg.HTTPAddr)
	}
	if cfg.PublicBaseURL != "https://panel.up.railway.app" {
		t.Errorf("PublicBaseURL = %q, want trailing slash stripped", cfg.PublicBaseURL)
	}
	if cfg.LoginTimeout != 30*time.Second {
		t.Errorf("LoginTimeout = %v, want 30s", cfg.LoginTimeout)
	}
	if cfg.LimiterRate != 1.5 || cfg.LimiterBurst != 4 {
		t.Errorf("limiter = %v/%d, want 1.5/4", cfg.LimiterRate, cfg.LimiterBurst)
	}
}

func TestExplicitBaseURLWinsOverRailway(t *testing.T) {
	t.Setenv("SF_PUBLIC_BASE_URL", "https://files.example.com")
	t.Setenv("RAILWAY_PUBLIC_URL", "https://panel.up.railway.app")

	cfg := Load()
	if cfg.PublicBaseURL != "https://files.example.com" {
		t.Errorf("PublicBaseURL = %q, want explicit value", cfg.PublicBaseURL)
	}
}

func TestGameDir(t *testing.T) {
	t.Setenv("SF_ROOT_DIR", "/srv/steam")
	cfg := Load()
	if got := cfg.GameDir("730"); got != "/srv/steam/games/app_730" {
		t.Errorf("GameDir(730) = %q", got)
	}
}

func TestEnsureDirs(t *testing.T) {
	t.Setenv("SF_ROOT_DIR", t.TempDir())
	cfg := Load()

	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, dir := range []string{cfg.SteamCMDDir, cfg.GamesDir, cfg.PublicDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("missing dir %s: %v", dir, err)
		}
	}
}
