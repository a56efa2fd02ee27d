// Package config resuelve la configuración del daemon desde variables de
// entorno, con valores por defecto usables sin configurar nada
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultSteamCMDURL es el tarball oficial de SteamCMD para Linux
const DefaultSteamCMDURL = "https://steamcdn-a.akamaihd.net/client/installer/steamcmd_linux.tar.gz"

// Config agrupa toda la configuración del proceso
type Config struct {
	RootDir       string
	SteamCMDDir   string
	GamesDir      string
	PublicDir     string
	HTTPAddr      string
	PublicBaseURL string
	SteamCMDURL   string
	LoginTimeout  time.Duration
	LimiterRate   float64
	LimiterBurst  int
}

// Load lee el entorno y arma la configuración completa.
// PORT y RAILWAY_PUBLIC_URL se respetan para despliegues en PaaS
func Load() *Config {
	root := getEnv("SF_ROOT_DIR", ".")
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	port := getEnvInt("PORT", 7860)
	addr := getEnv("SF_HTTP_ADDR", fmt.Sprintf(":%d", port))

	baseURL := getEnv("SF_PUBLIC_BASE_URL", "")
	if baseURL == "" {
		baseURL = getEnv("RAILWAY_PUBLIC_URL", fmt.Sprintf("http://localhost:%d", port))
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &Config{
		RootDir:       root,
		SteamCMDDir:   filepath.Join(root, "steamcmd"),
		GamesDir:      filepath.Join(root, "games"),
		PublicDir:     filepath.Join(root, "public"),
		HTTPAddr:      addr,
		PublicBaseURL: baseURL,
		SteamCMDURL:   getEnv("SF_STEAMCMD_URL", DefaultSteamCMDURL),
		LoginTimeout:  getEnvDuration("SF_LOGIN_TIMEOUT", 60*time.Second),
		LimiterRate:   getEnvFloat("SF_LIMITER_RATE", 0.5),
		LimiterBurst:  getEnvInt("SF_LIMITER_BURST", 2),
	}
}

// EnsureDirs crea los directorios de trabajo que el daemon necesita
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.RootDir, c.SteamCMDDir, c.GamesDir, c.PublicDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// GameDir retorna el directorio de instalación para un App ID
func (c *Config) GameDir(appID string) string {
	return filepath.Join(c.GamesDir, "app_"+appID)
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
