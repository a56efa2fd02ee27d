// Package steamcmd envuelve la herramienta SteamCMD: instalación,
// verificación de login y descargas con salida en vivo
package steamcmd

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/elsanchez/steam-fetch/internal/applog"
	"github.com/elsanchez/steam-fetch/internal/domain"
)

// ErrNotInstalled indica que steamcmd.sh no está instalado todavía
var ErrNotInstalled = errors.New("steamcmd not installed")

// ScriptName es el ejecutable de SteamCMD para Linux
const ScriptName = "steamcmd.sh"

// Tool maneja una instalación de SteamCMD en un directorio fijo.
// Todas las invocaciones pasan por el mismo rate limiter
type Tool struct {
	dir          string
	archiveURL   string
	loginTimeout time.Duration
	limiter      *rate.Limiter
	log          *applog.Logger
	client       *http.Client
}

// New crea el wrapper sobre el directorio de instalación dado
func New(dir, archiveURL string, loginTimeout time.Duration, limiter *rate.Limiter, log *applog.Logger) *Tool {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	if log == nil {
		log = applog.Discard()
	}
	if loginTimeout <= 0 {
		loginTimeout = 60 * time.Second
	}
	return &Tool{
		dir:          dir,
		archiveURL:   archiveURL,
		loginTimeout: loginTimeout,
		limiter:      limiter,
		log:          log,
		client:       &http.Client{Timeout: 5 * time.Minute},
	}
}

// Script retorna la ruta completa a steamcmd.sh
func (t *Tool) Script() string {
	return filepath.Join(t.dir, ScriptName)
}

// Installed verifica que el script exista y sea ejecutable
func (t *Tool) Installed() bool {
	info, err := os.Stat(t.Script())
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}

// loginArgs arma los argumentos de login; sin credenciales usables se
// cae al usuario anónimo
func loginArgs(creds domain.Credentials) []string {
	if creds.Anonymous || creds.Username == "" {
		return []string{"+login", "anonymous"}
	}
	return []string{"+login", creds.Username, creds.Password}
}

// downloadArgs arma la invocación completa de descarga de una app
func downloadArgs(creds domain.Credentials, appID, installDir string) []string {
	args := loginArgs(creds)
	return append(args,
		"+force_install_dir", installDir,
		"+app_update", appID, "validate",
		"+quit",
	)
}
