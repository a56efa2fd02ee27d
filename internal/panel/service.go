// Package panel orquesta las piezas del panel de descargas: valida los
// pedidos, corre la verificación de login y delega en el tracker de
// sesión, la herramienta SteamCMD y el publisher
package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/elsanchez/steam-fetch/internal/applog"
	"github.com/elsanchez/steam-fetch/internal/config"
	"github.com/elsanchez/steam-fetch/internal/domain"
	"github.com/elsanchez/steam-fetch/internal/publisher"
	"github.com/elsanchez/steam-fetch/internal/session"
	"github.com/elsanchez/steam-fetch/internal/steamcmd"
)

var (
	// ErrLoginFailed indica credenciales rechazadas por Steam
	ErrLoginFailed = errors.New("steam login failed")
	// ErrCredentialsNeeded indica un pedido sin credenciales usables
	ErrCredentialsNeeded = errors.New("username and password required unless anonymous")
)

// StartRequest es un pedido de descarga
type StartRequest struct {
	App       string `json:"app"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Anonymous bool   `json:"anonymous"`
}

// Service implementa las operaciones del panel. El daemon habla con él
// a través de su interfaz HTTP
type Service struct {
	cfg     *config.Config
	tool    *steamcmd.Tool
	pub     *publisher.Publisher
	tracker *session.Tracker
	log     *applog.Logger

	// las descargas sobreviven al request HTTP que las inició; los
	// procesos se atan a este contexto, no al del request
	baseCtx context.Context
}

// NewService arma el panel completo sobre la configuración dada
func NewService(baseCtx context.Context, cfg *config.Config, tool *steamcmd.Tool, pub *publisher.Publisher, log *applog.Logger) *Service {
	if log == nil {
		log = applog.Discard()
	}
	s := &Service{
		cfg:     cfg,
		tool:    tool,
		pub:     pub,
		log:     log,
		baseCtx: baseCtx,
	}
	s.tracker = session.New(func(appID string) ([]domain.Link, error) {
		return pub.Publish(appID, cfg.GameDir(appID))
	}, log.WithComponent("session"))
	return s
}

// Installed reporta si SteamCMD está listo para usarse
func (s *Service) Installed() bool {
	return s.tool.Installed()
}

// Install instala SteamCMD; idempotente sobre una instalación sana
func (s *Service) Install(ctx context.Context) error {
	return s.tool.Install(ctx)
}

// StartDownload valida el pedido, verifica el login y arranca la
// descarga. Los errores distinguen app inválida, herramienta faltante,
// sesión ocupada y login rechazado
func (s *Service) StartDownload(ctx context.Context, req StartRequest) (domain.Report, error) {
	appID, err := domain.ResolveAppID(req.App)
	if err != nil {
		return domain.Report{}, err
	}

	if !s.tool.Installed() {
		return domain.Report{}, steamcmd.ErrNotInstalled
	}

	creds := domain.Credentials{
		Username:  req.Username,
		Password:  req.Password,
		Anonymous: req.Anonymous,
	}
	if !creds.Valid() {
		return domain.Report{}, ErrCredentialsNeeded
	}

	// rechazar temprano evita gastar una verificación de login cuando
	// la sesión está ocupada; Start vuelve a chequear bajo su lock
	if s.tracker.Snapshot(1).Status.IsActive() {
		return domain.Report{}, session.ErrBusy
	}

	ok, msg, err := s.tool.Login(ctx, creds)
	if err != nil {
		return domain.Report{}, fmt.Errorf("login check: %w", err)
	}
	if !ok {
		return domain.Report{}, fmt.Errorf("%w: %s", ErrLoginFailed, msg)
	}

	return s.tracker.Start(s.baseCtx, appID, func(ctx context.Context) (session.Proc, error) {
		p, err := s.tool.StartDownload(ctx, creds, appID, s.cfg.GameDir(appID))
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Cancel cancela la descarga activa
func (s *Service) Cancel() (domain.Report, error) {
	return s.tracker.Cancel()
}

// Status retorna una copia del estado de la sesión; tail limita las
// líneas de log incluidas
func (s *Service) Status(tail int) domain.Report {
	return s.tracker.Snapshot(tail)
}

// Shutdown espera a que el monitor en vuelo termine de finalizar la
// sesión; se llama con el contexto base ya cancelado
func (s *Service) Shutdown() {
	s.tracker.Wait()
}
