// Package daemon expone el panel de descargas sobre HTTP: la API de
// control bajo /api y el árbol de archivos publicados bajo /public
package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elsanchez/steam-fetch/internal/applog"
	"github.com/elsanchez/steam-fetch/internal/domain"
	"github.com/elsanchez/steam-fetch/internal/panel"
)

// Panel es lo que los handlers necesitan del panel; los tests usan un stub
type Panel interface {
	Installed() bool
	Install(ctx context.Context) error
	StartDownload(ctx context.Context, req panel.StartRequest) (domain.Report, error)
	Cancel() (domain.Report, error)
	Status(tail int) domain.Report
}

var _ Panel = (*panel.Service)(nil)

// Server es el servidor HTTP del daemon
type Server struct {
	panel     Panel
	publicDir string
	log       *applog.Logger
	http      *http.Server
}

// NewServer arma el router y deja el servidor listo para Start
func NewServer(p Panel, publicDir, addr string, log *applog.Logger) *Server {
	if log == nil {
		log = applog.Discard()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		panel:     p,
		publicDir: publicDir,
		log:       log,
	}
	s.routes(r)
	s.http = &http.Server{Addr: addr, Handler: r}
	return s
}

func (s *Server) routes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/install", s.handleInstall)
		api.POST("/download", s.handleDownload)
		api.POST("/download/cancel", s.handleCancel)
		api.GET("/status", s.handleStatus)
	}

	// los juegos publicados se sirven directo del directorio público,
	// con listado habilitado para poder navegarlos
	r.StaticFS("/public", gin.Dir(s.publicDir, true))
}

// Handler expone el router; lo usan los tests
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start atiende hasta que ctx se cancela y después apaga con gracia
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Infof("listening on %s", s.http.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
