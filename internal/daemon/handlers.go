package daemon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/elsanchez/steam-fetch/internal/domain"
	"github.com/elsanchez/steam-fetch/internal/panel"
	"github.com/elsanchez/steam-fetch/internal/session"
	"github.com/elsanchez/steam-fetch/internal/steamcmd"
)

// defaultLogTail limita las líneas de log que viajan en cada status
const defaultLogTail = 40

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"installed": s.panel.Installed(),
	})
}

func (s *Server) handleInstall(c *gin.Context) {
	if err := s.panel.Install(c.Request.Context()); err != nil {
		s.log.Errorf("install failed: %v", err)
		errorResponse(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "SteamCMD installed successfully"})
}

func (s *Server) handleDownload(c *gin.Context) {
	var req panel.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err)
		return
	}

	report, err := s.panel.StartDownload(c.Request.Context(), req)
	if err != nil {
		errorResponse(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusAccepted, report)
}

func (s *Server) handleCancel(c *gin.Context) {
	report, err := s.panel.Cancel()
	if err != nil {
		errorResponse(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleStatus(c *gin.Context) {
	tail := defaultLogTail
	if v := c.Query("log_tail"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			tail = n
		}
	}
	c.JSON(http.StatusOK, s.panel.Status(tail))
}

func errorResponse(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor mapea los errores del panel a códigos HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidApp), errors.Is(err, panel.ErrCredentialsNeeded):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, steamcmd.ErrNotInstalled):
		return http.StatusPreconditionFailed
	case errors.Is(err, panel.ErrLoginFailed):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrNoActiveDownload):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
