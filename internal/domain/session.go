package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status representa los estados posibles de la sesión de descarga
type Status string

const (
	StatusIdle        Status = "idle"
	StatusPreparing   Status = "preparing"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
	StatusCancelled   Status = "cancelled"
)

// IsTerminal retorna true si el estado no admite más transiciones
// (solo un nuevo start lo reemplaza)
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError || s == StatusCancelled
}

// IsActive retorna true si hay una descarga en curso
func (s Status) IsActive() bool {
	return s == StatusPreparing || s == StatusDownloading
}

// CanStart retorna true si la sesión admite iniciar una descarga nueva
func (s Status) CanStart() bool {
	return s == StatusIdle || s.IsTerminal()
}

// Progress contiene las métricas extraídas de la salida de SteamCMD.
// Los tamaños están normalizados a MB; SpeedMBps es el promedio acumulado
// desde el inicio de la sesión (sin suavizado).
type Progress struct {
	Percent   float64
	DoneMB    float64
	TotalMB   float64
	SpeedMBps float64
	ETA       time.Duration
	HasETA    bool
}

// Link es un enlace público publicado al completar una descarga
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Session es el único registro de descarga del proceso. Una instancia,
// reemplazada por completo en cada start; mutada solo por el monitor
// y por la cancelación explícita.
type Session struct {
	ID         uuid.UUID // generación: distingue encarnaciones de la sesión
	AppID      string
	Status     Status
	StartedAt  time.Time
	FinishedAt time.Time
	Progress   Progress
	Log        []string
	Links      []Link
	Error      string
}

// NewSession retorna la sesión inicial del proceso (idle, sin app)
func NewSession() Session {
	return Session{Status: StatusIdle}
}

// Reset reemplaza el estado completo para una descarga nueva
func (s *Session) Reset(appID string, now time.Time) {
	*s = Session{
		ID:        uuid.New(),
		AppID:     appID,
		Status:    StatusPreparing,
		StartedAt: now,
		Log:       make([]string, 0, 64),
	}
}

// AppendLog agrega una línea cruda de salida al log de la sesión
func (s *Session) AppendLog(line string) {
	s.Log = append(s.Log, line)
}
