package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RemainingPlaceholder se muestra mientras no hay estimación de tiempo
const RemainingPlaceholder = "calculating..."

// Report es la vista serializable de la sesión que expone la API de
// estado. Es una copia: mutarla no afecta a la sesión
type Report struct {
	App       string   `json:"app"`
	SessionID string   `json:"session_id,omitempty"`
	Status    Status   `json:"status"`
	Percent   float64  `json:"percent"`
	DoneMB    float64  `json:"done_mb"`
	TotalMB   float64  `json:"total_mb"`
	SpeedMBps float64  `json:"speed_mbps"`
	Elapsed   string   `json:"elapsed"`
	Remaining string   `json:"remaining"`
	Log       []string `json:"log"`
	Links     []Link   `json:"links,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// BuildReport arma el reporte de estado a partir de la sesión.
// tail limita las líneas de log incluidas (0 o negativo incluye todas)
func BuildReport(s Session, now time.Time, tail int) Report {
	r := Report{
		App:       s.AppID,
		Status:    s.Status,
		Percent:   s.Progress.Percent,
		DoneMB:    s.Progress.DoneMB,
		TotalMB:   s.Progress.TotalMB,
		SpeedMBps: s.Progress.SpeedMBps,
		Elapsed:   FormatClock(elapsed(s, now)),
		Remaining: remaining(s),
		Error:     s.Error,
	}

	if s.ID != uuid.Nil {
		r.SessionID = s.ID.String()
	}

	start := 0
	if tail > 0 && len(s.Log) > tail {
		start = len(s.Log) - tail
	}
	r.Log = append([]string(nil), s.Log[start:]...)
	r.Links = append([]Link(nil), s.Links...)

	return r
}

// Summary retorna el bloque de texto legible del reporte, pensado para
// la salida de consola
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "App:       %s\n", orDash(r.App))
	fmt.Fprintf(&b, "Status:    %s\n", r.Status)
	fmt.Fprintf(&b, "Progress:  %.1f%% (%.2f MB / %.2f MB)\n", r.Percent, r.DoneMB, r.TotalMB)
	fmt.Fprintf(&b, "Speed:     %.2f MB/s\n", r.SpeedMBps)
	fmt.Fprintf(&b, "Elapsed:   %s\n", r.Elapsed)
	fmt.Fprintf(&b, "Remaining: %s\n", orDash(r.Remaining))
	if r.Error != "" {
		fmt.Fprintf(&b, "Error:     %s\n", r.Error)
	}
	for _, l := range r.Links {
		fmt.Fprintf(&b, "Link:      %s (%s)\n", l.URL, l.Name)
	}
	return b.String()
}

// FormatClock formatea una duración como reloj H:MM:SS
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func elapsed(s Session, now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if !s.FinishedAt.IsZero() {
		return s.FinishedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}

func remaining(s Session) string {
	if s.Progress.HasETA {
		return FormatClock(s.Progress.ETA)
	}
	if s.Status.IsActive() {
		return RemainingPlaceholder
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
