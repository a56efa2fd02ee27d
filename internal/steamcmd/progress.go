package steamcmd

import (
	"regexp"
	"strconv"
	"time"

	"github.com/elsanchez/steam-fetch/internal/domain"
)

// Patrones de las líneas de progreso de SteamCMD: un porcentaje suelto
// y un par de tamaños "descargado / total" con unidad
var (
	percentPattern = regexp.MustCompile(`(\d+\.?\d*)%`)
	sizePattern    = regexp.MustCompile(`(\d+\.?\d*) (KB|MB|GB) / (\d+\.?\d*) (KB|MB|GB)`)
)

// ParseProgress actualiza las métricas con lo que aporte la línea.
// Una línea sin información de progreso retorna cur sin cambios.
// La velocidad es el promedio acumulado desde startedAt (sin suavizado)
// y el tiempo restante se trunca a segundos enteros
func ParseProgress(line string, cur domain.Progress, startedAt, now time.Time) domain.Progress {
	if m := percentPattern.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			cur.Percent = v
		}
	}

	m := sizePattern.FindStringSubmatch(line)
	if m == nil {
		return cur
	}

	cur.DoneMB = toMB(m[1], m[2])
	cur.TotalMB = toMB(m[3], m[4])

	if !startedAt.IsZero() {
		if elapsed := now.Sub(startedAt).Seconds(); elapsed > 0 {
			cur.SpeedMBps = cur.DoneMB / elapsed
		}
	}

	if cur.SpeedMBps > 0 {
		remaining := (cur.TotalMB - cur.DoneMB) / cur.SpeedMBps
		if remaining < 0 {
			remaining = 0
		}
		cur.ETA = time.Duration(remaining) * time.Second
		cur.HasETA = true
	}

	return cur
}

// toMB normaliza un tamaño a megabytes
func toMB(value, unit string) float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "KB":
		return v / 1024
	case "GB":
		return v * 1024
	}
	return v
}
