package steamcmd

import "strings"

// Marcadores que SteamCMD imprime en su salida. La detección es por
// substring, igual que el estado de la herramienta los reporta
const (
	markerSuccess      = "Success!"
	markerError        = "ERROR!"
	markerFailed       = "Failed"
	markerLoginFailure = "Login Failure"
	markerLoginFailed  = "FAILED"
)

// IsSuccess retorna true si la línea marca una descarga completada
func IsSuccess(line string) bool {
	return strings.Contains(line, markerSuccess)
}

// IsFailure retorna true si la línea marca una falla de descarga
func IsFailure(line string) bool {
	return strings.Contains(line, markerError) || strings.Contains(line, markerFailed)
}

// LoginFailed retorna true si la salida de un login contiene alguno de
// los marcadores de credenciales rechazadas
func LoginFailed(output string) bool {
	return strings.Contains(output, markerLoginFailure) || strings.Contains(output, markerLoginFailed)
}
