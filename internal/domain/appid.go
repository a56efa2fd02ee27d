package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidApp indica que la entrada no contiene un App ID reconocible
var ErrInvalidApp = errors.New("invalid app id")

var appURLPattern = regexp.MustCompile(`app/(\d+)`)

// ResolveAppID extrae el App ID numérico de la entrada del usuario.
// Acepta un ID numérico directo ("730") o una URL de la tienda que
// contenga el segmento app/<número>
func ResolveAppID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidApp
	}

	if isDigits(input) {
		return input, nil
	}

	if m := appURLPattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}

	return "", ErrInvalidApp
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
