// Package applog escribe el log de la aplicación: cada evento va en una
// línea al archivo de log y a stderr, con marca de tiempo, componente y
// severidad
package applog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// FileName es el nombre del archivo de log dentro del directorio raíz
const FileName = "steam_fetch.log"

// Logger escribe eventos etiquetados con un componente fijo.
// Es seguro para uso concurrente
type Logger struct {
	out       *log.Logger
	component string
}

// New crea un logger que escribe en w con la etiqueta de componente dada
func New(w io.Writer, component string) *Logger {
	return &Logger{
		out:       log.New(w, "", log.LstdFlags),
		component: component,
	}
}

// Open abre (o crea) el archivo de log en modo append dentro de rootDir
// y retorna un logger raíz que escribe al archivo y a stderr
func Open(rootDir, component string) (*Logger, *os.File, error) {
	path := filepath.Join(rootDir, FileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(io.MultiWriter(f, os.Stderr), component), f, nil
}

// WithComponent retorna un logger con otra etiqueta sobre el mismo destino
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{out: l.out, component: component}
}

// Infof registra un evento informativo
func (l *Logger) Infof(format string, args ...any) {
	l.write("INFO", format, args...)
}

// Warnf registra una advertencia
func (l *Logger) Warnf(format string, args ...any) {
	l.write("WARNING", format, args...)
}

// Errorf registra un error
func (l *Logger) Errorf(format string, args ...any) {
	l.write("ERROR", format, args...)
}

func (l *Logger) write(level, format string, args ...any) {
	l.out.Printf("- %s - %s - %s", l.component, level, fmt.Sprintf(format, args...))
}

// Discard retorna un logger que descarta todo; útil en tests
func Discard() *Logger {
	return New(io.Discard, "test")
}
