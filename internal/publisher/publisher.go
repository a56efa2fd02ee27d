// Package publisher expone una descarga completada bajo el directorio
// público: un symlink al directorio del juego, un manifest con los
// archivos y los enlaces listos para compartir
package publisher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/elsanchez/steam-fetch/internal/applog"
	"github.com/elsanchez/steam-fetch/internal/domain"
)

// ManifestName es el archivo índice escrito dentro del juego publicado
const ManifestName = "manifest.txt"

// Publisher publica juegos descargados bajo un directorio público fijo
type Publisher struct {
	publicDir string
	baseURL   string
	log       *applog.Logger
}

// New crea un publisher; baseURL es la URL pública del daemon sin barra final
func New(publicDir, baseURL string, log *applog.Logger) *Publisher {
	if log == nil {
		log = applog.Discard()
	}
	return &Publisher{publicDir: publicDir, baseURL: baseURL, log: log}
}

// Publish enlaza gameDir como public/app_<id>, escribe el manifest y
// retorna los enlaces públicos. Reemplaza cualquier publicación anterior
// de la misma app
func (p *Publisher) Publish(appID, gameDir string) ([]domain.Link, error) {
	if err := os.MkdirAll(p.publicDir, 0755); err != nil {
		return nil, fmt.Errorf("create public dir: %w", err)
	}

	publicGameDir := filepath.Join(p.publicDir, "app_"+appID)
	if err := os.RemoveAll(publicGameDir); err != nil {
		return nil, fmt.Errorf("remove stale public entry: %w", err)
	}
	if err := os.Symlink(gameDir, publicGameDir); err != nil {
		return nil, fmt.Errorf("link game dir: %w", err)
	}

	if err := writeManifest(gameDir); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	publicURL := fmt.Sprintf("%s/public/app_%s", p.baseURL, appID)
	links := []domain.Link{
		{Name: "Game Files Directory", URL: publicURL},
		{Name: "Game Files Manifest", URL: publicURL + "/" + ManifestName},
	}

	p.log.Infof("public links created for app %s", appID)
	return links, nil
}

// writeManifest lista todos los archivos del juego, uno por línea con su
// ruta relativa; el propio manifest queda fuera de la lista
func writeManifest(gameDir string) error {
	f, err := os.Create(filepath.Join(gameDir, ManifestName))
	if err != nil {
		return err
	}

	err = filepath.WalkDir(gameDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(gameDir, path)
		if err != nil {
			return err
		}
		if rel == ManifestName {
			return nil
		}
		_, err = fmt.Fprintln(f, rel)
		return err
	})

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
