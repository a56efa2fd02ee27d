package steamcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

const archiveName = "steamcmd_linux.tar.gz"

// Install descarga el tarball oficial, lo extrae en el directorio de la
// herramienta y corre una invocación inicial para que SteamCMD se
// actualice a sí mismo. Una falla deja el sistema usable para reintentar
func (t *Tool) Install(ctx context.Context) error {
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return fmt.Errorf("create steamcmd dir: %w", err)
	}

	t.log.Infof("installing steamcmd from %s", t.archiveURL)

	archive := filepath.Join(t.dir, archiveName)
	size, err := t.fetchArchive(ctx, archive)
	if err != nil {
		return fmt.Errorf("download steamcmd: %w", err)
	}
	t.log.Infof("downloaded %s (%s)", archiveName, humanize.Bytes(uint64(size)))

	if out, err := exec.CommandContext(ctx, "tar", "-xzf", archive, "-C", t.dir).CombinedOutput(); err != nil {
		return fmt.Errorf("extract steamcmd: %w\noutput: %s", err, out)
	}

	if err := os.Chmod(t.Script(), 0755); err != nil {
		return fmt.Errorf("chmod %s: %w", ScriptName, err)
	}

	if !t.Installed() {
		return errors.New("steamcmd install verification failed")
	}

	// la primera corrida descarga las actualizaciones de la herramienta;
	// si falla la instalación sigue siendo válida
	if err := t.selfUpdate(ctx); err != nil {
		t.log.Warnf("steamcmd self-update failed: %v", err)
	}

	t.log.Infof("steamcmd installed successfully (%s on disk)", humanize.Bytes(uint64(dirSize(t.dir))))
	return nil
}

// dirSize suma los tamaños de los archivos bajo dir; las entradas que no
// se pueden leer cuentan como cero
func dirSize(dir string) int64 {
	var total int64
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

func (t *Tool) fetchArchive(ctx context.Context, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.archiveURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (t *Tool) selfUpdate(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	if out, err := exec.CommandContext(ctx, t.Script(), "+quit").CombinedOutput(); err != nil {
		return fmt.Errorf("%w\noutput: %s", err, out)
	}
	return nil
}
