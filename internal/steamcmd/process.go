package steamcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/elsanchez/steam-fetch/internal/domain"
)

// Process es una invocación de SteamCMD en curso. La salida combinada
// (stdout y stderr) se entrega línea a línea por Lines; el consumidor
// debe drenar el canal hasta que se cierre o el proceso queda bloqueado
type Process struct {
	cmd   *exec.Cmd
	lines chan string
	done  chan struct{}
	err   error
}

// StartDownload lanza la descarga de una app hacia installDir y retorna
// el proceso con su stream de salida ya corriendo
func (t *Tool) StartDownload(ctx context.Context, creds domain.Credentials, appID, installDir string) (*Process, error) {
	if !t.Installed() {
		return nil, ErrNotInstalled
	}
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return nil, fmt.Errorf("create install dir: %w", err)
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	t.log.Infof("starting download for app %s into %s", appID, installDir)
	return t.start(ctx, downloadArgs(creds, appID, installDir))
}

// start lanza steamcmd.sh con los argumentos dados y arma el stream de
// líneas sobre un pipe compartido por stdout y stderr
func (t *Tool) start(ctx context.Context, args []string) (*Process, error) {
	cmd := exec.CommandContext(ctx, t.Script(), args...)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return nil, fmt.Errorf("start steamcmd: %w", err)
	}

	p := &Process{
		cmd:   cmd,
		lines: make(chan string, 64),
		done:  make(chan struct{}),
	}

	// Wait retorna recién cuando exec terminó de copiar la salida al
	// pipe; cerrar pw después libera al scanner con EOF
	go func() {
		p.err = cmd.Wait()
		pw.Close()
		close(p.done)
	}()

	go func() {
		defer close(p.lines)
		sc := bufio.NewScanner(pr)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			p.lines <- sc.Text()
		}
	}()

	return p, nil
}

// Lines retorna el canal de salida; se cierra cuando el stream termina
func (p *Process) Lines() <-chan string {
	return p.lines
}

// Wait bloquea hasta que el proceso termine y retorna su error de salida
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// Terminate pide la cancelación del proceso con SIGTERM
func (p *Process) Terminate() error {
	return p.cmd.Process.Signal(syscall.SIGTERM)
}
