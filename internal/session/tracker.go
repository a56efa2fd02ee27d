// Package session mantiene la única sesión de descarga del proceso:
// el Tracker es dueño del registro de sesión, lanza el monitor que lo
// alimenta y atiende start, cancel y snapshot de forma concurrente
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/elsanchez/steam-fetch/internal/applog"
	"github.com/elsanchez/steam-fetch/internal/domain"
)

var (
	// ErrBusy indica que ya hay una descarga en curso
	ErrBusy = errors.New("download already in progress")
	// ErrNoActiveDownload indica que no hay descarga que cancelar
	ErrNoActiveDownload = errors.New("no active download")
)

// Proc es un proceso de descarga en curso, visto desde el monitor
type Proc interface {
	Lines() <-chan string
	Wait() error
	Terminate() error
}

// LaunchFunc lanza el proceso de descarga de una app
type LaunchFunc func(ctx context.Context) (Proc, error)

// PublishFunc publica los archivos de una app completada y retorna los
// enlaces públicos
type PublishFunc func(appID string) ([]domain.Link, error)

// Tracker es el dueño de la sesión. Toda mutación pasa por su mutex;
// los snapshots son copias y nunca exponen estado a medio actualizar
type Tracker struct {
	mu      sync.RWMutex
	session domain.Session
	proc    Proc
	monitor chan struct{}
	publish PublishFunc
	log     *applog.Logger
}

// New crea el tracker con la sesión inicial en idle
func New(publish PublishFunc, log *applog.Logger) *Tracker {
	if publish == nil {
		publish = func(string) ([]domain.Link, error) { return nil, nil }
	}
	if log == nil {
		log = applog.Discard()
	}
	return &Tracker{
		session: domain.NewSession(),
		publish: publish,
		log:     log,
	}
}

// Start reinicia la sesión para appID y lanza el proceso. Si hay una
// descarga activa retorna ErrBusy sin tocar la sesión. Una falla del
// lanzamiento deja la sesión en error con el mensaje registrado
func (t *Tracker) Start(ctx context.Context, appID string, launch LaunchFunc) (domain.Report, error) {
	t.mu.Lock()
	if t.session.Status.IsActive() {
		t.mu.Unlock()
		return domain.Report{}, ErrBusy
	}
	// preparing reserva la sesión: cualquier otro Start ve activo y
	// recibe ErrBusy mientras el lanzamiento sigue fuera del lock
	t.session.Reset(appID, time.Now())
	gen := t.session.ID
	t.mu.Unlock()

	proc, err := launch(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.session.Status = domain.StatusError
		t.session.Error = err.Error()
		t.session.FinishedAt = time.Now()
		t.session.AppendLog("Error: " + err.Error())
		t.log.Errorf("download start failed for app %s: %v", appID, err)
		return domain.BuildReport(t.session, time.Now(), 0), err
	}

	t.session.Status = domain.StatusDownloading
	t.proc = proc
	done := make(chan struct{})
	t.monitor = done
	go t.run(gen, proc, done)

	t.log.Infof("download started for app %s", appID)
	return domain.BuildReport(t.session, time.Now(), 0), nil
}

// Cancel termina la descarga activa. La sesión queda cancelada de
// inmediato; el monitor drena la salida restante sin pisar el estado
func (t *Tracker) Cancel() (domain.Report, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.proc == nil || !t.session.Status.IsActive() {
		return domain.Report{}, ErrNoActiveDownload
	}

	t.session.Status = domain.StatusCancelled
	t.session.FinishedAt = time.Now()
	t.session.AppendLog("Download cancelled")
	if err := t.proc.Terminate(); err != nil {
		t.log.Warnf("terminate failed for app %s: %v", t.session.AppID, err)
	}

	t.log.Infof("download cancelled for app %s", t.session.AppID)
	return domain.BuildReport(t.session, time.Now(), 0), nil
}

// Snapshot retorna una copia del estado actual; tail limita las líneas
// de log incluidas (0 incluye todas). Se puede llamar con cualquier
// frecuencia junto al monitor
func (t *Tracker) Snapshot(tail int) domain.Report {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return domain.BuildReport(t.session, time.Now(), tail)
}

// Wait bloquea hasta que el monitor en vuelo termine; retorna de
// inmediato si no hay ninguno. Lo usa el shutdown del daemon
func (t *Tracker) Wait() {
	t.mu.RLock()
	done := t.monitor
	t.mu.RUnlock()
	if done != nil {
		<-done
	}
}
