package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elsanchez/steam-fetch/internal/domain"
	"github.com/elsanchez/steam-fetch/internal/steamcmd"
)

// run supervisa un proceso de descarga: consume su salida línea a
// línea, actualiza la sesión y finaliza el estado cuando el proceso
// termina. gen ata al monitor con su encarnación de la sesión; si una
// sesión más nueva tomó el lugar, el monitor solo drena y sale
func (t *Tracker) run(gen uuid.UUID, proc Proc, done chan struct{}) {
	defer close(done)

	for line := range proc.Lines() {
		t.handleLine(gen, line)
	}

	err := proc.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session.ID != gen {
		return
	}
	if t.session.FinishedAt.IsZero() {
		t.session.FinishedAt = time.Now()
	}
	// sin marcador terminal, un proceso que se fue es un error
	if t.session.Status.IsActive() {
		t.session.Status = domain.StatusError
		t.session.AppendLog("Process ended unexpectedly")
		if err != nil {
			t.session.Error = err.Error()
		} else {
			t.session.Error = "process ended unexpectedly"
		}
		t.log.Errorf("download for app %s ended unexpectedly: %v", t.session.AppID, err)
	}
}

// handleLine aplica una línea de salida a la sesión: log, métricas y
// marcadores. El primer marcador terminal gana; los siguientes solo
// quedan en el log
func (t *Tracker) handleLine(gen uuid.UUID, line string) {
	t.mu.Lock()

	if t.session.ID != gen {
		t.mu.Unlock()
		return
	}

	t.session.AppendLog(line)
	t.session.Progress = steamcmd.ParseProgress(line, t.session.Progress, t.session.StartedAt, time.Now())

	switch {
	case steamcmd.IsSuccess(line):
		if t.session.Status.IsTerminal() {
			break
		}
		t.session.Status = domain.StatusCompleted
		t.session.Progress.Percent = 100
		t.session.FinishedAt = time.Now()
		appID := t.session.AppID
		t.log.Infof("download completed for app %s", appID)
		t.mu.Unlock()

		// la publicación recorre el árbol del juego; fuera del lock
		links, err := t.publish(appID)

		t.mu.Lock()
		if t.session.ID == gen {
			if err != nil {
				t.session.AppendLog("Failed to create public links: " + err.Error())
				t.log.Errorf("publish failed for app %s: %v", appID, err)
			} else {
				t.session.Links = links
			}
		}

	case steamcmd.IsFailure(line):
		if t.session.Status.IsTerminal() {
			break
		}
		t.session.Status = domain.StatusError
		t.session.Error = strings.TrimSpace(line)
		t.session.FinishedAt = time.Now()
		t.log.Errorf("download failed for app %s: %s", t.session.AppID, strings.TrimSpace(line))
	}

	t.mu.Unlock()
}
