package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elsanchez/steam-fetch/internal/domain"
)

// fakeProc es un proceso guionado: el test alimenta líneas y decide la
// salida
type fakeProc struct {
	lines   chan string
	exited  chan struct{}
	exitErr error

	mu         sync.Mutex
	terminated int
}

func newFakeProc() *fakeProc {
	return &fakeProc{
		lines:  make(chan string, 32),
		exited: make(chan struct{}),
	}
}

func (f *fakeProc) Lines() <-chan string { return f.lines }

func (f *fakeProc) Wait() error {
	<-f.exited
	return f.exitErr
}

func (f *fakeProc) Terminate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated++
	return nil
}

func (f *fakeProc) terminations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminated
}

func (f *fakeProc) feed(lines ...string) {
	for _, l := range lines {
		f.lines <- l
	}
}

func (f *fakeProc) finish(err error) {
	f.exitErr = err
	close(f.lines)
	close(f.exited)
}

func launchWith(p Proc) LaunchFunc {
	return func(context.Context) (Proc, error) { return p, nil }
}

// countingPublisher registra las publicaciones y retorna enlaces fijos
type countingPublisher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingPublisher) publish(appID string) ([]domain.Link, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []domain.Link{
		{Name: "Game Files Directory", URL: "http://localhost:7860/public/app_" + appID},
		{Name: "Game Files Manifest", URL: "http://localhost:7860/public/app_" + appID + "/manifest.txt"},
	}, nil
}

func (c *countingPublisher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestStartToCompletion(t *testing.T) {
	pub := &countingPublisher{}
	tr := New(pub.publish, nil)
	fp := newFakeProc()

	report, err := tr.Start(context.Background(), "730", launchWith(fp))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if report.Status != domain.StatusDownloading || report.App != "730" {
		t.Errorf("start report = %+v", report)
	}

	fp.feed(
		" Update state (0x61) downloading, progress: 12.50%",
		"downloading 45.30 MB / 362.10 MB",
		"Success! App '730' fully installed.",
		"Success! App '730' fully installed.",
	)
	fp.finish(nil)
	tr.Wait()

	snap := tr.Snapshot(0)
	if snap.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want completed", snap.Status)
	}
	if snap.Percent != 100 {
		t.Errorf("percent = %v, want 100", snap.Percent)
	}
	if snap.DoneMB != 45.30 || snap.TotalMB != 362.10 {
		t.Errorf("sizes = %v / %v, want 45.30 / 362.10", snap.DoneMB, snap.TotalMB)
	}
	if len(snap.Log) != 4 {
		t.Errorf("log = %v, want the 4 fed lines", snap.Log)
	}
	if len(snap.Links) != 2 {
		t.Fatalf("links = %v, want 2", snap.Links)
	}
	if pub.count() != 1 {
		t.Errorf("publish called %d times, want exactly 1", pub.count())
	}
}

func TestFirstTerminalMarkerWins(t *testing.T) {
	pub := &countingPublisher{}
	tr := New(pub.publish, nil)
	fp := newFakeProc()

	if _, err := tr.Start(context.Background(), "730", launchWith(fp)); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fp.feed(
		"ERROR! Failed to install app '730' (No subscription)",
		"Success! App '730' fully installed.",
	)
	fp.finish(nil)
	tr.Wait()

	snap := tr.Snapshot(0)
	if snap.Status != domain.StatusError {
		t.Errorf("status = %q, want error (first marker wins)", snap.Status)
	}
	if !strings.Contains(snap.Error, "ERROR!") {
		t.Errorf("error = %q, want the failure line", snap.Error)
	}
	if len(snap.Log) != 2 {
		t.Errorf("log = %v, want both lines appended", snap.Log)
	}
	if pub.count() != 0 {
		t.Errorf("publish called %d times after a failure, want 0", pub.count())
	}
}

func TestUnexpectedExit(t *testing.T) {
	tr := New(nil, nil)
	fp := newFakeProc()

	if _, err := tr.Start(context.Background(), "730", launchWith(fp)); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fp.feed(" Update state (0x61) downloading, progress: 55.00%")
	fp.finish(errors.New("exit status 1"))
	tr.Wait()

	snap := tr.Snapshot(0)
	if snap.Status != domain.StatusError {
		t.Errorf("status = %q, want error", snap.Status)
	}
	if snap.Error != "exit status 1" {
		t.Errorf("error = %q, want the exit error", snap.Error)
	}
	last := snap.Log[len(snap.Log)-1]
	if last != "Process ended unexpectedly" {
		t.Errorf("last log entry = %q, want the synthetic marker", last)
	}
	if snap.Percent != 55 {
		t.Errorf("percent = %v, want the last parsed value", snap.Percent)
	}
}

func TestStartWhileActiveReturnsBusy(t *testing.T) {
	tr := New(nil, nil)
	fp := newFakeProc()

	if _, err := tr.Start(context.Background(), "730", launchWith(fp)); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := tr.Start(context.Background(), "440", launchWith(newFakeProc())); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start = %v, want ErrBusy", err)
	}

	// la sesión activa no debe haberse tocado
	if snap := tr.Snapshot(0); snap.App != "730" {
		t.Errorf("active session app = %q, want 730", snap.App)
	}

	fp.finish(nil)
	tr.Wait()

	// con la sesión terminal, un nuevo start procede
	fp2 := newFakeProc()
	if _, err := tr.Start(context.Background(), "440", launchWith(fp2)); err != nil {
		t.Errorf("Start after terminal session: %v", err)
	}
	fp2.finish(nil)
	tr.Wait()
}

func TestCancel(t *testing.T) {
	tr := New(nil, nil)
	fp := newFakeProc()

	if _, err := tr.Start(context.Background(), "730", launchWith(fp)); err != nil {
		t.Fatalf("Start: %v", err)
	}

	report, err := tr.Cancel()
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if report.Status != domain.StatusCancelled {
		t.Errorf("cancel report status = %q, want cancelled", report.Status)
	}
	if fp.terminations() != 1 {
		t.Errorf("terminate called %d times, want 1", fp.terminations())
	}

	if _, err := tr.Cancel(); !errors.Is(err, ErrNoActiveDownload) {
		t.Errorf("second Cancel = %v, want ErrNoActiveDownload", err)
	}

	// el proceso muere después de la señal; el estado cancelado queda
	fp.finish(errors.New("signal: terminated"))
	tr.Wait()

	snap := tr.Snapshot(0)
	if snap.Status != domain.StatusCancelled {
		t.Errorf("status = %q, want cancelled to survive process exit", snap.Status)
	}
	for _, line := range snap.Log {
		if line == "Process ended unexpectedly" {
			t.Error("cancelled session got the unexpected-exit entry")
		}
	}
}

func TestCancelWithoutActiveDownload(t *testing.T) {
	tr := New(nil, nil)
	if _, err := tr.Cancel(); !errors.Is(err, ErrNoActiveDownload) {
		t.Errorf("Cancel = %v, want ErrNoActiveDownload", err)
	}
}

func TestLaunchFailure(t *testing.T) {
	tr := New(nil, nil)
	boom := errors.New("steamcmd exploded")

	_, err := tr.Start(context.Background(), "730", func(context.Context) (Proc, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Start = %v, want launch error", err)
	}

	snap := tr.Snapshot(0)
	if snap.Status != domain.StatusError {
		t.Errorf("status = %q, want error", snap.Status)
	}
	if snap.Error != "steamcmd exploded" {
		t.Errorf("error = %q", snap.Error)
	}
	if len(snap.Log) == 0 || !strings.Contains(snap.Log[0], "steamcmd exploded") {
		t.Errorf("log = %v, want the failure recorded", snap.Log)
	}

	// la falla es terminal: el siguiente start procede
	fp := newFakeProc()
	if _, err := tr.Start(context.Background(), "730", launchWith(fp)); err != nil {
		t.Errorf("Start after launch failure: %v", err)
	}
	fp.finish(nil)
	tr.Wait()
}

func TestPublishFailureKeepsCompleted(t *testing.T) {
	pub := &countingPublisher{err: errors.New("disk full")}
	tr := New(pub.publish, nil)
	fp := newFakeProc()

	if _, err := tr.Start(context.Background(), "730", launchWith(fp)); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fp.feed("Success! App '730' fully installed.")
	fp.finish(nil)
	tr.Wait()

	snap := tr.Snapshot(0)
	if snap.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want completed despite publish failure", snap.Status)
	}
	if len(snap.Links) != 0 {
		t.Errorf("links = %v, want none", snap.Links)
	}
	found := false
	for _, line := range snap.Log {
		if strings.Contains(line, "Failed to create public links") {
			found = true
		}
	}
	if !found {
		t.Errorf("log = %v, want the publish failure recorded", snap.Log)
	}
}

func TestStaleMonitorCannotTouchNewSession(t *testing.T) {
	pub := &countingPublisher{}
	tr := New(pub.publish, nil)

	fpOld := newFakeProc()
	if _, err := tr.Start(context.Background(), "730", launchWith(fpOld)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := tr.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// la sesión cancelada es terminal: arranca una nueva mientras el
	// monitor viejo sigue drenando
	fpNew := newFakeProc()
	if _, err := tr.Start(context.Background(), "440", launchWith(fpNew)); err != nil {
		t.Fatalf("Start new session: %v", err)
	}

	fpOld.feed("Success! App '730' fully installed.")
	fpOld.finish(nil)
	time.Sleep(100 * time.Millisecond)

	snap := tr.Snapshot(0)
	if snap.App != "440" || snap.Status != domain.StatusDownloading {
		t.Errorf("new session = %q/%q, want 440 downloading", snap.App, snap.Status)
	}
	if len(snap.Log) != 0 {
		t.Errorf("new session log = %v, want untouched", snap.Log)
	}
	if pub.count() != 0 {
		t.Errorf("stale monitor published %d times, want 0", pub.count())
	}

	fpNew.finish(nil)
	tr.Wait()
}

func TestSnapshotDuringDownload(t *testing.T) {
	tr := New(nil, nil)
	fp := newFakeProc()

	if _, err := tr.Start(context.Background(), "730", launchWith(fp)); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fp.feed(" Update state (0x61) downloading, progress: 12.50%")
	waitFor(t, func() bool {
		return tr.Snapshot(0).Percent == 12.5
	}, "monitor never applied the progress line")

	snap := tr.Snapshot(0)
	if snap.Status != domain.StatusDownloading {
		t.Errorf("status = %q, want downloading", snap.Status)
	}
	if snap.Remaining != domain.RemainingPlaceholder {
		t.Errorf("remaining = %q, want placeholder before an estimate", snap.Remaining)
	}

	fp.finish(nil)
	tr.Wait()
}
