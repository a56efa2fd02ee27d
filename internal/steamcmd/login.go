package steamcmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/elsanchez/steam-fetch/internal/domain"
)

// Login verifica las credenciales corriendo un login seguido de +quit.
// ok=false con msg describe credenciales rechazadas o timeout; err
// cubre fallas de ejecución
func (t *Tool) Login(ctx context.Context, creds domain.Credentials) (bool, string, error) {
	if !t.Installed() {
		return false, "", ErrNotInstalled
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return false, "", err
	}

	ctx, cancel := context.WithTimeout(ctx, t.loginTimeout)
	defer cancel()

	t.log.Infof("logging in as %s", creds.LoginName())

	args := append(loginArgs(creds), "+quit")
	out, err := exec.CommandContext(ctx, t.Script(), args...).CombinedOutput()

	if LoginFailed(string(out)) {
		t.log.Errorf("login failed for %s", creds.LoginName())
		return false, "Login failed. Please check your credentials.", nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.log.Errorf("login check timed out for %s", creds.LoginName())
		return false, "Login check timed out.", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("run steamcmd login: %w", err)
	}

	t.log.Infof("login successful for %s", creds.LoginName())
	return true, "Login successful", nil
}
