package status

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/steam-fetch/pkg/client"
)

// fetchStatus asks the daemon for the current session report
func fetchStatus(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		report, err := c.Status(ctx, logTailLines)
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{report: report}
	}
}

// tick schedules the next status poll
func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
