package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/elsanchez/steam-fetch/internal/domain"
)

// Styles with adaptive colors for light/dark backgrounds
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"}).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"}).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "11"}).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"}).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "63", Dark: "63"}).
			Padding(0, 1).
			MarginLeft(2)
)

// chromeHeight is the number of rows the header, the stats block and the
// help line take up around the log viewport
const chromeHeight = 10

// View renders the watcher
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎮 steam-fetch") + "\n\n")

	if m.report == nil {
		b.WriteString("  " + m.spinner.View() + " Contacting daemon...\n")
		if m.pollError != nil {
			b.WriteString("\n" + errorStyle.Render("  "+m.pollError.Error()) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("  q quit") + "\n")
		return b.String()
	}

	r := m.report

	// App and status header
	app := r.App
	if app == "" {
		app = "-"
	}
	statusLine := fmt.Sprintf("  App %s • %s", app, m.statusBadge())
	if domain.Status(r.Status) == domain.StatusPreparing {
		statusLine += " " + m.spinner.View()
	}
	b.WriteString(statusLine + "\n")

	// Progress bar and accumulated metrics
	b.WriteString("  " + m.progress.ViewAs(r.Percent/100) + "\n")

	remaining := r.Remaining
	if remaining == "" {
		remaining = "-"
	}
	b.WriteString(fmt.Sprintf("  %.2f MB / %.2f MB • %.2f MB/s • elapsed %s • remaining %s\n",
		r.DoneMB, r.TotalMB, r.SpeedMBps, r.Elapsed, remaining))

	// Session log
	if m.ready {
		b.WriteString("\n" + logBoxStyle.Render(m.logView.View()) + "\n")
	}

	if r.Error != "" {
		b.WriteString(errorStyle.Render("  Error: "+r.Error) + "\n")
	}

	// Public links appear once the download completes
	if len(r.Links) > 0 {
		b.WriteString("\n")
		for _, l := range r.Links {
			b.WriteString(fmt.Sprintf("  %s  %s\n", successStyle.Render(l.Name+":"), l.URL))
		}
	}

	if m.pollError != nil {
		b.WriteString("\n" + errorStyle.Render("  Lost contact with daemon: "+m.pollError.Error()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("  ↑/↓ scroll log • q quit") + "\n")

	return b.String()
}

// statusBadge renders the session status in a color matching its meaning
func (m Model) statusBadge() string {
	st := domain.Status(m.report.Status)
	switch st {
	case domain.StatusCompleted:
		return successStyle.Render(string(st))
	case domain.StatusError:
		return errorStyle.Render(string(st))
	case domain.StatusCancelled:
		return warnStyle.Render(string(st))
	case domain.StatusDownloading, domain.StatusPreparing:
		return activeStyle.Render(string(st))
	default:
		return helpStyle.Render(string(st))
	}
}
