package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))) {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.progress.Width = msg.Width - 8
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}

		logHeight := msg.Height - chromeHeight
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.logView = viewport.New(msg.Width-6, logHeight)
			m.ready = true
			m.refreshLog()
		} else {
			m.logView.Width = msg.Width - 6
			m.logView.Height = logHeight
		}
		return m, nil

	case tickMsg:
		// Keep polling on terminal states too, so a download started
		// after this one finished shows up without restarting the watcher
		return m, tea.Batch(fetchStatus(m.client), tick())

	case statusMsg:
		if msg.err != nil {
			m.pollError = msg.err
			return m, nil
		}
		m.pollError = nil
		m.report = msg.report
		m.refreshLog()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Let the viewport handle scroll keys and mouse wheel
	m.logView, cmd = m.logView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// refreshLog swaps in the latest session log, keeping the tail in view
// unless the user scrolled away from it
func (m *Model) refreshLog() {
	if !m.ready || m.report == nil {
		return
	}
	follow := m.logView.AtBottom()
	m.logView.SetContent(strings.Join(m.report.Log, "\n"))
	if follow {
		m.logView.GotoBottom()
	}
}
