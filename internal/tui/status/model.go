package status

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/steam-fetch/pkg/client"
)

const (
	// pollInterval is how often the watcher asks the daemon for a report
	pollInterval = time.Second

	// logTailLines is how much session log the watcher keeps in its viewport
	logTailLines = 200
)

// Model is the Bubbletea model for the download watcher
type Model struct {
	// Dependencies
	client *client.Client

	// State
	report    *client.Report
	pollError error

	// Components
	spinner  spinner.Model
	progress progress.Model
	logView  viewport.Model

	// UI state
	width    int
	height   int
	ready    bool
	quitting bool
}

// NewModel creates a new download watcher model
func NewModel(c *client.Client) Model {
	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	// Create progress bar
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 50

	return Model{
		client:   c,
		spinner:  s,
		progress: p,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchStatus(m.client),
		tick(),
		m.spinner.Tick,
	)
}
