package status

import (
	"time"

	"github.com/elsanchez/steam-fetch/pkg/client"
)

// statusMsg carries the result of a status poll
type statusMsg struct {
	report *client.Report
	err    error
}

// tickMsg triggers the next status poll
type tickMsg time.Time
