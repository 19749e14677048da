package batch

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ProgressReporter reports batch progress across documents.
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// BarProgress renders a terminal progress bar. A nil ProgressReporter is
// valid and means no reporting.
type BarProgress struct {
	enabled bool
	bar     *progressbar.ProgressBar
}

// NewBarProgress returns a progress reporter, or nil when disabled.
func NewBarProgress(enabled bool) ProgressReporter {
	if !enabled {
		return nil
	}
	return &BarProgress{enabled: true}
}

func (p *BarProgress) Start(total int) {
	if !p.enabled || total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("processing"),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (p *BarProgress) Increment() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *BarProgress) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

// DefaultProgressEnabled reports whether stderr is a terminal.
func DefaultProgressEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
