package tools

import (
	"context"
	"fmt"
	"io"
	"time"
)

var dotFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a single status line until its context is cancelled
type Spinner struct {
	w        io.Writer
	text     string
	frames   []string
	interval time.Duration
}

// NewSpinner creates a dots spinner writing to w
func NewSpinner(w io.Writer, text string) *Spinner {
	return &Spinner{
		w:        w,
		text:     text,
		frames:   dotFrames,
		interval: 80 * time.Millisecond,
	}
}

// Interval sets the frame interval
func (s *Spinner) Interval(d time.Duration) *Spinner {
	s.interval = d
	return s
}

// Run draws frames until ctx is done, then erases the line. It always returns nil.
func (s *Spinner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.text)
		select {
		case <-ctx.Done():
			fmt.Fprint(s.w, "\r\033[K")
			return nil
		case <-ticker.C:
		}
	}
}
