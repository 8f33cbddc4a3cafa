package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
	SpinnerSkipped
)

// Spinner animation frames - braille scan pattern
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner shows that a refresh is running.
type Spinner struct {
	mu           sync.Mutex
	label        string
	state        SpinnerState
	frame        int
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	w            io.Writer
	animated     bool
	running      bool
	lastRendered string
	now          func() time.Time
}

// NewSpinner creates a spinner writing to w. It animates only when w is
// a terminal.
func NewSpinner(w io.Writer, label string) *Spinner {
	return &Spinner{
		label:    label,
		state:    SpinnerPending,
		w:        w,
		animated: IsTerminal(w),
		now:      time.Now,
	}
}

// SetAnimated overrides terminal detection.
func (s *Spinner) SetAnimated(animated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animated = animated
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = s.now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	animated := s.animated
	s.mu.Unlock()

	if !animated {
		s.mu.Lock()
		fmt.Fprintf(s.w, "%s...\n", s.label)
		s.mu.Unlock()
		close(s.doneChan)
		return
	}

	s.render()
	go s.animate()
}

// Stop halts the animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and prints message as done.
func (s *Spinner) Success(message string) {
	s.finish(SpinnerSuccess, message)
}

// Fail stops the spinner and prints message as failed.
func (s *Spinner) Fail(message string) {
	s.finish(SpinnerFailed, message)
}

// Skip stops the spinner and prints message as skipped. Used when the
// refresh did not run but nothing is broken.
func (s *Spinner) Skip(message string) {
	s.finish(SpinnerSkipped, message)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Label returns the spinner's label.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

func (s *Spinner) finish(state SpinnerState, message string) {
	s.Stop()
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.renderFinal(message)
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := spinnerFrames[s.frame]
	colorIndex := (s.frame / 2) % len(GradientColors)
	style := lipgloss.NewStyle().Foreground(GradientColors[colorIndex])

	line := fmt.Sprintf("\r%s %s...", style.Render(symbol), s.label)
	s.clearLine()
	fmt.Fprint(s.w, line)
	s.lastRendered = line
}

// clearLine erases the last animated frame. Caller holds mu.
func (s *Spinner) clearLine() {
	if s.lastRendered == "" {
		return
	}
	clearLen := len([]rune(s.lastRendered))
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", clearLen)+"\r")
	s.lastRendered = ""
}

func (s *Spinner) renderFinal(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbol string
	var style lipgloss.Style

	switch s.state {
	case SpinnerSuccess:
		symbol = SymbolSuccess
		style = lipgloss.NewStyle().Foreground(ColorSuccess)
	case SpinnerFailed:
		symbol = SymbolFail
		style = lipgloss.NewStyle().Foreground(ColorError)
	case SpinnerSkipped:
		symbol = SymbolSkipped
		style = lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		symbol = SymbolPending
		style = lipgloss.NewStyle().Foreground(ColorMuted)
	}

	if message == "" {
		message = s.label
	}
	timing := ""
	if !s.startTime.IsZero() {
		timing = " " + lipgloss.NewStyle().Foreground(ColorMuted).Render(formatDuration(s.now().Sub(s.startTime)))
	}

	s.clearLine()
	fmt.Fprintf(s.w, "%s %s%s\n", style.Render(symbol), message, timing)
}

// formatDuration formats a duration for display (e.g., "0.3s", "1m12s").
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return d.Truncate(time.Second).String()
	}
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
