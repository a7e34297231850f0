package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Format selects how a WriterSink renders events.
type Format string

const (
	FormatJSON  Format = "json"
	FormatHuman Format = "human"
)

// ParseFormat maps a user supplied string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatHuman:
		return FormatHuman, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or human)", s)
	}
}

// WriterSink renders events onto an io.Writer, one per line.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	format Format

	started  lipgloss.Style
	ended    lipgloss.Style
	discrete lipgloss.Style
	target   lipgloss.Style
}

// NewWriterSink creates a sink writing to w in the given format.
func NewWriterSink(w io.Writer, format Format) *WriterSink {
	r := lipgloss.NewRenderer(w)
	return &WriterSink{
		w:        w,
		format:   format,
		started:  r.NewStyle().Foreground(lipgloss.Color("6")),
		ended:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		discrete: r.NewStyle(),
		target:   r.NewStyle().Faint(true),
	}
}

// Emit writes ev. Write errors are dropped: reporting never fails.
func (s *WriterSink) Emit(ev Event) {
	var line string
	if s.format == FormatHuman {
		line = s.human(ev)
	} else {
		b, err := json.Marshal(ev)
		if err != nil {
			b, _ = json.Marshal(Event{Name: ev.Name, Phase: ev.Phase, Target: ev.Target, Timestamp: ev.Timestamp})
		}
		line = string(b)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.w, line)
}

func (s *WriterSink) human(ev Event) string {
	var phase string
	switch ev.Phase {
	case PhaseStarted:
		phase = s.started.Render(string(ev.Phase))
	case PhaseEnded:
		phase = s.ended.Render(string(ev.Phase))
	default:
		phase = s.discrete.Render(string(ev.Phase))
	}

	line := fmt.Sprintf("%s %s", ev.Name, phase)
	if ev.Target != "" {
		line = s.target.Render(ev.Target) + " " + line
	}
	if ev.Subject != nil {
		line += " " + describe(ev.Subject)
	}
	return line
}

func describe(subject any) string {
	switch v := subject.(type) {
	case fmt.Stringer:
		return v.String()
	case Value:
		return fmt.Sprint(v.Value)
	case string:
		return v
	}
	b, err := json.Marshal(subject)
	if err != nil {
		return fmt.Sprint(subject)
	}
	return string(b)
}
