package dispatch

import (
	"log/slog"
	"regexp"

	"github.com/mattjoyce/simdeck/internal/action"
	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/log"
	"github.com/mattjoyce/simdeck/internal/state"
)

// Controls carries settings handlers need beyond the target itself.
type Controls struct {
	// Set creates and enumerates targets.
	Set device.Set
	// AuxDir is the root for artifacts written by upload; each target gets a
	// subdirectory named by its UDID.
	AuxDir string
	// MediaPattern selects which upload paths go to the backend as media.
	MediaPattern *regexp.Regexp
	// DefaultConfigurations are the configurations create --all-missing-defaults
	// ensures exist.
	DefaultConfigurations []device.Configuration
}

// Context is the environment of one dispatch. It is passed by value; the With
// methods return modified copies and never touch the receiver.
type Context struct {
	Action   action.Action
	Target   device.Target
	Reporter *events.Reporter
	Format   events.Format
	Defaults state.Defaults
	Controls Controls
	Logger   *slog.Logger
}

// WithAction returns a copy of c carrying a.
func (c Context) WithAction(a action.Action) Context {
	c.Action = a
	return c
}

// WithTarget returns a copy of c bound to t. The reporter is rebound so
// events carry the target's UDID.
func (c Context) WithTarget(t device.Target) Context {
	c.Target = t
	if t != nil {
		c.Reporter = c.Reporter.ForTarget(t.UDID())
	}
	return c
}

// WithReporter returns a copy of c emitting through r.
func (c Context) WithReporter(r *events.Reporter) Context {
	c.Reporter = r
	return c
}

// WithControls returns a copy of c with controls replaced.
func (c Context) WithControls(ctl Controls) Context {
	c.Controls = ctl
	return c
}

func (c Context) logger() *slog.Logger {
	l := c.Logger
	if l == nil {
		l = log.WithComponent("dispatch")
	}
	if c.Action != nil {
		l = l.With("action", string(c.Action.Tag()))
	}
	if c.Target != nil {
		l = l.With("udid", c.Target.UDID())
	}
	return l
}

func (c Context) targetID() string {
	if c.Target == nil {
		return "no target"
	}
	return c.Target.UDID()
}

// WithLogger returns a copy of c logging through l.
func (c Context) WithLogger(l *slog.Logger) Context {
	c.Logger = l
	return c
}
