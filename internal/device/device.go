// Package device defines the capability surface simdeck drives. The concrete
// backend (see internal/simctl) owns device lifecycle, process control, input
// injection and log storage; everything above this package only talks to
// these interfaces.
package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattjoyce/simdeck/internal/events"
)

//go:generate mockgen -destination=mocks/mock_device.go -package=mocks github.com/mattjoyce/simdeck/internal/device Target,Set

var (
	// ErrUnsupported is returned by a backend that cannot perform an operation.
	ErrUnsupported = errors.New("operation not supported by backend")
	// ErrNotFound is returned when a lookup (target, service, process) has no match.
	ErrNotFound = errors.New("not found")
)

// State is the lifecycle state of a target.
type State string

const (
	StateCreating     State = "creating"
	StateShutdown     State = "shutdown"
	StateBooting      State = "booting"
	StateBooted       State = "booted"
	StateShuttingDown State = "shutting-down"
	StateUnknown      State = "unknown"
)

// Configuration describes a target to create.
type Configuration struct {
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Device string `json:"device" yaml:"device" mapstructure:"device"`
	OS     string `json:"os" yaml:"os" mapstructure:"os"`
}

func (c Configuration) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Device, c.OS)
}

// Key identifies a configuration independently of its display name.
func (c Configuration) Key() string {
	return c.Device + "|" + c.OS
}

// Info is the descriptive snapshot of a target.
type Info struct {
	UDID   string `json:"udid"`
	Name   string `json:"name"`
	State  State  `json:"state"`
	Device string `json:"device,omitempty"`
	OS     string `json:"os,omitempty"`
}

// Diagnostic is a log or artifact attached to a target.
type Diagnostic struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	Path      string `json:"path,omitempty"`
	Content   []byte `json:"-"`
}

// HasContent reports whether the diagnostic can be read at all.
func (d Diagnostic) HasContent() bool {
	return d.Path != "" || d.Content != nil
}

// ProcessInfo describes a running process on a target.
type ProcessInfo struct {
	PID       int      `json:"pid"`
	Name      string   `json:"name"`
	Path      string   `json:"path,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
}

// LaunchConfig describes an application launch.
type LaunchConfig struct {
	BundleID        string            `json:"bundle_id" mapstructure:"bundle_id"`
	Arguments       []string          `json:"arguments,omitempty" mapstructure:"arguments"`
	Environment     map[string]string `json:"environment,omitempty" mapstructure:"environment"`
	WaitForDebugger bool              `json:"wait_for_debugger,omitempty" mapstructure:"wait_for_debugger"`
}

// AgentLaunchConfig describes a helper executable started inside the
// simulator. Unlike an application it has no bundle; it is addressed by path.
type AgentLaunchConfig struct {
	Path        string            `json:"path" mapstructure:"path"`
	Arguments   []string          `json:"arguments,omitempty" mapstructure:"arguments"`
	Environment map[string]string `json:"environment,omitempty" mapstructure:"environment"`
}

// BootOptions tunes a boot.
type BootOptions struct {
	Locale        string `json:"locale,omitempty" mapstructure:"locale"`
	Scale         string `json:"scale,omitempty" mapstructure:"scale"`
	AwaitServices bool   `json:"await_services,omitempty" mapstructure:"await_services"`
}

// InputKind distinguishes input events.
type InputKind string

const (
	InputTap    InputKind = "tap"
	InputKey    InputKind = "key"
	InputText   InputKind = "text"
	InputButton InputKind = "button"
)

// InputEvent is a synthesised HID event.
type InputEvent struct {
	Kind   InputKind `json:"kind" mapstructure:"kind"`
	X      float64   `json:"x,omitempty" mapstructure:"x"`
	Y      float64   `json:"y,omitempty" mapstructure:"y"`
	Code   int       `json:"code,omitempty" mapstructure:"code"`
	Text   string    `json:"text,omitempty" mapstructure:"text"`
	Button string    `json:"button,omitempty" mapstructure:"button"`
}

// Target is a handle to one controlled device. Callers own it and must not use
// it from more than one goroutine at a time.
type Target interface {
	UDID() string
	Info(ctx context.Context) (Info, error)

	// AttachSink registers s to receive events the backend emits on its own
	// (state changes, log lines). The returned function removes it.
	AttachSink(s events.Sink) (detach func())

	Boot(ctx context.Context, opts BootOptions) error
	Shutdown(ctx context.Context) error
	Erase(ctx context.Context) error
	Delete(ctx context.Context) error
	Focus(ctx context.Context) error

	Approve(ctx context.Context, bundleIDs []string) error
	ClearKeychain(ctx context.Context, bundleID string) error
	Launch(ctx context.Context, cfg LaunchConfig) (pid int, err error)
	LaunchAgent(ctx context.Context, cfg AgentLaunchConfig) (pid int, err error)
	Terminate(ctx context.Context, bundleID string) error
	OpenURL(ctx context.Context, url string) error
	Inject(ctx context.Context, ev InputEvent) error
	SetLocation(ctx context.Context, latitude, longitude float64) error
	OverrideWatchdog(ctx context.Context, bundleIDs []string, timeout time.Duration) error
	// SetupKeyboard turns off the software keyboard behaviours that make
	// typed input nondeterministic.
	SetupKeyboard(ctx context.Context) error

	UploadMedia(ctx context.Context, paths []string) error
	Diagnostics(ctx context.Context) ([]Diagnostic, error)
	ServicePID(ctx context.Context, bundleID string) (int, error)
	ProcessInfo(ctx context.Context, pid int) (ProcessInfo, error)
}

// Set is a collection of targets on one host.
type Set interface {
	Targets(ctx context.Context) ([]Target, error)
	Create(ctx context.Context, cfg Configuration) (Target, error)
	Configurations(ctx context.Context) ([]Configuration, error)
}

// MissingConfigurations returns the entries of wanted that are not present in
// have, preserving wanted's order.
func MissingConfigurations(wanted, have []Configuration) []Configuration {
	present := make(map[string]bool, len(have))
	for _, c := range have {
		present[c.Key()] = true
	}

	var out []Configuration
	for _, c := range wanted {
		if !present[c.Key()] {
			out = append(out, c)
		}
	}
	return out
}
