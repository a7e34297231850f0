package dispatch

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/mattjoyce/simdeck/internal/action"
	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/runner"
)

// Dispatcher maps actions to runnables.
type Dispatcher struct {
	providers []Provider
	metrics   *Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithProviders appends generic providers after CustomProvider, in priority
// order.
func WithProviders(p ...Provider) Option {
	return func(d *Dispatcher) {
		d.providers = append(d.providers, p...)
	}
}

// WithMetrics records Execute outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New creates a Dispatcher. CustomProvider is always consulted first.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{providers: []Provider{CustomProvider{}}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch returns the runnable for a against t. It never returns nil.
func (d *Dispatcher) Dispatch(a action.Action, t device.Target, c Context) runner.Runnable {
	c = c.WithAction(a).WithTarget(t)
	if a == nil {
		return runner.Unimplemented{Tag: "<nil>"}
	}

	for _, p := range d.providers {
		if r, ok := p.Provide(c); ok && r != nil {
			return r
		}
	}
	return builtin(c)
}

// builtin is the table of concrete handlers.
func builtin(c Context) runner.Runnable {
	switch a := c.Action.(type) {
	case action.List:
		return listRunner(c)
	case action.Create:
		return createRunner(c, a)
	}

	// Everything below operates on a selected target.
	t := c.Target
	if t == nil {
		if _, ok := handledOnTarget[c.Action.Tag()]; ok {
			tag := c.Action.Tag()
			return runner.Func(func(context.Context) runner.Result {
				return runner.Failure(runner.KindMissing, "%s: no target selected", tag)
			})
		}
		return runner.Unimplemented{Tag: string(c.Action.Tag())}
	}

	switch a := c.Action.(type) {
	case action.Boot:
		return simple(c, events.NameBoot, a.Options, func(ctx context.Context) error {
			return t.Boot(ctx, a.Options)
		})
	case action.Shutdown:
		return simple(c, events.NameShutdown, nil, t.Shutdown)
	case action.Erase:
		return simple(c, events.NameErase, nil, t.Erase)
	case action.Delete:
		return simple(c, events.NameDelete, nil, t.Delete)
	case action.Focus:
		return simple(c, events.NameFocus, nil, t.Focus)
	case action.Approve:
		return simple(c, events.NameApprove, a.BundleIDs, func(ctx context.Context) error {
			return t.Approve(ctx, a.BundleIDs)
		})
	case action.ClearKeychain:
		return simple(c, events.NameClearKeychain, a.BundleID, func(ctx context.Context) error {
			return t.ClearKeychain(ctx, a.BundleID)
		})
	case action.Launch:
		return launchRunner(c, a.Config, false)
	case action.Relaunch:
		return launchRunner(c, a.Config, true)
	case action.Terminate:
		return simple(c, events.NameTerminate, a.BundleID, func(ctx context.Context) error {
			return t.Terminate(ctx, a.BundleID)
		})
	case action.Open:
		return simple(c, events.NameOpen, a.URL, func(ctx context.Context) error {
			return t.OpenURL(ctx, a.URL)
		})
	case action.Tap:
		ev := device.InputEvent{Kind: device.InputTap, X: a.X, Y: a.Y}
		return simple(c, events.NameTap, ev, func(ctx context.Context) error {
			return t.Inject(ctx, ev)
		})
	case action.Input:
		return simple(c, events.NameInput, a.Event, func(ctx context.Context) error {
			return t.Inject(ctx, a.Event)
		})
	case action.SetLocation:
		return simple(c, events.NameSetLocation, a, func(ctx context.Context) error {
			return t.SetLocation(ctx, a.Latitude, a.Longitude)
		})
	case action.WatchdogOverride:
		return simple(c, events.NameWatchdogOverride, a, func(ctx context.Context) error {
			return t.OverrideWatchdog(ctx, a.BundleIDs, a.Timeout)
		})
	case action.KeyboardOverride:
		return simple(c, events.NameKeyboardOverride, nil, t.SetupKeyboard)
	case action.LaunchAgent:
		return agentRunner(c, a.Config)
	case action.Upload:
		return runner.UploadRunner{
			Reporter:     c.Reporter,
			Target:       t,
			Diagnostics:  a.Diagnostics,
			AuxDir:       auxDir(c),
			MediaPattern: c.Controls.MediaPattern,
		}
	case action.Search:
		return runner.SearchRunner{Reporter: c.Reporter, Target: t, Query: a.Query}
	case action.ServiceInfo:
		return runner.ServiceInfoRunner{Reporter: c.Reporter, Target: t, BundleID: a.BundleID}
	case action.Diagnose:
		return diagnoseRunner(c, a.Name)
	}

	return runner.Unimplemented{Tag: string(c.Action.Tag())}
}

// handledOnTarget lists tags the table serves once a target is selected.
var handledOnTarget = map[action.Tag]struct{}{
	action.TagBoot: {}, action.TagShutdown: {}, action.TagErase: {}, action.TagDelete: {},
	action.TagFocus: {}, action.TagApprove: {}, action.TagClearKeychain: {}, action.TagLaunch: {},
	action.TagRelaunch: {}, action.TagTerminate: {}, action.TagOpen: {}, action.TagTap: {},
	action.TagInput: {}, action.TagSetLocation: {}, action.TagWatchdogOverride: {},
	action.TagKeyboardOverride: {}, action.TagLaunchAgent: {},
	action.TagUpload: {}, action.TagSearch: {}, action.TagServiceInfo: {}, action.TagDiagnose: {},
}

func simple(c Context, name events.Name, subject any, fn func(ctx context.Context) error) runner.Runnable {
	return runner.ActionRunner{
		Reporter: c.Reporter,
		Name:     name,
		Subject:  subject,
		Target:   c.targetID(),
		Body: func(ctx context.Context) (any, error) {
			return nil, fn(ctx)
		},
	}
}

// launched is the Ended subject of launch and relaunch.
type launched struct {
	BundleID string `json:"bundle_id"`
	PID      int    `json:"pid"`
}

func launchRunner(c Context, cfg device.LaunchConfig, relaunch bool) runner.Runnable {
	t := c.Target
	name := events.NameLaunch
	if relaunch {
		name = events.NameRelaunch
	}
	return runner.ActionRunner{
		Reporter: c.Reporter,
		Name:     name,
		Subject:  cfg,
		Target:   c.targetID(),
		Body: func(ctx context.Context) (any, error) {
			if relaunch {
				if err := t.Terminate(ctx, cfg.BundleID); err != nil && !errors.Is(err, device.ErrNotFound) {
					return nil, err
				}
			}
			pid, err := t.Launch(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return launched{BundleID: cfg.BundleID, PID: pid}, nil
		},
	}
}

// agentLaunched is the Ended subject of launch-agent.
type agentLaunched struct {
	Path string `json:"path"`
	PID  int    `json:"pid"`
}

func agentRunner(c Context, cfg device.AgentLaunchConfig) runner.Runnable {
	t := c.Target
	return runner.ActionRunner{
		Reporter: c.Reporter,
		Name:     events.NameLaunch,
		Subject:  cfg,
		Target:   c.targetID(),
		Body: func(ctx context.Context) (any, error) {
			pid, err := t.LaunchAgent(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return agentLaunched{Path: cfg.Path, PID: pid}, nil
		},
	}
}

func listRunner(c Context) runner.Runnable {
	set := c.Controls.Set
	return runner.DiscreteRunner{
		Reporter: c.Reporter,
		Name:     events.NameList,
		Target:   "device set",
		Body: func(ctx context.Context) (any, error) {
			if set == nil {
				return nil, device.ErrUnsupported
			}
			targets, err := set.Targets(ctx)
			if err != nil {
				return nil, err
			}
			infos := make([]device.Info, 0, len(targets))
			for _, t := range targets {
				info, err := t.Info(ctx)
				if err != nil {
					return nil, err
				}
				infos = append(infos, info)
			}
			return infos, nil
		},
	}
}

func createRunner(c Context, a action.Create) runner.Runnable {
	if c.Controls.Set == nil {
		return runner.Func(func(context.Context) runner.Result {
			return runner.Failure(runner.KindMissing, "create: no device set configured")
		})
	}
	var recorder runner.LastUsedRecorder
	if c.Defaults != nil {
		recorder = c.Defaults
	}
	cr := runner.CreateRunner{
		Reporter: c.Reporter,
		Set:      c.Controls.Set,
		Defaults: recorder,
		Wanted:   c.Controls.DefaultConfigurations,
	}
	if !a.AllMissingDefaults {
		cr.Configuration = a.Configuration
	}
	return cr
}

func diagnoseRunner(c Context, name string) runner.Runnable {
	t := c.Target
	return runner.DiscreteRunner{
		Reporter: c.Reporter,
		Name:     events.NameDiagnostic,
		Target:   c.targetID(),
		Body: func(ctx context.Context) (any, error) {
			diags, err := t.Diagnostics(ctx)
			if err != nil {
				return nil, err
			}
			if name == "" {
				return diags, nil
			}
			var out []device.Diagnostic
			for _, d := range diags {
				if d.Name == name || d.ShortName == name {
					out = append(out, d)
				}
			}
			if len(out) == 0 {
				return nil, device.ErrNotFound
			}
			return out, nil
		},
	}
}

func auxDir(c Context) string {
	if c.Controls.AuxDir == "" || c.Target == nil {
		return c.Controls.AuxDir
	}
	return filepath.Join(c.Controls.AuxDir, c.Target.UDID())
}
