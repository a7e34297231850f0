package runner

import (
	"context"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
)

// LastUsedRecorder persists the most recently operated-on target.
type LastUsedRecorder interface {
	UpdateLastUsed(ctx context.Context, selector string) error
}

// CreateRunner instantiates configurations one after another.
type CreateRunner struct {
	Reporter *events.Reporter
	Set      device.Set
	Defaults LastUsedRecorder

	// Configuration, when set, is the single configuration to create.
	Configuration *device.Configuration
	// Wanted lists the default configurations; used when Configuration is nil
	// to create every entry that the set does not have yet.
	Wanted []device.Configuration
}

// Run creates each resolved configuration in order and stops at the first
// failure.
func (r CreateRunner) Run(ctx context.Context) Result {
	configs, res := r.resolve(ctx)
	if !res.OK() {
		return res
	}

	created := make([]device.Info, 0, len(configs))
	for _, cfg := range configs {
		r.Reporter.Report(events.NameCreate, events.PhaseStarted, cfg)

		t, err := callTarget(ctx, func(ctx context.Context) (device.Target, error) {
			return r.Set.Create(ctx, cfg)
		})
		if err != nil {
			return FailureFromError(err, "create %s failed", cfg)
		}

		udid := t.UDID()
		if r.Defaults != nil {
			if err := r.Defaults.UpdateLastUsed(ctx, udid); err != nil {
				return FailureFromError(err, "create %s: record last used %s", cfg, udid)
			}
		}

		info := device.Info{UDID: udid, Name: cfg.String(), State: device.StateShutdown, Device: cfg.Device, OS: cfg.OS}
		r.Reporter.Report(events.NameCreate, events.PhaseEnded, info)
		created = append(created, info)
	}
	return Success(created)
}

func (r CreateRunner) resolve(ctx context.Context) ([]device.Configuration, Result) {
	if r.Configuration != nil {
		return []device.Configuration{*r.Configuration}, Success(nil)
	}

	have, err := call(ctx, func(ctx context.Context) (any, error) {
		return r.Set.Configurations(ctx)
	})
	if err != nil {
		return nil, FailureFromError(err, "create: list existing configurations")
	}
	existing, _ := have.([]device.Configuration)
	return device.MissingConfigurations(r.Wanted, existing), Success(nil)
}

func callTarget(ctx context.Context, fn func(ctx context.Context) (device.Target, error)) (device.Target, error) {
	out, err := call(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, err
	}
	t, _ := out.(device.Target)
	if t == nil {
		return nil, device.ErrNotFound
	}
	return t, nil
}
