package simctl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattjoyce/simdeck/internal/device"
)

// Timeouts bounds each kind of simctl call.
type Timeouts struct {
	Default time.Duration
	Boot    time.Duration
	Create  time.Duration
	Erase   time.Duration
}

// Options configures a Set.
type Options struct {
	Xcrun     string
	DeviceSet string
	Timeouts  Timeouts
	Runner    Runner
}

// Set is a device.Set over one simctl device set.
type Set struct {
	xcrun     string
	deviceSet string
	timeouts  Timeouts
	runner    Runner

	mu      sync.Mutex
	targets map[string]*Target
}

var _ device.Set = (*Set)(nil)

func NewSet(opts Options) *Set {
	if opts.Xcrun == "" {
		opts.Xcrun = "xcrun"
	}
	if opts.Runner == nil {
		opts.Runner = NewExecRunner()
	}
	if opts.Timeouts.Default <= 0 {
		opts.Timeouts.Default = time.Minute
	}
	return &Set{
		xcrun:     opts.Xcrun,
		deviceSet: opts.DeviceSet,
		timeouts:  opts.Timeouts,
		runner:    opts.Runner,
		targets:   make(map[string]*Target),
	}
}

// simctl runs `xcrun simctl [--set dir] args...` and returns stdout.
func (s *Set) simctl(ctx context.Context, timeout time.Duration, env []string, args ...string) ([]byte, error) {
	full := []string{"simctl"}
	if s.deviceSet != "" {
		full = append(full, "--set", s.deviceSet)
	}
	full = append(full, args...)
	if timeout <= 0 {
		timeout = s.timeouts.Default
	}
	return s.runner.Run(ctx, Command{Name: s.xcrun, Args: full, Env: env, Timeout: timeout})
}

func (s *Set) list(ctx context.Context) (*listing, error) {
	out, err := s.simctl(ctx, 0, nil, "list", "--json", "devices", "runtimes", "devicetypes")
	if err != nil {
		return nil, err
	}
	return parseListing(out)
}

func (s *Set) records(ctx context.Context) ([]record, error) {
	l, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return l.records(), nil
}

// target returns the cached handle for udid so attached sinks survive lookups.
func (s *Set) target(udid string) *Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.targets[udid]; ok {
		return t
	}
	t := newTarget(s, udid)
	s.targets[udid] = t
	return t
}

// Targets returns every available simulator.
func (s *Set) Targets(ctx context.Context) ([]device.Target, error) {
	recs, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]device.Target, 0, len(recs))
	for _, r := range recs {
		out = append(out, s.target(r.UDID))
	}
	return out, nil
}

// Configurations returns what every available simulator was created from.
func (s *Set) Configurations(ctx context.Context) ([]device.Configuration, error) {
	recs, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]device.Configuration, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.configuration())
	}
	return out, nil
}

// Create runs `simctl create` for cfg and returns the new simulator.
func (s *Set) Create(ctx context.Context, cfg device.Configuration) (device.Target, error) {
	l, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	typeID, err := l.deviceTypeID(cfg.Device)
	if err != nil {
		return nil, err
	}
	runtimeID, err := l.runtimeID(cfg.OS)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = cfg.Device
	}
	out, err := s.simctl(ctx, s.timeouts.Create, nil, "create", name, typeID, runtimeID)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", cfg, err)
	}
	udid := strings.TrimSpace(string(out))
	if udid == "" {
		return nil, fmt.Errorf("create %s: simctl printed no udid", cfg)
	}

	return s.target(udid), nil
}

// Lookup returns the simulator with udid.
func (s *Set) Lookup(ctx context.Context, udid string) (device.Target, error) {
	recs, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if r.UDID == udid {
			return s.target(udid), nil
		}
	}
	return nil, fmt.Errorf("simulator %s: %w", udid, device.ErrNotFound)
}

func (s *Set) record(ctx context.Context, udid string) (record, error) {
	recs, err := s.records(ctx)
	if err != nil {
		return record{}, err
	}
	for _, r := range recs {
		if r.UDID == udid {
			return r, nil
		}
	}
	return record{}, fmt.Errorf("simulator %s: %w", udid, device.ErrNotFound)
}
