package simctl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
)

// Target is one simulator.
type Target struct {
	set      *Set
	udid     string
	fanout   *events.Fanout
	reporter *events.Reporter
}

var _ device.Target = (*Target)(nil)

func newTarget(s *Set, udid string) *Target {
	f := events.NewFanout()
	return &Target{
		set:      s,
		udid:     udid,
		fanout:   f,
		reporter: events.NewReporter(f).ForTarget(udid),
	}
}

func (t *Target) UDID() string { return t.udid }

func (t *Target) Info(ctx context.Context) (device.Info, error) {
	r, err := t.set.record(ctx, t.udid)
	if err != nil {
		return device.Info{}, err
	}
	return r.info(), nil
}

// AttachSink forwards state changes observed by this handle to s.
func (t *Target) AttachSink(s events.Sink) func() {
	return t.fanout.Attach(s)
}

func (t *Target) emitState(st device.State) {
	t.reporter.Report(events.NameState, events.PhaseDiscrete, st)
}

func (t *Target) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	return t.set.simctl(ctx, timeout, nil, args...)
}

func (t *Target) Boot(ctx context.Context, opts device.BootOptions) error {
	if opts.Locale != "" || opts.Scale != "" {
		return fmt.Errorf("boot with locale or scale: %w", device.ErrUnsupported)
	}
	t.emitState(device.StateBooting)

	args := []string{"boot", t.udid}
	if opts.AwaitServices {
		args = []string{"bootstatus", t.udid, "-b"}
	}
	if _, err := t.run(ctx, t.set.timeouts.Boot, args...); err != nil {
		return err
	}
	t.emitState(device.StateBooted)
	return nil
}

func (t *Target) Shutdown(ctx context.Context) error {
	t.emitState(device.StateShuttingDown)
	if _, err := t.run(ctx, 0, "shutdown", t.udid); err != nil {
		return err
	}
	t.emitState(device.StateShutdown)
	return nil
}

func (t *Target) Erase(ctx context.Context) error {
	_, err := t.run(ctx, t.set.timeouts.Erase, "erase", t.udid)
	return err
}

func (t *Target) Delete(ctx context.Context) error {
	_, err := t.run(ctx, 0, "delete", t.udid)
	return err
}

// Focus brings the Simulator app to the front showing this device.
func (t *Target) Focus(ctx context.Context) error {
	_, err := t.set.runner.Run(ctx, Command{
		Name:    "open",
		Args:    []string{"-a", "Simulator", "--args", "-CurrentDeviceUDID", t.udid},
		Timeout: t.set.timeouts.Default,
	})
	return err
}

func (t *Target) Approve(ctx context.Context, bundleIDs []string) error {
	for _, id := range bundleIDs {
		if _, err := t.run(ctx, 0, "privacy", t.udid, "grant", "all", id); err != nil {
			return fmt.Errorf("approve %s: %w", id, err)
		}
	}
	return nil
}

// ClearKeychain resets the whole keychain. simctl cannot scope a reset to
// one application, so a named application is terminated first to keep it
// from holding stale items across the reset.
func (t *Target) ClearKeychain(ctx context.Context, bundleID string) error {
	if bundleID != "" {
		if err := t.Terminate(ctx, bundleID); err != nil && !errors.Is(err, device.ErrNotFound) {
			return err
		}
	}
	_, err := t.run(ctx, 0, "keychain", t.udid, "reset")
	return err
}

func (t *Target) Launch(ctx context.Context, cfg device.LaunchConfig) (int, error) {
	if cfg.BundleID == "" {
		return 0, fmt.Errorf("launch: bundle id is empty")
	}
	args := []string{"launch"}
	if cfg.WaitForDebugger {
		args = append(args, "--wait-for-debugger")
	}
	args = append(args, t.udid, cfg.BundleID)
	args = append(args, cfg.Arguments...)

	// simctl forwards SIMCTL_CHILD_* variables to the launched process.
	env := make([]string, 0, len(cfg.Environment))
	for k, v := range cfg.Environment {
		env = append(env, "SIMCTL_CHILD_"+k+"="+v)
	}

	out, err := t.set.simctl(ctx, 0, env, args...)
	if err != nil {
		return 0, err
	}
	return parseLaunchPID(out)
}

// LaunchAgent starts a helper executable detached inside the simulator and
// returns its pid.
func (t *Target) LaunchAgent(ctx context.Context, cfg device.AgentLaunchConfig) (int, error) {
	if cfg.Path == "" {
		return 0, fmt.Errorf("launch agent: path is empty")
	}
	args := []string{"spawn", t.udid, "/bin/sh", "-c", `exec "$0" "$@" >/dev/null 2>&1 & echo $!`, cfg.Path}
	args = append(args, cfg.Arguments...)

	env := make([]string, 0, len(cfg.Environment))
	for k, v := range cfg.Environment {
		env = append(env, "SIMCTL_CHILD_"+k+"="+v)
	}

	out, err := t.set.simctl(ctx, 0, env, args...)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("launch agent %s: unexpected output %q", cfg.Path, out)
	}
	return pid, nil
}

var keyboardDefaults = []struct {
	key   string
	value string
}{
	{"KeyboardAutocorrection", "NO"},
	{"KeyboardPrediction", "NO"},
	{"KeyboardAutocapitalization", "NO"},
	{"KeyboardCheckSpelling", "NO"},
	{"KeyboardDidShowProductivityTutorial", "YES"},
	{"DidShowContinuousPathIntroduction", "YES"},
}

// SetupKeyboard turns off autocorrection and friends and marks the keyboard
// tutorials as seen, so typed input arrives verbatim.
func (t *Target) SetupKeyboard(ctx context.Context) error {
	for _, d := range keyboardDefaults {
		if _, err := t.run(ctx, 0, "spawn", t.udid, "defaults", "write", "com.apple.Preferences", d.key, "-bool", d.value); err != nil {
			return fmt.Errorf("keyboard %s: %w", d.key, err)
		}
	}
	return nil
}

func (t *Target) Terminate(ctx context.Context, bundleID string) error {
	_, err := t.run(ctx, 0, "terminate", t.udid, bundleID)
	var exitErr *ExitError
	if errors.As(err, &exitErr) && strings.Contains(exitErr.Stderr, "found nothing to terminate") {
		return fmt.Errorf("%s is not running: %w", bundleID, device.ErrNotFound)
	}
	return err
}

func (t *Target) OpenURL(ctx context.Context, url string) error {
	_, err := t.run(ctx, 0, "openurl", t.udid, url)
	return err
}

func (t *Target) Inject(context.Context, device.InputEvent) error {
	return fmt.Errorf("input injection: %w", device.ErrUnsupported)
}

func (t *Target) SetLocation(ctx context.Context, latitude, longitude float64) error {
	coords := strconv.FormatFloat(latitude, 'f', -1, 64) + "," + strconv.FormatFloat(longitude, 'f', -1, 64)
	_, err := t.run(ctx, 0, "location", t.udid, "set", coords)
	return err
}

func (t *Target) OverrideWatchdog(context.Context, []string, time.Duration) error {
	return fmt.Errorf("watchdog override: %w", device.ErrUnsupported)
}

func (t *Target) UploadMedia(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := t.run(ctx, 0, append([]string{"addmedia", t.udid}, paths...)...)
	return err
}

// Diagnostics lists the files under the simulator's log directory.
func (t *Target) Diagnostics(ctx context.Context) ([]device.Diagnostic, error) {
	r, err := t.set.record(ctx, t.udid)
	if err != nil {
		return nil, err
	}
	if r.LogPath == "" {
		return nil, nil
	}

	var out []device.Diagnostic
	err = filepath.WalkDir(r.LogPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.LogPath, path)
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		out = append(out, device.Diagnostic{
			Name:      rel,
			ShortName: strings.TrimSuffix(base, filepath.Ext(base)),
			Path:      path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk logs of %s: %w", t.udid, err)
	}
	return out, nil
}

func (t *Target) ServicePID(ctx context.Context, bundleID string) (int, error) {
	out, err := t.run(ctx, 0, "spawn", t.udid, "launchctl", "list")
	if err != nil {
		return 0, err
	}
	return findServicePID(out, bundleID)
}

// ProcessInfo asks the host's ps; simulator processes are host processes.
func (t *Target) ProcessInfo(ctx context.Context, pid int) (device.ProcessInfo, error) {
	out, err := t.set.runner.Run(ctx, Command{
		Name:    "ps",
		Args:    []string{"-p", strconv.Itoa(pid), "-o", "pid=,comm=,args="},
		Timeout: t.set.timeouts.Default,
	})
	var exitErr *ExitError
	if errors.As(err, &exitErr) && len(strings.TrimSpace(string(out))) == 0 {
		return device.ProcessInfo{}, fmt.Errorf("pid %d: %w", pid, device.ErrNotFound)
	}
	if err != nil {
		return device.ProcessInfo{}, err
	}
	return parsePS(out, pid)
}
