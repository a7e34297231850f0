package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/simdeck/internal/action"
	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/dispatch"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/lock"
	"github.com/mattjoyce/simdeck/internal/log"
	"github.com/mattjoyce/simdeck/internal/state"
)

// splitSelectors separates the leading target selectors from the action
// tokens that follow them.
func splitSelectors(args []string) (selectors, rest []string) {
	for i, arg := range args {
		if action.IsKeyword(arg) {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

func runActions(ctx context.Context, d deps, gf globalFlags, args []string) error {
	selectors, rest := splitSelectors(args)
	if len(rest) == 0 {
		return fmt.Errorf("no action given after selector %q", selectors)
	}
	actions, err := action.Parse(rest)
	if err != nil {
		return err
	}
	return execute(ctx, d, gf, selectors, actions)
}

func newRunCmd(d deps, gf *globalFlags) *cobra.Command {
	var scriptPath string
	cmd := &cobra.Command{
		Use:   "run -f script.yaml [selector...]",
		Short: "Run the actions of a YAML script",
		Long: `Run the steps of a YAML action script in order against the selected
simulators. Selectors on the command line override the script's target.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath == "" {
				return errors.New("--file is required")
			}
			f, err := os.Open(scriptPath)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer func() { _ = f.Close() }()

			script, actions, err := action.DecodeScript(f)
			if err != nil {
				return err
			}
			selectors := args
			if len(selectors) == 0 && script.Target != "" {
				selectors = []string{script.Target}
			}
			return execute(cmd.Context(), d, *gf, selectors, actions)
		},
	}
	cmd.Flags().StringVarP(&scriptPath, "file", "f", "", "Path to the YAML script")
	return cmd
}

// execute resolves targets and runs actions against each in turn. A failure
// on one target stops the run.
func execute(ctx context.Context, d deps, gf globalFlags, selectors []string, actions []action.Action) error {
	sess, err := openSession(ctx, d, gf)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	controls, err := sess.controls()
	if err != nil {
		return err
	}
	base := dispatch.Context{
		Reporter: events.NewReporter(events.NewWriterSink(d.stdout, sess.format)),
		Format:   sess.format,
		Defaults: sess.defaults,
		Controls: controls,
		Logger:   log.WithComponent("cli"),
	}
	dispatcher := dispatch.New()

	targets, err := sess.resolveTargets(ctx, selectors, actions)
	if err != nil {
		return err
	}

	for _, t := range targets {
		if err := sess.runOnTarget(ctx, dispatcher, base, gf, t, actions, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) controls() (dispatch.Controls, error) {
	c := dispatch.Controls{
		Set:                   s.backend,
		AuxDir:                s.cfg.Upload.AuxDir,
		DefaultConfigurations: s.cfg.Defaults.DeviceConfigurations(),
	}
	if s.cfg.Upload.MediaPattern != "" {
		re, err := regexp.Compile(s.cfg.Upload.MediaPattern)
		if err != nil {
			return c, fmt.Errorf("upload.media_pattern: %w", err)
		}
		c.MediaPattern = re
	}
	return c, nil
}

// resolveTargets maps selectors to targets. With no selector, actions that
// need no target run once with a nil target; everything else goes to the
// last-used simulator.
func (s *session) resolveTargets(ctx context.Context, selectors []string, actions []action.Action) ([]device.Target, error) {
	if len(selectors) > 0 {
		targets, err := device.Select(ctx, s.backend, selectors)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			return nil, fmt.Errorf("no simulator matches %q: %w", selectors, device.ErrNotFound)
		}
		return targets, nil
	}

	if !needsTarget(actions) {
		return []device.Target{nil}, nil
	}

	udid, err := s.defaults.LastUsed(ctx)
	if errors.Is(err, state.ErrNoDefault) {
		return nil, errors.New("no simulator selected and no last-used simulator recorded")
	}
	if err != nil {
		return nil, err
	}
	t, err := s.backend.Lookup(ctx, udid)
	if err != nil {
		return nil, fmt.Errorf("last-used simulator: %w", err)
	}
	return []device.Target{t}, nil
}

// needsTarget reports whether any action operates on a specific target.
func needsTarget(actions []action.Action) bool {
	for _, a := range actions {
		switch a.(type) {
		case action.List, action.Create:
		default:
			return true
		}
	}
	return false
}

// mutates reports whether any action changes the target. Read-only chains
// run without the target lock.
func mutates(actions []action.Action) bool {
	for _, a := range actions {
		if !action.ReadOnly(a) {
			return true
		}
	}
	return false
}

func (s *session) runOnTarget(ctx context.Context, dispatcher *dispatch.Dispatcher, base dispatch.Context, gf globalFlags, t device.Target, actions []action.Action, d deps) error {
	if t != nil && !gf.noLock && mutates(actions) {
		lockCtx, cancel := context.WithTimeout(ctx, gf.lockTimeout)
		l, err := lock.Acquire(lockCtx, filepath.Join(s.cfg.StateDir(), "locks"), t.UDID())
		cancel()
		if err != nil {
			return fmt.Errorf("lock %s: %w", t.UDID(), err)
		}
		defer func() { _ = l.Release() }()
	}

	results, ok := dispatcher.Chain(ctx, actions, t, base)

	if t != nil {
		if err := s.defaults.UpdateLastUsed(ctx, t.UDID()); err != nil {
			log.Warn("failed to record last-used simulator", "udid", t.UDID(), "error", err)
		}
	}

	if !ok {
		last := results[len(results)-1]
		fmt.Fprintf(d.stderr, "Error: %s\n", last.Message)
		return errActionFailed
	}
	return nil
}
