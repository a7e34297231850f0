package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattjoyce/simdeck/internal/config"
	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/log"
	"github.com/mattjoyce/simdeck/internal/simctl"
	"github.com/mattjoyce/simdeck/internal/state"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

// errActionFailed marks an exit caused by a failed Result; its message has
// already been printed.
var errActionFailed = errors.New("action failed")

// backend is the device set plus direct lookup by UDID.
type backend interface {
	device.Set
	Lookup(ctx context.Context, udid string) (device.Target, error)
}

// deps builds the collaborators of a command. Tests replace it.
type deps struct {
	newBackend  func(cfg *config.Config) backend
	openDefault func(ctx context.Context, cfg *config.Config) (state.Defaults, error)
	stdout      io.Writer
	stderr      io.Writer
}

func defaultDeps() deps {
	return deps{
		newBackend: func(cfg *config.Config) backend {
			return simctl.NewSet(simctl.Options{
				Xcrun:     cfg.Backend.Xcrun,
				DeviceSet: cfg.Backend.DeviceSet,
				Timeouts: simctl.Timeouts{
					Default: cfg.Backend.Timeouts.Default,
					Boot:    cfg.Backend.Timeouts.Boot,
					Create:  cfg.Backend.Timeouts.Create,
					Erase:   cfg.Backend.Timeouts.Erase,
				},
			})
		},
		openDefault: func(ctx context.Context, cfg *config.Config) (state.Defaults, error) {
			return state.Open(ctx, state.Options{
				Driver:        cfg.State.Driver,
				Path:          cfg.State.Path,
				RedisAddr:     cfg.State.Redis.Addr,
				RedisPassword: cfg.State.Redis.Password,
				RedisDB:       cfg.State.Redis.DB,
				RedisPrefix:   cfg.State.Redis.Prefix,
			})
		},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func runCLI(cliArgs []string) int {
	return runWith(cliArgs, defaultDeps())
}

func runWith(cliArgs []string, d deps) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(d)
	root.SetArgs(cliArgs)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errActionFailed) {
			fmt.Fprintf(d.stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	format      string
	logLevel    string
	noLock      bool
	lockTimeout time.Duration
}

func newRootCmd(d deps) *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:   "simdeck [flags] [selector...] <action> [args] [<action> [args]...]",
		Short: "Drive iOS simulators from the command line",
		Long: `simdeck runs actions against simulators selected by UDID, name, "booted"
or "all". With no selector the last-used simulator is targeted.

Several actions may be chained; the chain stops at the first failure:

  simdeck booted launch com.example.app -- open https://example.com
  simdeck "iPhone 15" erase boot --await-services
  simdeck create --all-missing-defaults`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runActions(cmd.Context(), d, gf, args)
		},
	}
	root.SetOut(d.stdout)
	root.SetErr(d.stderr)

	// Flags must precede the selector; everything after belongs to actions.
	root.Flags().SetInterspersed(false)

	pf := root.PersistentFlags()
	pf.StringVar(&gf.configPath, "config", "", "Path to config file (default: $"+config.EnvConfigPath+", ~/.config/simdeck/config.yaml, ./simdeck.yaml)")
	pf.StringVar(&gf.format, "format", "", "Event output format: json or human (default from config)")
	pf.StringVar(&gf.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	pf.BoolVar(&gf.noLock, "no-lock", false, "Do not take the per-target lock")
	pf.DurationVar(&gf.lockTimeout, "lock-timeout", 30*time.Second, "How long to wait for another simdeck using the same target")

	root.AddCommand(newRunCmd(d, &gf), newListenCmd(d, &gf), newDoctorCmd(d, &gf), newVersionCmd(d))
	return root
}

// session is the loaded configuration plus its runtime collaborators.
type session struct {
	cfg      *config.Config
	backend  backend
	defaults state.Defaults
	format   events.Format
}

func openSession(ctx context.Context, d deps, gf globalFlags) (*session, error) {
	cfg, err := config.LoadOrDefault(gf.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Service.LogLevel
	if gf.logLevel != "" {
		level = gf.logLevel
	}
	log.Setup(level, cfg.Service.LogFormat)

	formatName := cfg.Service.OutputFormat
	if gf.format != "" {
		formatName = gf.format
	}
	format, err := events.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	defaults, err := d.openDefault(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open defaults store: %w", err)
	}

	return &session{
		cfg:      cfg,
		backend:  d.newBackend(cfg),
		defaults: defaults,
		format:   format,
	}, nil
}

func (s *session) Close() error {
	return s.defaults.Close()
}
