// Package doctor checks a loaded simdeck configuration against the host it
// will run on.
package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/mattjoyce/simdeck/internal/config"
	"github.com/mattjoyce/simdeck/internal/device"
)

// Result holds the outcome of a check run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor checks configuration against the host and the device set.
type Doctor struct {
	cfg      *config.Config
	set      device.Set
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
}

// New creates a Doctor. set may be nil, in which case device checks are
// skipped.
func New(cfg *config.Config, set device.Set) *Doctor {
	return &Doctor{cfg: cfg, set: set, lookPath: exec.LookPath, stat: os.Stat}
}

// Check runs all checks and returns a result.
func (d *Doctor) Check(ctx context.Context) *Result {
	r := &Result{Valid: true}

	d.checkBackend(r)
	d.checkState(r)
	d.checkUpload(r)
	d.checkAPI(r)
	d.checkDefaults(ctx, r)
	d.warnMissingEnvVars(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) checkBackend(r *Result) {
	if _, err := d.lookPath(d.cfg.Backend.Xcrun); err != nil {
		d.addError(r, "backend", "backend.xcrun",
			fmt.Sprintf("%q not found on PATH (install Xcode command line tools)", d.cfg.Backend.Xcrun))
	}
	if ds := d.cfg.Backend.DeviceSet; ds != "" {
		info, err := d.stat(ds)
		switch {
		case err != nil:
			d.addError(r, "backend", "backend.device_set", fmt.Sprintf("device set %q: %v", ds, err))
		case !info.IsDir():
			d.addError(r, "backend", "backend.device_set", fmt.Sprintf("device set %q is not a directory", ds))
		}
	}
}

func (d *Doctor) checkState(r *Result) {
	if d.cfg.State.Driver != "sqlite" {
		return
	}
	dir := d.cfg.StateDir()
	if _, err := d.stat(dir); errors.Is(err, fs.ErrNotExist) {
		d.addWarning(r, "state", "state.path",
			fmt.Sprintf("state directory %q does not exist; it will be created", dir))
	}
}

func (d *Doctor) checkUpload(r *Result) {
	if _, err := d.stat(d.cfg.Upload.AuxDir); errors.Is(err, fs.ErrNotExist) {
		d.addWarning(r, "upload", "upload.aux_dir",
			fmt.Sprintf("aux directory %q does not exist; it will be created on first upload", d.cfg.Upload.AuxDir))
	}
}

func (d *Doctor) checkAPI(r *Result) {
	if d.cfg.API.APIKey != "" {
		return
	}
	host, _, err := net.SplitHostPort(d.cfg.API.Listen)
	if err != nil {
		d.addError(r, "api", "api.listen", fmt.Sprintf("invalid listen address %q: %v", d.cfg.API.Listen, err))
		return
	}
	if !isLoopback(host) {
		d.addWarning(r, "api", "api.api_key",
			fmt.Sprintf("listen address %q is reachable off-host and no api_key is set", d.cfg.API.Listen))
	}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// checkDefaults reports default configurations not yet present in the set.
func (d *Doctor) checkDefaults(ctx context.Context, r *Result) {
	wanted := d.cfg.Defaults.DeviceConfigurations()
	if d.set == nil || len(wanted) == 0 {
		return
	}
	have, err := d.set.Configurations(ctx)
	if err != nil {
		d.addError(r, "backend", "", fmt.Sprintf("list device configurations: %v", err))
		return
	}
	for _, c := range device.MissingConfigurations(wanted, have) {
		d.addWarning(r, "defaults", "defaults.configurations",
			fmt.Sprintf("%s (%s) is missing; run `simdeck create --all-missing-defaults`", c.Device, c.OS))
	}
}

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// warnMissingEnvVars warns about ${VAR} references left unresolved.
func (d *Doctor) warnMissingEnvVars(r *Result) {
	fields := map[string]string{
		"state.redis.addr":     d.cfg.State.Redis.Addr,
		"state.redis.password": d.cfg.State.Redis.Password,
		"backend.device_set":   d.cfg.Backend.DeviceSet,
	}
	for _, field := range []string{"state.redis.addr", "state.redis.password", "backend.device_set"} {
		for _, m := range envVarRe.FindAllStringSubmatch(fields[field], -1) {
			d.addWarning(r, "env_vars", field, fmt.Sprintf("environment variable ${%s} not set", m[1]))
		}
	}
}

// FormatHuman returns a human-readable report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.Valid && len(r.Warnings) == 0 {
		b.WriteString("All checks passed.\n")
		return b.String()
	}

	if r.Valid {
		fmt.Fprintf(&b, "Checks passed (%d warning(s))\n", len(r.Warnings))
	} else {
		fmt.Fprintf(&b, "Checks failed (%d error(s), %d warning(s))\n", len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		writeIssue(&b, "ERROR", e)
	}
	for _, w := range r.Warnings {
		writeIssue(&b, "WARN ", w)
	}
	return b.String()
}

func writeIssue(b *strings.Builder, level string, i Issue) {
	if i.Field != "" {
		fmt.Fprintf(b, "  %s [%s] %s: %s\n", level, i.Category, i.Field, i.Message)
		return
	}
	fmt.Fprintf(b, "  %s [%s] %s\n", level, i.Category, i.Message)
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
