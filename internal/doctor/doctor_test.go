package doctor

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/simdeck/internal/config"
	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/device/mocks"
)

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.State.Path = dir + "/defaults.db"
	cfg.Upload.AuxDir = dir
	return cfg
}

func newDoctor(cfg *config.Config, set device.Set) *Doctor {
	d := New(cfg, set)
	d.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	return d
}

func TestCheck_Valid(t *testing.T) {
	t.Parallel()
	r := newDoctor(validConfig(t), nil).Check(context.Background())
	assert.True(t, r.Valid, "errors: %v", r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, "All checks passed.\n", FormatHuman(r))
}

func TestCheck_MissingXcrun(t *testing.T) {
	t.Parallel()
	d := newDoctor(validConfig(t), nil)
	d.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	r := d.Check(context.Background())
	require.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "backend.xcrun", r.Errors[0].Field)
}

func TestCheck_DeviceSetNotDirectory(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	file := cfg.Upload.AuxDir + "/not-a-dir"
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	cfg.Backend.DeviceSet = file

	r := newDoctor(cfg, nil).Check(context.Background())
	require.False(t, r.Valid)
	assert.Contains(t, r.Errors[0].Message, "is not a directory")
}

func TestCheck_MissingDirectoriesWarn(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.State.Path = cfg.Upload.AuxDir + "/nested/defaults.db"
	cfg.Upload.AuxDir = cfg.Upload.AuxDir + "/artifacts"

	r := newDoctor(cfg, nil).Check(context.Background())
	assert.True(t, r.Valid)
	fields := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		fields = append(fields, w.Field)
	}
	assert.ElementsMatch(t, []string{"state.path", "upload.aux_dir"}, fields)
}

func TestCheck_OpenListenWithoutKey(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.API.Listen = "0.0.0.0:8787"

	r := newDoctor(cfg, nil).Check(context.Background())
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "api.api_key", r.Warnings[0].Field)

	cfg.API.APIKey = "secret"
	assert.Empty(t, newDoctor(cfg, nil).Check(context.Background()).Warnings)
}

func TestCheck_InvalidListen(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.API.Listen = "nonsense"

	r := newDoctor(cfg, nil).Check(context.Background())
	assert.False(t, r.Valid)
}

func TestCheck_MissingDefaultConfigurations(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	set := mocks.NewMockSet(ctrl)
	set.EXPECT().Configurations(gomock.Any()).Return([]device.Configuration{
		{Device: "iPhone 15", OS: "iOS 17.5"},
	}, nil)

	cfg := validConfig(t)
	cfg.Defaults.Configurations = []config.ConfigurationSpec{
		{Device: "iPhone 15", OS: "iOS 17.5"},
		{Device: "iPad Pro", OS: "iOS 17.5"},
	}

	r := newDoctor(cfg, set).Check(context.Background())
	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0].Message, "iPad Pro")
}

func TestCheck_ConfigurationsError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	set := mocks.NewMockSet(ctrl)
	set.EXPECT().Configurations(gomock.Any()).Return(nil, errors.New("simctl exploded"))

	cfg := validConfig(t)
	cfg.Defaults.Configurations = []config.ConfigurationSpec{{Device: "iPhone 15", OS: "iOS 17.5"}}

	r := newDoctor(cfg, set).Check(context.Background())
	assert.False(t, r.Valid)
	assert.Contains(t, r.Errors[0].Message, "simctl exploded")
}

func TestCheck_UnresolvedEnvVar(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.State.Redis.Password = "${SIMDECK_TEST_UNSET_PASSWORD}"

	r := newDoctor(cfg, nil).Check(context.Background())
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "env_vars", r.Warnings[0].Category)
	assert.Contains(t, r.Warnings[0].Message, "SIMDECK_TEST_UNSET_PASSWORD")
}

func TestFormatHuman_ErrorsAndWarnings(t *testing.T) {
	t.Parallel()
	r := &Result{
		Valid:    false,
		Errors:   []Issue{{Category: "backend", Field: "backend.xcrun", Message: "missing"}},
		Warnings: []Issue{{Category: "api", Message: "open"}},
	}
	out := FormatHuman(r)
	assert.True(t, strings.HasPrefix(out, "Checks failed (1 error(s), 1 warning(s))"))
	assert.Contains(t, out, "ERROR [backend] backend.xcrun: missing")
	assert.Contains(t, out, "WARN  [api] open")
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()
	out, err := FormatJSON(&Result{Valid: true})
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)
}
