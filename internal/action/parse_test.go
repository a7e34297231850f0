package action

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/search"
)

func TestParse_Chain(t *testing.T) {
	got, err := Parse([]string{
		"boot", "--locale", "fr_FR", "--await-services",
		"approve", "com.example.app", "com.example.other",
		"launch", "--env", "DEBUG=1", "com.example.app", "-v", "--",
		"tap", "10", "20.5",
		"set-location", "51.5", "-0.12",
	})
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, Boot{Options: device.BootOptions{Locale: "fr_FR", AwaitServices: true}}, got[0])
	assert.Equal(t, Approve{BundleIDs: []string{"com.example.app", "com.example.other"}}, got[1])
	assert.Equal(t, Launch{Config: device.LaunchConfig{
		BundleID:    "com.example.app",
		Arguments:   []string{"-v"},
		Environment: map[string]string{"DEBUG": "1"},
	}}, got[2])
	assert.Equal(t, Tap{X: 10, Y: 20.5}, got[3])
	assert.Equal(t, SetLocation{Latitude: 51.5, Longitude: -0.12}, got[4])
}

func TestParse_Create(t *testing.T) {
	got, err := Parse([]string{"create", "--all-missing-defaults"})
	require.NoError(t, err)
	assert.Equal(t, []Action{Create{AllMissingDefaults: true}}, got)

	got, err = Parse([]string{"create", "iPhone 15", "iOS 17.5", "--name", "ci-phone"})
	require.NoError(t, err)
	assert.Equal(t, []Action{Create{Configuration: &device.Configuration{Name: "ci-phone", Device: "iPhone 15", OS: "iOS 17.5"}}}, got)

	_, err = Parse([]string{"create", "iPhone 15"})
	assert.Error(t, err)
}

func TestParse_SearchAndUpload(t *testing.T) {
	got, err := Parse([]string{"search", "--lines", "--in", "system_log", "crash", "re:EXC_\\w+", "upload", "a.png", "b.log"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	s := got[0].(Search)
	assert.True(t, s.Query.Lines)
	assert.Equal(t, []search.Predicate{{Substring: "crash"}, {Regex: `EXC_\w+`}}, s.Query.Mapping["system_log"])

	u := got[1].(Upload)
	require.Len(t, u.Diagnostics, 2)
	assert.Equal(t, "a.png", u.Diagnostics[0].Name)
	assert.True(t, filepath.IsAbs(u.Diagnostics[1].Path))
}

func TestParse_LaunchAgentAndKeyboard(t *testing.T) {
	got, err := Parse([]string{
		"keyboard-override",
		"launch-agent", "--env", "PORT=8100", "/opt/agent/bin/runner", "--verbose", "--",
		"list",
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, KeyboardOverride{}, got[0])
	assert.Equal(t, LaunchAgent{Config: device.AgentLaunchConfig{
		Path:        "/opt/agent/bin/runner",
		Arguments:   []string{"--verbose"},
		Environment: map[string]string{"PORT": "8100"},
	}}, got[1])
	assert.Equal(t, List{}, got[2])

	_, err = Parse([]string{"launch-agent"})
	assert.Error(t, err, "path is required")
}

func TestParse_WatchdogOverride(t *testing.T) {
	got, err := Parse([]string{"watchdog-override", "45", "com.example.app"})
	require.NoError(t, err)
	assert.Equal(t, []Action{WatchdogOverride{BundleIDs: []string{"com.example.app"}, Timeout: 45 * time.Second}}, got)

	got, err = Parse([]string{"watchdog-override", "1m30s", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, got[0].(WatchdogOverride).Timeout)
}

func TestParse_Input(t *testing.T) {
	got, err := Parse([]string{"input", "text", "hello", "input", "key", "40", "input", "button", "home"})
	require.NoError(t, err)
	assert.Equal(t, []Action{
		Input{Event: device.InputEvent{Kind: device.InputText, Text: "hello"}},
		Input{Event: device.InputEvent{Kind: device.InputKey, Code: 40}},
		Input{Event: device.InputEvent{Kind: device.InputButton, Button: "home"}},
	}, got)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"empty", nil},
		{"unknown", []string{"fly"}},
		{"tap missing y", []string{"tap", "1"}},
		{"tap not number", []string{"tap", "x", "2"}},
		{"terminate followed by keyword", []string{"terminate", "boot"}},
		{"bad regex", []string{"search", "re:("}},
		{"bad timeout", []string{"watchdog-override", "soon", "com.x"}},
		{"input kind", []string{"input", "swipe"}},
		{"agent env without value", []string{"launch-agent", "--env", "PORT", "/opt/agent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestPlaceholderCoversEveryTag(t *testing.T) {
	for _, tag := range Tags() {
		a, ok := Placeholder(tag)
		require.True(t, ok, "tag %s", tag)
		assert.Equal(t, tag, a.Tag())
	}
	_, ok := Placeholder("bogus")
	assert.False(t, ok)
}

func TestReadOnly(t *testing.T) {
	assert.True(t, ReadOnly(Search{}))
	assert.True(t, ReadOnly(List{}))
	assert.False(t, ReadOnly(Erase{}))
}
