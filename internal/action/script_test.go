package action

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/search"
)

const sampleScript = `
target: booted
steps:
  - action: boot
    params:
      locale: en_GB
  - action: launch
    params:
      bundle_id: com.example.app
      arguments: ["-reset"]
  - action: watchdog-override
    params:
      bundle_ids: [com.example.app]
      timeout: 30
  - action: search
    params:
      lines: true
      mapping:
        "*":
          - substring: crash
  - action: erase
`

func TestDecodeScript(t *testing.T) {
	s, actions, err := DecodeScript(strings.NewReader(sampleScript))
	require.NoError(t, err)
	assert.Equal(t, "booted", s.Target)
	require.Len(t, actions, 5)

	assert.Equal(t, Boot{Options: device.BootOptions{Locale: "en_GB"}}, actions[0])
	assert.Equal(t, Launch{Config: device.LaunchConfig{BundleID: "com.example.app", Arguments: []string{"-reset"}}}, actions[1])
	assert.Equal(t, WatchdogOverride{BundleIDs: []string{"com.example.app"}, Timeout: 30 * time.Second}, actions[2])
	assert.Equal(t, Search{Query: search.Query{
		Mapping: map[string][]search.Predicate{"*": {{Substring: "crash"}}},
		Lines:   true,
	}}, actions[3])
	assert.Equal(t, Erase{}, actions[4])
}

func TestDecodeScript_Errors(t *testing.T) {
	_, _, err := DecodeScript(strings.NewReader("steps: []\n"))
	assert.Error(t, err)

	_, _, err = DecodeScript(strings.NewReader("steps:\n  - action: fly\n"))
	assert.ErrorContains(t, err, "steps[0]")

	_, _, err = DecodeScript(strings.NewReader("steps:\n  - action: tap\n    params: {x: 1, z: 2}\n"))
	assert.Error(t, err, "unknown params are rejected")
}

func TestFromParams(t *testing.T) {
	a, err := FromParams("watchdog-override", map[string]any{"bundle_ids": []any{"a"}, "timeout": "2m"})
	require.NoError(t, err)
	assert.Equal(t, WatchdogOverride{BundleIDs: []string{"a"}, Timeout: 2 * time.Minute}, a)

	a, err = FromParams("create", map[string]any{"device": "iPhone 15", "os": "iOS 17.5"})
	require.NoError(t, err)
	assert.Equal(t, Create{Configuration: &device.Configuration{Device: "iPhone 15", OS: "iOS 17.5"}}, a)

	a, err = FromParams("input", map[string]any{"kind": "tap", "x": 1.5, "y": "2"})
	require.NoError(t, err)
	assert.Equal(t, Input{Event: device.InputEvent{Kind: device.InputTap, X: 1.5, Y: 2}}, a)

	a, err = FromParams("launch-agent", map[string]any{
		"path": "/opt/agent", "arguments": []any{"-p", "1"}, "environment": map[string]any{"A": "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, LaunchAgent{Config: device.AgentLaunchConfig{
		Path: "/opt/agent", Arguments: []string{"-p", "1"}, Environment: map[string]string{"A": "b"},
	}}, a)

	_, err = FromParams("launch-agent", map[string]any{})
	assert.Error(t, err, "path is required")

	a, err = FromParams("keyboard-override", nil)
	require.NoError(t, err)
	assert.Equal(t, KeyboardOverride{}, a)

	_, err = FromParams("service-info", nil)
	assert.Error(t, err)

	_, err = FromParams("custom", nil)
	assert.Error(t, err, "custom actions cannot be built from params")
}
