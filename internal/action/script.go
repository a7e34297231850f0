package action

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/mattjoyce/simdeck/internal/device"
)

// Step is one entry of an action script.
type Step struct {
	Action string         `yaml:"action" json:"action"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// Script is an ordered list of steps, run against one target selection.
type Script struct {
	Target string `yaml:"target,omitempty"`
	Steps  []Step `yaml:"steps"`
}

// DecodeScript reads a YAML script and builds its actions in order.
func DecodeScript(r io.Reader) (*Script, []Action, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, nil, fmt.Errorf("decode script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, nil, fmt.Errorf("script has no steps")
	}

	actions := make([]Action, 0, len(s.Steps))
	for i, step := range s.Steps {
		a, err := FromParams(step.Action, step.Params)
		if err != nil {
			return nil, nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		actions = append(actions, a)
	}
	return &s, actions, nil
}

// FromParams builds an action from its tag and a loosely typed parameter map,
// as found in YAML scripts and API request bodies.
func FromParams(tag string, params map[string]any) (Action, error) {
	if params == nil {
		params = map[string]any{}
	}

	switch Tag(tag) {
	case TagList:
		return List{}, nil
	case TagShutdown:
		return Shutdown{}, nil
	case TagErase:
		return Erase{}, nil
	case TagDelete:
		return Delete{}, nil
	case TagFocus:
		return Focus{}, nil
	case TagStream:
		return Stream{}, nil
	case TagKeyboardOverride:
		return KeyboardOverride{}, nil
	case TagLaunchAgent:
		var cfg device.AgentLaunchConfig
		if err := decode(params, &cfg); err != nil {
			return nil, err
		}
		if cfg.Path == "" {
			return nil, fmt.Errorf("launch-agent: path is required")
		}
		return LaunchAgent{Config: cfg}, nil
	case TagCreate:
		var p struct {
			AllMissingDefaults bool   `mapstructure:"all_missing_defaults"`
			Name               string `mapstructure:"name"`
			Device             string `mapstructure:"device"`
			OS                 string `mapstructure:"os"`
		}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if p.AllMissingDefaults {
			return Create{AllMissingDefaults: true}, nil
		}
		if p.Device == "" || p.OS == "" {
			return nil, fmt.Errorf("create: device and os are required")
		}
		return Create{Configuration: &device.Configuration{Name: p.Name, Device: p.Device, OS: p.OS}}, nil
	case TagBoot:
		var a Boot
		if err := decode(params, &a.Options); err != nil {
			return nil, err
		}
		return a, nil
	case TagApprove:
		var a Approve
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		if len(a.BundleIDs) == 0 {
			return nil, fmt.Errorf("approve: bundle_ids is required")
		}
		return a, nil
	case TagClearKeychain:
		var a ClearKeychain
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		return a, nil
	case TagLaunch, TagRelaunch:
		var cfg device.LaunchConfig
		if err := decode(params, &cfg); err != nil {
			return nil, err
		}
		if cfg.BundleID == "" {
			return nil, fmt.Errorf("%s: bundle_id is required", tag)
		}
		if Tag(tag) == TagRelaunch {
			return Relaunch{Config: cfg}, nil
		}
		return Launch{Config: cfg}, nil
	case TagTerminate:
		var a Terminate
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		if a.BundleID == "" {
			return nil, fmt.Errorf("terminate: bundle_id is required")
		}
		return a, nil
	case TagOpen:
		var a Open
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		if a.URL == "" {
			return nil, fmt.Errorf("open: url is required")
		}
		return a, nil
	case TagTap:
		var a Tap
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		return a, nil
	case TagInput:
		var a Input
		if err := decode(params, &a.Event); err != nil {
			return nil, err
		}
		if a.Event.Kind == "" {
			return nil, fmt.Errorf("input: kind is required")
		}
		return a, nil
	case TagSetLocation:
		var a SetLocation
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		return a, nil
	case TagUpload:
		var p struct {
			Paths []string `mapstructure:"paths"`
		}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if len(p.Paths) == 0 {
			return nil, fmt.Errorf("upload: paths is required")
		}
		return Upload{Diagnostics: DiagnosticsForPaths(p.Paths)}, nil
	case TagSearch:
		var a Search
		if err := decode(params, &a.Query); err != nil {
			return nil, err
		}
		if err := a.Query.Validate(); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		return a, nil
	case TagServiceInfo:
		var a ServiceInfo
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		if a.BundleID == "" {
			return nil, fmt.Errorf("service-info: bundle_id is required")
		}
		return a, nil
	case TagWatchdogOverride:
		var a WatchdogOverride
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		if len(a.BundleIDs) == 0 || a.Timeout <= 0 {
			return nil, fmt.Errorf("watchdog-override: bundle_ids and a positive timeout are required")
		}
		return a, nil
	case TagDiagnose:
		var a Diagnose
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		return a, nil
	case TagRecord:
		a := Record{Start: true}
		if err := decode(params, &a); err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown action %q", tag)
}

func decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			secondsToDurationHook,
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("decode params: %w", err)
	}
	return nil
}

// secondsToDurationHook lets scripts write "timeout: 30" meaning seconds.
func secondsToDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}
