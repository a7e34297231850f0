// Package action defines the closed set of operations simdeck can perform on a
// target and the ways of building them: command-line tokens, YAML scripts and
// decoded key/value params.
package action

import (
	"context"
	"time"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/search"
)

// Tag names an action kind.
type Tag string

const (
	TagList             Tag = "list"
	TagCreate           Tag = "create"
	TagBoot             Tag = "boot"
	TagShutdown         Tag = "shutdown"
	TagErase            Tag = "erase"
	TagDelete           Tag = "delete"
	TagFocus            Tag = "focus"
	TagApprove          Tag = "approve"
	TagClearKeychain    Tag = "clear-keychain"
	TagLaunch           Tag = "launch"
	TagLaunchAgent      Tag = "launch-agent"
	TagRelaunch         Tag = "relaunch"
	TagTerminate        Tag = "terminate"
	TagOpen             Tag = "open"
	TagTap              Tag = "tap"
	TagInput            Tag = "input"
	TagSetLocation      Tag = "set-location"
	TagUpload           Tag = "upload"
	TagSearch           Tag = "search"
	TagServiceInfo      Tag = "service-info"
	TagKeyboardOverride Tag = "keyboard-override"
	TagWatchdogOverride Tag = "watchdog-override"
	TagDiagnose         Tag = "diagnose"
	TagRecord           Tag = "record"
	TagStream           Tag = "stream"
	TagCustom           Tag = "custom"
)

// Tags returns every tag in the closed set.
func Tags() []Tag {
	return []Tag{
		TagList, TagCreate, TagBoot, TagShutdown, TagErase, TagDelete, TagFocus,
		TagApprove, TagClearKeychain, TagLaunch, TagLaunchAgent, TagRelaunch,
		TagTerminate, TagOpen, TagTap, TagInput, TagSetLocation, TagUpload,
		TagSearch, TagServiceInfo, TagKeyboardOverride, TagWatchdogOverride,
		TagDiagnose, TagRecord, TagStream, TagCustom,
	}
}

// Action is one immutable request. Only types in this package implement it.
type Action interface {
	Tag() Tag
	isAction()
}

type List struct{}

// Create instantiates one configuration, or every default configuration that
// does not exist yet.
type Create struct {
	Configuration      *device.Configuration
	AllMissingDefaults bool
}

type Boot struct {
	Options device.BootOptions
}

type Shutdown struct{}

type Erase struct{}

type Delete struct{}

type Focus struct{}

type Approve struct {
	BundleIDs []string `mapstructure:"bundle_ids"`
}

type ClearKeychain struct {
	BundleID string `mapstructure:"bundle_id"`
}

type Launch struct {
	Config device.LaunchConfig
}

// LaunchAgent starts a helper executable inside the target.
type LaunchAgent struct {
	Config device.AgentLaunchConfig
}

// Relaunch terminates the application if running and launches it again.
type Relaunch struct {
	Config device.LaunchConfig
}

type Terminate struct {
	BundleID string `mapstructure:"bundle_id"`
}

type Open struct {
	URL string `mapstructure:"url"`
}

type Tap struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

type Input struct {
	Event device.InputEvent
}

type SetLocation struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// Upload sends diagnostics to the target: media through the backend, the rest
// copied to the auxiliary directory.
type Upload struct {
	Diagnostics []device.Diagnostic
}

type Search struct {
	Query search.Query
}

type ServiceInfo struct {
	BundleID string `mapstructure:"bundle_id"`
}

// KeyboardOverride disables autocorrection, prediction and the keyboard
// onboarding screens so typed input is reproducible.
type KeyboardOverride struct{}

type WatchdogOverride struct {
	BundleIDs []string      `mapstructure:"bundle_ids"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Diagnose lists diagnostics, optionally filtered by name.
type Diagnose struct {
	Name string `mapstructure:"name"`
}

// Record is accepted by the parser but has no backend support.
type Record struct {
	Start bool `mapstructure:"start"`
}

// Stream is accepted by the parser but has no backend support.
type Stream struct{}

// Custom carries its own body. It is how library callers plug operations into
// the dispatcher without extending the closed set.
type Custom struct {
	Name string
	Body func(ctx context.Context, t device.Target) (any, error)
}

func (List) Tag() Tag             { return TagList }
func (Create) Tag() Tag           { return TagCreate }
func (Boot) Tag() Tag             { return TagBoot }
func (Shutdown) Tag() Tag         { return TagShutdown }
func (Erase) Tag() Tag            { return TagErase }
func (Delete) Tag() Tag           { return TagDelete }
func (Focus) Tag() Tag            { return TagFocus }
func (Approve) Tag() Tag          { return TagApprove }
func (ClearKeychain) Tag() Tag    { return TagClearKeychain }
func (Launch) Tag() Tag           { return TagLaunch }
func (LaunchAgent) Tag() Tag      { return TagLaunchAgent }
func (KeyboardOverride) Tag() Tag { return TagKeyboardOverride }
func (Relaunch) Tag() Tag         { return TagRelaunch }
func (Terminate) Tag() Tag        { return TagTerminate }
func (Open) Tag() Tag             { return TagOpen }
func (Tap) Tag() Tag              { return TagTap }
func (Input) Tag() Tag            { return TagInput }
func (SetLocation) Tag() Tag      { return TagSetLocation }
func (Upload) Tag() Tag           { return TagUpload }
func (Search) Tag() Tag           { return TagSearch }
func (ServiceInfo) Tag() Tag      { return TagServiceInfo }
func (WatchdogOverride) Tag() Tag { return TagWatchdogOverride }
func (Diagnose) Tag() Tag         { return TagDiagnose }
func (Record) Tag() Tag           { return TagRecord }
func (Stream) Tag() Tag           { return TagStream }
func (Custom) Tag() Tag           { return TagCustom }

func (List) isAction()             {}
func (Create) isAction()           {}
func (Boot) isAction()             {}
func (Shutdown) isAction()         {}
func (Erase) isAction()            {}
func (Delete) isAction()           {}
func (Focus) isAction()            {}
func (Approve) isAction()          {}
func (ClearKeychain) isAction()    {}
func (Launch) isAction()           {}
func (LaunchAgent) isAction()      {}
func (KeyboardOverride) isAction() {}
func (Relaunch) isAction()         {}
func (Terminate) isAction()        {}
func (Open) isAction()             {}
func (Tap) isAction()              {}
func (Input) isAction()            {}
func (SetLocation) isAction()      {}
func (Upload) isAction()           {}
func (Search) isAction()           {}
func (ServiceInfo) isAction()      {}
func (WatchdogOverride) isAction() {}
func (Diagnose) isAction()         {}
func (Record) isAction()           {}
func (Stream) isAction()           {}
func (Custom) isAction()           {}

// Placeholder builds an action for tag with zero-valued payload. It returns
// false for tags outside the closed set.
func Placeholder(tag Tag) (Action, bool) {
	switch tag {
	case TagList:
		return List{}, true
	case TagCreate:
		return Create{}, true
	case TagBoot:
		return Boot{}, true
	case TagShutdown:
		return Shutdown{}, true
	case TagErase:
		return Erase{}, true
	case TagDelete:
		return Delete{}, true
	case TagFocus:
		return Focus{}, true
	case TagApprove:
		return Approve{}, true
	case TagClearKeychain:
		return ClearKeychain{}, true
	case TagLaunch:
		return Launch{}, true
	case TagLaunchAgent:
		return LaunchAgent{}, true
	case TagKeyboardOverride:
		return KeyboardOverride{}, true
	case TagRelaunch:
		return Relaunch{}, true
	case TagTerminate:
		return Terminate{}, true
	case TagOpen:
		return Open{}, true
	case TagTap:
		return Tap{}, true
	case TagInput:
		return Input{}, true
	case TagSetLocation:
		return SetLocation{}, true
	case TagUpload:
		return Upload{}, true
	case TagSearch:
		return Search{}, true
	case TagServiceInfo:
		return ServiceInfo{}, true
	case TagWatchdogOverride:
		return WatchdogOverride{}, true
	case TagDiagnose:
		return Diagnose{}, true
	case TagRecord:
		return Record{}, true
	case TagStream:
		return Stream{}, true
	case TagCustom:
		return Custom{}, true
	}
	return nil, false
}

// ReadOnly reports whether an action leaves the target untouched.
func ReadOnly(a Action) bool {
	switch a.Tag() {
	case TagList, TagSearch, TagServiceInfo, TagDiagnose:
		return true
	}
	return false
}
