package events

import "time"

// Phase is the position of an event within an operation.
type Phase string

const (
	PhaseStarted  Phase = "started"
	PhaseEnded    Phase = "ended"
	PhaseDiscrete Phase = "discrete"
)

// Name identifies the operation an event describes.
type Name string

const (
	NameCreate           Name = "create"
	NameBoot             Name = "boot"
	NameShutdown         Name = "shutdown"
	NameErase            Name = "erase"
	NameDelete           Name = "delete"
	NameApprove          Name = "approve"
	NameClearKeychain    Name = "clear_keychain"
	NameLaunch           Name = "launch"
	NameRelaunch         Name = "relaunch"
	NameTerminate        Name = "terminate"
	NameOpen             Name = "open"
	NameTap              Name = "tap"
	NameInput            Name = "input"
	NameSetLocation      Name = "set_location"
	NameUpload           Name = "upload"
	NameSearch           Name = "search"
	NameServiceInfo      Name = "service_info"
	NameKeyboardOverride Name = "keyboard_override"
	NameWatchdogOverride Name = "watchdog_override"
	NameDiagnostic       Name = "diagnostic"
	NameList             Name = "list"
	NameFocus            Name = "focus"
	NameState            Name = "state"
	NameListen           Name = "listen"
	NameCustom           Name = "custom"
)

// Event is one entry of the event stream.
type Event struct {
	ID        int64     `json:"id,omitempty"`
	Name      Name      `json:"event_name"`
	Phase     Phase     `json:"event_type"`
	Target    string    `json:"target,omitempty"`
	Subject   any       `json:"subject,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Value wraps a raw value so it can be reported as a subject.
type Value struct {
	Value any `json:"value"`
}
