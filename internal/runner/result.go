package runner

import (
	"errors"
	"fmt"

	"github.com/mattjoyce/simdeck/internal/device"
)

// Kind classifies a failure.
type Kind string

const (
	// KindExternal means the backend call returned an error.
	KindExternal Kind = "external"
	// KindMissing means a required resource did not exist.
	KindMissing Kind = "missing"
	// KindUnimplemented means no handler exists for the action.
	KindUnimplemented Kind = "unimplemented"
)

// Result is the terminal outcome of a Runnable: either a success with an
// optional subject, or a failure with a message.
type Result struct {
	ok      bool
	Subject any    `json:"subject,omitempty"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success builds a successful result. subject may be nil.
func Success(subject any) Result {
	return Result{ok: true, Subject: subject}
}

// Failure builds a failed result.
func Failure(kind Kind, format string, args ...any) Result {
	return Result{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FailureFromError classifies err and builds a failed result.
func FailureFromError(err error, format string, args ...any) Result {
	kind := KindExternal
	if errors.Is(err, device.ErrNotFound) {
		kind = KindMissing
	}
	return Result{Kind: kind, Message: fmt.Sprintf(format, args...) + ": " + err.Error()}
}

// OK reports whether the result is a success.
func (r Result) OK() bool { return r.ok }

// Err returns nil on success and an error carrying the message otherwise.
func (r Result) Err() error {
	if r.ok {
		return nil
	}
	return errors.New(r.Message)
}

func (r Result) String() string {
	if r.ok {
		return "success"
	}
	return fmt.Sprintf("failure (%s): %s", r.Kind, r.Message)
}
