package runner

import (
	"context"
	"fmt"

	"github.com/mattjoyce/simdeck/internal/events"
)

// Runnable is one executable operation.
type Runnable interface {
	Run(ctx context.Context) Result
}

// Func adapts a function to the Runnable interface.
type Func func(ctx context.Context) Result

// Run calls f(ctx).
func (f Func) Run(ctx context.Context) Result { return f(ctx) }

// Body performs the backend call for an ActionRunner. The returned value, if
// not nil, becomes the subject of the Ended event and of the Result.
type Body func(ctx context.Context) (any, error)

// ActionRunner wraps a single backend call with Started/Ended reporting.
type ActionRunner struct {
	Reporter *events.Reporter
	Name     events.Name
	// Subject describes the operation's argument for the Started event.
	Subject any
	// Target names the entity operated on, for failure messages.
	Target string
	Body   Body
}

// Run reports Started, calls Body and reports Ended on success.
func (r ActionRunner) Run(ctx context.Context) Result {
	r.Reporter.Report(r.Name, events.PhaseStarted, r.Subject)

	out, err := call(ctx, r.Body)
	if err != nil {
		return FailureFromError(err, "%s failed on %s", r.Name, r.Target)
	}

	ended := r.Subject
	if out != nil {
		ended = out
	}
	r.Reporter.Report(r.Name, events.PhaseEnded, ended)
	return Success(out)
}

// DiscreteRunner wraps a backend call whose output is reported as one
// Discrete event. Nothing is reported on failure.
type DiscreteRunner struct {
	Reporter *events.Reporter
	Name     events.Name
	Target   string
	Body     Body
}

// Run calls Body and reports its output.
func (r DiscreteRunner) Run(ctx context.Context) Result {
	out, err := call(ctx, r.Body)
	if err != nil {
		return FailureFromError(err, "%s failed on %s", r.Name, r.Target)
	}
	r.Reporter.Report(r.Name, events.PhaseDiscrete, out)
	return Success(out)
}

// Unimplemented is the runnable for actions without a handler. It reports
// nothing.
type Unimplemented struct {
	Tag string
}

// Run always fails.
func (u Unimplemented) Run(context.Context) Result {
	return Failure(KindUnimplemented, "action not implemented: %s", u.Tag)
}

// call invokes body, turning a panic into an error.
func call(ctx context.Context, body Body) (out any, err error) {
	if body == nil {
		return nil, fmt.Errorf("no body")
	}
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return body(ctx)
}
