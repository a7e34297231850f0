package dispatch

import (
	"context"
	"time"

	"github.com/mattjoyce/simdeck/internal/action"
	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/runner"
)

// Execute dispatches a against t and runs it. While it runs, the reporter's
// sink is attached to t so backend-originated events reach the same stream.
func (d *Dispatcher) Execute(ctx context.Context, a action.Action, t device.Target, c Context) runner.Result {
	c = c.WithAction(a).WithTarget(t)
	logger := c.logger()

	if t != nil {
		if sink := c.Reporter.Sink(); sink != nil {
			detach := t.AttachSink(sink)
			defer detach()
		}
	}

	start := time.Now()
	res := d.Dispatch(a, t, c).Run(ctx)
	elapsed := time.Since(start)

	if a != nil {
		d.metrics.Observe(a.Tag(), res, elapsed)
	}
	if res.OK() {
		logger.Debug("action succeeded", "duration", elapsed)
	} else {
		logger.Warn("action failed", "kind", string(res.Kind), "error", res.Message, "duration", elapsed)
	}
	return res
}

// Chain executes actions in order against t and stops at the first failure.
// It returns the results of every action that ran.
func (d *Dispatcher) Chain(ctx context.Context, actions []action.Action, t device.Target, c Context) ([]runner.Result, bool) {
	results := make([]runner.Result, 0, len(actions))
	for _, a := range actions {
		res := d.Execute(ctx, a, t, c)
		results = append(results, res)
		if !res.OK() {
			return results, false
		}
	}
	return results, true
}
