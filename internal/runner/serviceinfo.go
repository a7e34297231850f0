package runner

import (
	"context"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
)

// ServiceInfoRunner resolves a bundle id to its running process.
type ServiceInfoRunner struct {
	Reporter *events.Reporter
	Target   device.Target
	BundleID string
}

// Run looks up the service pid, then the process behind it. Each lookup
// fails on its own terms.
func (r ServiceInfoRunner) Run(ctx context.Context) Result {
	udid := r.Target.UDID()

	out, err := call(ctx, func(ctx context.Context) (any, error) {
		return r.Target.ServicePID(ctx, r.BundleID)
	})
	if err != nil {
		return FailureFromError(err, "service-info: no running service for bundle id %q on %s", r.BundleID, udid)
	}
	pid, _ := out.(int)
	if pid <= 0 {
		return Failure(KindMissing, "service-info: no running service for bundle id %q on %s", r.BundleID, udid)
	}

	out, err = call(ctx, func(ctx context.Context) (any, error) {
		return r.Target.ProcessInfo(ctx, pid)
	})
	if err != nil {
		return FailureFromError(err, "service-info: no process info for pid %d (bundle id %q) on %s", pid, r.BundleID, udid)
	}
	info, _ := out.(device.ProcessInfo)

	r.Reporter.Report(events.NameServiceInfo, events.PhaseDiscrete, info)
	return Success(info)
}
