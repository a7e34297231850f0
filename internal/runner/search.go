package runner

import (
	"context"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/search"
)

// SearchRunner applies a batch query to every diagnostic of a target and
// reports the matches as one Discrete event.
type SearchRunner struct {
	Reporter *events.Reporter
	Target   device.Target
	Query    search.Query
}

func (r SearchRunner) Run(ctx context.Context) Result {
	return DiscreteRunner{
		Reporter: r.Reporter,
		Name:     events.NameSearch,
		Target:   r.Target.UDID(),
		Body: func(ctx context.Context) (any, error) {
			diags, err := r.Target.Diagnostics(ctx)
			if err != nil {
				return nil, err
			}
			return r.Query.Run(diags)
		},
	}.Run(ctx)
}
