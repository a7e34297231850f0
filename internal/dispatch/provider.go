package dispatch

import (
	"context"

	"github.com/mattjoyce/simdeck/internal/action"
	"github.com/mattjoyce/simdeck/internal/events"
	"github.com/mattjoyce/simdeck/internal/runner"
)

// Provider is a generic handler consulted before the built-in table. It
// returns false to decline, letting the next provider or the table decide.
type Provider interface {
	Provide(c Context) (runner.Runnable, bool)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(c Context) (runner.Runnable, bool)

func (f ProviderFunc) Provide(c Context) (runner.Runnable, bool) { return f(c) }

// CustomProvider handles action.Custom and declines everything else.
type CustomProvider struct{}

func (CustomProvider) Provide(c Context) (runner.Runnable, bool) {
	custom, ok := c.Action.(action.Custom)
	if !ok || custom.Body == nil {
		return nil, false
	}
	t := c.Target
	return runner.ActionRunner{
		Reporter: c.Reporter,
		Name:     events.NameCustom,
		Subject:  custom.Name,
		Target:   c.targetID(),
		Body: func(ctx context.Context) (any, error) {
			return custom.Body(ctx, t)
		},
	}, true
}
