package device

import (
	"context"
	"fmt"
	"strings"
)

const (
	SelectAll    = "all"
	SelectBooted = "booted"
)

// Select resolves selectors against set. A selector is a UDID, a target name
// (case-insensitive), SelectBooted or SelectAll. Targets are returned once
// each, in set order. A selector that matches nothing is ErrNotFound.
func Select(ctx context.Context, set Set, selectors []string) ([]Target, error) {
	targets, err := set.Targets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	infos := make([]Info, len(targets))
	for i, t := range targets {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", t.UDID(), err)
		}
		infos[i] = info
	}

	chosen := make([]bool, len(targets))
	for _, sel := range selectors {
		matched := false
		for i, info := range infos {
			if selects(sel, info) {
				chosen[i] = true
				matched = true
			}
		}
		if !matched && sel != SelectAll && sel != SelectBooted {
			return nil, fmt.Errorf("no target matches %q: %w", sel, ErrNotFound)
		}
	}

	var out []Target
	for i, t := range targets {
		if chosen[i] {
			out = append(out, t)
		}
	}
	return out, nil
}

func selects(sel string, info Info) bool {
	switch sel {
	case SelectAll:
		return true
	case SelectBooted:
		return info.State == StateBooted
	}
	return sel == info.UDID || strings.EqualFold(sel, info.Name)
}
