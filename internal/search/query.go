// Package search runs a batch of text predicates over a target's diagnostics.
package search

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/mattjoyce/simdeck/internal/device"
)

// AllDiagnostics is the mapping key that applies predicates to every diagnostic.
const AllDiagnostics = "*"

// Predicate matches a line by substring or by regular expression.
type Predicate struct {
	Substring string `json:"substring,omitempty" yaml:"substring,omitempty" mapstructure:"substring"`
	Regex     string `json:"regex,omitempty" yaml:"regex,omitempty" mapstructure:"regex"`
}

// ParsePredicate turns "re:<expr>" into a regex predicate and anything else
// into a substring predicate.
func ParsePredicate(s string) Predicate {
	if expr, ok := strings.CutPrefix(s, "re:"); ok {
		return Predicate{Regex: expr}
	}
	return Predicate{Substring: s}
}

func (p Predicate) String() string {
	if p.Regex != "" {
		return "re:" + p.Regex
	}
	return p.Substring
}

// Query maps diagnostic names (or AllDiagnostics) to the predicates to run.
type Query struct {
	Mapping map[string][]Predicate `json:"mapping" yaml:"mapping" mapstructure:"mapping"`
	// Lines returns whole matching lines instead of the matched fragment.
	Lines bool `json:"lines,omitempty" yaml:"lines,omitempty" mapstructure:"lines"`
	// FirstOnly stops after the first match per diagnostic.
	FirstOnly bool `json:"first_only,omitempty" yaml:"first_only,omitempty" mapstructure:"first_only"`
}

// Result maps a diagnostic's short name to its matches in file order.
type Result map[string][]string

// Names returns the diagnostic names in sorted order.
func (r Result) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type matcher struct {
	substring string
	re        *regexp.Regexp
}

func (m matcher) find(line string) (string, bool) {
	if m.re != nil {
		loc := m.re.FindStringIndex(line)
		if loc == nil {
			return "", false
		}
		return line[loc[0]:loc[1]], true
	}
	if strings.Contains(line, m.substring) {
		return m.substring, true
	}
	return "", false
}

func compile(preds []Predicate) ([]matcher, error) {
	out := make([]matcher, 0, len(preds))
	for _, p := range preds {
		switch {
		case p.Regex != "":
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("compile predicate %q: %w", p.Regex, err)
			}
			out = append(out, matcher{re: re})
		case p.Substring != "":
			out = append(out, matcher{substring: p.Substring})
		default:
			return nil, fmt.Errorf("empty predicate")
		}
	}
	return out, nil
}

// Validate compiles every predicate without running the query.
func (q Query) Validate() error {
	if len(q.Mapping) == 0 {
		return fmt.Errorf("search query has no predicates")
	}
	for name, preds := range q.Mapping {
		if _, err := compile(preds); err != nil {
			return fmt.Errorf("diagnostic %q: %w", name, err)
		}
	}
	return nil
}

// Run applies the query to diags. Diagnostics without content are skipped;
// a diagnostic whose file cannot be read is an error.
func (q Query) Run(diags []device.Diagnostic) (Result, error) {
	global, err := compile(q.Mapping[AllDiagnostics])
	if err != nil {
		return nil, err
	}

	result := Result{}
	for _, d := range diags {
		key := d.ShortName
		if key == "" {
			key = d.Name
		}

		specific, err := compile(q.Mapping[key])
		if err != nil {
			return nil, fmt.Errorf("diagnostic %q: %w", key, err)
		}
		matchers := append(append([]matcher{}, global...), specific...)
		if len(matchers) == 0 || !d.HasContent() {
			continue
		}

		content, err := contentOf(d)
		if err != nil {
			return nil, err
		}

		matches := q.scan(content, matchers)
		if len(matches) > 0 {
			result[key] = matches
		}
	}
	return result, nil
}

func (q Query) scan(content []byte, matchers []matcher) []string {
	var matches []string
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		for _, m := range matchers {
			frag, ok := m.find(line)
			if !ok {
				continue
			}
			if q.Lines {
				matches = append(matches, line)
			} else {
				matches = append(matches, frag)
			}
			if q.FirstOnly {
				return matches
			}
			break
		}
	}
	return matches
}

func contentOf(d device.Diagnostic) ([]byte, error) {
	if d.Content != nil {
		return d.Content, nil
	}
	b, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("read diagnostic %q: %w", d.Name, err)
	}
	return b, nil
}
