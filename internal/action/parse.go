package action

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattjoyce/simdeck/internal/device"
	"github.com/mattjoyce/simdeck/internal/search"
)

// argsTerminator ends a variadic argument list (launch arguments, bundle ids).
const argsTerminator = "--"

type tokenParser func(p *parser) (Action, error)

var keywords map[Tag]tokenParser

func init() {
	keywords = map[Tag]tokenParser{
		TagList:             func(*parser) (Action, error) { return List{}, nil },
		TagCreate:           parseCreate,
		TagBoot:             parseBoot,
		TagShutdown:         func(*parser) (Action, error) { return Shutdown{}, nil },
		TagErase:            func(*parser) (Action, error) { return Erase{}, nil },
		TagDelete:           func(*parser) (Action, error) { return Delete{}, nil },
		TagFocus:            func(*parser) (Action, error) { return Focus{}, nil },
		TagApprove:          parseApprove,
		TagClearKeychain:    parseClearKeychain,
		TagLaunch:           func(p *parser) (Action, error) { cfg, err := p.launchConfig(); return Launch{Config: cfg}, err },
		TagLaunchAgent:      parseLaunchAgent,
		TagKeyboardOverride: func(*parser) (Action, error) { return KeyboardOverride{}, nil },
		TagRelaunch:         func(p *parser) (Action, error) { cfg, err := p.launchConfig(); return Relaunch{Config: cfg}, err },
		TagTerminate:        parseTerminate,
		TagOpen:             parseOpen,
		TagTap:              parseTap,
		TagInput:            parseInput,
		TagSetLocation:      parseSetLocation,
		TagUpload:           parseUpload,
		TagSearch:           parseSearch,
		TagServiceInfo:      parseServiceInfo,
		TagWatchdogOverride: parseWatchdogOverride,
		TagDiagnose:         parseDiagnose,
		TagRecord:           parseRecord,
		TagStream:           func(*parser) (Action, error) { return Stream{}, nil },
	}
}

// IsKeyword reports whether s starts an action on the command line.
func IsKeyword(s string) bool {
	_, ok := keywords[Tag(s)]
	return ok
}

// Parse turns command-line tokens into a sequence of actions.
func Parse(args []string) ([]Action, error) {
	p := &parser{tokens: args}
	var out []Action
	for !p.done() {
		tok := p.next()
		fn, ok := keywords[Tag(tok)]
		if !ok {
			return nil, fmt.Errorf("unknown action %q", tok)
		}
		a, err := fn(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tok, err)
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no action given")
	}
	return out, nil
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() string {
	if p.done() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *parser) require(what string) (string, error) {
	if p.done() || IsKeyword(p.peek()) {
		return "", fmt.Errorf("missing %s", what)
	}
	return p.next(), nil
}

func (p *parser) float(what string) (float64, error) {
	s, err := p.require(what)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return f, nil
}

// flag consumes a "--name" token if present.
func (p *parser) flag(name string) bool {
	if p.peek() == "--"+name {
		p.pos++
		return true
	}
	return false
}

// option consumes "--name value" if present.
func (p *parser) option(name string) (string, bool, error) {
	if p.peek() != "--"+name {
		return "", false, nil
	}
	p.pos++
	v, err := p.require(name + " value")
	return v, err == nil, err
}

// rest consumes tokens up to the next keyword or an explicit "--".
func (p *parser) rest() []string {
	var out []string
	for !p.done() {
		tok := p.peek()
		if tok == argsTerminator {
			p.pos++
			break
		}
		if IsKeyword(tok) {
			break
		}
		out = append(out, p.next())
	}
	return out
}

// verbatim consumes tokens up to an explicit "--" without keyword detection.
func (p *parser) verbatim() []string {
	var out []string
	for !p.done() {
		tok := p.next()
		if tok == argsTerminator {
			break
		}
		out = append(out, tok)
	}
	return out
}

func (p *parser) launchConfig() (device.LaunchConfig, error) {
	cfg := device.LaunchConfig{}
	for {
		if p.flag("wait-for-debugger") {
			cfg.WaitForDebugger = true
			continue
		}
		ok, err := p.env(&cfg.Environment)
		if err != nil {
			return cfg, err
		}
		if !ok {
			break
		}
	}

	id, err := p.require("bundle id")
	if err != nil {
		return cfg, err
	}
	cfg.BundleID = id
	cfg.Arguments = p.verbatim()
	return cfg, nil
}

// env consumes one "--env KEY=VALUE" into *into if present.
func (p *parser) env(into *map[string]string) (bool, error) {
	v, ok, err := p.option("env")
	if err != nil || !ok {
		return false, err
	}
	k, val, found := strings.Cut(v, "=")
	if !found {
		return false, fmt.Errorf("invalid env %q (want KEY=VALUE)", v)
	}
	if *into == nil {
		*into = map[string]string{}
	}
	(*into)[k] = val
	return true, nil
}

func parseLaunchAgent(p *parser) (Action, error) {
	cfg := device.AgentLaunchConfig{}
	for {
		ok, err := p.env(&cfg.Environment)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	path, err := p.require("agent path")
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	cfg.Arguments = p.verbatim()
	return LaunchAgent{Config: cfg}, nil
}

func parseCreate(p *parser) (Action, error) {
	if p.flag("all-missing-defaults") {
		return Create{AllMissingDefaults: true}, nil
	}
	dev, err := p.require("device type")
	if err != nil {
		return nil, err
	}
	osVersion, err := p.require("os version")
	if err != nil {
		return nil, err
	}
	cfg := device.Configuration{Device: dev, OS: osVersion}
	if name, ok, err := p.option("name"); err != nil {
		return nil, err
	} else if ok {
		cfg.Name = name
	}
	return Create{Configuration: &cfg}, nil
}

func parseBoot(p *parser) (Action, error) {
	var opts device.BootOptions
	for {
		if p.flag("await-services") {
			opts.AwaitServices = true
			continue
		}
		if v, ok, err := p.option("locale"); err != nil {
			return nil, err
		} else if ok {
			opts.Locale = v
			continue
		}
		if v, ok, err := p.option("scale"); err != nil {
			return nil, err
		} else if ok {
			opts.Scale = v
			continue
		}
		break
	}
	return Boot{Options: opts}, nil
}

func parseApprove(p *parser) (Action, error) {
	ids := p.rest()
	if len(ids) == 0 {
		return nil, fmt.Errorf("missing bundle id")
	}
	return Approve{BundleIDs: ids}, nil
}

func parseClearKeychain(p *parser) (Action, error) {
	if p.done() || IsKeyword(p.peek()) {
		return ClearKeychain{}, nil
	}
	return ClearKeychain{BundleID: p.next()}, nil
}

func parseTerminate(p *parser) (Action, error) {
	id, err := p.require("bundle id")
	if err != nil {
		return nil, err
	}
	return Terminate{BundleID: id}, nil
}

func parseOpen(p *parser) (Action, error) {
	u, err := p.require("url")
	if err != nil {
		return nil, err
	}
	return Open{URL: u}, nil
}

func parseTap(p *parser) (Action, error) {
	x, err := p.float("x")
	if err != nil {
		return nil, err
	}
	y, err := p.float("y")
	if err != nil {
		return nil, err
	}
	return Tap{X: x, Y: y}, nil
}

func parseInput(p *parser) (Action, error) {
	kind, err := p.require("input kind")
	if err != nil {
		return nil, err
	}
	switch device.InputKind(kind) {
	case device.InputTap:
		t, err := parseTap(p)
		if err != nil {
			return nil, err
		}
		tap := t.(Tap)
		return Input{Event: device.InputEvent{Kind: device.InputTap, X: tap.X, Y: tap.Y}}, nil
	case device.InputKey:
		s, err := p.require("key code")
		if err != nil {
			return nil, err
		}
		code, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid key code %q", s)
		}
		return Input{Event: device.InputEvent{Kind: device.InputKey, Code: code}}, nil
	case device.InputText:
		s, err := p.require("text")
		if err != nil {
			return nil, err
		}
		return Input{Event: device.InputEvent{Kind: device.InputText, Text: s}}, nil
	case device.InputButton:
		s, err := p.require("button name")
		if err != nil {
			return nil, err
		}
		return Input{Event: device.InputEvent{Kind: device.InputButton, Button: s}}, nil
	}
	return nil, fmt.Errorf("unknown input kind %q", kind)
}

func parseSetLocation(p *parser) (Action, error) {
	lat, err := p.float("latitude")
	if err != nil {
		return nil, err
	}
	lon, err := p.float("longitude")
	if err != nil {
		return nil, err
	}
	return SetLocation{Latitude: lat, Longitude: lon}, nil
}

func parseUpload(p *parser) (Action, error) {
	paths := p.rest()
	if len(paths) == 0 {
		return nil, fmt.Errorf("missing path")
	}
	return Upload{Diagnostics: DiagnosticsForPaths(paths)}, nil
}

// DiagnosticsForPaths wraps local files as diagnostics named after their base name.
func DiagnosticsForPaths(paths []string) []device.Diagnostic {
	out := make([]device.Diagnostic, 0, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		out = append(out, device.Diagnostic{Name: filepath.Base(path), Path: abs})
	}
	return out
}

func parseSearch(p *parser) (Action, error) {
	q := search.Query{Mapping: map[string][]search.Predicate{}}
	in := search.AllDiagnostics
	for {
		if p.flag("lines") {
			q.Lines = true
			continue
		}
		if p.flag("first") {
			q.FirstOnly = true
			continue
		}
		if v, ok, err := p.option("in"); err != nil {
			return nil, err
		} else if ok {
			in = v
			continue
		}
		break
	}
	terms := p.rest()
	if len(terms) == 0 {
		return nil, fmt.Errorf("missing search term")
	}
	for _, term := range terms {
		q.Mapping[in] = append(q.Mapping[in], search.ParsePredicate(term))
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return Search{Query: q}, nil
}

func parseServiceInfo(p *parser) (Action, error) {
	id, err := p.require("bundle id")
	if err != nil {
		return nil, err
	}
	return ServiceInfo{BundleID: id}, nil
}

func parseWatchdogOverride(p *parser) (Action, error) {
	s, err := p.require("timeout")
	if err != nil {
		return nil, err
	}
	timeout, err := parseTimeout(s)
	if err != nil {
		return nil, err
	}
	ids := p.rest()
	if len(ids) == 0 {
		return nil, fmt.Errorf("missing bundle id")
	}
	return WatchdogOverride{BundleIDs: ids, Timeout: timeout}, nil
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func parseDiagnose(p *parser) (Action, error) {
	if p.done() || IsKeyword(p.peek()) {
		return Diagnose{}, nil
	}
	return Diagnose{Name: p.next()}, nil
}

func parseRecord(p *parser) (Action, error) {
	switch p.peek() {
	case "start":
		p.pos++
		return Record{Start: true}, nil
	case "stop":
		p.pos++
		return Record{}, nil
	}
	return Record{Start: true}, nil
}
