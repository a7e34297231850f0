package events

import (
	"sync"
	"time"
)

// Sink receives events. Implementations must not block the caller for long.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }

// Reporter stamps events with a target and timestamp and hands them to a sink.
// A nil *Reporter discards everything.
type Reporter struct {
	sink   Sink
	target string
	now    func() time.Time
}

// NewReporter creates a Reporter that is not bound to any target.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{
		sink: sink,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// ForTarget returns a copy of r bound to the given target identifier.
func (r *Reporter) ForTarget(target string) *Reporter {
	if r == nil {
		return nil
	}
	cp := *r
	cp.target = target
	return &cp
}

// Target returns the identifier r is bound to.
func (r *Reporter) Target() string {
	if r == nil {
		return ""
	}
	return r.target
}

// Sink returns the sink r forwards to.
func (r *Reporter) Sink() Sink {
	if r == nil {
		return nil
	}
	return r.sink
}

// Report emits one event.
func (r *Reporter) Report(name Name, phase Phase, subject any) {
	if r == nil || r.sink == nil {
		return
	}
	r.sink.Emit(Event{
		Name:      name,
		Phase:     phase,
		Target:    r.target,
		Subject:   subject,
		Timestamp: r.now(),
	})
}

// ReportSimple wraps value in a Value subject before reporting it.
func (r *Reporter) ReportSimple(name Name, phase Phase, value any) {
	r.Report(name, phase, Value{Value: value})
}

// Fanout forwards events to a dynamic set of sinks.
type Fanout struct {
	mu     sync.RWMutex
	sinks  map[int]Sink
	nextID int
}

// NewFanout creates an empty Fanout.
func NewFanout(sinks ...Sink) *Fanout {
	f := &Fanout{sinks: make(map[int]Sink)}
	for _, s := range sinks {
		f.Attach(s)
	}
	return f
}

// Attach registers s and returns a function that removes it again.
// The returned function is safe to call more than once.
func (f *Fanout) Attach(s Sink) (detach func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.sinks[id] = s

	return func() {
		f.mu.Lock()
		delete(f.sinks, id)
		f.mu.Unlock()
	}
}

// Len returns the number of attached sinks.
func (f *Fanout) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sinks)
}

// Emit forwards ev to every attached sink.
func (f *Fanout) Emit(ev Event) {
	f.mu.RLock()
	sinks := make([]Sink, 0, len(f.sinks))
	for _, s := range f.sinks {
		sinks = append(sinks, s)
	}
	f.mu.RUnlock()

	for _, s := range sinks {
		s.Emit(ev)
	}
}

// Recorder is a Sink that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends ev.
func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
