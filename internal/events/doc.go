// Package events carries the structured progress stream emitted while actions
// run against a target.
//
// An Event is a (name, phase, subject) triple. Phases are:
//   - started: a long-running operation began
//   - ended: the same operation finished successfully
//   - discrete: a one-shot observation (search results, a written artifact)
//
// A Reporter is bound to an optional target identifier and forwards events to
// a Sink. Sinks are fire-and-forget; emitting never fails and never blocks on a
// slow consumer.
package events
