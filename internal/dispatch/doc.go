// Package dispatch turns actions into runnables.
//
// A Dispatcher consults its generic providers first. A provider that declines
// lets the built-in table decide, and an action the table does not cover
// becomes an Unimplemented runnable that reports nothing. Dispatch is total:
// every action yields a Runnable.
//
// Execute wraps one dispatch with the run-scoped concerns:
//   - the reporter's sink is attached to the target for the duration of the
//     run and detached on every exit path
//   - outcome and duration are recorded in Prometheus metrics
//   - the outcome is logged with the action and target
//
// Chain runs a sequence of actions against one target and stops at the first
// failure. Events already emitted by completed steps stay emitted.
package dispatch
