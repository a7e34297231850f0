// Package runner holds the executable units produced by the dispatcher.
//
// Every Runnable follows the same contract:
//   - Run never panics and never returns an error; every failure of the
//     backend is converted into a Failure Result carrying the operation name,
//     the target and the underlying error text.
//   - Long-running operations report Started before calling the backend and
//     Ended only after it succeeded. A failed call leaves Started unresolved
//     and the Result carries the failure.
//   - Batch runners (create, upload) stop at the first failing element.
//     Events already reported for earlier elements are not retracted.
//   - Nothing in this package retries.
package runner
