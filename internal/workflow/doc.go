// Package workflow drives the client-side protection lifecycle.
//
// A Workflow moves through four stages:
//
//	Idle → FileReady → Processing → Result
//	                  ↖ (failure: file retained, progress reset)
//
// Exactly one stage is active at a time. Selection of a validated file
// moves Idle to FileReady; Submit moves FileReady to Processing; a
// successful response moves Processing to Result; a failure returns to
// FileReady with the file retained for retry. Reset returns from Result
// to Idle.
//
// # Progress heartbeat
//
// While Processing, progress advances on a fixed-interval ticker by 10
// points per tick, capped at 90. This is a visual pulse independent of
// real network latency; a successful response forces progress to 100 and
// a failure forces it to 0. The ticker is injectable (see Ticker and
// TickerFactory) so tests advance virtual time instead of sleeping, and
// it is cancelled on every exit path from Processing.
//
// # Guards
//
// Illegal transitions are silent no-ops rather than errors: submitting
// with no file or while already processing, resetting outside Result,
// and toggling options mid-flight all leave state untouched. The command
// surface is expected to prevent them structurally; the guards exist so
// a race can never corrupt the lifecycle.
package workflow
