// Package obslog wraps github.com/joeycumines/logiface, configured with
// github.com/joeycumines/stumpy's JSON writer, into the handful of
// leveled loggers every subsystem of the search engine logs through:
// Debug for per-pop/per-push tracing (off by default), Info for
// solution-accepted/cap-tightened/preview-written events, Warn for the
// watchdog's growing window, and Err for storage I/O failures and
// invariant violations raised just before the engine sets its finished
// flag.
//
// Every log call uses logiface's chaining idiom:
// logger.Info().Str("key", v).Log("message").
package obslog
