// Package report assembles and writes bundlescope analysis reports.
//
// A [Report] is the serializable result of one run. It is written to the
// terminal with [Write] in one of four [Format]s, stored as a snapshot, and
// returned by the HTTP API as JSON.
package report
