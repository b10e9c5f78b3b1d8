// Package batch runs frame analysis over a list of files.
//
// The Scheduler splits the list into consecutive groups of Workers files.
// Each full group is analyzed concurrently by a fixed pool of goroutines
// and its results are emitted sorted by path once the whole group is done.
// The trailing partial group, and lists shorter than the pool, are analyzed
// sequentially in input order. Per-file failures travel inside the result
// metrics and never stop the run.
package batch
