// Package main hosts the hdrmeta CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, discovers frames, asks the
// user to confirm questionable inputs, and hands the actual work to the
// internal packages: activearea for the picture band, batch for the worker
// pool, and results for the output files. Keep analysis logic out of this
// package; commands should only wire flags to those components.
package main
