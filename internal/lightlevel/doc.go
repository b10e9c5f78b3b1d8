// Package lightlevel computes the HDR10 static light level metadata of a
// frame: MaxFALL (the frame average of the per-pixel brightest channel) and
// MaxCLL (the brightest channel of any pixel), both in nits.
//
// Analysis reads a decoded frame.Buffer through a shared pq.Table and
// accumulates into locals only, so any number of frames can be analyzed in
// parallel against the same table. Per-file failures are reported through
// Metrics.Status rather than as errors, which lets a batch keep going.
package lightlevel
