// Package activearea infers the picture band of letterboxed frames.
//
// Detect scans one decoded frame for the first row whose samples vary and
// the first uniform row after it. Vote runs Detect over a random sample of
// files and reports the most frequent band together with the full tally, so
// a caller can decide whether disagreement between frames is acceptable.
// One stray uniform row inside the picture ends a frame's band early.
package activearea
