// Package pq implements the SMPTE ST 2084 (PQ, 10000 nit) inverse transform
// used to turn 16-bit code values into normalized absolute luminance, plus
// the 65536-entry lookup table that the frame analyzer reads per channel.
//
// Tables are built once per batch for a given black level and range and are
// safe for concurrent readers. Construction rejects parameter pairs that
// would push the transform outside its domain, so a Table that exists never
// holds NaN or infinite entries.
package pq
