// Package results appends per-file metrics and the processed-file log.
//
// Both files are opened in append mode and held under an exclusive advisory
// lock for the life of the Writer so two runs never interleave lines. The
// log starts each run with a "# <timestamp> run=<id>" header; its entries
// can be passed back as a processed list on the next run.
package results
