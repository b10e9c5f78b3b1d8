// Package frame holds the decoded pixel representation shared by the
// analysis packages and the TIFF decoder that produces it.
//
// A Buffer is a row-major grid of interleaved 16-bit RGB samples. It is
// built once per file and never modified afterwards, so analysis code can
// read it from any goroutine that owns it.
package frame
