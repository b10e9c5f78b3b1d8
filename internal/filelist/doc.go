// Package filelist discovers frame files and filters them against
// user-supplied lists.
//
// Lists are plain text, one path per line. Only the last path component is
// compared, with either slash or backslash as separator, so lists written on
// another platform still match. Lines starting with '#' are comments and
// anything after the first tab is ignored, which lets a previous run's
// processed-file log be fed back in directly.
package filelist
