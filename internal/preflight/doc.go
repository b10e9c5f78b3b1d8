// Package preflight provides readiness checks for the filesystem paths a
// scan depends on.
//
// The CLI runs RunAll before any frame is decoded: the source directory
// must be listable, every list file readable, and the directories that
// receive the result and log files writable. Failing early avoids analyzing
// hours of frames only to discover the results cannot be saved.
package preflight
