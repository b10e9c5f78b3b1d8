package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

type progress interface {
	Add(n int) error
	Finish() error
}

type nopProgress struct{}

func (nopProgress) Add(int) error { return nil }
func (nopProgress) Finish() error { return nil }

// newProgress draws a bar on w when it is a terminal.
func newProgress(w io.Writer, total int, description string) progress {
	if total <= 0 || !isTerminal(w) {
		return nopProgress{}
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
