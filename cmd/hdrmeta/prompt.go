package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var (
	errAborted            = errors.New("aborted")
	errConfirmationNeeded = errors.New("confirmation required but input is not a terminal; rerun with --yes to continue")
)

// confirmer asks the user whether to continue past a questionable input.
type confirmer interface {
	Confirm(prompt string) (bool, error)
}

type assumeYes struct{}

func (assumeYes) Confirm(string) (bool, error) { return true, nil }

type nonInteractive struct{}

func (nonInteractive) Confirm(string) (bool, error) { return false, errConfirmationNeeded }

type lineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// Confirm prints prompt and reads one line. Only an explicit no, or end of
// input, declines.
func (c *lineConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [Y/n] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" && errors.Is(err, io.EOF) {
		return false, nil
	}
	return answer != "n" && answer != "no", nil
}

func newConfirmer(in io.Reader, out io.Writer, yes bool) confirmer {
	if yes {
		return assumeYes{}
	}
	if f, ok := in.(*os.File); ok && !isTerminal(f) {
		return nonInteractive{}
	}
	return &lineConfirmer{in: bufio.NewReader(in), out: out}
}

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// confirmOrAbort returns errAborted when the user declines.
func confirmOrAbort(c confirmer, out io.Writer, prompt string) error {
	ok, err := c.Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "Aborting.")
		return errAborted
	}
	fmt.Fprintln(out, "Continuing.")
	return nil
}
