package results

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"hdrmeta/internal/lightlevel"
)

// ErrLocked is returned when another process holds a lock on an output file.
var ErrLocked = errors.New("output file is locked by another run")

// DefaultNames returns the result and log file names used when none are
// given, stamped with t.
func DefaultNames(t time.Time) (resultName, logName string) {
	stamp := t.Format("010206_1504")
	return "hdr_results_" + stamp + ".txt", "hdr_log_" + stamp + ".txt"
}

type output struct {
	lock *flock.Flock
	file *os.File
	buf  *bufio.Writer
}

func openOutput(path string) (*output, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	lock := flock.New(path, flock.SetPermissions(0o644))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &output{lock: lock, file: file, buf: bufio.NewWriter(file)}, nil
}

func (o *output) close() error {
	flushErr := o.buf.Flush()
	closeErr := o.file.Close()
	unlockErr := o.lock.Unlock()
	return errors.Join(flushErr, closeErr, unlockErr)
}

// Writer appends result and log lines. It is safe for concurrent use.
type Writer struct {
	mu      sync.Mutex
	results *output
	log     *output
	now     func() time.Time
	closed  bool
}

// Open locks and opens both files for appending and writes the run header
// to the log.
func Open(resultPath, logPath, runID string) (*Writer, error) {
	return open(resultPath, logPath, runID, time.Now)
}

func open(resultPath, logPath, runID string, now func() time.Time) (*Writer, error) {
	res, err := openOutput(resultPath)
	if err != nil {
		return nil, err
	}
	lg, err := openOutput(logPath)
	if err != nil {
		_ = res.close()
		return nil, err
	}
	w := &Writer{results: res, log: lg, now: now}
	if _, err := fmt.Fprintf(lg.buf, "# %s run=%s\n", timestamp(now()), runID); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write log header: %w", err)
	}
	return w, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Record appends one result line and one log line. Both files are flushed
// so an interrupted run keeps every recorded frame.
func (w *Writer) Record(path string, m lightlevel.Metrics) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("results writer is closed")
	}

	fall, cll := m.Values()
	if _, err := fmt.Fprintf(w.results.buf, "%s\t%s\t%s\n", path, lightlevel.FormatValue(fall), lightlevel.FormatValue(cll)); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err := w.results.buf.Flush(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	if _, err := fmt.Fprintf(w.log.buf, "%s\t%s\n", path, timestamp(w.now())); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	if err := w.log.buf.Flush(); err != nil {
		return fmt.Errorf("flush log: %w", err)
	}
	return nil
}

// Close flushes and unlocks both files.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return errors.Join(w.results.close(), w.log.close())
}
