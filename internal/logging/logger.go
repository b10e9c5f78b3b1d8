package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hdrmeta/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
}

// New constructs a slog logger using the provided options. The returned
// close func releases any log files opened for the logger.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	writer, closers, err := openWriters(defaultSlice(opts.OutputPaths, []string{"stderr"}))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	addSource := level <= slog.LevelDebug

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		handler = newConsoleHandler(writer, levelVar, addSource)
	case "json":
		handler = newJSONHandler(writer, levelVar, addSource)
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	return slog.New(handler), closeFn, nil
}

// NewFromConfig creates a logger from the [logging] section. When a log file
// is configured, lines go to stderr and to that file.
func NewFromConfig(cfg *config.Config) (*slog.Logger, func() error, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"})
	}
	outputs := []string{"stderr"}
	if file := strings.TrimSpace(cfg.Logging.File); file != "" {
		outputs = append(outputs, file)
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), value...)
}

func openWriters(paths []string) (io.Writer, []io.Closer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer
	var closers []io.Closer
	fail := func(err error) (io.Writer, []io.Closer, error) {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, nil, err
	}
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if dir := filepath.Dir(trimmed); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fail(fmt.Errorf("ensure log directory: %w", err))
				}
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return fail(fmt.Errorf("open log file %s: %w", trimmed, err))
			}
			writers = append(writers, file)
			closers = append(closers, file)
		}
	}

	switch len(writers) {
	case 0:
		return os.Stderr, closers, nil
	case 1:
		return writers[0], closers, nil
	default:
		return io.MultiWriter(writers...), closers, nil
	}
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
