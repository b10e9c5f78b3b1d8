package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"hdrmeta/internal/config"
	"hdrmeta/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	logClose   func() error
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, closeFn, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logging: %w", err)
			return
		}
		c.logger = logger
		c.logClose = closeFn
	})
	return c.logger, c.loggerErr
}

// closeLogger releases the log file, if one was opened.
func (c *commandContext) closeLogger() error {
	if c.logClose == nil {
		return nil
	}
	closeFn := c.logClose
	c.logClose = nil
	return closeFn()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// resolveInputPath expands ~ and makes path absolute. An empty path is the
// working directory.
func resolveInputPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return os.Getwd()
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return expanded, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
