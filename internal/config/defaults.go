package config

const (
	defaultConfigPath   = "~/.config/hdrmeta/config.toml"
	projectConfigFile   = "hdrmeta.toml"
	defaultRange        = "full"
	defaultColorSpace   = "2020"
	defaultThreads      = 4
	defaultSampleSize   = 10
	defaultLogDir       = "."
	defaultResultsDir   = "."
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	envLogLevelOverride = "HDRMETA_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Range:      defaultRange,
			ColorSpace: defaultColorSpace,
			Threads:    defaultThreads,
			SampleSize: defaultSampleSize,
		},
		Paths: Paths{
			LogDir:     defaultLogDir,
			ResultsDir: defaultResultsDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
