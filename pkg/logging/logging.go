package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AppName names the state directory and log file
const AppName = "stager"

// DisableFile, used as Options.FilePath, keeps records off disk.
const DisableFile = "-"

// Options controls the global logger.
type Options struct {
	// Verbosity is the number of -v flags given.
	Verbosity int
	// Console receives human readable records. Defaults to os.Stderr.
	Console io.Writer
	NoColor bool
	// FilePath overrides the log file under the XDG state home.
	FilePath string
}

var openLog *os.File

// Setup installs the global logger. Records go to the console and, as
// JSON lines, to the log file. A log file that cannot be opened is
// reported once and skipped.
func Setup(opts Options) {
	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    opts.NoColor,
	}}

	_ = Close()
	path := opts.FilePath
	if path == "" {
		path = FilePath()
	}
	var fileErr error
	if path != DisableFile {
		openLog, fileErr = openLogFile(path)
		if fileErr == nil {
			writers = append(writers, openLog)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Log file unavailable, logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("log_file", path).Msg("Logger initialized")
}

// SetupLogger is Setup with defaults for everything but verbosity.
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity})
}

// LevelFor maps a -v count to a level: warn, info, debug, then trace.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Close releases the log file opened by Setup, if any.
func Close() error {
	if openLog == nil {
		return nil
	}
	err := openLog.Close()
	openLog = nil
	return err
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// FilePath is $XDG_STATE_HOME/stager/stager.log.
func FilePath() string {
	xdg.Reload()
	if xdg.StateHome == "" {
		return AppName + ".log"
	}
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Track logs the start of an operation at debug level and returns a
// function that logs its end with the elapsed time.
func Track(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
