package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/forge/internal/constants"
)

// HomeEnvVar overrides the forge data directory.
const HomeEnvVar = "FORGE_HOME"

// Options configures New.
type Options struct {
	// Verbose selects debug level; Quiet selects warn level.
	Verbose bool
	Quiet   bool

	// Console receives human-facing output. Defaults to os.Stderr.
	Console io.Writer

	// Dir is where forge.log is written. Empty means ~/.forge/logs.
	Dir string

	// NoFile disables the rotated log file.
	NoFile bool
}

// New builds the process logger: a console writer (pretty on a colour TTY,
// JSON otherwise) plus a rotated, redacted log file. The returned closer
// flushes the file and is never nil. A log file that cannot be opened is
// reported as an error alongside a usable console-only logger.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = consoleWriter(os.Stderr)
	}

	var (
		writer io.Writer = console
		closer io.Closer = nopCloser{}
		err    error
	)
	if !opts.NoFile {
		var file io.WriteCloser
		file, err = openLogFile(opts.Dir)
		if err == nil {
			writer = zerolog.MultiLevelWriter(console, file)
			closer = file
		}
	}

	logger := zerolog.New(writer).
		Level(selectLevel(opts.Verbose, opts.Quiet)).
		Hook(NewSensitiveDataHook()).
		With().Timestamp().Logger()
	return logger, closer, err
}

// selectLevel maps the verbosity flags to a level. Verbose wins over quiet.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// consoleWriter pretty-prints on a terminal unless NO_COLOR is set.
func consoleWriter(f *os.File) io.Writer {
	if term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen}
	}
	return f
}

type filteringWriteCloser struct {
	*FilteringWriter
	io.Closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openLogFile(dir string) (io.WriteCloser, error) {
	path := filepath.Join(dir, constants.CLILogFileName)
	if dir == "" {
		var err error
		if path, err = FilePath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}
	return filteringWriteCloser{FilteringWriter: NewFilteringWriter(lj), Closer: lj}, nil
}

// Home returns the forge data directory: $FORGE_HOME, else ~/.forge.
func Home() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(userHome, constants.ForgeHome), nil
}

// FilePath returns the path of the CLI log file.
func FilePath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.LogsDir, constants.CLILogFileName), nil
}
