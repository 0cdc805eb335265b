// Package log wraps a global zerolog logger with the leveled helpers used
// across the module. The level can be overridden with $LOG_LEVEL.
package log

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"os"
	"path"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"
)

var levels = map[string]zerolog.Level{
	LogLevelDebug: zerolog.DebugLevel,
	LogLevelInfo:  zerolog.InfoLevel,
	LogLevelWarn:  zerolog.WarnLevel,
	LogLevelError: zerolog.ErrorLevel,
}

var (
	logger   zerolog.Logger
	loggerMu sync.RWMutex
	// set from LOG_PANIC_ON_INVALIDCHARS, only meant for tests and CI
	panicOnInvalidChars = os.Getenv("LOG_PANIC_ON_INVALIDCHARS") == "true"
)

// testWriter replaces the output when Init is called with testOutput.
var testWriter io.Writer

const testOutput = "log_test_writer"

func init() {
	Init(cmp.Or(os.Getenv("LOG_LEVEL"), LogLevelError), "stderr")
}

// Logger returns a copy of the global logger.
func Logger() *zerolog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	return &l
}

// invalidCharChecker panics on log lines carrying the Unicode replacement
// char, which usually means a format verb did not match its argument.
type invalidCharChecker struct{}

func (invalidCharChecker) Write(p []byte) (int, error) {
	if bytes.ContainsRune(p, '\uFFFD') {
		panic(fmt.Sprintf("log line with invalid chars: %q", string(p)))
	}
	return len(p), nil
}

// openOutput resolves "stdout", "stderr" or a file path to a writer.
func openOutput(output string) io.Writer {
	switch output {
	case "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	case testOutput:
		return testWriter
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		panic(fmt.Sprintf("cannot create log output: %v", err))
	}
	return f
}

// Init configures the global logger with a console writer on output, which
// can be "stdout", "stderr" or a file path. It panics on an unknown level.
func Init(level, output string) {
	lvl, ok := levels[level]
	if !ok {
		panic(fmt.Sprintf("invalid log level: %q", level))
	}

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        openOutput(output),
		TimeFormat: RFC3339Milli,
		NoColor:    output != "stdout" && output != "stderr",
	}
	if panicOnInvalidChars {
		out = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{Out: invalidCharChecker{}})
	}
	if output == testOutput {
		zerolog.TimestampFunc = func() time.Time { return time.Unix(0, 0).UTC() }
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	// skip this package's wrappers when reporting the caller
	zerolog.CallerSkipFrameCount = 3
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return fmt.Sprintf("%s/%s:%d", path.Base(path.Dir(file)), path.Base(file), line)
	}

	l := zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger()
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
	l.Info().Msgf("logger construction succeeded at level %s with output %s", level, output)
}

// Level returns the current log level name.
func Level() string {
	lvl := Logger().GetLevel()
	for name, l := range levels {
		if l == lvl {
			return name
		}
	}
	panic(fmt.Sprintf("invalid log level: %q", lvl))
}

// Fatalf logs a formatted message with the current stack and exits.
func Fatalf(template string, args ...any) {
	Logger().Fatal().Msgf(template+"\n"+string(debug.Stack()), args...)
}

// Debugw logs msg at debug level with key-value pairs.
func Debugw(msg string, keyvalues ...any) {
	Logger().Debug().Fields(keyvalues).Msg(msg)
}

// Infow logs msg at info level with key-value pairs.
func Infow(msg string, keyvalues ...any) {
	Logger().Info().Fields(keyvalues).Msg(msg)
}

// Warnw logs msg at warn level with key-value pairs.
func Warnw(msg string, keyvalues ...any) {
	Logger().Warn().Fields(keyvalues).Msg(msg)
}

// Errorw logs msg at error level with err attached.
func Errorw(err error, msg string, keyvalues ...any) {
	Logger().Error().Err(err).Fields(keyvalues).Msg(msg)
}
