package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	dir      string
)

func init() {
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}
	diagLog = zerolog.New(console).With().Timestamp().Logger()
}

// ResolveDir picks the log directory: -logpath flag, DICTO_LOG_PATH
// environment variable, or the OS cache location, in that order.
func ResolveDir(flagPath string) (string, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("DICTO_LOG_PATH")
	}
	if path != "" {
		if !filepath.IsAbs(path) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, path), nil
		}
		return path, nil
	}

	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cache, "dicto"), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

// Init attaches a file sink in addition to the console writer. Logging
// works before Init; it just stays console-only.
func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	f, err := os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	diagFile = f

	fileWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}
	diagLog = zerolog.New(zerolog.MultiLevelWriter(console, fileWriter)).
		With().Timestamp().Int("pid", os.Getpid()).Logger()
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
}

func Info(msg string) {
	diagLog.Info().Msg(msg)
}

func Infof(format string, args ...any) {
	diagLog.Info().Msg(fmt.Sprintf(format, args...))
}

func Warn(msg string) {
	diagLog.Warn().Msg(msg)
}

func Warnf(format string, args ...any) {
	diagLog.Warn().Msg(fmt.Sprintf(format, args...))
}

func Error(msg string) {
	diagLog.Error().Msg(msg)
}

func Errorf(format string, args ...any) {
	diagLog.Error().Msg(fmt.Sprintf(format, args...))
}

// SessionSummary records one record→transcribe cycle for operators.
func SessionSummary(audioS float64, overflows int, provider, outcome string, totalMs float64) {
	diagLog.Info().
		Float64("audio_s", audioS).
		Int("overflows", overflows).
		Str("provider", provider).
		Str("outcome", outcome).
		Float64("total_ms", totalMs).
		Msg("session")
}

func SessionStart(provider, format string, sampleRate int) {
	diagLog.Info().
		Str("provider", provider).
		Str("format", format).
		Int("sample_rate", sampleRate).
		Msg("session_start")
}
