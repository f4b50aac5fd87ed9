package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kompi/internal/platform/config"
)

// Init configures the global zerolog logger. Output is "stdout" (default),
// "stderr" or "file"; format is "json" (default) or "text".
func Init(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	log.Logger = New(cfg)
}

// New builds a logger without touching the global one.
func New(cfg config.LoggingConfig) zerolog.Logger {
	var out io.Writer = os.Stdout

	switch strings.ToLower(cfg.Output) {
	case "stderr":
		out = os.Stderr
	case "file":
		if f, err := openLogFile(cfg.FilePath); err != nil {
			// Falls back to stdout.
			zerolog.New(os.Stderr).Error().Err(err).Str("path", cfg.FilePath).Msg("failed to open log file")
		} else {
			out = f
		}
	}

	if strings.EqualFold(cfg.Format, "text") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stdout}
	}

	return zerolog.New(out).With().Timestamp().Logger()
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
