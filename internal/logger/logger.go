package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"Grana/config"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init reconfigura o logger global a partir do ambiente: saída colorida em
// desenvolvimento, JSON estruturado em produção.
func Init(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if cfg.IsDevelopment() {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if cfg.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	log = zerolog.New(out).With().Timestamp().Str("app", cfg.App.Name).Logger()
}

func Debug() *zerolog.Event { return log.Debug() }

func Info() *zerolog.Event { return log.Info() }

func Warn() *zerolog.Event { return log.Warn() }

func Error() *zerolog.Event { return log.Error() }

func Fatal() *zerolog.Event { return log.Fatal() }
