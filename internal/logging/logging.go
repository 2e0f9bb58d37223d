package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// viper keys, bound by the root command
const (
	LevelKey   = "log.level"
	FormatKey  = "log.format"
	NoColorKey = "log.no_color"
)

// InitDefault sets up a console logger before flags are parsed.
func InitDefault() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger from viper settings.
// A nil writer defaults to stderr.
func Init(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(viper.GetString(LevelKey))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	switch viper.GetString(FormatKey) {
	case "json":
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    viper.GetBool(NoColorKey),
		})
	}
}
