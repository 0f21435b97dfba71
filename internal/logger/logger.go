package logger

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"franchise-league/internal/config"
)

func New() zerolog.Logger {
	return SetLevel(zerolog.DebugLevel)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

// ApplyLevel sets the process-wide level from LOG_LEVEL. An unparseable
// level keeps info.
func ApplyLevel(cfg *config.Config, logger zerolog.Logger) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(ApplyLevel),
)
