package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"franchise-league/internal/domain"
	"franchise-league/internal/policy"
)

type Config struct {
	DBPath            string          `env:"DB_PATH"            envDefault:"league.db"`
	ServerPort        string          `env:"SERVER_PORT"        envDefault:"8080"`
	LogLevel          string          `env:"LOG_LEVEL"          envDefault:"info"`
	DefaultPolicySet  string          `env:"DEFAULT_POLICY_SET" envDefault:"cyclical"`
	DefaultTeamCount  int             `env:"DEFAULT_TEAM_COUNT" envDefault:"10"`
	PlayoffTieBreak   domain.TieBreak `env:"PLAYOFF_TIE_BREAK"  envDefault:"home-team"`
	SeasonStartDate   string          `env:"SEASON_START_DATE"  envDefault:"2025-03-22"`
	SnapshotRetention int             `env:"SNAPSHOT_RETENTION" envDefault:"20"`
	SimulationTimeout time.Duration   `env:"SIMULATION_TIMEOUT" envDefault:"2m"`
}

// Parse reads the environment into a Config without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DefaultPolicySet {
	case policy.SetLegacy, policy.SetCyclical:
	default:
		return fmt.Errorf("DEFAULT_POLICY_SET %q must be %s or %s", c.DefaultPolicySet, policy.SetLegacy, policy.SetCyclical)
	}
	switch c.PlayoffTieBreak {
	case domain.TieBreakHomeTeam, domain.TieBreakHigherSeed:
	default:
		return fmt.Errorf("PLAYOFF_TIE_BREAK %q must be %s or %s", c.PlayoffTieBreak, domain.TieBreakHomeTeam, domain.TieBreakHigherSeed)
	}
	if c.DefaultTeamCount < 2 {
		return fmt.Errorf("DEFAULT_TEAM_COUNT must be at least 2")
	}
	if _, err := time.Parse(domain.DateLayout, c.SeasonStartDate); err != nil {
		return fmt.Errorf("SEASON_START_DATE %q: %w", c.SeasonStartDate, err)
	}
	if c.SnapshotRetention < 1 {
		return fmt.Errorf("SNAPSHOT_RETENTION must be at least 1")
	}
	return nil
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("policy_set", cfg.DefaultPolicySet).
		Str("tie_break", string(cfg.PlayoffTieBreak)).
		Dur("simulation_timeout", cfg.SimulationTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

var Module = fx.Provide(Load)
