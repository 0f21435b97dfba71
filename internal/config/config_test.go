package config

import (
	"testing"
	"time"

	"franchise-league/internal/domain"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.DBPath != "league.db" {
		t.Errorf("DBPath = %q, want league.db", cfg.DBPath)
	}
	if cfg.DefaultTeamCount != 10 {
		t.Errorf("DefaultTeamCount = %d, want 10", cfg.DefaultTeamCount)
	}
	if cfg.PlayoffTieBreak != domain.TieBreakHomeTeam {
		t.Errorf("PlayoffTieBreak = %q, want home-team", cfg.PlayoffTieBreak)
	}
	if cfg.SimulationTimeout != 2*time.Minute {
		t.Errorf("SimulationTimeout = %v, want 2m", cfg.SimulationTimeout)
	}
	if cfg.SnapshotRetention != 20 {
		t.Errorf("SnapshotRetention = %d, want 20", cfg.SnapshotRetention)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("DEFAULT_POLICY_SET", "legacy")
	t.Setenv("PLAYOFF_TIE_BREAK", "higher-seed")
	t.Setenv("SIMULATION_TIMEOUT", "30s")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.DefaultPolicySet != "legacy" || cfg.PlayoffTieBreak != domain.TieBreakHigherSeed || cfg.SimulationTimeout != 30*time.Second {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestParseRejects(t *testing.T) {
	tcs := []struct{ key, value string }{
		{"DEFAULT_POLICY_SET", "bogus"},
		{"PLAYOFF_TIE_BREAK", "coin-toss"},
		{"DEFAULT_TEAM_COUNT", "1"},
		{"SEASON_START_DATE", "March"},
		{"SNAPSHOT_RETENTION", "0"},
		{"SIMULATION_TIMEOUT", "soon"},
	}
	for _, tc := range tcs {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Parse(); err == nil {
				t.Fatalf("Parse accepted %s=%s", tc.key, tc.value)
			}
		})
	}
}
