package match

import (
	"cmp"
	"slices"

	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
)

const (
	xiSize      = 11
	bowlerCount = 5
)

// side is one team as it takes the field.
type side struct {
	team    *domain.Team
	order   []*domain.Player
	bowlers []*domain.Player
	keeper  string
}

// lineup selects up to eleven players from the designated XI, topping up
// from the rest of the roster when the XI is short.
func lineup(gs *domain.GameState, idx map[string]int, teamID string) (*side, error) {
	team := gs.Team(teamID)
	if team == nil {
		return nil, apperrors.Validationf("Fixture references unknown team %q", teamID)
	}

	seen := make(map[string]bool, xiSize)
	var xi []*domain.Player
	add := func(id string) {
		if len(xi) == xiSize || seen[id] {
			return
		}
		if i, ok := idx[id]; ok {
			seen[id] = true
			xi = append(xi, &gs.Players[i])
		}
	}
	for _, id := range team.PlayingXI {
		add(id)
	}
	for _, id := range team.Roster {
		add(id)
	}
	if len(xi) < 2 {
		return nil, apperrors.Validationf("%s cannot field a side", team.Name)
	}

	s := &side{team: team, order: slices.Clone(xi), bowlers: pickBowlers(xi, team.BowlingPreset)}
	slices.SortStableFunc(s.order, func(a, b *domain.Player) int {
		return cmp.Compare(battingStrength(b), battingStrength(a))
	})
	if seen[team.WicketkeeperID] {
		s.keeper = team.WicketkeeperID
	}
	return s, nil
}

func roleWeight(r domain.Role) float64 {
	switch r {
	case domain.RoleBowler:
		return 1.0
	case domain.RoleAllrounder:
		return 0.85
	case domain.RoleWicketkeeper:
		return 0.45
	case domain.RoleBatter:
		return 0.3
	default:
		return 0
	}
}

func presetWeight(preset domain.BowlingPreset, style domain.BowlingStyle) float64 {
	switch {
	case preset == domain.PresetPaceHeavy && style == domain.StylePace,
		preset == domain.PresetSpinHeavy && style == domain.StyleSpin:
		return 1.1
	default:
		return 1.0
	}
}

// pickBowlers returns the best five bowling options ranked by a role-weighted
// suitability score.
func pickBowlers(xi []*domain.Player, preset domain.BowlingPreset) []*domain.Player {
	score := func(p *domain.Player) float64 {
		return float64(p.Ratings.Bowling.Overall) * roleWeight(p.Role) * presetWeight(preset, p.BowlingStyle)
	}
	ranked := slices.Clone(xi)
	slices.SortStableFunc(ranked, func(a, b *domain.Player) int {
		if c := cmp.Compare(score(b), score(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return ranked[:min(bowlerCount, len(ranked))]
}

func battingStrength(p *domain.Player) float64 {
	b := p.Ratings.Batting
	return 0.4*float64(b.Overall) + 0.2*float64(b.Timing) + 0.15*float64(b.Power) +
		0.15*float64(b.Technique) + 0.1*float64(b.Temperament)
}

func bowlingStrength(p *domain.Player) float64 {
	b := p.Ratings.Bowling
	return 0.5*float64(b.Overall) + 0.2*float64(b.Accuracy) + 0.15*float64(b.Movement) + 0.15*float64(b.Variation)
}
