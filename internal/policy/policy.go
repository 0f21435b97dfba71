// Package policy resolves the auction rules in force for a season.
package policy

import (
	"strings"

	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
)

const (
	SetLegacy    = "legacy"
	SetCyclical  = "cyclical"
	LegacyYear   = 2021
	MinKnownYear = 2025
	MaxKnownYear = 2027
)

const (
	AuctionTypeLegacy = "legacy"
	AuctionTypeMega   = "mega"
	AuctionTypeMini   = "mini"
)

// Cycle markers accepted in a YearContext.
const (
	CycleMega  = "mega"
	CycleMini1 = "mini-1"
	CycleMini2 = "mini-2"
)

// YearContext carries the hints used to pick a cyclical season year, in
// priority order.
type YearContext struct {
	Year        *int   `json:"year,omitempty"`
	SeasonIndex *int   `json:"seasonIndex,omitempty"`
	CycleMarker string `json:"cycleMarker,omitempty"`
}

func defaultBands() []domain.IncrementBand {
	return []domain.IncrementBand{
		{Threshold: 0, Increment: 5},
		{Threshold: 100, Increment: 10},
		{Threshold: 200, Increment: 20},
		{Threshold: 500, Increment: 25},
		{Threshold: 1000, Increment: 50},
	}
}

func defaultFloors() map[domain.AuctionPhase]int64 {
	return map[domain.AuctionPhase]int64{
		domain.AuctionMarquee:      25,
		domain.AuctionCapped:       10,
		domain.AuctionUncapped:     5,
		domain.AuctionAccelerated1: 10,
		domain.AuctionAccelerated2: 5,
	}
}

func legacyPolicy() domain.AuctionPolicy {
	return domain.AuctionPolicy{
		Purse:          9000,
		SquadMin:       18,
		SquadMax:       25,
		OverseasCap:    8,
		MinimumSpend:   6750,
		MinBasePrice:   20,
		IncrementBands: defaultBands(),
		PhaseFloors:    defaultFloors(),
	}
}

type cyclicalSeason struct {
	auctionType string
	policy      func() domain.AuctionPolicy
}

var cyclicalSeasons = map[int]cyclicalSeason{
	2025: {
		auctionType: AuctionTypeMega,
		policy: func() domain.AuctionPolicy {
			return domain.AuctionPolicy{
				Purse:            12000,
				SquadMin:         18,
				SquadMax:         25,
				OverseasCap:      8,
				MinimumSpend:     9000,
				MinBasePrice:     30,
				RetentionEnabled: true,
				MaxRetentions:    6,
				RTMEnabled:       true,
				MaxRTM:           6,
				IncrementBands:   defaultBands(),
				PhaseFloors:      defaultFloors(),
			}
		},
	},
	2026: {
		auctionType: AuctionTypeMini,
		policy: func() domain.AuctionPolicy {
			return domain.AuctionPolicy{
				Purse:          12500,
				SquadMin:       18,
				SquadMax:       25,
				OverseasCap:    8,
				MinimumSpend:   9375,
				MinBasePrice:   30,
				IncrementBands: defaultBands(),
				PhaseFloors:    defaultFloors(),
			}
		},
	},
	2027: {
		auctionType: AuctionTypeMini,
		policy: func() domain.AuctionPolicy {
			return domain.AuctionPolicy{
				Purse:          13000,
				SquadMin:       18,
				SquadMax:       25,
				OverseasCap:    8,
				MinimumSpend:   9750,
				MinBasePrice:   30,
				IncrementBands: defaultBands(),
				PhaseFloors:    defaultFloors(),
			}
		},
	},
}

// Resolve returns the policy for policySet in the season described by ctx.
// Years outside the supported range are clamped, never rejected.
func Resolve(policySet string, ctx YearContext) (domain.ResolvedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(policySet)) {
	case SetLegacy:
		return domain.ResolvedPolicy{
			PolicySet:   SetLegacy,
			SeasonYear:  LegacyYear,
			AuctionType: AuctionTypeLegacy,
			Policy:      legacyPolicy(),
		}, nil
	case SetCyclical, "":
		year := clampYear(deriveYear(ctx))
		season := cyclicalSeasons[year]
		return domain.ResolvedPolicy{
			PolicySet:   SetCyclical,
			SeasonYear:  year,
			AuctionType: season.auctionType,
			Policy:      season.policy(),
		}, nil
	default:
		return domain.ResolvedPolicy{}, apperrors.Validationf("Unknown policy set %q", policySet)
	}
}

func deriveYear(ctx YearContext) int {
	if ctx.Year != nil {
		return *ctx.Year
	}
	if ctx.SeasonIndex != nil {
		return MinKnownYear + *ctx.SeasonIndex
	}
	switch strings.ToLower(ctx.CycleMarker) {
	case CycleMini1:
		return MinKnownYear + 1
	case CycleMini2:
		return MinKnownYear + 2
	default:
		return MinKnownYear
	}
}

func clampYear(year int) int {
	if year < MinKnownYear {
		return MinKnownYear
	}
	if year > MaxKnownYear {
		return MaxKnownYear
	}
	return year
}

// NextIncrement returns the raise required over currentBid for a lot in phase.
func NextIncrement(p domain.AuctionPolicy, phase domain.AuctionPhase, currentBid int64) int64 {
	var inc int64
	best := int64(-1)
	for _, band := range p.IncrementBands {
		if band.Threshold <= currentBid && band.Threshold > best {
			best = band.Threshold
			inc = band.Increment
		}
	}
	if floor := p.PhaseFloors[phase]; inc < floor {
		inc = floor
	}
	if inc <= 0 {
		inc = 1
	}
	return inc
}

// Config builds the league config implied by a resolved policy.
func Config(resolved domain.ResolvedPolicy, teamCount int, seed uint32, startDate string, tieBreak domain.TieBreak) domain.LeagueConfig {
	if tieBreak == "" {
		tieBreak = domain.TieBreakHomeTeam
	}
	return domain.LeagueConfig{
		TeamCount:       teamCount,
		Format:          "t20",
		PolicySet:       resolved.PolicySet,
		SeasonYear:      resolved.SeasonYear,
		AuctionBudget:   resolved.Policy.Purse,
		MinSquadSize:    resolved.Policy.SquadMin,
		MaxSquadSize:    resolved.Policy.SquadMax,
		SeasonSeed:      seed,
		SeasonStartDate: startDate,
		PlayoffTieBreak: tieBreak,
	}
}
