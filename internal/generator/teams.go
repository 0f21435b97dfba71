package generator

import (
	"fmt"
	"strings"

	"franchise-league/internal/domain"
	"franchise-league/internal/prng"
)

const nameAttempts = 1000

var presets = []domain.BowlingPreset{domain.PresetBalanced, domain.PresetPaceHeavy, domain.PresetSpinHeavy}

// GenerateTeams builds cfg.TeamCount franchises with unique names drawn from
// the city and brand pools.
func GenerateTeams(cfg domain.LeagueConfig) ([]domain.Team, error) {
	if cfg.TeamCount < 2 || cfg.TeamCount > len(cityPool) {
		return nil, fmt.Errorf("team count %d outside [2, %d]", cfg.TeamCount, len(cityPool))
	}

	r := prng.New(prng.Derive(cfg.SeasonSeed, 1))
	usedNames := make(map[string]struct{}, cfg.TeamCount)
	usedCities := make(map[string]struct{}, cfg.TeamCount)
	usedShort := make(map[string]struct{}, cfg.TeamCount)

	teams := make([]domain.Team, 0, cfg.TeamCount)
	for i := 0; i < cfg.TeamCount; i++ {
		city, brand, err := uniqueName(r, usedNames, usedCities)
		if err != nil {
			return nil, err
		}
		name := city + " " + brand
		usedNames[name] = struct{}{}
		usedCities[city] = struct{}{}

		suffix, _ := prng.Pick(r, venueSuffixes)
		colors := palette[(i+r.Between(0, len(palette)-1))%len(palette)]
		preset, _ := prng.Pick(r, presets)

		teams = append(teams, domain.Team{
			ID:              fmt.Sprintf("t-%02d", i+1),
			Name:            name,
			ShortName:       shortName(city, brand, usedShort),
			City:            city,
			Venue:           fmt.Sprintf("%s %s", city, suffix),
			Colors:          domain.Colors{Primary: colors[0], Secondary: colors[1]},
			BudgetRemaining: cfg.AuctionBudget,
			Roster:          []string{},
			PlayingXI:       []string{},
			BowlingPreset:   preset,
		})
	}
	return teams, nil
}

func uniqueName(r *prng.Rand, usedNames, usedCities map[string]struct{}) (string, string, error) {
	for attempt := 0; attempt < nameAttempts; attempt++ {
		city, err := prng.Pick(r, cityPool)
		if err != nil {
			return "", "", err
		}
		brand, err := prng.Pick(r, brandPool)
		if err != nil {
			return "", "", err
		}
		if nameAvailable(city, brand, usedNames, usedCities) {
			return city, brand, nil
		}
	}
	// exhaustive scan keeps generation total for tiny pools
	for _, city := range cityPool {
		for _, brand := range brandPool {
			if nameAvailable(city, brand, usedNames, usedCities) {
				return city, brand, nil
			}
		}
	}
	return "", "", fmt.Errorf("no franchise names left")
}

func nameAvailable(city, brand string, usedNames, usedCities map[string]struct{}) bool {
	name := city + " " + brand
	if _, reserved := reservedNames[name]; reserved {
		return false
	}
	if _, used := usedNames[name]; used {
		return false
	}
	_, used := usedCities[city]
	return !used
}

func shortName(city, brand string, used map[string]struct{}) string {
	base := strings.ToUpper(city[:2] + brand[:1])
	code := base
	for n := 2; ; n++ {
		if _, taken := used[code]; !taken {
			break
		}
		code = fmt.Sprintf("%s%d", base, n)
	}
	used[code] = struct{}{}
	return code
}
