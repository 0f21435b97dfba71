package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"franchise-league/internal/domain"
	"franchise-league/internal/policy"
)

func testConfig(t *testing.T, teams int, seed uint32) (domain.LeagueConfig, domain.AuctionPolicy) {
	t.Helper()
	resolved, err := policy.Resolve(policy.SetCyclical, policy.YearContext{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	return policy.Config(resolved, teams, seed, "2025-03-22", ""), resolved.Policy
}

func TestGenerateTeamsDeterministic(t *testing.T) {
	cfg, _ := testConfig(t, 10, 42)
	a, err := GenerateTeams(cfg)
	if err != nil {
		t.Fatalf("GenerateTeams returned error: %v", err)
	}
	b, _ := GenerateTeams(cfg)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different teams (-first +second):\n%s", diff)
	}
}

func TestGenerateTeamsUniqueNames(t *testing.T) {
	for _, seed := range []uint32{1, 99, 1501, 8080} {
		cfg, _ := testConfig(t, 16, seed)
		teams, err := GenerateTeams(cfg)
		if err != nil {
			t.Fatalf("seed %d: GenerateTeams returned error: %v", seed, err)
		}
		names := map[string]bool{}
		shorts := map[string]bool{}
		for _, team := range teams {
			if names[team.Name] {
				t.Errorf("seed %d: duplicate name %q", seed, team.Name)
			}
			if shorts[team.ShortName] {
				t.Errorf("seed %d: duplicate short name %q", seed, team.ShortName)
			}
			if _, reserved := reservedNames[team.Name]; reserved {
				t.Errorf("seed %d: reserved name %q used", seed, team.Name)
			}
			names[team.Name] = true
			shorts[team.ShortName] = true
		}
	}
}

func TestGenerateTeamsRejectsCount(t *testing.T) {
	cfg, _ := testConfig(t, 1, 1)
	if _, err := GenerateTeams(cfg); err == nil {
		t.Fatal("GenerateTeams accepted a single team")
	}
}

func TestGeneratePlayersPool(t *testing.T) {
	cfg, pol := testConfig(t, 10, 7)
	players := GeneratePlayers(cfg, pol)
	if got, want := len(players), 10*cfg.MaxSquadSize; got != want {
		t.Fatalf("pool size = %d, want %d", got, want)
	}

	prospects := 0
	for i, p := range players {
		if !p.Role.Valid() {
			t.Errorf("player %s has role %q", p.ID, p.Role)
		}
		if p.BasePrice < pol.MinBasePrice {
			t.Errorf("player %s base price %d below minimum %d", p.ID, p.BasePrice, pol.MinBasePrice)
		}
		if !p.IsProspect() {
			continue
		}
		prospects++
		if i < len(players)-ProspectCount(len(players), 10) {
			t.Errorf("prospect %s outside the trailing slice", p.ID)
		}
		if !PotentialCovers(p.Ratings, p.Development.Potential) {
			t.Errorf("prospect %s has potential below current ratings", p.ID)
		}
		if p.Capped {
			t.Errorf("prospect %s is capped", p.ID)
		}
	}
	if want := ProspectCount(len(players), 10); prospects != want {
		t.Errorf("prospects = %d, want %d", prospects, want)
	}
}

func TestProspectCount(t *testing.T) {
	tcs := []struct {
		pool, teams, want int
	}{
		{250, 10, 20},
		{100, 4, 8},
		{50, 2, 6},
		{20, 8, 4},
	}
	for _, tc := range tcs {
		if got := ProspectCount(tc.pool, tc.teams); got != tc.want {
			t.Errorf("ProspectCount(%d, %d) = %d, want %d", tc.pool, tc.teams, got, tc.want)
		}
	}
}

func TestOrderPlayersForAuction(t *testing.T) {
	cfg, pol := testConfig(t, 10, 11)
	players := GeneratePlayers(cfg, pol)
	entries := OrderPlayersForAuction(players)
	if len(entries) != len(players) {
		t.Fatalf("entries = %d, want %d", len(entries), len(players))
	}

	byID := map[string]domain.Player{}
	for _, p := range players {
		byID[p.ID] = p
	}
	for i := 1; i < MarqueeLots; i++ {
		if byID[entries[i-1].PlayerID].Overall() < byID[entries[i].PlayerID].Overall() {
			t.Errorf("marquee lot %d out of order", i)
		}
	}
	for i, e := range entries {
		if e.Status != domain.EntryPending {
			t.Errorf("entry %d status = %s, want pending", i, e.Status)
		}
		switch {
		case i < MarqueeLots && e.Phase != domain.AuctionMarquee:
			t.Errorf("entry %d phase = %s, want marquee", i, e.Phase)
		case i >= Accelerated2Start && e.Phase != domain.AuctionAccelerated2:
			t.Errorf("entry %d phase = %s, want accelerated-2", i, e.Phase)
		case i >= Accelerated1Start && i < Accelerated2Start && e.Phase != domain.AuctionAccelerated1:
			t.Errorf("entry %d phase = %s, want accelerated-1", i, e.Phase)
		}
	}
}

func TestOrderUncappedOverseasLast(t *testing.T) {
	cfg, pol := testConfig(t, 10, 11)
	players := GeneratePlayers(cfg, pol)
	weakest := 0
	for i := range players {
		if players[i].Overall() < players[weakest].Overall() {
			weakest = i
		}
	}
	players[weakest].Capped = false
	players[weakest].CountryTag = "AUS"

	byID := map[string]domain.Player{}
	for _, p := range players {
		byID[p.ID] = p
	}
	segment := func(p domain.Player) int {
		switch {
		case p.Capped:
			return 0
		case p.IsOverseas():
			return 2
		default:
			return 1
		}
	}
	entries := OrderPlayersForAuction(players)
	last := 0
	for i, e := range entries[MarqueeLots:] {
		p := byID[e.PlayerID]
		seg := segment(p)
		if seg < last {
			t.Fatalf("entry %d (%s, capped %v, %s) is ahead of its segment", MarqueeLots+i, p.ID, p.Capped, p.CountryTag)
		}
		last = seg
	}
	if last != 2 {
		t.Errorf("queue ends in segment %d, want uncapped overseas", last)
	}
}

func TestAssignRosters(t *testing.T) {
	cfg, pol := testConfig(t, 10, 1234)
	teams, err := GenerateTeams(cfg)
	if err != nil {
		t.Fatalf("GenerateTeams returned error: %v", err)
	}
	players := GeneratePlayers(cfg, pol)
	AssignRosters(cfg, pol, teams, players)

	idx := map[string]int{}
	for i := range players {
		idx[players[i].ID] = i
	}
	owner := map[string]string{}
	for _, team := range teams {
		if n := len(team.Roster); n < pol.SquadMin || n > pol.SquadMax {
			t.Errorf("%s roster size = %d, want [%d, %d]", team.ID, n, pol.SquadMin, pol.SquadMax)
		}
		if n := domain.OverseasCount(team.Roster, players, idx); n > pol.OverseasCap {
			t.Errorf("%s overseas = %d, want <= %d", team.ID, n, pol.OverseasCap)
		}
		if team.BudgetRemaining < 0 {
			t.Errorf("%s budget = %d, want >= 0", team.ID, team.BudgetRemaining)
		}
		if spent := cfg.AuctionBudget - team.BudgetRemaining; spent < pol.MinimumSpend {
			t.Errorf("%s spent = %d, want >= %d", team.ID, spent, pol.MinimumSpend)
		}
		if len(team.PlayingXI) != xiSize {
			t.Errorf("%s XI size = %d, want %d", team.ID, len(team.PlayingXI), xiSize)
		}
		keeperInXI := false
		for _, id := range team.PlayingXI {
			keeperInXI = keeperInXI || id == team.WicketkeeperID
		}
		if !keeperInXI {
			t.Errorf("%s keeper %q not in XI", team.ID, team.WicketkeeperID)
		}
		for _, id := range team.Roster {
			if prev, ok := owner[id]; ok {
				t.Errorf("player %s on %s and %s", id, prev, team.ID)
			}
			owner[id] = team.ID
			if players[idx[id]].TeamID != team.ID {
				t.Errorf("player %s TeamID = %q, want %q", id, players[idx[id]].TeamID, team.ID)
			}
		}
	}
}

func TestBalancedXI(t *testing.T) {
	var squad []domain.Player
	add := func(id string, role domain.Role, rating int) {
		squad = append(squad, domain.Player{
			ID:   id,
			Role: role,
			Ratings: domain.PlayerRatings{
				Batting:  domain.BattingRatings{Overall: rating},
				Bowling:  domain.BowlingRatings{Overall: rating},
				Fielding: domain.FieldingRatings{Overall: rating, Keeping: rating},
			},
		})
	}
	for i, r := range []int{90, 85, 80, 75, 70, 65} {
		add("bat"+string(rune('a'+i)), domain.RoleBatter, r)
	}
	for i, r := range []int{88, 60, 55, 50} {
		add("bowl"+string(rune('a'+i)), domain.RoleBowler, r)
	}
	add("ar-a", domain.RoleAllrounder, 70)
	add("ar-b", domain.RoleAllrounder, 40)
	add("wk-a", domain.RoleWicketkeeper, 30)

	xi := BalancedXI(squad)
	if len(xi) != xiSize {
		t.Fatalf("XI size = %d, want %d", len(xi), xiSize)
	}
	want := []string{"wk-a", "bowla", "bowlb", "bowlc", "ar-a", "ar-b", "bata", "batb", "batc", "batd", "bate"}
	if diff := cmp.Diff(want, xi); diff != "" {
		t.Errorf("BalancedXI mismatch (-want +got):\n%s", diff)
	}
}

func TestFinalizeKeeper(t *testing.T) {
	players := []domain.Player{
		{ID: "a", Role: domain.RoleBatter},
		{ID: "b", Role: domain.RoleBowler},
		{ID: "k", Role: domain.RoleWicketkeeper},
	}
	idx := map[string]int{"a": 0, "b": 1, "k": 2}

	xi, keeper := FinalizeKeeper([]string{"a", "b"}, []string{"a", "b", "k"}, players, idx)
	if keeper != "k" {
		t.Errorf("keeper = %q, want k", keeper)
	}
	if diff := cmp.Diff([]string{"a", "b", "k"}, xi); diff != "" {
		t.Errorf("XI mismatch (-want +got):\n%s", diff)
	}

	xi, keeper = FinalizeKeeper([]string{"a", "b"}, []string{"a", "b"}, players, idx)
	if keeper != "a" || len(xi) != 2 {
		t.Errorf("fallback keeper = %q with XI %v, want a", keeper, xi)
	}

	if _, keeper = FinalizeKeeper(nil, nil, players, idx); keeper != "" {
		t.Errorf("empty XI keeper = %q, want empty", keeper)
	}
}
