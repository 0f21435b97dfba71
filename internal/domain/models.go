package domain

import (
	"time"
)

const DateLayout = "2006-01-02"

type LeagueConfig struct {
	TeamCount       int      `json:"teamCount"`
	Format          string   `json:"format"`
	PolicySet       string   `json:"policySet"`
	SeasonYear      int      `json:"seasonYear"`
	AuctionBudget   int64    `json:"auctionBudget"`
	MinSquadSize    int      `json:"minSquadSize"`
	MaxSquadSize    int      `json:"maxSquadSize"`
	SeasonSeed      uint32   `json:"seasonSeed"`
	SeasonStartDate string   `json:"seasonStartDate"`
	PlayoffTieBreak TieBreak `json:"playoffTieBreak"`
}

type IncrementBand struct {
	Threshold int64 `json:"threshold"`
	Increment int64 `json:"increment"`
}

// AuctionPolicy is resolved per season and never mutated. Amounts are lakhs.
type AuctionPolicy struct {
	Purse            int64                  `json:"purse"`
	SquadMin         int                    `json:"squadMin"`
	SquadMax         int                    `json:"squadMax"`
	OverseasCap      int                    `json:"overseasCap"`
	MinimumSpend     int64                  `json:"minimumSpend"`
	MinBasePrice     int64                  `json:"minBasePrice"`
	RetentionEnabled bool                   `json:"retentionEnabled"`
	MaxRetentions    int                    `json:"maxRetentions"`
	RTMEnabled       bool                   `json:"rtmEnabled"`
	MaxRTM           int                    `json:"maxRtm"`
	IncrementBands   []IncrementBand        `json:"incrementBands"`
	PhaseFloors      map[AuctionPhase]int64 `json:"phaseFloors"`
}

type ResolvedPolicy struct {
	PolicySet   string        `json:"policySet"`
	SeasonYear  int           `json:"seasonYear"`
	AuctionType string        `json:"auctionType"`
	Policy      AuctionPolicy `json:"policy"`
}

type BattingRatings struct {
	Overall     int `json:"overall"`
	Timing      int `json:"timing"`
	Power       int `json:"power"`
	Technique   int `json:"technique"`
	Temperament int `json:"temperament"`
}

type BowlingRatings struct {
	Overall   int `json:"overall"`
	Accuracy  int `json:"accuracy"`
	Movement  int `json:"movement"`
	Variation int `json:"variation"`
}

type FieldingRatings struct {
	Overall  int `json:"overall"`
	Catching int `json:"catching"`
	Agility  int `json:"agility"`
	Keeping  int `json:"keeping"`
}

type PlayerRatings struct {
	Batting  BattingRatings  `json:"batting"`
	Bowling  BowlingRatings  `json:"bowling"`
	Fielding FieldingRatings `json:"fielding"`
}

type FirstClassProjection struct {
	Matches int     `json:"matches"`
	Runs    int     `json:"runs"`
	Average float64 `json:"average"`
	Wickets int     `json:"wickets"`
	Economy float64 `json:"economy"`
}

type Development struct {
	IsProspect bool                 `json:"isProspect"`
	Potential  PlayerRatings        `json:"potential"`
	FirstClass FirstClassProjection `json:"firstClass"`
}

type SeasonStats struct {
	Matches    int     `json:"matches"`
	Runs       int     `json:"runs"`
	Wickets    int     `json:"wickets"`
	StrikeRate float64 `json:"strikeRate"`
	Economy    float64 `json:"economy"`
}

type Player struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CountryTag   string        `json:"countryTag"`
	Role         Role          `json:"role"`
	BowlingStyle BowlingStyle  `json:"bowlingStyle"`
	Capped       bool          `json:"capped"`
	Age          int           `json:"age"`
	BasePrice    int64         `json:"basePrice"`
	LastSeason   SeasonStats   `json:"lastSeason"`
	Ratings      PlayerRatings `json:"ratings"`
	Development  *Development  `json:"development,omitempty"`
	TeamID       string        `json:"teamId,omitempty"`
}

type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

type Standings struct {
	Played      int     `json:"played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	Points      int     `json:"points"`
	NetRunRate  float64 `json:"netRunRate"`
	RunsFor     int     `json:"runsFor"`
	RunsAgainst int     `json:"runsAgainst"`
}

type Team struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	ShortName       string        `json:"shortName"`
	City            string        `json:"city"`
	Venue           string        `json:"venue"`
	Colors          Colors        `json:"colors"`
	BudgetRemaining int64         `json:"budgetRemaining"`
	Roster          []string      `json:"roster"`
	PlayingXI       []string      `json:"playingXI"`
	WicketkeeperID  string        `json:"wicketkeeperId,omitempty"`
	BowlingPreset   BowlingPreset `json:"bowlingPreset"`
	Standings       Standings     `json:"standings"`
}

type AuctionEntry struct {
	PlayerID      string       `json:"playerId"`
	Phase         AuctionPhase `json:"phase"`
	Status        EntryStatus  `json:"status"`
	WinningTeamID string       `json:"winningTeamId,omitempty"`
	FinalPrice    int64        `json:"finalPrice"`
}

type AuctionState struct {
	Stage              AuctionStage   `json:"stage"`
	CurrentIndex       int            `json:"currentIndex"`
	CurrentPhase       AuctionPhase   `json:"currentPhase,omitempty"`
	CurrentPlayerID    string         `json:"currentPlayerId,omitempty"`
	CurrentBid         int64          `json:"currentBid"`
	CurrentBidderID    string         `json:"currentBidderId,omitempty"`
	PassedTeamIDs      []string       `json:"passedTeamIds"`
	AwaitingUserAction bool           `json:"awaitingUserAction"`
	Message            string         `json:"message"`
	Entries            []AuctionEntry `json:"entries"`
	Complete           bool           `json:"complete"`
	LotsSold           int            `json:"lotsSold"`
	LotsUnsold         int            `json:"lotsUnsold"`
}

type BattingLine struct {
	PlayerID  string        `json:"playerId"`
	Runs      int           `json:"runs"`
	Balls     int           `json:"balls"`
	Fours     int           `json:"fours"`
	Sixes     int           `json:"sixes"`
	Out       bool          `json:"out"`
	Dismissal DismissalKind `json:"dismissal,omitempty"`
	BowlerID  string        `json:"bowlerId,omitempty"`
}

type BowlingLine struct {
	PlayerID string `json:"playerId"`
	Balls    int    `json:"balls"`
	Runs     int    `json:"runs"`
	Wickets  int    `json:"wickets"`
}

type InningsSummary struct {
	BattingTeamID  string        `json:"battingTeamId"`
	BowlingTeamID  string        `json:"bowlingTeamId"`
	WicketkeeperID string        `json:"wicketkeeperId,omitempty"`
	Runs           int           `json:"runs"`
	Wickets        int           `json:"wickets"`
	Balls          int           `json:"balls"`
	Overs          float64       `json:"overs"`
	Batting        []BattingLine `json:"batting"`
	Bowling        []BowlingLine `json:"bowling"`
}

type MatchResult struct {
	ID           string           `json:"id"`
	Stage        MatchStage       `json:"stage"`
	HomeTeamID   string           `json:"homeTeamId"`
	AwayTeamID   string           `json:"awayTeamId"`
	Venue        string           `json:"venue"`
	Round        int              `json:"round"`
	Date         string           `json:"date"`
	Played       bool             `json:"played"`
	WinnerTeamID string           `json:"winnerTeamId,omitempty"`
	Margin       string           `json:"margin,omitempty"`
	Innings      []InningsSummary `json:"innings,omitempty"`
}

// Tied reports a played match with no winner.
func (m MatchResult) Tied() bool {
	return m.Played && m.WinnerTeamID == ""
}

// Loser returns the team that did not win a played, decided match.
func (m MatchResult) Loser() string {
	switch m.WinnerTeamID {
	case m.HomeTeamID:
		return m.AwayTeamID
	case m.AwayTeamID:
		return m.HomeTeamID
	default:
		return ""
	}
}

type StatLine struct {
	Matches      int `json:"matches"`
	Innings      int `json:"innings"`
	Runs         int `json:"runs"`
	BallsFaced   int `json:"ballsFaced"`
	Fours        int `json:"fours"`
	Sixes        int `json:"sixes"`
	HighScore    int `json:"highScore"`
	NotOuts      int `json:"notOuts"`
	Wickets      int `json:"wickets"`
	BallsBowled  int `json:"ballsBowled"`
	RunsConceded int `json:"runsConceded"`
}

type Metadata struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Season    int       `json:"season"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GameState is the aggregate root every core operation consumes and returns.
type GameState struct {
	Meta           Metadata            `json:"meta"`
	Config         LeagueConfig        `json:"config"`
	Policy         ResolvedPolicy      `json:"policy"`
	Phase          Phase               `json:"phase"`
	UserTeamID     string              `json:"userTeamId"`
	Teams          []Team              `json:"teams"`
	Players        []Player            `json:"players"`
	Auction        AuctionState        `json:"auction"`
	Fixtures       []MatchResult       `json:"fixtures"`
	Stats          map[string]StatLine `json:"stats"`
	ChampionTeamID string              `json:"championTeamId,omitempty"`
}
