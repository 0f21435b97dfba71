package domain

// Phase is the league lifecycle phase.
type Phase string

const (
	PhaseAuction       Phase = "auction"
	PhasePreseason     Phase = "preseason"
	PhaseRegularSeason Phase = "regular-season"
	PhasePlayoffs      Phase = "playoffs"
	PhaseComplete      Phase = "complete"
)

func (p Phase) Valid() bool {
	switch p {
	case PhaseAuction, PhasePreseason, PhaseRegularSeason, PhasePlayoffs, PhaseComplete:
		return true
	default:
		return false
	}
}

type Role string

const (
	RoleBatter       Role = "batter"
	RoleBowler       Role = "bowler"
	RoleWicketkeeper Role = "wicketkeeper"
	RoleAllrounder   Role = "allrounder"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBatter, RoleBowler, RoleWicketkeeper, RoleAllrounder:
		return true
	default:
		return false
	}
}

type BowlingStyle string

const (
	StylePace BowlingStyle = "pace"
	StyleSpin BowlingStyle = "spin"
	StyleNone BowlingStyle = "none"
)

// AuctionPhase is the queue segment a lot is nominated in.
type AuctionPhase string

const (
	AuctionMarquee      AuctionPhase = "marquee"
	AuctionCapped       AuctionPhase = "capped"
	AuctionUncapped     AuctionPhase = "uncapped"
	AuctionAccelerated1 AuctionPhase = "accelerated-1"
	AuctionAccelerated2 AuctionPhase = "accelerated-2"
)

type EntryStatus string

const (
	EntryPending EntryStatus = "pending"
	EntrySold    EntryStatus = "sold"
	EntryUnsold  EntryStatus = "unsold"
)

// AuctionStage is the auction state machine position.
type AuctionStage string

const (
	StageAwaitingOpen AuctionStage = "awaiting-open"
	StageAwaitingBid  AuctionStage = "awaiting-bid"
	StageSettling     AuctionStage = "settling"
	StageComplete     AuctionStage = "complete"
)

// MatchStage distinguishes league fixtures from playoff games.
type MatchStage string

const (
	StageLeague     MatchStage = "league"
	StageQualifier1 MatchStage = "qualifier-1"
	StageEliminator MatchStage = "eliminator"
	StageQualifier2 MatchStage = "qualifier-2"
	StageFinal      MatchStage = "final"
)

func (s MatchStage) IsPlayoff() bool {
	return s != StageLeague && s != ""
}

type DismissalKind string

const (
	DismissalBowled  DismissalKind = "bowled"
	DismissalCaught  DismissalKind = "caught"
	DismissalLBW     DismissalKind = "lbw"
	DismissalStumped DismissalKind = "stumped"
	DismissalRunOut  DismissalKind = "run-out"
)

// CreditsBowler reports whether the dismissal counts as a bowler wicket.
func (d DismissalKind) CreditsBowler() bool {
	return d != "" && d != DismissalRunOut
}

// TieBreak decides who advances from a tied playoff game.
type TieBreak string

const (
	TieBreakHomeTeam   TieBreak = "home-team"
	TieBreakHigherSeed TieBreak = "higher-seed"
)

type BowlingPreset string

const (
	PresetBalanced  BowlingPreset = "balanced"
	PresetPaceHeavy BowlingPreset = "pace-heavy"
	PresetSpinHeavy BowlingPreset = "spin-heavy"
)
