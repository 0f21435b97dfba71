// Package auction runs the player auction as an explicit state machine.
//
// The machine has four stages. awaiting-open nominates the next pending lot,
// awaiting-bid runs one bidding turn, settling sells or passes the lot, and
// complete is terminal. Progress drives the machine with step until it has
// to hand control back to the user or the auction is over.
package auction

import (
	"fmt"
	"slices"

	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/policy"
)

type ActionKind string

const (
	ActionBid  ActionKind = "bid"
	ActionPass ActionKind = "pass"
	// ActionAuto lets the user team's intent decide the current turn.
	ActionAuto ActionKind = "auto"
)

// Action is a user decision on the open lot.
type Action struct {
	Kind ActionKind `json:"kind"`
}

func (a Action) Valid() bool {
	switch a.Kind {
	case ActionBid, ActionPass, ActionAuto:
		return true
	default:
		return false
	}
}

// Options tune a Progress call.
type Options struct {
	// Automated drives the user team by intent instead of suspending.
	Automated bool
	// MaxLots stops after this many lots settle. Zero means no limit.
	MaxLots int
}

var (
	errNotAwaiting  = apperrors.Validation("Auction is not waiting for a user action")
	errAwaitingUser = apperrors.Validation("Auction is waiting for the user team to bid or pass")
	errComplete     = apperrors.Validation("Auction is already complete")
	errNotRunning   = apperrors.Validation("Auction is not running")
	errNotEligible  = apperrors.Validation("User team is not eligible to bid on this player")
	errUnavailable  = apperrors.Validation("Player is no longer available in the auction queue")
)

// checkRunning rejects leagues outside the auction phase. A league created
// with seeded rosters never enters it.
func checkRunning(gs domain.GameState) error {
	switch {
	case gs.Phase != domain.PhaseAuction:
		return errNotRunning
	case gs.Auction.Complete:
		return errComplete
	}
	return nil
}

// machine holds the transient control state of one Progress call.
type machine struct {
	*market
	opts    Options
	action  *Action
	settled int
	// userSkips forces the user to pass every lot before skipTo.
	userSkips bool
	skipTo    string
}

// Progress advances the auction of gs and returns the resulting state. gs
// itself is not modified.
func Progress(gs domain.GameState, action *Action, opts Options) (domain.GameState, error) {
	if err := checkRunning(gs); err != nil {
		return domain.GameState{}, err
	}
	if action != nil && !action.Valid() {
		return domain.GameState{}, apperrors.Validationf("Unknown auction action %q", action.Kind)
	}
	a := gs.Auction
	switch {
	case action != nil && !a.AwaitingUserAction:
		return domain.GameState{}, errNotAwaiting
	case action == nil && a.AwaitingUserAction && !opts.Automated:
		return domain.GameState{}, errAwaitingUser
	}

	next := gs.Clone()
	m := &machine{market: newMarket(&next), opts: opts, action: action}
	if action == nil && opts.Automated {
		next.Auction.AwaitingUserAction = false
	}
	if err := m.run(); err != nil {
		return domain.GameState{}, err
	}
	return next, nil
}

func (m *machine) run() error {
	for {
		more, err := m.step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// step performs one transition and reports whether the machine should keep
// going.
func (m *machine) step() (bool, error) {
	a := &m.gs.Auction
	switch a.Stage {
	case domain.StageAwaitingOpen, "":
		if m.opts.MaxLots > 0 && m.settled >= m.opts.MaxLots {
			return false, nil
		}
		if !m.open() {
			return false, m.complete()
		}
		if m.skipTo != "" && a.CurrentPlayerID == m.skipTo {
			m.userSkips = false
			a.AwaitingUserAction = true
			a.Message = fmt.Sprintf("%s is up. Base price %d", m.playerName(a.CurrentPlayerID), m.currentPlayer().BasePrice)
			return false, nil
		}
		return true, nil
	case domain.StageAwaitingBid:
		return m.bidTurn()
	case domain.StageSettling:
		m.settle()
		return true, nil
	case domain.StageComplete:
		return false, nil
	default:
		return false, apperrors.Validationf("Unknown auction stage %q", a.Stage)
	}
}

// open nominates the next pending lot, resolving stale entries on the way.
// It reports false once the queue is exhausted.
func (m *machine) open() bool {
	a := &m.gs.Auction
	for i := a.CurrentIndex; i < len(a.Entries); i++ {
		e := &a.Entries[i]
		if e.Status != domain.EntryPending {
			continue
		}
		p, ok := m.player(e.PlayerID)
		if !ok {
			e.Status = domain.EntryUnsold
			a.LotsUnsold++
			continue
		}
		if p.TeamID != "" {
			e.Status = domain.EntrySold
			e.WinningTeamID = p.TeamID
			continue
		}
		a.CurrentIndex = i
		a.CurrentPhase = e.Phase
		a.CurrentPlayerID = e.PlayerID
		a.CurrentBid = 0
		a.CurrentBidderID = ""
		a.PassedTeamIDs = []string{}
		a.Stage = domain.StageAwaitingBid
		a.Message = fmt.Sprintf("%s opens at %d", p.Name, p.BasePrice)
		return true
	}
	a.CurrentIndex = len(a.Entries)
	return false
}

func (m *machine) currentPlayer() *domain.Player {
	p, _ := m.player(m.gs.Auction.CurrentPlayerID)
	return p
}

func (m *machine) playerName(id string) string {
	if p, ok := m.player(id); ok {
		return p.Name
	}
	return id
}

// nextBid is the amount the next bidder must offer.
func (m *machine) nextBid() int64 {
	a := &m.gs.Auction
	if a.CurrentBidderID == "" {
		return m.currentPlayer().BasePrice
	}
	return a.CurrentBid + policy.NextIncrement(m.gs.Policy.Policy, a.CurrentPhase, a.CurrentBid)
}

func (m *machine) passed(teamID string) bool {
	return slices.Contains(m.gs.Auction.PassedTeamIDs, teamID)
}

func (m *machine) pass(teamID string) {
	if !m.passed(teamID) {
		m.gs.Auction.PassedTeamIDs = append(m.gs.Auction.PassedTeamIDs, teamID)
	}
}

func (m *machine) bid(teamID string, amount int64) {
	a := &m.gs.Auction
	a.CurrentBid = amount
	a.CurrentBidderID = teamID
	a.Message = fmt.Sprintf("%s bids %d for %s", m.gs.Team(teamID).Name, amount, m.playerName(a.CurrentPlayerID))
}

// userCanAct reports whether the user team still has a live decision on the
// open lot at amount.
func (m *machine) userCanAct(amount int64) bool {
	user := m.gs.Team(m.gs.UserTeamID)
	if user == nil || m.passed(user.ID) || m.gs.Auction.CurrentBidderID == user.ID {
		return false
	}
	return m.canBid(user, m.currentPlayer(), amount)
}

// bidTurn applies any pending user action, then lets the remaining teams
// compete for the next bid. Without a new bidder the lot moves to settling.
func (m *machine) bidTurn() (bool, error) {
	a := &m.gs.Auction
	p := m.currentPlayer()
	if p == nil {
		return false, apperrors.Validationf("Open lot references unknown player %q", a.CurrentPlayerID)
	}
	amount := m.nextBid()
	userID := m.gs.UserTeamID
	userByIntent := m.opts.Automated

	if m.userSkips && userID != "" {
		m.pass(userID)
	}

	if m.action != nil {
		act := m.action
		m.action = nil
		a.AwaitingUserAction = false
		switch act.Kind {
		case ActionPass:
			m.pass(userID)
		case ActionBid:
			if !m.userCanAct(amount) {
				return false, errNotEligible
			}
			m.bid(userID, amount)
			return true, nil
		case ActionAuto:
			userByIntent = true
		}
	}

	if !userByIntent && m.userCanAct(amount) {
		a.AwaitingUserAction = true
		a.Message = fmt.Sprintf("%s: next bid %d", p.Name, amount)
		return false, nil
	}

	best, bestIntent := -1, int64(0)
	for i := range m.gs.Teams {
		team := &m.gs.Teams[i]
		if team.ID == a.CurrentBidderID || m.passed(team.ID) {
			continue
		}
		if team.ID == userID && !userByIntent {
			continue
		}
		if !m.canBid(team, p, amount) {
			m.pass(team.ID)
			continue
		}
		v := m.intent(i, p)
		if v < amount {
			m.pass(team.ID)
			continue
		}
		if best < 0 || v > bestIntent {
			best, bestIntent = i, v
		}
	}
	if best >= 0 {
		m.bid(m.gs.Teams[best].ID, amount)
		return true, nil
	}
	a.Stage = domain.StageSettling
	return true, nil
}

// settle sells the open lot to the standing bidder or marks it unsold, then
// clears the lot.
func (m *machine) settle() {
	a := &m.gs.Auction
	e := &a.Entries[a.CurrentIndex]
	p := m.currentPlayer()

	if a.CurrentBidderID == "" {
		e.Status = domain.EntryUnsold
		a.LotsUnsold++
		a.Message = fmt.Sprintf("%s goes unsold", p.Name)
	} else {
		team := m.gs.Team(a.CurrentBidderID)
		m.sell(team, p, e, a.CurrentBid)
		a.Message = fmt.Sprintf("%s sold to %s for %d", p.Name, team.Name, a.CurrentBid)
	}

	m.settled++
	a.CurrentIndex++
	a.CurrentPlayerID = ""
	a.CurrentPhase = ""
	a.CurrentBid = 0
	a.CurrentBidderID = ""
	a.PassedTeamIDs = []string{}
	a.AwaitingUserAction = false
	a.Stage = domain.StageAwaitingOpen
}

func (m *machine) sell(team *domain.Team, p *domain.Player, e *domain.AuctionEntry, price int64) {
	p.TeamID = team.ID
	team.Roster = append(team.Roster, p.ID)
	if len(team.PlayingXI) < 11 {
		team.PlayingXI = append(team.PlayingXI, p.ID)
	}
	team.BudgetRemaining -= price
	e.Status = domain.EntrySold
	e.WinningTeamID = team.ID
	e.FinalPrice = price
	m.gs.Auction.LotsSold++
}
