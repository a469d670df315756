package draft

import (
	"errors"
	"slices"
)

var ErrInvalidArgument = errors.New("invalid argument")
var ErrInvalidPackIndex = errors.New("invalid pack index")
var ErrCardNotFound = errors.New("card not found in pack")
var ErrPackNotReady = errors.New("pack not ready")
var ErrDraftComplete = errors.New("draft complete")
var ErrNoActiveSession = errors.New("no active draft session")

type EventType string

const (
	EvtRefresh       EventType = "refresh"
	EvtPickMade      EventType = "pick_made"
	EvtRoundAdvanced EventType = "round_advanced"
	EvtDraftComplete EventType = "draft_complete"
	EvtPackClaimed   EventType = "pack_claimed"
)

// AuthoritativeRound passed as expectedRound means "whatever round the
// session currently considers current".
const AuthoritativeRound = -1

// Session is the complete state of one draft: every materialized round, the
// authoritative round pointer, and each player's accumulated deck. It has no
// locking of its own — the owning room serializes all calls (see room.Room).
// Starting a new session discards the previous one wholesale.
type Session struct {
	gen         *Generator
	set         string   // empty in flat-pool mode
	chosenPacks []string // pack IDs pre-selected at start; nil in flat-pool mode
	rounds      []*Round // append-only, materialized one ahead at most
	current     int
	totalRounds int
	players     int
	decks       map[string][]Card
	complete    bool
}

// NewSession starts a draft for players seats over totalRounds rounds. If set
// names an installed pack catalog its packs are pre-selected for the whole
// session up front; otherwise (or when the catalog is empty) the flat pool is
// used. Round 0 is generated immediately; later rounds are materialized
// lazily as each round is exhausted.
func NewSession(gen *Generator, players, totalRounds int, set string) (*Session, error) {
	if players <= 0 || totalRounds <= 0 {
		return nil, ErrInvalidArgument
	}
	chosen, err := gen.SelectPackIDs(set, players, totalRounds)
	if err != nil {
		return nil, err
	}
	if chosen == nil {
		set = ""
	}
	packs, err := gen.GenerateRound(players, 0, set, chosen)
	if err != nil {
		return nil, err
	}
	return &Session{
		gen:         gen,
		set:         set,
		chosenPacks: chosen,
		rounds:      []*Round{NewRound(packs)},
		current:     0,
		totalRounds: totalRounds,
		players:     players,
		decks:       make(map[string][]Card),
	}, nil
}

func (s *Session) Players() int      { return s.players }
func (s *Session) TotalRounds() int  { return s.totalRounds }
func (s *Session) CurrentRound() int { return s.current }
func (s *Session) Complete() bool    { return s.complete }

// resolveRound picks the round a request operates on: a client-supplied round
// that is already materialized is honored (the client may be acting on a view
// from before the session advanced), anything else falls back to current.
// Stale rounds stay dereferenceable forever because rounds is append-only.
func (s *Session) resolveRound(expectedRound int) int {
	if expectedRound >= 0 && expectedRound < len(s.rounds) {
		return expectedRound
	}
	return s.current
}

type PickResult struct {
	Advanced      bool
	NextPackIndex int // set when Advanced
	WaitingOn     int // set when !Advanced
	RoundAdvanced bool
	CurrentRound  int
	Deck          []Card
}

// Pick removes the named card from the addressed pack into player's deck and
// raises the pack's hand-off flag. If that pick exhausts the authoritative
// round, the next round is materialized and current advances (or the draft
// completes). The result tells the caller whether their next pack in rotation
// is already available.
//
// On error the session is untouched: the next round, when needed, is
// generated before any mutation so a generator failure cannot leave a
// half-applied pick.
func (s *Session) Pick(player, cardName string, packIndex, expectedRound int) (PickResult, []EventType, error) {
	if player == "" || cardName == "" {
		return PickResult{}, nil, ErrInvalidArgument
	}
	if s.complete {
		return PickResult{}, nil, ErrDraftComplete
	}
	target := s.resolveRound(expectedRound)
	round := s.rounds[target]
	if packIndex < 0 || packIndex >= len(round.Packs) {
		return PickResult{}, nil, ErrInvalidPackIndex
	}
	pack := round.Packs[packIndex]
	ci := pack.indexOf(cardName)
	if ci < 0 {
		return PickResult{}, nil, ErrCardNotFound
	}

	// Exhaustion is only checked against the authoritative round; emptying a
	// stale round never advances the session.
	willExhaust := target == s.current && len(pack) == 1 && s.exhaustedExcept(round, packIndex)

	var nextPacks []Pack
	if willExhaust && s.current+1 < s.totalRounds {
		var err error
		nextPacks, err = s.gen.GenerateRound(s.players, s.current+1, s.set, s.chosenPacks)
		if err != nil {
			return PickResult{}, nil, err
		}
	}

	card := pack[ci]
	round.Packs[packIndex] = append(pack[:ci], pack[ci+1:]...)
	s.decks[player] = append(s.decks[player], card)
	round.Ready[packIndex] = true

	var events []EventType
	roundAdvanced := false
	if willExhaust {
		if nextPacks != nil {
			s.rounds = append(s.rounds, NewRound(nextPacks))
			s.current++
			roundAdvanced = true
			events = append(events, EvtRoundAdvanced)
		} else {
			s.complete = true
			events = append(events, EvtDraftComplete)
		}
	}

	res := PickResult{
		RoundAdvanced: roundAdvanced,
		CurrentRound:  s.current,
		Deck:          s.Deck(player),
	}
	next := (packIndex + 1) % len(round.Packs)
	switch {
	case roundAdvanced:
		// Same rotation slot, reinterpreted against the new round.
		res.Advanced = true
		res.NextPackIndex = packIndex % len(s.rounds[s.current].Packs)
	case round.Ready[next]:
		round.Ready[next] = false
		res.Advanced = true
		res.NextPackIndex = next
	default:
		res.WaitingOn = next
	}

	events = append(events, EvtPickMade)
	return res, events, nil
}

// exhaustedExcept reports whether every pack in round other than skip is
// empty.
func (s *Session) exhaustedExcept(round *Round, skip int) bool {
	for i, p := range round.Packs {
		if i != skip && len(p) > 0 {
			return false
		}
	}
	return true
}

type ClaimResult struct {
	PackIndex int
	Pack      Pack
	Ready     []bool
	Deck      []Card
}

// Claim consumes the hand-off flag on the addressed pack, taking possession
// of it for player. It is the polling counterpart to the automatic hand-off
// a player gets from their own pick: a player whose pick returned "waiting"
// claims the pack once notified it is ready.
func (s *Session) Claim(player string, packIndex, expectedRound int) (ClaimResult, []EventType, error) {
	if player == "" {
		return ClaimResult{}, nil, ErrInvalidArgument
	}
	if s.complete {
		return ClaimResult{}, nil, ErrDraftComplete
	}
	target := s.resolveRound(expectedRound)
	round := s.rounds[target]
	if packIndex < 0 || packIndex >= len(round.Packs) {
		return ClaimResult{}, nil, ErrInvalidPackIndex
	}
	if !round.Ready[packIndex] {
		return ClaimResult{}, nil, ErrPackNotReady
	}
	round.Ready[packIndex] = false
	return ClaimResult{
		PackIndex: packIndex,
		Pack:      slices.Clone(round.Packs[packIndex]),
		Ready:     slices.Clone(round.Ready),
		Deck:      s.Deck(player),
	}, []EventType{EvtPackClaimed}, nil
}

// Snapshot is the read model broadcast to every observer after a mutation.
type Snapshot struct {
	Event        EventType `json:"event,omitempty"`
	CurrentRound int       `json:"current_round"`
	TotalRounds  int       `json:"rounds"`
	Players      int       `json:"players"`
	Packs        []Pack    `json:"packs"`
	Ready        []bool    `json:"packs_ready"`
	Counts       []int     `json:"packs_counts"`
	Complete     bool      `json:"complete,omitempty"`
}

// Snapshot returns a defensive copy of the current round's state. Mutating
// the returned packs never touches the session; the packs here are the same
// mutable slices concurrent picks rewrite, so handing out references would
// be a data race waiting to happen.
func (s *Session) Snapshot() Snapshot {
	round := s.rounds[s.current]
	packs := make([]Pack, len(round.Packs))
	counts := make([]int, len(round.Packs))
	for i, p := range round.Packs {
		packs[i] = slices.Clone(p)
		counts[i] = len(p)
	}
	return Snapshot{
		CurrentRound: s.current,
		TotalRounds:  s.totalRounds,
		Players:      s.players,
		Packs:        packs,
		Ready:        slices.Clone(round.Ready),
		Counts:       counts,
		Complete:     s.complete,
	}
}

// Deck returns a copy of player's accumulated picks, oldest first.
func (s *Session) Deck(player string) []Card {
	return slices.Clone(s.decks[player])
}
