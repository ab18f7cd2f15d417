package codec

import (
	"tricktable/card"
	"tricktable/engine"
	"tricktable/hearts"
	"tricktable/king"
	"tricktable/spades"
)

// GameState is the per-viewer projection of an engine snapshot. Seated
// players see their own hand; spectators (viewer NoSeat) see no hand at all.
// Exactly one of the game-specific sections is set.
type GameState struct {
	GameType      string      `json:"gameType"`
	Phase         string      `json:"phase"`
	CurrentPlayer int         `json:"currentPlayer"`
	CurrentTrick  []TrickCard `json:"currentTrick"`
	LastTrick     []TrickCard `json:"lastTrick,omitempty"`
	LastWinner    *int        `json:"lastTrickWinner,omitempty"`
	Hand          []Card      `json:"hand,omitempty"`
	HandCounts    []int       `json:"handCounts"`
	TrickCounts   []int       `json:"trickCounts"`

	Hearts *HeartsState `json:"hearts,omitempty"`
	King   *KingState   `json:"king,omitempty"`
	Spades *SpadesState `json:"spades,omitempty"`
}

type HeartsState struct {
	RoundNumber      int    `json:"roundNumber"`
	PassDirection    string `json:"passDirection"`
	PassedSeats      []bool `json:"passedSeats"`
	HeartsBroken     bool   `json:"heartsBroken"`
	RoundScores      []int  `json:"roundScores"`
	CumulativeScores []int  `json:"cumulativeScores"`
	EndingScore      int    `json:"endingScore"`
}

type KingState struct {
	GameNumber       int      `json:"gameNumber"`
	SelectorSeat     int      `json:"selectorSeat"`
	Contract         *string  `json:"contract,omitempty"`
	ContractHistory  []string `json:"contractHistory"`
	HeartsBroken     bool     `json:"heartsBroken"`
	TrumpBroken      bool     `json:"trumpBroken"`
	GameScores       []int    `json:"gameScores"`
	CumulativeScores []int    `json:"cumulativeScores"`
	PartyOver        bool     `json:"partyOver"`
}

type SpadesState struct {
	RoundNumber      int    `json:"roundNumber"`
	Bids             []*Bid `json:"bids"`
	CurrentBidder    int    `json:"currentBidder"`
	SpadesBroken     bool   `json:"spadesBroken"`
	BagCount         []int  `json:"bagCount"`
	RoundScores      []int  `json:"roundScores"`
	CumulativeScores []int  `json:"cumulativeScores"`
	WinThreshold     int    `json:"winThreshold"`
}

func fromTrick(trick []engine.TrickPlay) []TrickCard {
	out := make([]TrickCard, len(trick))
	for i, p := range trick {
		out[i] = TrickCard{Seat: int(p.Seat), Card: FromCard(p.Card)}
	}
	return out
}

func seatPtr(s engine.Seat) *int {
	if s == engine.NoSeat {
		return nil
	}
	v := int(s)
	return &v
}

// ProjectHearts builds the viewer projection of a Hearts snapshot.
func ProjectHearts(snap hearts.Snapshot, viewer engine.Seat) *GameState {
	gs := &GameState{
		GameType:      string(engine.GameHearts),
		Phase:         snap.Phase.String(),
		CurrentPlayer: int(snap.CurrentPlayer),
		CurrentTrick:  fromTrick(snap.CurrentTrick),
		LastTrick:     fromTrick(snap.LastTrick),
		LastWinner:    seatPtr(snap.LastTrickWinner),
		HandCounts:    handCounts(snap.Hands[:]),
		TrickCounts:   ints(snap.TrickCounts[:]),
		Hearts: &HeartsState{
			RoundNumber:      snap.RoundNumber,
			PassDirection:    snap.PassDirection.String(),
			PassedSeats:      append([]bool(nil), snap.PassedSeat[:]...),
			HeartsBroken:     snap.HeartsBroken,
			RoundScores:      ints(snap.RoundScores[:]),
			CumulativeScores: ints(snap.CumulativeScores[:]),
			EndingScore:      snap.EndingScore,
		},
	}
	if viewer != engine.NoSeat {
		gs.Hand = FromCards(snap.Hands[viewer])
	}
	return gs
}

// ProjectKing builds the viewer projection of a King snapshot.
func ProjectKing(snap king.Snapshot, viewer engine.Seat) *GameState {
	ks := &KingState{
		GameNumber:       snap.GameNumber,
		SelectorSeat:     int(snap.SelectorSeat),
		HeartsBroken:     snap.HeartsBroken,
		TrumpBroken:      snap.TrumpBroken,
		GameScores:       ints(snap.GameScores[:]),
		CumulativeScores: ints(snap.CumulativeScores[:]),
		PartyOver:        snap.PartyOver,
	}
	if snap.Contract != nil {
		name := snap.Contract.String()
		ks.Contract = &name
	}
	ks.ContractHistory = make([]string, len(snap.ContractHistory))
	for i, sc := range snap.ContractHistory {
		ks.ContractHistory[i] = sc.Contract.String()
	}

	gs := &GameState{
		GameType:      string(engine.GameKing),
		Phase:         snap.Phase.String(),
		CurrentPlayer: int(snap.CurrentPlayer),
		CurrentTrick:  fromTrick(snap.CurrentTrick),
		LastTrick:     fromTrick(snap.LastTrick),
		LastWinner:    seatPtr(snap.LastTrickWinner),
		HandCounts:    handCounts(snap.Hands[:]),
		TrickCounts:   ints(snap.TrickCounts[:]),
		King:          ks,
	}
	if viewer != engine.NoSeat {
		gs.Hand = FromCards(snap.Hands[viewer])
	}
	return gs
}

// ProjectSpades builds the viewer projection of a Spades snapshot.
func ProjectSpades(snap spades.Snapshot, viewer engine.Seat) *GameState {
	ss := &SpadesState{
		RoundNumber:      snap.RoundNumber,
		CurrentBidder:    int(snap.CurrentBidder),
		SpadesBroken:     snap.SpadesBroken,
		BagCount:         ints(snap.BagCount[:]),
		RoundScores:      ints(snap.RoundScores[:]),
		CumulativeScores: ints(snap.CumulativeScores[:]),
		WinThreshold:     snap.WinThreshold,
	}
	ss.Bids = make([]*Bid, 4)
	for seat, b := range snap.Bids {
		if b != nil {
			wb := FromBid(*b)
			ss.Bids[seat] = &wb
		}
	}

	gs := &GameState{
		GameType:      string(engine.GameSpades),
		Phase:         snap.Phase.String(),
		CurrentPlayer: int(snap.CurrentPlayer),
		CurrentTrick:  fromTrick(snap.CurrentTrick),
		LastTrick:     fromTrick(snap.LastTrick),
		LastWinner:    seatPtr(snap.LastTrickWinner),
		HandCounts:    handCounts(snap.Hands[:]),
		TrickCounts:   ints(snap.TrickCounts[:]),
		Spades:        ss,
	}
	if viewer != engine.NoSeat {
		gs.Hand = FromCards(snap.Hands[viewer])
	}
	return gs
}

func handCounts(hands [][]card.Card) []int {
	out := make([]int, len(hands))
	for i, h := range hands {
		out[i] = len(h)
	}
	return out
}

func ints(xs []int) []int { return append([]int(nil), xs...) }
