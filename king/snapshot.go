package king

import (
	"tricktable/card"
	"tricktable/engine"
)

// Snapshot is a value copy of the engine state for projection and broadcast.
type Snapshot struct {
	GameNumber   int
	Phase        Phase
	SelectorSeat engine.Seat
	Contract     *Contract

	Hands [4][]card.Card

	CurrentTrick  []engine.TrickPlay
	CurrentPlayer engine.Seat

	TricksPlayed int
	TrickCounts  [4]int
	TrickWinners []engine.Seat

	HeartsBroken bool
	TrumpBroken  bool

	Usage           [4]Usage
	ContractHistory []SelectedContract

	GameScores       [4]int
	CumulativeScores [4]int
	PartyOver        bool

	LastTrick       []engine.TrickPlay
	LastTrickWinner engine.Seat
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		GameNumber:       e.gameNumber,
		Phase:            e.phase,
		SelectorSeat:     e.selectorSeat,
		CurrentPlayer:    e.currentPlayer,
		TricksPlayed:     e.tricksPlayed,
		HeartsBroken:     e.heartsBroken,
		TrumpBroken:      e.trumpBroken,
		Usage:            e.usage,
		GameScores:       e.gameScores,
		CumulativeScores: e.cumulativeScores,
		PartyOver:        e.partyOver,
		LastTrickWinner:  e.lastTrickWinner,
	}
	if e.contract != nil {
		ct := *e.contract
		s.Contract = &ct
	}
	for seat := range e.hands {
		s.Hands[seat] = append([]card.Card(nil), e.hands[seat]...)
		s.TrickCounts[seat] = len(e.tricksTaken[seat])
	}
	s.CurrentTrick = append([]engine.TrickPlay(nil), e.currentTrick...)
	s.TrickWinners = append([]engine.Seat(nil), e.trickWinners...)
	s.ContractHistory = append([]SelectedContract(nil), e.contractHistory...)
	s.LastTrick = append([]engine.TrickPlay(nil), e.lastTrick...)
	return s
}

// GlobalUsage returns the party-wide usage count for a contract.
func (e *Engine) GlobalUsage(c Contract) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.globalUsage[c]
}
