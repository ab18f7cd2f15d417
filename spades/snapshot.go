package spades

import (
	"tricktable/card"
	"tricktable/engine"
)

// Snapshot is a value copy of the engine state for projection and broadcast.
type Snapshot struct {
	RoundNumber int
	Phase       Phase

	Hands [4][]card.Card

	Bids          [4]*Bid
	CurrentBidder engine.Seat

	CurrentTrick  []engine.TrickPlay
	CurrentPlayer engine.Seat
	SpadesBroken  bool

	TricksPlayed int
	TrickCounts  [4]int

	BagCount         [2]int
	RoundScores      [2]int
	CumulativeScores [2]int
	WinThreshold     int

	LastTrick       []engine.TrickPlay
	LastTrickWinner engine.Seat
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		RoundNumber:      e.roundNumber,
		Phase:            e.phase,
		CurrentBidder:    e.currentBidder,
		CurrentPlayer:    e.currentPlayer,
		SpadesBroken:     e.spadesBroken,
		TricksPlayed:     e.tricksPlayed,
		TrickCounts:      e.tricksTakenBySeat,
		BagCount:         e.bagCount,
		RoundScores:      e.roundScores,
		CumulativeScores: e.cumulativeScores,
		WinThreshold:     e.winThreshold,
		LastTrickWinner:  e.lastTrickWinner,
	}
	for seat := range e.hands {
		s.Hands[seat] = append([]card.Card(nil), e.hands[seat]...)
		if e.bids[seat] != nil {
			b := *e.bids[seat]
			s.Bids[seat] = &b
		}
	}
	s.CurrentTrick = append([]engine.TrickPlay(nil), e.currentTrick...)
	s.LastTrick = append([]engine.TrickPlay(nil), e.lastTrick...)
	return s
}
