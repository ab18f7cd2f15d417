package hearts

import (
	"tricktable/card"
	"tricktable/engine"
)

// Snapshot is a value copy of the engine state for projection and broadcast.
type Snapshot struct {
	RoundNumber   int
	Phase         Phase
	PassDirection PassDirection

	Hands      [4][]card.Card
	PassedSeat [4]bool

	CurrentTrick  []engine.TrickPlay
	CurrentPlayer engine.Seat
	HeartsBroken  bool

	TricksPlayed    int
	TrickCounts     [4]int
	LastTrick       []engine.TrickPlay
	LastTrickWinner engine.Seat

	RoundScores      [4]int
	CumulativeScores [4]int
	EndingScore      int
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		RoundNumber:      e.roundNumber,
		Phase:            e.phase,
		PassDirection:    e.passDirection,
		CurrentPlayer:    e.currentPlayer,
		HeartsBroken:     e.heartsBroken,
		TricksPlayed:     e.tricksPlayed,
		LastTrickWinner:  e.lastTrickWinner,
		RoundScores:      e.roundScores,
		CumulativeScores: e.cumulativeScores,
		EndingScore:      e.endingScore,
	}
	for seat := range e.hands {
		s.Hands[seat] = append([]card.Card(nil), e.hands[seat]...)
		s.TrickCounts[seat] = len(e.tricksTaken[seat])
		if _, ok := e.pendingPasses[engine.Seat(seat)]; ok {
			s.PassedSeat[seat] = true
		}
	}
	s.CurrentTrick = append([]engine.TrickPlay(nil), e.currentTrick...)
	s.LastTrick = append([]engine.TrickPlay(nil), e.lastTrick...)
	return s
}
