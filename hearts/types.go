package hearts

import (
	"tricktable/card"
	"tricktable/engine"
)

// Phase of a Hearts round.
type Phase byte

const (
	PhaseDealing Phase = iota
	PhasePassing
	PhasePlaying
	PhaseRoundEnd
	PhaseGameEnd
)

var phaseNames = map[Phase]string{
	PhaseDealing:  "dealing",
	PhasePassing:  "passing",
	PhasePlaying:  "playing",
	PhaseRoundEnd: "roundEnd",
	PhaseGameEnd:  "gameEnd",
}

func (p Phase) String() string { return phaseNames[p] }

// PassDirection cycles left, right, across, hold by round number.
type PassDirection byte

const (
	PassLeft PassDirection = iota
	PassRight
	PassAcross
	PassHold
)

var passNames = map[PassDirection]string{
	PassLeft:   "left",
	PassRight:  "right",
	PassAcross: "across",
	PassHold:   "hold",
}

func (d PassDirection) String() string { return passNames[d] }

// offset gives the seat delta from giver to receiver.
func (d PassDirection) offset() engine.Seat {
	switch d {
	case PassLeft:
		return 1
	case PassRight:
		return 3
	case PassAcross:
		return 2
	}
	return 0
}

func directionForRound(round int) PassDirection {
	switch round % 4 {
	case 1:
		return PassLeft
	case 2:
		return PassRight
	case 3:
		return PassAcross
	default:
		return PassHold
	}
}

const (
	// DefaultEndingScore ends the game once any seat reaches it.
	DefaultEndingScore = 50
	roundPoints        = 26
	queenPoints        = 13
)

// Config for a Hearts game.
type Config struct {
	// EndingScore defaults to DefaultEndingScore when zero.
	EndingScore int
	// Seed for the shuffle RNG (0 => time-based).
	Seed int64
}

// suitOrder is the canonical Hearts hand layout.
var suitOrder = [4]card.Suit{card.Spade, card.Heart, card.Club, card.Diamond}
