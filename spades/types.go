package spades

import (
	"fmt"

	"tricktable/card"
)

// Phase of a Spades round.
type Phase byte

const (
	PhaseDealing Phase = iota
	PhaseBidding
	PhasePlaying
	PhaseRoundEnd
	PhaseGameEnd
)

var phaseNames = map[Phase]string{
	PhaseDealing:  "dealing",
	PhaseBidding:  "bidding",
	PhasePlaying:  "playing",
	PhaseRoundEnd: "roundEnd",
	PhaseGameEnd:  "gameEnd",
}

func (p Phase) String() string { return phaseNames[p] }

// BidKind tags the bid variant.
type BidKind byte

const (
	BidNumber BidKind = iota
	BidNil
	BidBlindNil
)

// Bid is a declared trick target: a number 0..13, nil, or blind nil.
type Bid struct {
	Kind   BidKind
	Tricks int
}

func NumberBid(n int) Bid { return Bid{Kind: BidNumber, Tricks: n} }

var (
	NilBid      = Bid{Kind: BidNil}
	BlindNilBid = Bid{Kind: BidBlindNil}
)

// Effective is the bid's contribution to the team bid; nil variants count 0.
func (b Bid) Effective() int {
	if b.Kind == BidNumber {
		return b.Tricks
	}
	return 0
}

func (b Bid) String() string {
	switch b.Kind {
	case BidNil:
		return "nil"
	case BidBlindNil:
		return "blind_nil"
	default:
		return fmt.Sprintf("%d", b.Tricks)
	}
}

// Scoring constants.
const (
	// DefaultWinThreshold ends the game once a team reaches it.
	DefaultWinThreshold = 300

	nilBonus        = 50
	blindNilBonus   = 100
	pointsPerBid    = 10
	bagsPerPenalty  = 10
	bagPenalty      = 100
	blindNilDeficit = 100
)

// Config for a Spades game.
type Config struct {
	// WinThreshold defaults to DefaultWinThreshold when zero.
	WinThreshold int
	// Seed for the shuffle RNG (0 => time-based).
	Seed int64
}

var suitOrder = [4]card.Suit{card.Spade, card.Heart, card.Club, card.Diamond}
