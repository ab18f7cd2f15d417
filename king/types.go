package king

import (
	"tricktable/card"
	"tricktable/engine"
)

// Phase of a single King game within the 20-game party.
type Phase byte

const (
	PhaseDealing Phase = iota
	PhaseSelecting
	PhasePlaying
	PhaseGameEnd
)

var phaseNames = map[Phase]string{
	PhaseDealing:   "dealing",
	PhaseSelecting: "selecting",
	PhasePlaying:   "playing",
	PhaseGameEnd:   "gameEnd",
}

func (p Phase) String() string { return phaseNames[p] }

// Penalty contracts. Names follow the traditional Turkish game.
type Penalty byte

const (
	PenaltyEl     Penalty = iota // no tricks
	PenaltyKupa                  // no hearts
	PenaltyErkek                 // no kings or jacks
	PenaltyKiz                   // no queens
	PenaltyRifki                 // not the K♥
	PenaltySonIki                // not the last two tricks
)

var penaltyNames = map[Penalty]string{
	PenaltyEl:     "el",
	PenaltyKupa:   "kupa",
	PenaltyErkek:  "erkek",
	PenaltyKiz:    "kiz",
	PenaltyRifki:  "rifki",
	PenaltySonIki: "sonIki",
}

func (p Penalty) String() string { return penaltyNames[p] }

// PenaltyFromName is the inverse of String.
func PenaltyFromName(name string) (Penalty, bool) {
	for p, n := range penaltyNames {
		if n == name {
			return p, true
		}
	}
	return 0, false
}

// AllPenalties in selection-menu order.
var AllPenalties = []Penalty{PenaltyEl, PenaltyKupa, PenaltyErkek, PenaltyKiz, PenaltyRifki, PenaltySonIki}

// ContractKind tags the contract variant.
type ContractKind byte

const (
	ContractPenalty ContractKind = iota
	ContractTrump
)

// Contract is the per-game objective picked by the selector: either one of
// the six penalty games or a trump suit. The zero fields of the unused
// variant stay zero so Contract values are comparable map keys.
type Contract struct {
	Kind    ContractKind
	Penalty Penalty
	Trump   card.Suit
}

func NewPenalty(p Penalty) Contract { return Contract{Kind: ContractPenalty, Penalty: p} }
func NewTrump(s card.Suit) Contract { return Contract{Kind: ContractTrump, Trump: s} }

func (c Contract) String() string {
	if c.Kind == ContractTrump {
		return "trump_" + c.Trump.Name()
	}
	return c.Penalty.String()
}

// Per-game scoring weights.
const (
	scorePerTrickEl    = -50
	scorePerHeart      = -30
	scorePerKingJack   = -60
	scorePerQueen      = -100
	scoreRifki         = -320
	scorePerLastTrick  = -180
	scorePerTrumpTrick = 50
)

// Selection quotas.
const (
	GamesPerParty      = 20
	penaltiesPerSeat   = 3
	trumpsPerSeat      = 2
	globalContractCap  = 2
)

// Config for a King party.
type Config struct {
	// InitialSelector picks the first contract; rotation is counter-clockwise.
	InitialSelector engine.Seat
	// Seed for the shuffle RNG (0 => time-based).
	Seed int64
}

var suitOrder = [4]card.Suit{card.Spade, card.Heart, card.Club, card.Diamond}
