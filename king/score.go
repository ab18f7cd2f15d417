package king

import (
	"tricktable/card"
	"tricktable/engine"
)

// scoreGameLocked computes per-seat scores for the finished game.
func (e *Engine) scoreGameLocked() [4]int {
	var scores [4]int
	ct := *e.contract

	if ct.Kind == ContractTrump {
		for seat := range scores {
			scores[seat] = scorePerTrumpTrick * len(e.tricksTaken[seat])
		}
		return scores
	}

	switch ct.Penalty {
	case PenaltyEl:
		for seat := range scores {
			scores[seat] = scorePerTrickEl * len(e.tricksTaken[seat])
		}
	case PenaltyKupa:
		for seat := range scores {
			scores[seat] = scorePerHeart * e.capturedCountLocked(engine.Seat(seat), func(c card.Card) bool {
				return c.Suit() == card.Heart
			})
		}
	case PenaltyErkek:
		for seat := range scores {
			scores[seat] = scorePerKingJack * e.capturedCountLocked(engine.Seat(seat), func(c card.Card) bool {
				return c.Rank() == 13 || c.Rank() == 11
			})
		}
	case PenaltyKiz:
		for seat := range scores {
			scores[seat] = scorePerQueen * e.capturedCountLocked(engine.Seat(seat), func(c card.Card) bool {
				return c.Rank() == 12
			})
		}
	case PenaltyRifki:
		for seat := range scores {
			if e.capturedCountLocked(engine.Seat(seat), func(c card.Card) bool { return c == card.HeartKing }) > 0 {
				scores[seat] = scoreRifki
			}
		}
	case PenaltySonIki:
		// The winners of tricks 12 and 13 each take the hit.
		for i, winner := range e.trickWinners {
			if i == 11 || i == 12 {
				scores[winner] += scorePerLastTrick
			}
		}
	}
	return scores
}

func (e *Engine) capturedCountLocked(seat engine.Seat, match func(card.Card) bool) int {
	count := 0
	for _, trick := range e.tricksTaken[seat] {
		for _, c := range trick {
			if match(c) {
				count++
			}
		}
	}
	return count
}
