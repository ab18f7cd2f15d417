package hearts

import (
	"tricktable/card"
	"tricktable/engine"
)

// LegalCards returns the subset of seat's hand that may be played right now.
// It is a pure projection: playing any returned card succeeds, playing any
// other card fails with IllegalCard.
func (e *Engine) LegalCards(seat engine.Seat) []card.Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhasePlaying || seat != e.currentPlayer {
		return nil
	}
	return e.legalCardsLocked(seat)
}

func (e *Engine) legalCardsLocked(seat engine.Seat) []card.Card {
	hand := e.hands[seat]
	firstTrick := e.tricksPlayed == 0

	// Opening lead of the round is always the 2♣.
	if firstTrick && len(e.currentTrick) == 0 {
		if card.Contains(hand, card.ClubTwo) {
			return []card.Card{card.ClubTwo}
		}
		return nil
	}

	if len(e.currentTrick) == 0 {
		// Leading: hearts stay locked until broken, unless that is all we have.
		if !e.heartsBroken {
			var nonHearts []card.Card
			for _, c := range hand {
				if c.Suit() != card.Heart {
					nonHearts = append(nonHearts, c)
				}
			}
			if len(nonHearts) > 0 {
				return nonHearts
			}
		}
		return append([]card.Card(nil), hand...)
	}

	// Following.
	ledSuit := e.currentTrick[0].Card.Suit()
	if follow := card.OfSuit(hand, ledSuit); len(follow) > 0 {
		return follow
	}

	// Void: anything goes, except no blood on the first trick.
	if firstTrick {
		var safe []card.Card
		for _, c := range hand {
			if c.Suit() == card.Heart || c == card.SpadeQueen {
				continue
			}
			safe = append(safe, c)
		}
		if len(safe) > 0 {
			return safe
		}
	}
	return append([]card.Card(nil), hand...)
}
