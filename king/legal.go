package king

import (
	"tricktable/card"
	"tricktable/engine"
)

// LegalCards returns the subset of seat's hand that may be played right now
// under the active contract. It is a pure projection of engine state.
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
	ct := *e.contract

	if len(e.currentTrick) == 0 {
		return e.legalLeadsLocked(hand, ct)
	}

	ledSuit := e.currentTrick[0].Card.Suit()
	if follow := card.OfSuit(hand, ledSuit); len(follow) > 0 {
		// Erkek/kiz can force dumping a loser onto a higher table card.
		if ct.Kind == ContractPenalty {
			switch ct.Penalty {
			case PenaltyErkek:
				if forced := e.forcedFollowLocked(follow, ledSuit, 13, 11); len(forced) > 0 {
					return forced
				}
			case PenaltyKiz:
				if forced := e.forcedFollowLocked(follow, ledSuit, 12); len(forced) > 0 {
					return forced
				}
			}
		}
		return follow
	}

	// Void in the led suit: penalty contracts can force a discard.
	if ct.Kind == ContractPenalty {
		switch ct.Penalty {
		case PenaltyErkek:
			if kj := cardsWithRanks(hand, 13, 11); len(kj) > 0 {
				return kj
			}
		case PenaltyKiz:
			if qs := cardsWithRanks(hand, 12); len(qs) > 0 {
				return qs
			}
		case PenaltyRifki:
			if card.Contains(hand, card.HeartKing) {
				return []card.Card{card.HeartKing}
			}
			if hearts := card.OfSuit(hand, card.Heart); len(hearts) > 0 {
				return hearts
			}
		case PenaltyKupa:
			if hearts := card.OfSuit(hand, card.Heart); len(hearts) > 0 {
				return hearts
			}
		}
	}
	return append([]card.Card(nil), hand...)
}

func (e *Engine) legalLeadsLocked(hand []card.Card, ct Contract) []card.Card {
	if ct.Kind == ContractTrump && !e.trumpBroken {
		var nonTrump []card.Card
		for _, c := range hand {
			if c.Suit() != ct.Trump {
				nonTrump = append(nonTrump, c)
			}
		}
		if len(nonTrump) > 0 {
			return nonTrump
		}
	}
	if ct.Kind == ContractPenalty && (ct.Penalty == PenaltyKupa || ct.Penalty == PenaltyRifki) && !e.heartsBroken {
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

// forcedFollowLocked returns the penalty ranks of the led suit that the
// highest card already on the table would beat. If any exist they are the
// only legal plays.
func (e *Engine) forcedFollowLocked(follow []card.Card, ledSuit card.Suit, ranks ...byte) []card.Card {
	tableHigh := 0
	for _, p := range e.currentTrick {
		if p.Card.Suit() == ledSuit && p.Card.Order() > tableHigh {
			tableHigh = p.Card.Order()
		}
	}
	var forced []card.Card
	for _, c := range follow {
		if !rankIn(c, ranks) {
			continue
		}
		if c.Order() < tableHigh {
			forced = append(forced, c)
		}
	}
	return forced
}

func cardsWithRanks(hand []card.Card, ranks ...byte) []card.Card {
	var out []card.Card
	for _, c := range hand {
		if rankIn(c, ranks) {
			out = append(out, c)
		}
	}
	return out
}

func rankIn(c card.Card, ranks []byte) bool {
	for _, r := range ranks {
		if c.Rank() == r {
			return true
		}
	}
	return false
}
