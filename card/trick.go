package card

import "fmt"

// TrickWinner resolves a completed four-card trick and returns the index of
// the winning card. The first card sets the led suit. With a trump suit, the
// highest trump wins if any trump was played; otherwise the highest card of
// the led suit wins. Every other card is inert.
func TrickWinner(trick []Card, trump *Suit) (int, error) {
	if len(trick) != 4 {
		return 0, fmt.Errorf("trick must have exactly 4 cards, got %d", len(trick))
	}

	winning := Suit(0)
	ledSuit := trick[0].Suit()
	if trump != nil && anySuit(trick, *trump) {
		winning = *trump
	} else {
		winning = ledSuit
	}

	best := -1
	for i, c := range trick {
		if c.Suit() != winning {
			continue
		}
		if best == -1 || c.Order() > trick[best].Order() {
			best = i
		}
	}
	return best, nil
}

func anySuit(cards []Card, s Suit) bool {
	for _, c := range cards {
		if c.Suit() == s {
			return true
		}
	}
	return false
}
