package card

import (
	"fmt"
	"strings"
)

// Card packs a playing card into one byte:
//
//   - high 4 bits: suit (0:Spade, 1:Heart, 2:Club, 3:Diamond)
//   - low 4 bits:  rank (1:A, 2..9, 10:T, 11:J, 12:Q, 13:K)
type Card byte

const CardInvalid Card = 0

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	return fmt.Sprintf("%s%s", c.Suit(), c.RankName())
}

// Rank returns the stored rank 1-13 (A=1, K=13).
func (c Card) Rank() byte {
	if c == CardInvalid {
		return 0
	}
	return byte(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// Order returns the trick-taking comparison value: 2..10 for pip cards,
// J=11, Q=12, K=13 and A=14 (ace always high).
func (c Card) Order() int {
	r := int(c & 0x0F)
	if r == 1 {
		return 14
	}
	return r
}

// RankName returns "2".."10", "J", "Q", "K" or "A".
func (c Card) RankName() string {
	switch r := c.Rank(); r {
	case 1:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	case 0:
		return "?"
	default:
		return fmt.Sprintf("%d", r)
	}
}

// Make builds a card from suit and rank (1:A .. 13:K).
func Make(s Suit, rank byte) Card {
	return Card(byte(s)<<4 | rank&0x0F)
}

// Parse converts strings like "As", "Td", "10h", "Qs" into a Card.
func Parse(cardStr string) (Card, error) {
	if len(cardStr) < 2 {
		return 0, fmt.Errorf("invalid card string: %s", cardStr)
	}

	suitChar := cardStr[len(cardStr)-1]
	var s Suit
	switch suitChar {
	case 's', 'S':
		s = Spade
	case 'h', 'H':
		s = Heart
	case 'c', 'C':
		s = Club
	case 'd', 'D':
		s = Diamond
	default:
		return 0, fmt.Errorf("invalid suit: %c", suitChar)
	}

	var rank byte
	switch strings.ToUpper(cardStr[:len(cardStr)-1]) {
	case "A":
		rank = 1
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = cardStr[0] - '0'
	case "T", "10":
		rank = 10
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	default:
		return 0, fmt.Errorf("invalid rank: %s", cardStr[:len(cardStr)-1])
	}

	return Make(s, rank), nil
}

// MustParse is Parse for test fixtures and constants; it panics on bad input.
func MustParse(cardStr string) Card {
	c, err := Parse(cardStr)
	if err != nil {
		panic(err)
	}
	return c
}

// Contains reports whether c occurs in cards.
func Contains(cards []Card, c Card) bool {
	for _, cc := range cards {
		if cc == c {
			return true
		}
	}
	return false
}

// Remove deletes the first occurrence of c, reporting whether it was present.
func Remove(cards []Card, c Card) ([]Card, bool) {
	for i, cc := range cards {
		if cc == c {
			return append(cards[:i:i], cards[i+1:]...), true
		}
	}
	return cards, false
}

// OfSuit returns the cards in hand matching s, preserving order.
func OfSuit(cards []Card, s Suit) []Card {
	var out []Card
	for _, c := range cards {
		if c.Suit() == s {
			out = append(out, c)
		}
	}
	return out
}

// HasSuit reports whether any card in hand matches s.
func HasSuit(cards []Card, s Suit) bool {
	for _, c := range cards {
		if c.Suit() == s {
			return true
		}
	}
	return false
}
