package codec

import (
	"encoding/json"
	"fmt"

	"tricktable/card"
	"tricktable/spades"
)

// Card is the wire representation of a playing card.
type Card struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

var rankByName = map[string]byte{
	"A": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
	"8": 8, "9": 9, "10": 10, "J": 11, "Q": 12, "K": 13,
}

// FromCard converts an engine card to its wire form.
func FromCard(c card.Card) Card {
	return Card{Suit: c.Suit().Name(), Rank: c.RankName()}
}

// FromCards converts a hand to wire form, never nil so empty hands encode
// as [] rather than null.
func FromCards(cards []card.Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = FromCard(c)
	}
	return out
}

// ToCard converts the wire form back to an engine card.
func (wc Card) ToCard() (card.Card, error) {
	s, ok := card.SuitFromName(wc.Suit)
	if !ok {
		return 0, fmt.Errorf("unknown suit %q", wc.Suit)
	}
	r, ok := rankByName[wc.Rank]
	if !ok {
		return 0, fmt.Errorf("unknown rank %q", wc.Rank)
	}
	return card.Make(s, r), nil
}

// ToCards converts a wire card list, failing on the first bad card.
func ToCards(wire []Card) ([]card.Card, error) {
	out := make([]card.Card, len(wire))
	for i, wc := range wire {
		c, err := wc.ToCard()
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// TrickCard is one play of the current or last trick.
type TrickCard struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// Bid carries a Spades bid on the wire: a JSON number 0..13, or the strings
// "nil" / "blind_nil".
type Bid struct {
	spades.Bid
}

func FromBid(b spades.Bid) Bid { return Bid{b} }

func (b Bid) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case spades.BidNil:
		return json.Marshal("nil")
	case spades.BidBlindNil:
		return json.Marshal("blind_nil")
	default:
		return json.Marshal(b.Tricks)
	}
}

func (b *Bid) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		b.Bid = spades.NumberBid(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bid must be a number or string")
	}
	switch s {
	case "nil":
		b.Bid = spades.NilBid
	case "blind_nil":
		b.Bid = spades.BlindNilBid
	default:
		return fmt.Errorf("unknown bid %q", s)
	}
	return nil
}
