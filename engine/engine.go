// Package engine holds the vocabulary shared by the three game engines:
// seats, game types, trick plays and the rule-error kinds the controller
// maps onto the wire.
package engine

import "tricktable/card"

// Seat is a table position 0..3.
type Seat int

const NoSeat Seat = -1

// Next returns the seat after s in clockwise order.
func (s Seat) Next() Seat { return (s + 1) % 4 }

// Prev returns the seat after s in counter-clockwise order.
func (s Seat) Prev() Seat { return (s + 3) % 4 }

// Partner returns the seat across the table (Spades partnerships).
func (s Seat) Partner() Seat { return (s + 2) % 4 }

// Team returns the Spades team index of a seat.
func (s Seat) Team() int { return int(s) % 2 }

// GameType identifies which rule set a table runs.
type GameType string

const (
	GameHearts GameType = "hearts"
	GameKing   GameType = "king"
	GameSpades GameType = "spades"
)

func (g GameType) Valid() bool {
	switch g {
	case GameHearts, GameKing, GameSpades:
		return true
	}
	return false
}

// TrickPlay is one card placed into the current trick by a seat.
type TrickPlay struct {
	Seat Seat
	Card card.Card
}

// TrickCards projects the cards of a trick in play order.
func TrickCards(trick []TrickPlay) []card.Card {
	cards := make([]card.Card, len(trick))
	for i, p := range trick {
		cards[i] = p.Card
	}
	return cards
}
