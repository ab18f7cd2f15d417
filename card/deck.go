package card

import (
	"math/rand"
	"sort"
)

// Cards with a dedicated role in the rules.
const (
	ClubTwo    Card = Card(byte(Club)<<4 | 2)  // opens every Hearts round
	SpadeQueen Card = Card(byte(Spade)<<4 | 12)
	HeartKing  Card = Card(byte(Heart)<<4 | 13) // rifki target
)

// Deck52 lists the full pack in suit order, aces first.
var Deck52 = buildDeck()

func buildDeck() []Card {
	cards := make([]Card, 0, 52)
	for _, s := range []Suit{Spade, Heart, Club, Diamond} {
		for rank := byte(1); rank <= 13; rank++ {
			cards = append(cards, Make(s, rank))
		}
	}
	return cards
}

// NewShuffledDeck returns a fresh 52-card deck in uniformly random order.
// rng may be nil, in which case the shared math/rand source is used.
func NewShuffledDeck(rng *rand.Rand) []Card {
	cards := make([]Card, len(Deck52))
	copy(cards, Deck52)
	if rng != nil {
		rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	} else {
		rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	}
	return cards
}

// Deal splits a 52-card deck into four 13-card hands, round-robin by index,
// each hand sorted with the given suit order.
func Deal(deck []Card, suitOrder [4]Suit) [4][]Card {
	var hands [4][]Card
	for i := range hands {
		hands[i] = make([]Card, 0, 13)
	}
	for i, c := range deck {
		hands[i%4] = append(hands[i%4], c)
	}
	for i := range hands {
		SortHand(hands[i], suitOrder)
	}
	return hands
}

// SortHand orders a hand in place: primary by position of the card's suit in
// suitOrder, secondary by rank ascending (ace high).
func SortHand(hand []Card, suitOrder [4]Suit) {
	pos := map[Suit]int{}
	for i, s := range suitOrder {
		pos[s] = i
	}
	sort.Slice(hand, func(i, j int) bool {
		si, sj := pos[hand[i].Suit()], pos[hand[j].Suit()]
		if si != sj {
			return si < sj
		}
		return hand[i].Order() < hand[j].Order()
	})
}
