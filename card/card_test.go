package card

import (
	"math/rand"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		suit Suit
		rank byte
	}{
		{"As", Spade, 1},
		{"2c", Club, 2},
		{"Td", Diamond, 10},
		{"10h", Heart, 10},
		{"Qs", Spade, 12},
		{"Kh", Heart, 13},
	}
	for _, tc := range cases {
		c, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if c.Suit() != tc.suit || c.Rank() != tc.rank {
			t.Errorf("Parse(%q) = suit %v rank %d, want suit %v rank %d",
				tc.in, c.Suit(), c.Rank(), tc.suit, tc.rank)
		}
	}

	for _, bad := range []string{"", "A", "Ax", "11s", "Zq"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", bad)
		}
	}
}

func TestOrderAceHigh(t *testing.T) {
	if got := MustParse("As").Order(); got != 14 {
		t.Fatalf("ace order = %d, want 14", got)
	}
	if got := MustParse("2s").Order(); got != 2 {
		t.Fatalf("deuce order = %d, want 2", got)
	}
	if got := MustParse("Ks").Order(); got != 13 {
		t.Fatalf("king order = %d, want 13", got)
	}
}

func TestTrickWinnerNoTrump(t *testing.T) {
	trick := []Card{MustParse("5h"), MustParse("Kh"), MustParse("Ah"), MustParse("As")}
	idx, err := TrickWinner(trick, nil)
	if err != nil {
		t.Fatal(err)
	}
	// The off-suit ace is inert; the ace of the led suit wins.
	if idx != 2 {
		t.Fatalf("winner index = %d, want 2", idx)
	}
}

func TestTrickWinnerTrump(t *testing.T) {
	trump := Spade
	trick := []Card{MustParse("Ah"), MustParse("Kh"), MustParse("2s"), MustParse("3h")}
	idx, err := TrickWinner(trick, &trump)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Fatalf("winner index = %d, want 2 (low trump beats high led suit)", idx)
	}

	trick = []Card{MustParse("Ah"), MustParse("2s"), MustParse("As"), MustParse("3h")}
	idx, err = TrickWinner(trick, &trump)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 2 {
		t.Fatalf("winner index = %d, want 2 (highest trump)", idx)
	}
}

func TestTrickWinnerRequiresFourCards(t *testing.T) {
	if _, err := TrickWinner([]Card{MustParse("Ah")}, nil); err == nil {
		t.Fatal("expected error for short trick")
	}
}

func TestDealCoversDeck(t *testing.T) {
	order := [4]Suit{Spade, Heart, Club, Diamond}
	hands := Deal(NewShuffledDeck(rand.New(rand.NewSource(7))), order)

	seen := map[Card]bool{}
	for seat, hand := range hands {
		if len(hand) != 13 {
			t.Fatalf("seat %d hand size = %d, want 13", seat, len(hand))
		}
		for _, c := range hand {
			if seen[c] {
				t.Fatalf("card %s dealt twice", c)
			}
			seen[c] = true
		}
	}
	if len(seen) != 52 {
		t.Fatalf("dealt %d distinct cards, want 52", len(seen))
	}
}

func TestRemoveAndContains(t *testing.T) {
	hand := []Card{MustParse("Ah"), MustParse("Kh"), MustParse("Qh")}
	out, ok := Remove(hand, MustParse("Kh"))
	if !ok || len(out) != 2 || Contains(out, MustParse("Kh")) {
		t.Fatalf("Remove failed: %v ok=%v", out, ok)
	}
	if _, ok := Remove(out, MustParse("2c")); ok {
		t.Fatal("Remove reported success for absent card")
	}
}

func TestSortHandSuitThenRank(t *testing.T) {
	order := [4]Suit{Spade, Heart, Club, Diamond}
	hand := []Card{MustParse("Ac"), MustParse("2s"), MustParse("As"), MustParse("Th")}
	SortHand(hand, order)

	want := []Card{MustParse("2s"), MustParse("As"), MustParse("Th"), MustParse("Ac")}
	for i := range want {
		if hand[i] != want[i] {
			t.Fatalf("sorted hand = %v, want %v", hand, want)
		}
	}
}
