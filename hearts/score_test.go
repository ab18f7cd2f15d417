package hearts

import (
	"testing"

	"tricktable/card"
	"tricktable/engine"
)

func TestCardPoints(t *testing.T) {
	if got := cardPoints(card.SpadeQueen); got != 13 {
		t.Fatalf("Q♠ points = %d, want 13", got)
	}
	if got := cardPoints(card.MustParse("2h")); got != 1 {
		t.Fatalf("heart points = %d, want 1", got)
	}
	if got := cardPoints(card.MustParse("Ac")); got != 0 {
		t.Fatalf("club points = %d, want 0", got)
	}
}

func TestTrickPoints(t *testing.T) {
	trick := []card.Card{
		card.MustParse("Qs"),
		card.MustParse("Ah"),
		card.MustParse("2h"),
		card.MustParse("Kd"),
	}
	if got := trickPoints(trick); got != 15 {
		t.Fatalf("trick points = %d, want 15", got)
	}
}

func TestMoonAdjustGivesOthersTwentySix(t *testing.T) {
	raw := [4]int{0, 0, 26, 0}
	adjusted, shooter := moonAdjust(raw, [4]int{})
	if shooter == nil || *shooter != 2 {
		t.Fatalf("shooter = %v, want seat 2", shooter)
	}
	want := [4]int{26, 26, 0, 26}
	if adjusted != want {
		t.Fatalf("adjusted = %v, want %v", adjusted, want)
	}
}

func TestMoonAdjustNoShooter(t *testing.T) {
	raw := [4]int{13, 13, 0, 0}
	adjusted, shooter := moonAdjust(raw, [4]int{})
	if shooter != nil {
		t.Fatalf("shooter = %v, want none", *shooter)
	}
	if adjusted != raw {
		t.Fatalf("adjusted = %v, want untouched %v", adjusted, raw)
	}
}

func TestMinScoreSeats(t *testing.T) {
	seats := minScoreSeats([4]int{40, 12, 55, 12})
	want := []engine.Seat{1, 3}
	if len(seats) != len(want) {
		t.Fatalf("winners = %v, want %v", seats, want)
	}
	for i := range want {
		if seats[i] != want[i] {
			t.Fatalf("winners = %v, want %v", seats, want)
		}
	}
}

func TestDirectionForRound(t *testing.T) {
	want := []PassDirection{PassLeft, PassRight, PassAcross, PassHold, PassLeft}
	for i, dir := range want {
		if got := directionForRound(i + 1); got != dir {
			t.Fatalf("round %d direction = %v, want %v", i+1, got, dir)
		}
	}
}
