package hearts

import (
	"testing"

	"tricktable/card"
	"tricktable/engine"
)

func TestNewDealsPassingRound(t *testing.T) {
	e := New(Config{Seed: 1})
	snap := e.Snapshot()

	if snap.Phase != PhasePassing {
		t.Fatalf("phase = %v, want passing", snap.Phase)
	}
	if snap.PassDirection != PassLeft {
		t.Fatalf("round 1 direction = %v, want left", snap.PassDirection)
	}
	for seat, hand := range snap.Hands {
		if len(hand) != 13 {
			t.Fatalf("seat %d hand size = %d, want 13", seat, len(hand))
		}
	}
}

func TestSubmitPassValidation(t *testing.T) {
	e := New(Config{Seed: 1})
	snap := e.Snapshot()

	if _, err := e.SubmitPass(0, snap.Hands[0][:2]); engine.KindOf(err) != engine.KindBadPass {
		t.Fatalf("short pass error = %v, want BadPass", err)
	}
	notMine := snap.Hands[1][:3]
	if _, err := e.SubmitPass(0, notMine); engine.KindOf(err) != engine.KindBadPass {
		t.Fatalf("foreign card pass error = %v, want BadPass", err)
	}
	dup := []card.Card{snap.Hands[0][0], snap.Hands[0][0], snap.Hands[0][1]}
	if _, err := e.SubmitPass(0, dup); engine.KindOf(err) != engine.KindBadPass {
		t.Fatalf("duplicate pass error = %v, want BadPass", err)
	}

	if _, err := e.SubmitPass(0, snap.Hands[0][:3]); err != nil {
		t.Fatalf("valid pass rejected: %v", err)
	}
	if _, err := e.SubmitPass(0, snap.Hands[0][3:6]); engine.KindOf(err) != engine.KindNotYourTurn {
		t.Fatalf("double pass error = %v, want NotYourTurn", err)
	}
}

func TestPassExchangeStartsPlay(t *testing.T) {
	e := New(Config{Seed: 1})
	snap := e.Snapshot()

	var last *PassResult
	for seat := engine.Seat(0); seat < 4; seat++ {
		res, err := e.SubmitPass(seat, snap.Hands[seat][:3])
		if err != nil {
			t.Fatalf("seat %d pass: %v", seat, err)
		}
		last = res
	}
	if !last.AllSubmitted {
		t.Fatal("fourth pass did not complete the exchange")
	}

	after := e.Snapshot()
	if after.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want playing", after.Phase)
	}
	if !card.Contains(after.Hands[last.FirstPlayer], card.ClubTwo) {
		t.Fatalf("first player %d does not hold the 2♣", last.FirstPlayer)
	}
	for seat, hand := range after.Hands {
		if len(hand) != 13 {
			t.Fatalf("seat %d hand size after exchange = %d, want 13", seat, len(hand))
		}
	}

	legal := e.LegalCards(last.FirstPlayer)
	if len(legal) != 1 || legal[0] != card.ClubTwo {
		t.Fatalf("opening legal cards = %v, want exactly the 2♣", legal)
	}
}

func TestPlayCardEnforcesTurnAndLegality(t *testing.T) {
	e := New(Config{Seed: 1})
	snap := e.Snapshot()
	for seat := engine.Seat(0); seat < 4; seat++ {
		if _, err := e.SubmitPass(seat, snap.Hands[seat][:3]); err != nil {
			t.Fatal(err)
		}
	}
	first := e.Snapshot().CurrentPlayer

	if _, err := e.PlayCard(first.Next(), card.ClubTwo); engine.KindOf(err) != engine.KindNotYourTurn {
		t.Fatalf("out of turn error = %v, want NotYourTurn", err)
	}
	other := e.Snapshot().Hands[first][0]
	if other == card.ClubTwo {
		other = e.Snapshot().Hands[first][1]
	}
	if _, err := e.PlayCard(first, other); engine.KindOf(err) != engine.KindIllegalCard {
		t.Fatalf("non-2♣ opening error = %v, want IllegalCard", err)
	}

	res, err := e.PlayCard(first, card.ClubTwo)
	if err != nil {
		t.Fatalf("opening lead rejected: %v", err)
	}
	if res.TrickComplete || res.NextPlayer != first.Next() {
		t.Fatalf("after opening lead: complete=%v next=%d", res.TrickComplete, res.NextPlayer)
	}
}

// legalCardsLocked rules are exercised on hand-built states so the scenarios
// do not depend on any particular shuffle.
func TestLegalCardsHeartsLocked(t *testing.T) {
	e := &Engine{phase: PhasePlaying, currentPlayer: 0, tricksPlayed: 3}
	e.hands[0] = []card.Card{card.MustParse("Ah"), card.MustParse("2c"), card.MustParse("5d")}

	legal := e.LegalCards(0)
	for _, c := range legal {
		if c.Suit() == card.Heart {
			t.Fatalf("unbroken hearts offered for lead: %v", legal)
		}
	}
	if len(legal) != 2 {
		t.Fatalf("legal leads = %v, want the two non-hearts", legal)
	}

	e.heartsBroken = true
	if legal = e.LegalCards(0); len(legal) != 3 {
		t.Fatalf("legal leads after break = %v, want whole hand", legal)
	}
}

func TestLegalCardsAllHeartsMayLead(t *testing.T) {
	e := &Engine{phase: PhasePlaying, currentPlayer: 2, tricksPlayed: 5}
	e.hands[2] = []card.Card{card.MustParse("Ah"), card.MustParse("3h")}

	if legal := e.LegalCards(2); len(legal) != 2 {
		t.Fatalf("all-hearts hand legal leads = %v, want both hearts", legal)
	}
}

func TestLegalCardsFirstTrickNoBlood(t *testing.T) {
	e := &Engine{phase: PhasePlaying, currentPlayer: 1, tricksPlayed: 0}
	e.currentTrick = []engine.TrickPlay{{Seat: 0, Card: card.ClubTwo}}
	e.hands[1] = []card.Card{card.MustParse("Ah"), card.SpadeQueen, card.MustParse("5d")}

	legal := e.LegalCards(1)
	if len(legal) != 1 || legal[0] != card.MustParse("5d") {
		t.Fatalf("first trick void legal = %v, want only the 5♦", legal)
	}
}

func TestLegalCardsMustFollowSuit(t *testing.T) {
	e := &Engine{phase: PhasePlaying, currentPlayer: 3, tricksPlayed: 4}
	e.currentTrick = []engine.TrickPlay{{Seat: 2, Card: card.MustParse("Kd")}}
	e.hands[3] = []card.Card{card.MustParse("2d"), card.MustParse("Ah"), card.MustParse("9d")}

	legal := e.LegalCards(3)
	if len(legal) != 2 {
		t.Fatalf("follow legal = %v, want the two diamonds", legal)
	}
	for _, c := range legal {
		if c.Suit() != card.Diamond {
			t.Fatalf("follow legal contains off-suit card %s", c)
		}
	}
}

func lowestOf(legal []card.Card) card.Card {
	pick := legal[0]
	for _, c := range legal[1:] {
		if c.Order() < pick.Order() {
			pick = c
		}
	}
	return pick
}

// TestFullRoundPlaythrough drives a complete seeded round with lowest-legal
// plays. The hand-built fragments above cannot check the round-level
// bookkeeping: every card stays accounted for after each play and the round
// always distributes exactly the 26 points.
func TestFullRoundPlaythrough(t *testing.T) {
	e := New(Config{Seed: 7})
	snap := e.Snapshot()
	for seat := engine.Seat(0); seat < 4; seat++ {
		if _, err := e.SubmitPass(seat, snap.Hands[seat][:3]); err != nil {
			t.Fatalf("seat %d pass: %v", seat, err)
		}
	}

	var round *RoundResult
	for plays := 0; plays < 52; plays++ {
		seat := e.Snapshot().CurrentPlayer
		legal := e.LegalCards(seat)
		if len(legal) == 0 {
			t.Fatalf("play %d: no legal cards for seat %d", plays, seat)
		}
		res, err := e.PlayCard(seat, lowestOf(legal))
		if err != nil {
			t.Fatalf("play %d: %v", plays, err)
		}

		after := e.Snapshot()
		total := len(after.CurrentTrick) + 4*after.TricksPlayed
		for _, h := range after.Hands {
			total += len(h)
		}
		if total != 52 {
			t.Fatalf("play %d: %d cards accounted for, want 52", plays, total)
		}

		if res.RoundComplete {
			round = res.Round
			break
		}
	}
	if round == nil {
		t.Fatal("52 plays did not finish the round")
	}

	points, taken := 0, 0
	for _, cards := range round.PointCardsTaken {
		for _, c := range cards {
			points += cardPoints(c)
		}
		taken += len(cards)
	}
	if points != 26 || taken != 14 {
		t.Fatalf("point cards taken: %d points over %d cards, want 26 over 14", points, taken)
	}

	sum := 0
	for _, s := range round.RoundScores {
		sum += s
	}
	if round.MoonShooter == nil && sum != 26 {
		t.Fatalf("round scores sum = %d, want 26", sum)
	}
	if round.MoonShooter != nil && sum != 78 && sum != 26 {
		t.Fatalf("moon round scores sum = %d, want 26 or 78", sum)
	}

	if got := e.Snapshot().Phase; got != PhaseRoundEnd {
		t.Fatalf("phase after round = %v, want roundEnd", got)
	}
	if err := e.NextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	if got := e.Snapshot().PassDirection; got != PassRight {
		t.Fatalf("round 2 direction = %v, want right", got)
	}
}

func TestNextRoundOnlyAfterRoundEnd(t *testing.T) {
	e := New(Config{Seed: 1})
	if err := e.NextRound(); engine.KindOf(err) != engine.KindPhase {
		t.Fatalf("NextRound mid-round error = %v, want PhaseError", err)
	}
}
