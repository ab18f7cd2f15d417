package hearts

import (
	"tricktable/card"
	"tricktable/engine"
)

func cardPoints(c card.Card) int {
	if c == card.SpadeQueen {
		return queenPoints
	}
	if c.Suit() == card.Heart {
		return 1
	}
	return 0
}

func trickPoints(cards []card.Card) int {
	points := 0
	for _, c := range cards {
		points += cardPoints(c)
	}
	return points
}

// moonAdjust applies the shoot-the-moon rule. raw holds the points actually
// captured this round. If one seat captured all 26, two outcomes exist:
// option A gives the shooter 0 and everyone else 26; option B keeps the raw
// 26 on the shooter. The option keeping the shooter's hypothetical cumulative
// at or below the minimum of the others is applied; ties resolve to A.
func moonAdjust(raw [4]int, cumulative [4]int) ([4]int, *engine.Seat) {
	shooter := engine.NoSeat
	for seat, points := range raw {
		if points == roundPoints {
			shooter = engine.Seat(seat)
		}
	}
	if shooter == engine.NoSeat {
		return raw, nil
	}

	var optionA [4]int
	for i := range optionA {
		if engine.Seat(i) != shooter {
			optionA[i] = roundPoints
		}
	}

	if shooterFavors(optionA, cumulative, shooter) {
		return optionA, &shooter
	}
	if shooterFavors(raw, cumulative, shooter) {
		return raw, &shooter
	}
	return optionA, &shooter
}

// shooterFavors reports whether, under the given round scores, the shooter's
// hypothetical cumulative stays at or below every other seat's.
func shooterFavors(round [4]int, cumulative [4]int, shooter engine.Seat) bool {
	shooterTotal := cumulative[shooter] + round[shooter]
	for seat := engine.Seat(0); seat < 4; seat++ {
		if seat == shooter {
			continue
		}
		if shooterTotal > cumulative[seat]+round[seat] {
			return false
		}
	}
	return true
}
