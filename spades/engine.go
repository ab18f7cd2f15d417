package spades

import (
	"math/rand"
	"sync"
	"time"

	"tricktable/card"
	"tricktable/engine"
)

// Engine is the Spades rules state machine. Seats 0/2 and 1/3 are fixed
// partnerships.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand

	winThreshold int
	roundNumber  int
	phase        Phase

	hands [4][]card.Card

	bids          [4]*Bid
	currentBidder engine.Seat

	currentTrick  []engine.TrickPlay
	currentPlayer engine.Seat
	spadesBroken  bool

	tricksTakenBySeat [4]int
	tricksPlayed      int

	bagCount         [2]int
	roundScores      [2]int
	cumulativeScores [2]int

	lastTrick       []engine.TrickPlay
	lastTrickWinner engine.Seat
}

// BidResult reports a bid submission.
type BidResult struct {
	Seat         engine.Seat
	Bid          Bid
	NextBidder   engine.Seat
	AllSubmitted bool
	// FirstPlayer leads the first trick once bidding closed.
	FirstPlayer engine.Seat
}

// RoundResult is produced when the 13th trick resolves.
type RoundResult struct {
	RoundScores      [2]int
	CumulativeScores [2]int
	Bags             [2]int
	TeamTricks       [2]int
	TricksBySeat     [4]int
	GameOver         bool
	// WinnerTeams holds the winning team index, or both on a tie.
	WinnerTeams []int
}

// PlayResult reports a successful card play and everything that followed it.
type PlayResult struct {
	Seat engine.Seat
	Card card.Card

	TrickComplete bool
	TrickWinner   engine.Seat
	Trick         []engine.TrickPlay

	NextPlayer engine.Seat

	RoundComplete bool
	Round         *RoundResult
}

// New builds an engine and deals the first round.
func New(cfg Config) *Engine {
	if cfg.WinThreshold <= 0 {
		cfg.WinThreshold = DefaultWinThreshold
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		rng:          rand.New(rand.NewSource(seed)),
		winThreshold: cfg.WinThreshold,
	}
	e.startRoundLocked()
	return e
}

func (e *Engine) startRoundLocked() {
	e.roundNumber++
	e.hands = card.Deal(card.NewShuffledDeck(e.rng), suitOrder)
	e.phase = PhaseBidding
	e.bids = [4]*Bid{}
	e.currentBidder = 0
	e.currentTrick = nil
	e.currentPlayer = engine.NoSeat
	e.spadesBroken = false
	e.tricksTakenBySeat = [4]int{}
	e.tricksPlayed = 0
	e.roundScores = [2]int{}
	e.lastTrick = nil
	e.lastTrickWinner = engine.NoSeat
}

// firstLeader rotates the opening lead by round so no seat always starts.
func (e *Engine) firstLeaderLocked() engine.Seat {
	return engine.Seat((e.roundNumber - 1) % 4)
}

// CanBlindNil reports whether seat may bid blind nil: its team must trail by
// at least 100 and the partner must not have already bid blind nil.
func (e *Engine) CanBlindNil(seat engine.Seat) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canBlindNilLocked(seat)
}

func (e *Engine) canBlindNilLocked(seat engine.Seat) bool {
	my := seat.Team()
	if e.cumulativeScores[1-my]-e.cumulativeScores[my] < blindNilDeficit {
		return false
	}
	partner := e.bids[seat.Partner()]
	return partner == nil || partner.Kind != BidBlindNil
}

// SubmitBid records one bid. Bidding runs seat 0 through seat 3; play starts
// after the fourth bid.
func (e *Engine) SubmitBid(seat engine.Seat, bid Bid) (*BidResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseBidding {
		return nil, engine.Errf(engine.KindPhase, "not in bidding phase")
	}
	if seat != e.currentBidder {
		return nil, engine.Errf(engine.KindNotYourTurn, "seat %d is not the current bidder", seat)
	}
	switch bid.Kind {
	case BidNumber:
		if bid.Tricks < 0 || bid.Tricks > 13 {
			return nil, engine.Errf(engine.KindInvalidBid, "bid must be 0..13")
		}
	case BidNil:
	case BidBlindNil:
		if !e.canBlindNilLocked(seat) {
			return nil, engine.Errf(engine.KindBlindNilNotAllowed, "blind nil requires trailing by %d", blindNilDeficit)
		}
	default:
		return nil, engine.Errf(engine.KindInvalidBid, "unknown bid kind")
	}

	b := bid
	e.bids[seat] = &b
	res := &BidResult{Seat: seat, Bid: bid, NextBidder: engine.NoSeat, FirstPlayer: engine.NoSeat}

	if seat == 3 {
		e.phase = PhasePlaying
		e.currentPlayer = e.firstLeaderLocked()
		res.AllSubmitted = true
		res.FirstPlayer = e.currentPlayer
		return res, nil
	}
	e.currentBidder = seat.Next()
	res.NextBidder = e.currentBidder
	return res, nil
}

// LegalCards returns the subset of seat's hand that may be played right now.
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

	if len(e.currentTrick) == 0 {
		// Spades stay locked until broken, unless that is all we have.
		if !e.spadesBroken {
			var nonSpades []card.Card
			for _, c := range hand {
				if c.Suit() != card.Spade {
					nonSpades = append(nonSpades, c)
				}
			}
			if len(nonSpades) > 0 {
				return nonSpades
			}
		}
		return append([]card.Card(nil), hand...)
	}

	ledSuit := e.currentTrick[0].Card.Suit()
	if follow := card.OfSuit(hand, ledSuit); len(follow) > 0 {
		return follow
	}
	return append([]card.Card(nil), hand...)
}

// PlayCard validates and applies one card play for seat. Play order is
// clockwise; spades are always trump.
func (e *Engine) PlayCard(seat engine.Seat, c card.Card) (*PlayResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying {
		return nil, engine.Errf(engine.KindPhase, "not in playing phase")
	}
	if seat != e.currentPlayer {
		return nil, engine.Errf(engine.KindNotYourTurn, "seat %d is not the current player", seat)
	}
	if !card.Contains(e.hands[seat], c) {
		return nil, engine.Errf(engine.KindIllegalCard, "card %s not in hand", c)
	}
	if !card.Contains(e.legalCardsLocked(seat), c) {
		return nil, engine.Errf(engine.KindIllegalCard, "card %s is not legal now", c)
	}

	e.hands[seat], _ = card.Remove(e.hands[seat], c)
	e.currentTrick = append(e.currentTrick, engine.TrickPlay{Seat: seat, Card: c})
	if c.Suit() == card.Spade {
		e.spadesBroken = true
	}

	res := &PlayResult{Seat: seat, Card: c}
	if len(e.currentTrick) < 4 {
		e.currentPlayer = seat.Next()
		res.NextPlayer = e.currentPlayer
		return res, nil
	}

	trickCards := engine.TrickCards(e.currentTrick)
	trump := card.Spade
	winIdx, err := card.TrickWinner(trickCards, &trump)
	if err != nil {
		return nil, engine.Errf(engine.KindInternal, "trick resolution: %v", err)
	}
	winner := e.currentTrick[winIdx].Seat

	res.TrickComplete = true
	res.TrickWinner = winner
	res.Trick = append([]engine.TrickPlay(nil), e.currentTrick...)

	e.tricksTakenBySeat[winner]++
	e.lastTrick = res.Trick
	e.lastTrickWinner = winner
	e.currentTrick = nil
	e.tricksPlayed++
	e.currentPlayer = winner
	res.NextPlayer = winner

	if e.tricksPlayed == 13 {
		res.RoundComplete = true
		res.Round = e.finishRoundLocked()
	}
	return res, nil
}

func (e *Engine) finishRoundLocked() *RoundResult {
	e.phase = PhaseRoundEnd

	var teamTricks [2]int
	for seat, tricks := range e.tricksTakenBySeat {
		teamTricks[engine.Seat(seat).Team()] += tricks
	}

	var deltas [2]int
	for team := 0; team < 2; team++ {
		delta, bags := scoreTeamRound(
			[2]Bid{*e.bids[team], *e.bids[team+2]},
			[2]int{e.tricksTakenBySeat[team], e.tricksTakenBySeat[team+2]},
			teamTricks[team],
		)
		e.bagCount[team] += bags
		for e.bagCount[team] >= bagsPerPenalty {
			delta -= bagPenalty
			e.bagCount[team] -= bagsPerPenalty
		}
		deltas[team] = delta
	}

	e.roundScores = deltas
	for team := range e.cumulativeScores {
		e.cumulativeScores[team] += deltas[team]
	}

	res := &RoundResult{
		RoundScores:      deltas,
		CumulativeScores: e.cumulativeScores,
		Bags:             e.bagCount,
		TeamTricks:       teamTricks,
		TricksBySeat:     e.tricksTakenBySeat,
	}

	if e.cumulativeScores[0] >= e.winThreshold || e.cumulativeScores[1] >= e.winThreshold {
		e.phase = PhaseGameEnd
		res.GameOver = true
		switch {
		case e.cumulativeScores[0] > e.cumulativeScores[1]:
			res.WinnerTeams = []int{0}
		case e.cumulativeScores[1] > e.cumulativeScores[0]:
			res.WinnerTeams = []int{1}
		default:
			res.WinnerTeams = []int{0, 1}
		}
	}
	return res
}

// scoreTeamRound computes a team's pre-bag-penalty round score and the bags
// earned, as a pure function so the bag carry law is testable in isolation.
func scoreTeamRound(bids [2]Bid, seatTricks [2]int, teamTricks int) (delta, bags int) {
	teamBid := 0
	for i, bid := range bids {
		switch bid.Kind {
		case BidNil:
			if seatTricks[i] == 0 {
				delta += nilBonus
			} else {
				delta -= nilBonus
			}
		case BidBlindNil:
			if seatTricks[i] == 0 {
				delta += blindNilBonus
			} else {
				delta -= blindNilBonus
			}
		default:
			teamBid += bid.Tricks
		}
	}

	if teamTricks >= teamBid {
		delta += pointsPerBid * teamBid
		bags = teamTricks - teamBid
		delta += bags
	} else {
		delta -= pointsPerBid * teamBid
	}
	return delta, bags
}

// NextRound deals the following round after a round ended.
func (e *Engine) NextRound() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseRoundEnd {
		return engine.Errf(engine.KindPhase, "round is not over")
	}
	e.startRoundLocked()
	return nil
}
