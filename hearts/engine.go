package hearts

import (
	"math/rand"
	"sync"
	"time"

	"tricktable/card"
	"tricktable/engine"
)

// Engine is the Hearts rules state machine. It owns hands and trick data and
// never performs I/O; the table controller drives it and broadcasts results.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand

	endingScore int
	roundNumber int
	phase       Phase

	hands         [4][]card.Card
	passDirection PassDirection
	pendingPasses map[engine.Seat][]card.Card

	currentTrick  []engine.TrickPlay
	currentPlayer engine.Seat
	heartsBroken  bool

	tricksTaken  [4][][]card.Card
	tricksPlayed int

	lastTrick       []engine.TrickPlay
	lastTrickWinner engine.Seat

	roundScores      [4]int
	cumulativeScores [4]int
}

// PassResult reports a pass submission.
type PassResult struct {
	Seat         engine.Seat
	AllSubmitted bool
	// FirstPlayer holds the 2♣ once the exchange completed.
	FirstPlayer engine.Seat
}

// RoundResult is produced when the 13th trick resolves.
type RoundResult struct {
	RoundScores      [4]int
	CumulativeScores [4]int
	MoonShooter      *engine.Seat
	PointCardsTaken  [4][]card.Card
	GameOver         bool
	Winners          []engine.Seat
}

// PlayResult reports a successful card play and everything that followed it.
type PlayResult struct {
	Seat engine.Seat
	Card card.Card

	TrickComplete bool
	TrickWinner   engine.Seat
	TrickPoints   int
	Trick         []engine.TrickPlay

	// NextPlayer leads or follows next while the round continues.
	NextPlayer engine.Seat

	RoundComplete bool
	Round         *RoundResult
}

// New builds an engine and deals the first round.
func New(cfg Config) *Engine {
	if cfg.EndingScore <= 0 {
		cfg.EndingScore = DefaultEndingScore
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		rng:         rand.New(rand.NewSource(seed)),
		endingScore: cfg.EndingScore,
	}
	e.startRoundLocked()
	return e
}

func (e *Engine) startRoundLocked() {
	e.roundNumber++
	e.hands = card.Deal(card.NewShuffledDeck(e.rng), suitOrder)
	e.passDirection = directionForRound(e.roundNumber)
	e.pendingPasses = make(map[engine.Seat][]card.Card, 4)
	e.currentTrick = nil
	e.heartsBroken = false
	e.tricksTaken = [4][][]card.Card{}
	e.tricksPlayed = 0
	e.lastTrick = nil
	e.lastTrickWinner = engine.NoSeat
	e.roundScores = [4]int{}

	if e.passDirection == PassHold {
		e.phase = PhasePlaying
		e.currentPlayer = e.clubTwoHolderLocked()
	} else {
		e.phase = PhasePassing
		e.currentPlayer = engine.NoSeat
	}
}

func (e *Engine) clubTwoHolderLocked() engine.Seat {
	for seat := engine.Seat(0); seat < 4; seat++ {
		if card.Contains(e.hands[seat], card.ClubTwo) {
			return seat
		}
	}
	return engine.NoSeat // unreachable with a full deal
}

// SubmitPass records three pass cards for a seat. When the fourth seat
// submits, all passes are exchanged atomically and play begins.
func (e *Engine) SubmitPass(seat engine.Seat, cards []card.Card) (*PassResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePassing {
		return nil, engine.Errf(engine.KindPhase, "not in passing phase")
	}
	if _, done := e.pendingPasses[seat]; done {
		return nil, engine.Errf(engine.KindNotYourTurn, "seat %d already passed", seat)
	}
	if len(cards) != 3 {
		return nil, engine.Errf(engine.KindBadPass, "must pass exactly 3 cards")
	}
	seen := map[card.Card]bool{}
	for _, c := range cards {
		if seen[c] {
			return nil, engine.Errf(engine.KindBadPass, "duplicate card %s", c)
		}
		seen[c] = true
		if !card.Contains(e.hands[seat], c) {
			return nil, engine.Errf(engine.KindBadPass, "card %s not in hand", c)
		}
	}

	e.pendingPasses[seat] = append([]card.Card(nil), cards...)
	res := &PassResult{Seat: seat, FirstPlayer: engine.NoSeat}
	if len(e.pendingPasses) < 4 {
		return res, nil
	}

	// Exchange atomically: remove every giver's cards first, then deliver.
	offset := e.passDirection.offset()
	for giver := engine.Seat(0); giver < 4; giver++ {
		for _, c := range e.pendingPasses[giver] {
			e.hands[giver], _ = card.Remove(e.hands[giver], c)
		}
	}
	for giver := engine.Seat(0); giver < 4; giver++ {
		receiver := (giver + offset) % 4
		e.hands[receiver] = append(e.hands[receiver], e.pendingPasses[giver]...)
	}
	for seat := range e.hands {
		card.SortHand(e.hands[seat], suitOrder)
	}
	e.pendingPasses = make(map[engine.Seat][]card.Card, 4)
	e.phase = PhasePlaying
	e.currentPlayer = e.clubTwoHolderLocked()
	res.AllSubmitted = true
	res.FirstPlayer = e.currentPlayer
	return res, nil
}

// HasPassed reports whether a seat already submitted its pass.
func (e *Engine) HasPassed(seat engine.Seat) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pendingPasses[seat]
	return ok
}

// PlayCard validates and applies one card play for seat.
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
	if c.Suit() == card.Heart {
		e.heartsBroken = true
	}

	res := &PlayResult{Seat: seat, Card: c}
	if len(e.currentTrick) < 4 {
		e.currentPlayer = seat.Next()
		res.NextPlayer = e.currentPlayer
		return res, nil
	}

	// Trick complete.
	trickCards := engine.TrickCards(e.currentTrick)
	winIdx, err := card.TrickWinner(trickCards, nil)
	if err != nil {
		return nil, engine.Errf(engine.KindInternal, "trick resolution: %v", err)
	}
	winner := e.currentTrick[winIdx].Seat

	res.TrickComplete = true
	res.TrickWinner = winner
	res.TrickPoints = trickPoints(trickCards)
	res.Trick = append([]engine.TrickPlay(nil), e.currentTrick...)

	e.tricksTaken[winner] = append(e.tricksTaken[winner], trickCards)
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

	var raw [4]int
	var pointCards [4][]card.Card
	for seat := engine.Seat(0); seat < 4; seat++ {
		for _, trick := range e.tricksTaken[seat] {
			for _, c := range trick {
				if p := cardPoints(c); p > 0 {
					raw[seat] += p
					pointCards[seat] = append(pointCards[seat], c)
				}
			}
		}
	}

	adjusted, shooter := moonAdjust(raw, e.cumulativeScores)
	e.roundScores = adjusted
	for i := range e.cumulativeScores {
		e.cumulativeScores[i] += adjusted[i]
	}

	res := &RoundResult{
		RoundScores:      adjusted,
		CumulativeScores: e.cumulativeScores,
		MoonShooter:      shooter,
		PointCardsTaken:  pointCards,
	}

	maxScore := e.cumulativeScores[0]
	for _, s := range e.cumulativeScores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore >= e.endingScore {
		e.phase = PhaseGameEnd
		res.GameOver = true
		res.Winners = minScoreSeats(e.cumulativeScores)
	}
	return res
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

func minScoreSeats(scores [4]int) []engine.Seat {
	min := scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
	}
	var seats []engine.Seat
	for i, s := range scores {
		if s == min {
			seats = append(seats, engine.Seat(i))
		}
	}
	return seats
}
