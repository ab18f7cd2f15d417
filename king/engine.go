package king

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"tricktable/card"
	"tricktable/engine"
)

// Usage tracks a seat's spent contract quota across the party.
type Usage struct {
	Penalties int
	Trumps    int
}

// SelectedContract is one entry of the party's contract history.
type SelectedContract struct {
	Seat     engine.Seat
	Contract Contract
}

// Engine is the King rules state machine for a 20-game party.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand

	gameNumber   int
	phase        Phase
	selectorSeat engine.Seat
	contract     *Contract

	hands         [4][]card.Card
	currentTrick  []engine.TrickPlay
	currentPlayer engine.Seat

	tricksTaken  [4][][]card.Card
	trickWinners []engine.Seat
	tricksPlayed int

	heartsBroken bool
	trumpBroken  bool

	usage           [4]Usage
	globalUsage     map[Contract]int
	contractHistory []SelectedContract

	gameScores       [4]int
	cumulativeScores [4]int
	partyOver        bool

	lastTrick       []engine.TrickPlay
	lastTrickWinner engine.Seat
}

// SelectResult reports a successful contract selection.
type SelectResult struct {
	Seat        engine.Seat
	Contract    Contract
	GameNumber  int
	FirstPlayer engine.Seat
}

// GameResult is produced when a game ends (13 tricks or early termination).
type GameResult struct {
	GameNumber       int
	Contract         Contract
	GameScores       [4]int
	CumulativeScores [4]int
	PartyOver        bool
	// Winners is only set when the party is over, best score first.
	Winners []engine.Seat
}

// PlayResult reports a successful card play and everything that followed it.
type PlayResult struct {
	Seat engine.Seat
	Card card.Card

	TrickComplete bool
	TrickWinner   engine.Seat
	Trick         []engine.TrickPlay

	NextPlayer engine.Seat

	GameComplete bool
	Game         *GameResult
}

// New builds an engine and deals the first game.
func New(cfg Config) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	selector := cfg.InitialSelector
	if selector < 0 || selector > 3 {
		selector = 0
	}
	e := &Engine{
		rng:          rand.New(rand.NewSource(seed)),
		selectorSeat: selector,
		globalUsage:  make(map[Contract]int, 10),
	}
	e.gameNumber = 1
	e.dealLocked()
	return e
}

func (e *Engine) dealLocked() {
	e.hands = card.Deal(card.NewShuffledDeck(e.rng), suitOrder)
	e.phase = PhaseSelecting
	e.contract = nil
	e.currentTrick = nil
	e.currentPlayer = engine.NoSeat
	e.tricksTaken = [4][][]card.Card{}
	e.trickWinners = nil
	e.tricksPlayed = 0
	e.heartsBroken = false
	e.trumpBroken = false
	e.gameScores = [4]int{}
	e.lastTrick = nil
	e.lastTrickWinner = engine.NoSeat
}

// AvailableContracts lists every contract the given selector may still pick.
func (e *Engine) AvailableContracts(seat engine.Seat) []Contract {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.availableContractsLocked(seat)
}

func (e *Engine) availableContractsLocked(seat engine.Seat) []Contract {
	var out []Contract
	if e.usage[seat].Penalties < penaltiesPerSeat {
		for _, p := range AllPenalties {
			c := NewPenalty(p)
			if e.globalUsage[c] < globalContractCap {
				out = append(out, c)
			}
		}
	}
	if e.usage[seat].Trumps < trumpsPerSeat {
		for _, s := range []card.Suit{card.Spade, card.Heart, card.Club, card.Diamond} {
			c := NewTrump(s)
			if e.globalUsage[c] < globalContractCap {
				out = append(out, c)
			}
		}
	}
	return out
}

// SelectContract records the selector's contract and starts play. The
// selector leads the first trick.
func (e *Engine) SelectContract(seat engine.Seat, c Contract) (*SelectResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseSelecting {
		return nil, engine.Errf(engine.KindPhase, "not in selecting phase")
	}
	if seat != e.selectorSeat {
		return nil, engine.Errf(engine.KindNotYourTurn, "seat %d is not the selector", seat)
	}
	switch c.Kind {
	case ContractPenalty:
		if _, ok := penaltyNames[c.Penalty]; !ok || c.Trump != 0 {
			return nil, engine.Errf(engine.KindInvalidContract, "unknown penalty contract")
		}
		if e.usage[seat].Penalties >= penaltiesPerSeat {
			return nil, engine.Errf(engine.KindQuotaExhausted, "seat %d has no penalty selections left", seat)
		}
	case ContractTrump:
		if c.Trump > card.Diamond || c.Penalty != 0 {
			return nil, engine.Errf(engine.KindInvalidContract, "unknown trump contract")
		}
		if e.usage[seat].Trumps >= trumpsPerSeat {
			return nil, engine.Errf(engine.KindQuotaExhausted, "seat %d has no trump selections left", seat)
		}
	default:
		return nil, engine.Errf(engine.KindInvalidContract, "unknown contract kind")
	}
	if e.globalUsage[c] >= globalContractCap {
		return nil, engine.Errf(engine.KindQuotaExhausted, "contract %s already used %d times this party", c, globalContractCap)
	}

	e.contract = &c
	e.globalUsage[c]++
	if c.Kind == ContractPenalty {
		e.usage[seat].Penalties++
	} else {
		e.usage[seat].Trumps++
	}
	e.contractHistory = append(e.contractHistory, SelectedContract{Seat: seat, Contract: c})
	e.phase = PhasePlaying
	e.currentPlayer = seat

	return &SelectResult{
		Seat:        seat,
		Contract:    c,
		GameNumber:  e.gameNumber,
		FirstPlayer: seat,
	}, nil
}

// PlayCard validates and applies one card play for seat. Play order is
// counter-clockwise.
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
	if e.contract.Kind == ContractTrump && c.Suit() == e.contract.Trump {
		e.trumpBroken = true
	}

	res := &PlayResult{Seat: seat, Card: c}
	if len(e.currentTrick) < 4 {
		e.currentPlayer = seat.Prev()
		res.NextPlayer = e.currentPlayer
		return res, nil
	}

	trickCards := engine.TrickCards(e.currentTrick)
	var trump *card.Suit
	if e.contract.Kind == ContractTrump {
		t := e.contract.Trump
		trump = &t
	}
	winIdx, err := card.TrickWinner(trickCards, trump)
	if err != nil {
		return nil, engine.Errf(engine.KindInternal, "trick resolution: %v", err)
	}
	winner := e.currentTrick[winIdx].Seat

	res.TrickComplete = true
	res.TrickWinner = winner
	res.Trick = append([]engine.TrickPlay(nil), e.currentTrick...)

	e.tricksTaken[winner] = append(e.tricksTaken[winner], trickCards)
	e.trickWinners = append(e.trickWinners, winner)
	e.lastTrick = res.Trick
	e.lastTrickWinner = winner
	e.currentTrick = nil
	e.tricksPlayed++
	e.currentPlayer = winner
	res.NextPlayer = winner

	if e.tricksPlayed == 13 || e.earlyTerminationLocked() {
		res.GameComplete = true
		res.Game = e.finishGameLocked()
	}
	return res, nil
}

// earlyTerminationLocked reports whether the contract's objective is already
// exhausted before the 13th trick.
func (e *Engine) earlyTerminationLocked() bool {
	if e.contract.Kind != ContractPenalty {
		return false
	}
	switch e.contract.Penalty {
	case PenaltyRifki:
		for _, tricks := range e.tricksTaken {
			for _, trick := range tricks {
				if card.Contains(trick, card.HeartKing) {
					return true
				}
			}
		}
		return false
	case PenaltyKupa:
		return !e.anyHandHasLocked(func(c card.Card) bool { return c.Suit() == card.Heart })
	case PenaltyErkek:
		return !e.anyHandHasLocked(func(c card.Card) bool { return c.Rank() == 13 || c.Rank() == 11 })
	case PenaltyKiz:
		return !e.anyHandHasLocked(func(c card.Card) bool { return c.Rank() == 12 })
	}
	return false
}

func (e *Engine) anyHandHasLocked(match func(card.Card) bool) bool {
	for _, hand := range e.hands {
		for _, c := range hand {
			if match(c) {
				return true
			}
		}
	}
	return false
}

func (e *Engine) finishGameLocked() *GameResult {
	e.phase = PhaseGameEnd
	e.gameScores = e.scoreGameLocked()
	for i := range e.cumulativeScores {
		e.cumulativeScores[i] += e.gameScores[i]
	}

	res := &GameResult{
		GameNumber:       e.gameNumber,
		Contract:         *e.contract,
		GameScores:       e.gameScores,
		CumulativeScores: e.cumulativeScores,
	}
	if e.gameNumber >= GamesPerParty {
		e.partyOver = true
		res.PartyOver = true
		res.Winners = e.partyWinnersLocked()
	}
	return res
}

// partyWinnersLocked reports every seat that finished at or above zero,
// best score first. If nobody did, the top scorers are reported instead.
func (e *Engine) partyWinnersLocked() []engine.Seat {
	var winners []engine.Seat
	for seat := engine.Seat(0); seat < 4; seat++ {
		if e.cumulativeScores[seat] >= 0 {
			winners = append(winners, seat)
		}
	}
	if len(winners) == 0 {
		max := e.cumulativeScores[0]
		for _, s := range e.cumulativeScores[1:] {
			if s > max {
				max = s
			}
		}
		for seat := engine.Seat(0); seat < 4; seat++ {
			if e.cumulativeScores[seat] == max {
				winners = append(winners, seat)
			}
		}
	}
	sort.SliceStable(winners, func(i, j int) bool {
		return e.cumulativeScores[winners[i]] > e.cumulativeScores[winners[j]]
	})
	return winners
}

// NextGame deals the following game and rotates the selector
// counter-clockwise.
func (e *Engine) NextGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseGameEnd {
		return engine.Errf(engine.KindPhase, "game is not over")
	}
	if e.partyOver {
		return engine.Errf(engine.KindPhase, "party is over")
	}
	e.gameNumber++
	e.selectorSeat = e.selectorSeat.Prev()
	e.dealLocked()
	return nil
}
