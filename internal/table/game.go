package table

import (
	"time"

	"tricktable/card"
	"tricktable/engine"
	"tricktable/hearts"
	"tricktable/internal/codec"
	"tricktable/king"
	"tricktable/spades"
)

func (t *Table) gameActiveLocked() bool {
	return t.heartsGame != nil || t.kingGame != nil || t.spadesGame != nil
}

func (t *Table) gameOverLocked() bool {
	switch {
	case t.heartsGame != nil:
		return t.heartsGame.Snapshot().Phase == hearts.PhaseGameEnd
	case t.kingGame != nil:
		return t.kingGame.Snapshot().PartyOver
	case t.spadesGame != nil:
		return t.spadesGame.Snapshot().Phase == spades.PhaseGameEnd
	}
	return false
}

func (t *Table) heartsEndingScore() int {
	if t.Opts.EndingScore > 0 {
		return t.Opts.EndingScore
	}
	return hearts.DefaultEndingScore
}

func (t *Table) projectLocked(viewer engine.Seat) *codec.GameState {
	switch {
	case t.heartsGame != nil:
		return codec.ProjectHearts(t.heartsGame.Snapshot(), viewer)
	case t.kingGame != nil:
		return codec.ProjectKing(t.kingGame.Snapshot(), viewer)
	case t.spadesGame != nil:
		return codec.ProjectSpades(t.spadesGame.Snapshot(), viewer)
	}
	return nil
}

// broadcastGameStateLocked emits one snapshot per participant: players with
// their own hand, spectators hand-free.
func (t *Table) broadcastGameStateLocked() {
	if !t.gameActiveLocked() {
		return
	}
	for id, p := range t.players {
		t.send(id, codec.EvUpdateGame, codec.UpdateGame{
			GameType: string(t.Opts.GameType),
			State:    t.projectLocked(p.Seat),
		})
	}
	if len(t.spectators) > 0 {
		state := t.projectLocked(engine.NoSeat)
		for id := range t.spectators {
			t.send(id, codec.EvSpectatorUpdate, codec.SpectatorUpdate{GameState: state})
		}
	}
}

// --- game start and round flow ---

func (t *Table) startGameLocked() {
	t.rematchVotes = make(map[engine.Seat]bool)
	t.roundsPlayed = 0
	t.startedAt = time.Now()
	t.pending = nil
	t.pendingRound = nil
	t.roundEndAt = time.Time{}
	t.clearPhaseTimersLocked()

	// The configured seed fixes the first game only; rematches reshuffle.
	var seed int64
	if !t.seedUsed {
		seed = t.Opts.Seed
		t.seedUsed = true
	}

	switch t.Opts.GameType {
	case engine.GameHearts:
		t.heartsGame = hearts.New(hearts.Config{EndingScore: t.Opts.EndingScore, Seed: seed})
	case engine.GameKing:
		t.kingGame = king.New(king.Config{InitialSelector: t.Opts.InitialSelector, Seed: seed})
		t.partyCount++
	case engine.GameSpades:
		t.spadesGame = spades.New(spades.Config{WinThreshold: t.Opts.WinThreshold, Seed: seed})
	}
	t.log.Infof("table %s: %s game started", t.ID, t.Opts.GameType)
	t.beginRoundLocked()
}

// beginRoundLocked announces the freshly dealt round and arms the phase
// timer. Used both for the first deal and every subsequent round.
func (t *Table) beginRoundLocked() {
	switch t.Opts.GameType {
	case engine.GameHearts:
		snap := t.heartsGame.Snapshot()
		for id, p := range t.players {
			t.send(id, codec.EvStartGame, codec.StartGame{
				Hand:          codec.FromCards(snap.Hands[p.Seat]),
				PassDirection: snap.PassDirection.String(),
				Phase:         snap.Phase.String(),
				CurrentPlayer: int(snap.CurrentPlayer),
				GameType:      string(engine.GameHearts),
			})
		}
		t.broadcastGameStateLocked()
		if snap.Phase == hearts.PhasePassing {
			t.armPassLocked()
		} else {
			t.turnStartLocked(snap.CurrentPlayer)
		}

	case engine.GameKing:
		snap := t.kingGame.Snapshot()
		available := t.kingGame.AvailableContracts(snap.SelectorSeat)
		names := make([]string, len(available))
		for i, c := range available {
			names[i] = c.String()
		}
		for id, p := range t.players {
			t.send(id, codec.EvStartGame, codec.StartGame{
				Hand:          codec.FromCards(snap.Hands[p.Seat]),
				Phase:         snap.Phase.String(),
				CurrentPlayer: int(snap.CurrentPlayer),
				GameType:      string(engine.GameKing),
			})
			t.send(id, codec.EvContractSelectionStart, codec.ContractSelectionStart{
				Selector:           int(snap.SelectorSeat),
				AvailableContracts: names,
				GameNumber:         snap.GameNumber,
				PartyNumber:        t.partyCount,
				Hand:               codec.FromCards(snap.Hands[p.Seat]),
			})
		}
		for id := range t.spectators {
			t.send(id, codec.EvContractSelectionStart, codec.ContractSelectionStart{
				Selector:           int(snap.SelectorSeat),
				AvailableContracts: names,
				GameNumber:         snap.GameNumber,
				PartyNumber:        t.partyCount,
			})
		}
		t.broadcastGameStateLocked()
		t.armSelectLocked(snap.SelectorSeat)

	case engine.GameSpades:
		snap := t.spadesGame.Snapshot()
		for id, p := range t.players {
			t.send(id, codec.EvStartGame, codec.StartGame{
				Hand:          codec.FromCards(snap.Hands[p.Seat]),
				Phase:         snap.Phase.String(),
				CurrentPlayer: int(snap.CurrentPlayer),
				GameType:      string(engine.GameSpades),
			})
			t.send(id, codec.EvBiddingStart, codec.BiddingStart{
				Hand:          codec.FromCards(snap.Hands[p.Seat]),
				CurrentBidder: int(snap.CurrentBidder),
				RoundNumber:   snap.RoundNumber,
			})
		}
		for id := range t.spectators {
			t.send(id, codec.EvBiddingStart, codec.BiddingStart{
				CurrentBidder: int(snap.CurrentBidder),
				RoundNumber:   snap.RoundNumber,
			})
		}
		t.broadcastGameStateLocked()
		t.armBidLocked(snap.CurrentBidder)
	}
}

func (t *Table) advanceRoundLocked() {
	var err error
	switch {
	case t.heartsGame != nil:
		err = t.heartsGame.NextRound()
	case t.kingGame != nil:
		err = t.kingGame.NextGame()
	case t.spadesGame != nil:
		err = t.spadesGame.NextRound()
	}
	if err != nil {
		t.log.Errorf("table %s: next round failed: %v", t.ID, err)
		return
	}
	t.beginRoundLocked()
}

// --- phase actions ---

func (t *Table) seatedSeat(playerID string) (engine.Seat, error) {
	p := t.players[playerID]
	if p == nil {
		return engine.NoSeat, ErrNotSeated
	}
	return p.Seat, nil
}

func (t *Table) handleSubmitPass(playerID string, cards []card.Card) error {
	seat, err := t.seatedSeat(playerID)
	if err != nil {
		return err
	}
	if t.heartsGame == nil {
		return engine.Errf(engine.KindPhase, "no hearts game running")
	}
	res, err := t.heartsGame.SubmitPass(seat, cards)
	if err != nil {
		return err
	}
	t.send(playerID, codec.EvUpdateGame, codec.UpdateGame{
		GameType: string(engine.GameHearts),
		State:    t.projectLocked(seat),
	})
	if res.AllSubmitted {
		t.afterPassCompleteLocked(res.FirstPlayer)
	}
	return nil
}

func (t *Table) afterPassCompleteLocked(first engine.Seat) {
	t.passDeadline = time.Time{}
	t.broadcastGameStateLocked()
	t.turnStartLocked(first)
}

func (t *Table) handleSelectContract(playerID string, c king.Contract) error {
	seat, err := t.seatedSeat(playerID)
	if err != nil {
		return err
	}
	return t.selectContractLocked(seat, c)
}

func (t *Table) selectContractLocked(seat engine.Seat, c king.Contract) error {
	if t.kingGame == nil {
		return engine.Errf(engine.KindPhase, "no king game running")
	}
	res, err := t.kingGame.SelectContract(seat, c)
	if err != nil {
		return err
	}
	t.selectDeadline = time.Time{}
	t.broadcastRoom(codec.EvContractSelected, codec.ContractSelected{
		Contract:   res.Contract.String(),
		GameNumber: res.GameNumber,
	})
	t.broadcastGameStateLocked()
	t.turnStartLocked(res.FirstPlayer)
	return nil
}

func (t *Table) handleSubmitBid(playerID string, b spades.Bid) error {
	seat, err := t.seatedSeat(playerID)
	if err != nil {
		return err
	}
	return t.submitBidLocked(seat, b)
}

func (t *Table) submitBidLocked(seat engine.Seat, b spades.Bid) error {
	if t.spadesGame == nil {
		return engine.Errf(engine.KindPhase, "no spades game running")
	}
	res, err := t.spadesGame.SubmitBid(seat, b)
	if err != nil {
		return err
	}
	t.bidDeadline = time.Time{}

	snap := t.spadesGame.Snapshot()
	bids := make([]*codec.Bid, 4)
	for s, bid := range snap.Bids {
		if bid != nil {
			wb := codec.FromBid(*bid)
			bids[s] = &wb
		}
	}
	t.broadcastRoom(codec.EvBidSubmitted, codec.BidSubmitted{
		Seat:       int(res.Seat),
		Bid:        codec.FromBid(res.Bid),
		Bids:       bids,
		NextBidder: int(res.NextBidder),
	})

	if res.AllSubmitted {
		t.broadcastGameStateLocked()
		t.turnStartLocked(res.FirstPlayer)
	} else {
		t.armBidLocked(res.NextBidder)
	}
	return nil
}

func (t *Table) handlePlayCard(playerID string, c card.Card) error {
	seat, err := t.seatedSeat(playerID)
	if err != nil {
		return err
	}
	return t.playCardLocked(seat, c)
}

func (t *Table) playCardLocked(seat engine.Seat, c card.Card) error {
	if t.pending != nil {
		return engine.Errf(engine.KindPhase, "trick still resolving")
	}

	switch {
	case t.heartsGame != nil:
		res, err := t.heartsGame.PlayCard(seat, c)
		if err != nil {
			return err
		}
		if res.TrickComplete {
			t.trickCompleteLocked(res.TrickWinner, res.TrickPoints, res.Trick, func(p *pendingTrick) {
				p.heartsRound = res.Round
			})
		} else {
			t.trickContinuesLocked(res.Seat, res.Card, res.NextPlayer)
		}

	case t.kingGame != nil:
		res, err := t.kingGame.PlayCard(seat, c)
		if err != nil {
			return err
		}
		if res.TrickComplete {
			t.trickCompleteLocked(res.TrickWinner, 0, res.Trick, func(p *pendingTrick) {
				p.kingGame = res.Game
			})
		} else {
			t.trickContinuesLocked(res.Seat, res.Card, res.NextPlayer)
		}

	case t.spadesGame != nil:
		res, err := t.spadesGame.PlayCard(seat, c)
		if err != nil {
			return err
		}
		if res.TrickComplete {
			t.trickCompleteLocked(res.TrickWinner, 0, res.Trick, func(p *pendingTrick) {
				p.spadesRound = res.Round
			})
		} else {
			t.trickContinuesLocked(res.Seat, res.Card, res.NextPlayer)
		}

	default:
		return engine.Errf(engine.KindPhase, "no game running")
	}
	return nil
}

func (t *Table) trickContinuesLocked(seat engine.Seat, c card.Card, next engine.Seat) {
	t.clearTurnLocked()
	t.broadcastRoom(codec.EvCardPlayed, codec.CardPlayed{
		Seat:         int(seat),
		Card:         codec.FromCard(c),
		CurrentTrick: currentTrickWire(t.projectLocked(engine.NoSeat)),
	})
	t.broadcastGameStateLocked()
	t.turnStartLocked(next)
}

// trickCompleteLocked announces the fourth card and opens the animation gap.
// trickEnd and anything after it are emitted from the tick once the gap ends.
func (t *Table) trickCompleteLocked(winner engine.Seat, points int, trick []engine.TrickPlay, setResult func(*pendingTrick)) {
	t.clearTurnLocked()
	last := trick[len(trick)-1]
	w := int(winner)
	t.broadcastRoom(codec.EvCardPlayed, codec.CardPlayed{
		Seat:          int(last.Seat),
		Card:          codec.FromCard(last.Card),
		CurrentTrick:  trickWire(trick),
		TrickComplete: true,
		Winner:        &w,
	})
	p := &pendingTrick{winner: winner, points: points, trick: trick}
	setResult(p)
	t.pending = p
	t.animationUntil = time.Now().Add(trickGap)
	t.broadcastGameStateLocked()
}

func (t *Table) finishTrickLocked() {
	p := t.pending
	t.pending = nil
	t.animationUntil = time.Time{}

	t.broadcastRoom(codec.EvTrickEnd, codec.TrickEnd{
		Winner:    int(p.winner),
		Points:    p.points,
		LastTrick: trickWire(p.trick),
	})

	if p.heartsRound != nil || p.kingGame != nil || p.spadesRound != nil {
		// roundEnd follows trickEnd after the per-game-type gap; the engine
		// sits in its round-end phase meanwhile, rejecting plays.
		t.pendingRound = p
		t.roundEndAt = time.Now().Add(t.roundEndDelayLocked())
		t.broadcastGameStateLocked()
		return
	}

	t.broadcastGameStateLocked()
	t.turnStartLocked(p.winner)
}

func (t *Table) roundEndDelayLocked() time.Duration {
	switch t.Opts.GameType {
	case engine.GameHearts:
		return heartsRoundEndDelay
	case engine.GameKing:
		return kingRoundEndDelay
	default:
		return spadesRoundEndDelay
	}
}

// emitRoundEndLocked fires from the tick once the round-end gap has elapsed.
func (t *Table) emitRoundEndLocked() {
	p := t.pendingRound
	t.pendingRound = nil
	t.roundEndAt = time.Time{}

	switch {
	case p.heartsRound != nil:
		t.heartsRoundEndLocked(p.heartsRound)
	case p.kingGame != nil:
		t.kingGameEndLocked(p.kingGame)
	case p.spadesRound != nil:
		t.spadesRoundEndLocked(p.spadesRound)
	}
}

func (t *Table) heartsRoundEndLocked(r *hearts.RoundResult) {
	t.roundsPlayed++
	payload := codec.RoundEnd{
		RoundScores:      append([]int(nil), r.RoundScores[:]...),
		CumulativeScores: append([]int(nil), r.CumulativeScores[:]...),
		GameOver:         r.GameOver,
	}
	if r.MoonShooter != nil {
		shooter := int(*r.MoonShooter)
		payload.MoonShooter = &shooter
	}
	payload.PointCardsTaken = make([][]codec.Card, 4)
	for seat, cards := range r.PointCardsTaken {
		payload.PointCardsTaken[seat] = codec.FromCards(cards)
	}
	if r.GameOver {
		payload.GameWinner = seatsToInts(r.Winners)
	}
	t.broadcastRoom(codec.EvRoundEnd, payload)
	t.broadcastGameStateLocked()

	if r.GameOver {
		t.gameEndLocked(seatsToInts(r.Winners), append([]int(nil), r.CumulativeScores[:]...))
	} else {
		t.advanceRoundLocked()
	}
}

func (t *Table) kingGameEndLocked(r *king.GameResult) {
	t.roundsPlayed++
	payload := codec.RoundEnd{
		RoundScores:      append([]int(nil), r.GameScores[:]...),
		CumulativeScores: append([]int(nil), r.CumulativeScores[:]...),
		GameOver:         r.PartyOver,
	}
	if r.PartyOver {
		payload.GameWinner = seatsToInts(r.Winners)
	}
	t.broadcastRoom(codec.EvRoundEnd, payload)
	t.broadcastGameStateLocked()

	if r.PartyOver {
		t.gameEndLocked(seatsToInts(r.Winners), append([]int(nil), r.CumulativeScores[:]...))
	} else {
		t.advanceRoundLocked()
	}
}

func (t *Table) spadesRoundEndLocked(r *spades.RoundResult) {
	t.roundsPlayed++
	payload := codec.RoundEnd{
		RoundScores:      append([]int(nil), r.RoundScores[:]...),
		CumulativeScores: append([]int(nil), r.CumulativeScores[:]...),
		Bags:             append([]int(nil), r.Bags[:]...),
		GameOver:         r.GameOver,
	}
	if r.GameOver {
		payload.GameWinner = append([]int(nil), r.WinnerTeams...)
	}
	t.broadcastRoom(codec.EvRoundEnd, payload)
	t.broadcastGameStateLocked()

	if r.GameOver {
		t.gameEndLocked(append([]int(nil), r.WinnerTeams...), append([]int(nil), r.CumulativeScores[:]...))
	} else {
		t.advanceRoundLocked()
	}
}

func (t *Table) gameEndLocked(winners, finalScores []int) {
	t.clearPhaseTimersLocked()
	t.broadcastRoom(codec.EvGameEnd, codec.GameEnd{
		Winner:      winners,
		FinalScores: finalScores,
	})
	t.dispatchGameEndHooksLocked(winners, finalScores)
	t.log.Infof("table %s: game over, winners %v", t.ID, winners)
}

// --- timers ---

func (t *Table) turnStartLocked(seat engine.Seat) {
	if seat == engine.NoSeat {
		return
	}
	t.turnSeat = seat
	t.turnDeadline = time.Now().Add(turnTimeout)
	t.turnWarned = false
	t.broadcastRoom(codec.EvTurnStart, codec.TurnStart{
		Player:    int(seat),
		TimeoutAt: t.turnDeadline.UnixMilli(),
	})
}

func (t *Table) clearTurnLocked() {
	t.turnSeat = engine.NoSeat
	t.turnDeadline = time.Time{}
	t.turnWarned = false
}

func (t *Table) armPassLocked() {
	t.passDeadline = time.Now().Add(passTimeout)
	t.broadcastRoom(codec.EvPassTimerStart, codec.PassTimerStart{
		TimeoutAt: t.passDeadline.UnixMilli(),
	})
}

func (t *Table) armSelectLocked(selector engine.Seat) {
	t.selectDeadline = time.Now().Add(selectTimeout)
	t.broadcastRoom(codec.EvSelectTimerStart, codec.SelectTimerStart{
		TimeoutAt:    t.selectDeadline.UnixMilli(),
		SelectorSeat: int(selector),
	})
}

func (t *Table) armBidLocked(bidder engine.Seat) {
	t.bidDeadline = time.Now().Add(bidTimeout)
	t.broadcastRoom(codec.EvBidTimerStart, codec.BidTimerStart{
		Player:    int(bidder),
		TimeoutAt: t.bidDeadline.UnixMilli(),
	})
}

func (t *Table) clearPhaseTimersLocked() {
	t.clearTurnLocked()
	t.passDeadline = time.Time{}
	t.selectDeadline = time.Time{}
	t.bidDeadline = time.Time{}
}

func (t *Table) clearAllTimersLocked() {
	t.clearPhaseTimersLocked()
	t.pending = nil
	t.animationUntil = time.Time{}
	t.pendingRound = nil
	t.roundEndAt = time.Time{}
	t.cleanupAt = time.Time{}
}

func (t *Table) fireTimersLocked(now time.Time) {
	if !t.turnDeadline.IsZero() {
		if !t.turnWarned && !now.Before(t.turnDeadline.Add(-turnWarnLeft)) {
			t.turnWarned = true
			t.broadcastRoom(codec.EvTimerWarning, struct{}{})
		}
		if !now.Before(t.turnDeadline) {
			t.autoPlayLocked()
		}
	}
	if !t.passDeadline.IsZero() && !now.Before(t.passDeadline) {
		t.autoPassLocked()
	}
	if !t.selectDeadline.IsZero() && !now.Before(t.selectDeadline) {
		t.autoSelectLocked()
	}
	if !t.bidDeadline.IsZero() && !now.Before(t.bidDeadline) {
		t.autoBidLocked()
	}
}

func (t *Table) legalCardsLocked(seat engine.Seat) []card.Card {
	switch {
	case t.heartsGame != nil:
		return t.heartsGame.LegalCards(seat)
	case t.kingGame != nil:
		return t.kingGame.LegalCards(seat)
	case t.spadesGame != nil:
		return t.spadesGame.LegalCards(seat)
	}
	return nil
}

// autoPlayLocked plays the lowest legal card for the seat whose turn timed
// out.
func (t *Table) autoPlayLocked() {
	seat := t.turnSeat
	t.clearTurnLocked()
	if seat == engine.NoSeat {
		return
	}
	legal := t.legalCardsLocked(seat)
	if len(legal) == 0 {
		t.log.Errorf("table %s: turn timeout with no legal cards for seat %d", t.ID, seat)
		return
	}
	pick := legal[0]
	for _, c := range legal[1:] {
		if c.Order() < pick.Order() {
			pick = c
		}
	}
	t.log.Debugf("table %s: seat %d timed out, auto-playing %s", t.ID, seat, pick)
	t.broadcastRoom(codec.EvAutoPlay, codec.AutoPlay{Card: codec.FromCard(pick)})
	if err := t.playCardLocked(seat, pick); err != nil {
		t.log.Errorf("table %s: auto-play failed: %v", t.ID, err)
	}
}

// autoPassLocked submits three random cards for every seat that missed the
// pass deadline.
func (t *Table) autoPassLocked() {
	t.passDeadline = time.Time{}
	if t.heartsGame == nil {
		return
	}
	snap := t.heartsGame.Snapshot()
	for seat := engine.Seat(0); seat < 4; seat++ {
		if snap.PassedSeat[seat] {
			continue
		}
		hand := snap.Hands[seat]
		perm := t.rng.Perm(len(hand))
		cards := []card.Card{hand[perm[0]], hand[perm[1]], hand[perm[2]]}

		res, err := t.heartsGame.SubmitPass(seat, cards)
		if err != nil {
			t.log.Errorf("table %s: auto-pass failed for seat %d: %v", t.ID, seat, err)
			continue
		}
		if id := t.seats[seat]; id != "" {
			t.send(id, codec.EvAutoPassSubmitted, codec.AutoPassSubmitted{Cards: codec.FromCards(cards)})
		}
		if res.AllSubmitted {
			t.afterPassCompleteLocked(res.FirstPlayer)
		}
	}
}

// autoSelectLocked picks a random available penalty, falling back to a
// random available trump when the selector's penalty quota is spent.
func (t *Table) autoSelectLocked() {
	t.selectDeadline = time.Time{}
	if t.kingGame == nil {
		return
	}
	selector := t.kingGame.Snapshot().SelectorSeat
	available := t.kingGame.AvailableContracts(selector)
	if len(available) == 0 {
		t.log.Errorf("table %s: select timeout with no available contracts", t.ID)
		return
	}
	var penalties []king.Contract
	for _, c := range available {
		if c.Kind == king.ContractPenalty {
			penalties = append(penalties, c)
		}
	}
	var pick king.Contract
	if len(penalties) > 0 {
		pick = penalties[t.rng.Intn(len(penalties))]
	} else {
		pick = available[t.rng.Intn(len(available))]
	}
	t.log.Debugf("table %s: selector %d timed out, auto-selecting %s", t.ID, selector, pick)
	if err := t.selectContractLocked(selector, pick); err != nil {
		t.log.Errorf("table %s: auto-select failed: %v", t.ID, err)
	}
}

// autoBidLocked bids 2 for the bidder that timed out. Nil is never bid
// automatically.
func (t *Table) autoBidLocked() {
	t.bidDeadline = time.Time{}
	if t.spadesGame == nil {
		return
	}
	bidder := t.spadesGame.Snapshot().CurrentBidder
	t.log.Debugf("table %s: bidder %d timed out, auto-bidding 2", t.ID, bidder)
	if err := t.submitBidLocked(bidder, spades.NumberBid(2)); err != nil {
		t.log.Errorf("table %s: auto-bid failed: %v", t.ID, err)
	}
}

// --- wire helpers ---

func trickWire(trick []engine.TrickPlay) []codec.TrickCard {
	out := make([]codec.TrickCard, len(trick))
	for i, p := range trick {
		out[i] = codec.TrickCard{Seat: int(p.Seat), Card: codec.FromCard(p.Card)}
	}
	return out
}

func currentTrickWire(state *codec.GameState) []codec.TrickCard {
	if state == nil {
		return nil
	}
	return state.CurrentTrick
}
