package table

import (
	"strings"
	"time"
	"unicode"

	"tricktable/engine"
	"tricktable/internal/codec"
)

func (t *Table) handleJoin(playerID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}

	// Reconnect of a known player id.
	if p := t.players[playerID]; p != nil {
		p.Connected = true
		p.Name = name
		t.refreshIdleLocked()
		t.sendJoinStateLocked(p)
		t.broadcastPlayersLocked()
		return nil
	}

	if t.gameActiveLocked() {
		seat, ok := t.takeoverSeatLocked()
		if !ok {
			return ErrGameInProgress
		}
		t.rebindSeatLocked(seat, playerID, name)
		return nil
	}

	seat := engine.NoSeat
	for s := engine.Seat(0); s < 4; s++ {
		if t.seats[s] == "" {
			seat = s
			break
		}
	}
	if seat == engine.NoSeat {
		return ErrTableFull
	}

	p := &Player{ID: playerID, Name: name, Seat: seat, Connected: true}
	t.players[playerID] = p
	t.seats[seat] = playerID
	t.refreshIdleLocked()
	t.log.Infof("table %s: %s joined seat %d", t.ID, name, seat)

	t.sendJoinStateLocked(p)
	t.broadcastPlayersLocked()

	if t.seatedCountLocked() == 4 {
		t.startGameLocked()
	}
	return nil
}

// takeoverSeatLocked finds a disconnected seat available for takeover.
func (t *Table) takeoverSeatLocked() (engine.Seat, bool) {
	for seat := engine.Seat(0); seat < 4; seat++ {
		id := t.seats[seat]
		if id == "" {
			continue
		}
		if p := t.players[id]; p != nil && !p.Connected {
			return seat, true
		}
	}
	return engine.NoSeat, false
}

// rebindSeatLocked hands a disconnected seat to a new player and replays the
// minimum state the joiner needs: snapshot, phase and any running deadline.
func (t *Table) rebindSeatLocked(seat engine.Seat, playerID, name string) {
	old := t.seats[seat]
	delete(t.players, old)

	p := &Player{ID: playerID, Name: name, Seat: seat, Connected: true}
	t.players[playerID] = p
	t.seats[seat] = playerID
	t.refreshIdleLocked()
	t.log.Infof("table %s: %s took over seat %d", t.ID, name, seat)

	t.sendJoinStateLocked(p)
	t.replayTimersLocked(playerID)
	t.broadcastPlayersLocked()
}

// sendJoinStateLocked sends tableJoined plus, when a game is running, the
// joiner's snapshot.
func (t *Table) sendJoinStateLocked(p *Player) {
	joined := codec.TableJoined{
		TableID:  t.ID,
		Seat:     int(p.Seat),
		GameType: string(t.Opts.GameType),
		Players:  t.playersInfoLocked(),
	}
	if t.Opts.GameType == engine.GameHearts {
		joined.EndingScore = t.heartsEndingScore()
	}
	t.send(p.ID, codec.EvTableJoined, joined)

	if t.gameActiveLocked() {
		t.send(p.ID, codec.EvUpdateGame, codec.UpdateGame{
			GameType: string(t.Opts.GameType),
			State:    t.projectLocked(p.Seat),
		})
	}
}

// replayTimersLocked resends whichever timer event is currently running so a
// takeover client can render the countdown.
func (t *Table) replayTimersLocked(playerID string) {
	switch {
	case !t.turnDeadline.IsZero():
		t.send(playerID, codec.EvTurnStart, codec.TurnStart{
			Player:    int(t.turnSeat),
			TimeoutAt: t.turnDeadline.UnixMilli(),
		})
	case !t.passDeadline.IsZero():
		t.send(playerID, codec.EvPassTimerStart, codec.PassTimerStart{
			TimeoutAt: t.passDeadline.UnixMilli(),
		})
	case !t.selectDeadline.IsZero():
		t.send(playerID, codec.EvSelectTimerStart, codec.SelectTimerStart{
			TimeoutAt:    t.selectDeadline.UnixMilli(),
			SelectorSeat: int(t.kingGame.Snapshot().SelectorSeat),
		})
	case !t.bidDeadline.IsZero():
		t.send(playerID, codec.EvBidTimerStart, codec.BidTimerStart{
			Player:    int(t.spadesGame.Snapshot().CurrentBidder),
			TimeoutAt: t.bidDeadline.UnixMilli(),
		})
	}
}

func (t *Table) handleLeave(playerID string) error {
	p := t.players[playerID]
	if p == nil {
		return nil
	}

	if t.gameActiveLocked() {
		// Mid-game leavers keep the seat as a takeover slot.
		p.Connected = false
		t.log.Infof("table %s: %s left mid-game, seat %d open for takeover", t.ID, p.Name, p.Seat)
	} else {
		t.seats[p.Seat] = ""
		delete(t.players, playerID)
		delete(t.rematchVotes, p.Seat)
		t.log.Infof("table %s: %s left seat %d", t.ID, p.Name, p.Seat)
	}
	delete(t.typing, p.Name)
	t.refreshIdleLocked()
	t.broadcastPlayersLocked()
	return nil
}

func (t *Table) handleSpectate(playerID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "guest"
	}
	t.spectators[playerID] = &Spectator{ID: playerID, Name: name}

	joined := codec.SpectateJoined{
		TableID:  t.ID,
		GameType: string(t.Opts.GameType),
		Players:  t.playersInfoLocked(),
	}
	if t.gameActiveLocked() {
		joined.GameState = t.projectLocked(engine.NoSeat)
	}
	t.send(playerID, codec.EvSpectateJoined, joined)
	t.broadcastSpectatorCountLocked()
	return nil
}

func (t *Table) handleLeaveSpectate(playerID string) error {
	if sp := t.spectators[playerID]; sp != nil {
		delete(t.typing, sp.Name)
	}
	delete(t.spectators, playerID)
	t.broadcastSpectatorCountLocked()
	return nil
}

func (t *Table) broadcastSpectatorCountLocked() {
	n := len(t.spectators)
	t.broadcastRoom(codec.EvSpectatorUpdate, codec.SpectatorUpdate{SpectatorCount: &n})
}

func (t *Table) handleConnLost(playerID string) error {
	if p := t.players[playerID]; p != nil {
		p.Connected = false
		delete(t.typing, p.Name)
		t.refreshIdleLocked()
		t.broadcastPlayersLocked()
		t.log.Debugf("table %s: %s disconnected", t.ID, p.Name)
		return nil
	}
	if sp := t.spectators[playerID]; sp != nil {
		delete(t.typing, sp.Name)
		delete(t.spectators, playerID)
		t.broadcastSpectatorCountLocked()
	}
	return nil
}

func (t *Table) handleConnResume(playerID string) error {
	p := t.players[playerID]
	if p == nil {
		return nil
	}
	p.Connected = true
	t.refreshIdleLocked()
	t.sendJoinStateLocked(p)
	t.replayTimersLocked(playerID)
	t.broadcastPlayersLocked()
	t.log.Debugf("table %s: %s reconnected", t.ID, p.Name)
	return nil
}

func (t *Table) handleRematch(playerID string, vote bool) error {
	p := t.players[playerID]
	if p == nil {
		return ErrNotSeated
	}
	if !t.gameOverLocked() || t.pending != nil || t.pendingRound != nil {
		return engine.Errf(engine.KindPhase, "game is not over")
	}

	t.rematchVotes[p.Seat] = vote

	votes := make(map[int]bool, len(t.rematchVotes))
	for seat, v := range t.rematchVotes {
		votes[int(seat)] = v
	}
	t.broadcastRoom(codec.EvRematchStatus, codec.RematchStatus{Votes: votes})

	if len(t.rematchVotes) == 4 {
		for _, v := range t.rematchVotes {
			if !v {
				return nil
			}
		}
		t.log.Infof("table %s: rematch accepted", t.ID)
		t.startGameLocked()
	}
	return nil
}

// chatPunct is the punctuation allowed through the chat filter alongside
// Unicode letters, digits and spaces.
const chatPunct = `.,!?'"-:;()`

func sanitizeChat(text string) string {
	var b strings.Builder
	count := 0
	for _, r := range text {
		if count >= chatMaxRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(chatPunct, r) {
			b.WriteRune(r)
			count++
		}
	}
	return strings.TrimSpace(b.String())
}

func (t *Table) handleChat(playerID, text string) error {
	from, seat := t.senderLocked(playerID)
	if from == "" {
		return ErrNotSeated
	}
	text = sanitizeChat(text)
	if text == "" {
		return nil
	}
	t.broadcastRoom(codec.EvChat, codec.Chat{
		From:      from,
		Seat:      seat,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	})
	return nil
}

func (t *Table) handleTyping(playerID string, isTyping bool) error {
	from, _ := t.senderLocked(playerID)
	if from == "" {
		return nil
	}
	if isTyping {
		t.typing[from] = time.Now().Add(typingTTL)
	} else {
		delete(t.typing, from)
	}
	t.broadcastTypingLocked(playerID)
	return nil
}

func (t *Table) expireTypingLocked(now time.Time) {
	changed := false
	for name, deadline := range t.typing {
		if now.After(deadline) {
			delete(t.typing, name)
			changed = true
		}
	}
	if changed {
		t.broadcastTypingLocked("")
	}
}

// broadcastTypingLocked sends the current typing name list to the room,
// excluding the sender that triggered the update.
func (t *Table) broadcastTypingLocked(exceptID string) {
	names := make([]string, 0, len(t.typing))
	for name := range t.typing {
		names = append(names, name)
	}
	data := codec.MustEncode(codec.EvTypingUpdate, codec.TypingUpdate{Players: names})
	for id := range t.players {
		if id != exceptID {
			t.broadcast(id, data)
		}
	}
	for id := range t.spectators {
		if id != exceptID {
			t.broadcast(id, data)
		}
	}
}

// senderLocked resolves a chat/typing sender: players carry their seat,
// spectators report seat -1.
func (t *Table) senderLocked(playerID string) (string, int) {
	if p := t.players[playerID]; p != nil {
		return p.Name, int(p.Seat)
	}
	if sp := t.spectators[playerID]; sp != nil {
		return sp.Name, -1
	}
	return "", -1
}
