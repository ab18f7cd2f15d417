// Package table implements the per-table controller: an actor goroutine that
// serializes client events and timer ticks against one game engine, owns all
// table timers, and fans state out per viewer.
package table

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tricktable/card"
	"tricktable/engine"
	"tricktable/hearts"
	"tricktable/internal/codec"
	"tricktable/king"
	"tricktable/spades"

	"github.com/decred/slog"
)

// Options are the fixed settings of one table.
type Options struct {
	GameType engine.GameType
	// EndingScore applies to Hearts (0 = default).
	EndingScore int
	// WinThreshold applies to Spades (0 = default).
	WinThreshold int
	// InitialSelector applies to King.
	InitialSelector engine.Seat
	// Seed fixes the first deal for deterministic tests (0 = random).
	Seed int64
}

// Player is a seated participant. The seat survives disconnects; a takeover
// rebinds a new player id to the same seat.
type Player struct {
	ID        string
	Name      string
	Seat      engine.Seat
	Connected bool
}

// Spectator observes the table and never sees hidden hands.
type Spectator struct {
	ID   string
	Name string
}

// GameEndInfo is handed to game-end hooks when a table game finishes.
type GameEndInfo struct {
	TableID      string
	GameType     engine.GameType
	StartedAt    time.Time
	EndedAt      time.Time
	Winners      []int
	FinalScores  []int
	RoundsPlayed int
}

// GameEndHook is a post-game callback (history store, metrics).
type GameEndHook func(GameEndInfo)

// EventType enumerates the actor mailbox messages.
type EventType int

const (
	EventJoin EventType = iota
	EventLeave
	EventSpectate
	EventLeaveSpectate
	EventSubmitPass
	EventSelectContract
	EventSubmitBid
	EventPlayCard
	EventRematch
	EventChat
	EventTyping
	EventConnLost
	EventConnResume
	EventClose
)

// Event is one message to the table actor.
type Event struct {
	Type     EventType
	PlayerID string
	Name     string

	Cards    []card.Card
	Card     card.Card
	Contract king.Contract
	Bid      spades.Bid
	Vote     bool
	Text     string
	IsTyping bool

	Timestamp time.Time
	Response  chan error
}

var (
	ErrTableClosed    = errors.New("table closed")
	ErrTableFull      = errors.New("table is full")
	ErrGameInProgress = errors.New("game in progress")
	ErrNameRequired   = errors.New("name required")
	ErrNotSeated      = errors.New("not seated at this table")
)

const (
	tickInterval  = 250 * time.Millisecond
	turnTimeout   = 30 * time.Second
	turnWarnLeft  = 10 * time.Second
	passTimeout   = 30 * time.Second
	selectTimeout = 45 * time.Second
	bidTimeout    = 30 * time.Second
	trickGap      = 500 * time.Millisecond
	typingTTL     = 2500 * time.Millisecond
	cleanupDelay  = 60 * time.Second
	chatMaxRunes  = 140
)

// Gap between trickEnd and the roundEnd broadcast, per game type. Hearts gets
// the longest window for the point-card reveal.
const (
	heartsRoundEndDelay = 8 * time.Second
	kingRoundEndDelay   = 6 * time.Second
	spadesRoundEndDelay = 6 * time.Second
)

// pendingTrick defers the trick-end broadcasts across the animation gap. New
// play actions are rejected while it is set.
type pendingTrick struct {
	winner engine.Seat
	points int
	trick  []engine.TrickPlay

	heartsRound *hearts.RoundResult
	kingGame    *king.GameResult
	spadesRound *spades.RoundResult
}

// Table is one game room driven by a single actor goroutine.
type Table struct {
	ID   string
	Opts Options

	log slog.Logger
	rng *rand.Rand

	mu         sync.RWMutex
	players    map[string]*Player
	seats      [4]string
	spectators map[string]*Spectator
	closed     bool
	stopOnce   sync.Once

	heartsGame *hearts.Engine
	kingGame   *king.Engine
	spadesGame *spades.Engine

	createdAt    time.Time
	startedAt    time.Time
	roundsPlayed int
	partyCount   int
	seedUsed     bool

	events chan Event
	done   chan struct{}

	turnSeat       engine.Seat
	turnDeadline   time.Time
	turnWarned     bool
	passDeadline   time.Time
	selectDeadline time.Time
	bidDeadline    time.Time
	animationUntil time.Time
	pending        *pendingTrick
	pendingRound   *pendingTrick
	roundEndAt     time.Time
	cleanupAt      time.Time
	idleSince      time.Time

	typing       map[string]time.Time
	rematchVotes map[engine.Seat]bool

	broadcast    func(playerID string, data []byte)
	gameEndHooks []GameEndHook
}

// New creates a table and starts its actor goroutine.
func New(id string, opts Options, broadcastFn func(playerID string, data []byte), log slog.Logger) *Table {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t := &Table{
		ID:           id,
		Opts:         opts,
		log:          log,
		rng:          rand.New(rand.NewSource(seed)),
		players:      make(map[string]*Player),
		spectators:   make(map[string]*Spectator),
		createdAt:    time.Now(),
		idleSince:    time.Now(),
		events:       make(chan Event, 256),
		done:         make(chan struct{}),
		turnSeat:     engine.NoSeat,
		typing:       make(map[string]time.Time),
		rematchVotes: make(map[engine.Seat]bool),
		broadcast:    broadcastFn,
	}
	go t.run()
	t.log.Debugf("table %s created (%s)", id, opts.GameType)
	return t
}

func (t *Table) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-t.events:
			err := t.handleEvent(ev)
			if ev.Response != nil {
				ev.Response <- err
			}
		case <-ticker.C:
			t.tick()
		case <-t.done:
			t.log.Debugf("table %s actor stopped", t.ID)
			return
		}
	}
}

func (t *Table) handleEvent(e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed && e.Type != EventClose {
		return ErrTableClosed
	}

	switch e.Type {
	case EventJoin:
		return t.handleJoin(e.PlayerID, e.Name)
	case EventLeave:
		return t.handleLeave(e.PlayerID)
	case EventSpectate:
		return t.handleSpectate(e.PlayerID, e.Name)
	case EventLeaveSpectate:
		return t.handleLeaveSpectate(e.PlayerID)
	case EventSubmitPass:
		return t.handleSubmitPass(e.PlayerID, e.Cards)
	case EventSelectContract:
		return t.handleSelectContract(e.PlayerID, e.Contract)
	case EventSubmitBid:
		return t.handleSubmitBid(e.PlayerID, e.Bid)
	case EventPlayCard:
		return t.handlePlayCard(e.PlayerID, e.Card)
	case EventRematch:
		return t.handleRematch(e.PlayerID, e.Vote)
	case EventChat:
		return t.handleChat(e.PlayerID, e.Text)
	case EventTyping:
		return t.handleTyping(e.PlayerID, e.IsTyping)
	case EventConnLost:
		return t.handleConnLost(e.PlayerID)
	case EventConnResume:
		return t.handleConnResume(e.PlayerID)
	case EventClose:
		t.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

// SubmitEvent queues an event and waits for the actor's verdict.
func (t *Table) SubmitEvent(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrTableClosed
	}

	select {
	case t.events <- e:
	case <-t.done:
		return ErrTableClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-t.done:
		return ErrTableClosed
	}
}

func (t *Table) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	now := time.Now()

	t.expireTypingLocked(now)

	if t.pending != nil && !now.Before(t.animationUntil) {
		t.finishTrickLocked()
	}
	if t.pendingRound != nil && !now.Before(t.roundEndAt) {
		t.emitRoundEndLocked()
	}

	t.fireTimersLocked(now)

	if !t.cleanupAt.IsZero() && !now.Before(t.cleanupAt) {
		if t.allSeatsIdleLocked() {
			t.log.Infof("table %s idle for %s, destroying", t.ID, cleanupDelay)
			t.stopLocked()
			return
		}
		t.cleanupAt = time.Time{}
	}
}

// Stop shuts down the table actor.
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Table) stopLocked() {
	t.closed = true
	t.clearAllTimersLocked()
	t.stopOnce.Do(func() { close(t.done) })
}

// IsClosed reports whether the actor has shut down.
func (t *Table) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// IsIdleFor reports whether every seat has been empty or disconnected for at
// least ttl. The lobby sweep uses it to reap dead tables.
func (t *Table) IsIdleFor(ttl time.Duration) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return true
	}
	if !t.allSeatsIdleLocked() {
		return false
	}
	if t.idleSince.IsZero() {
		return false
	}
	return time.Since(t.idleSince) >= ttl
}

// AddGameEndHook registers a post-game callback.
func (t *Table) AddGameEndHook(hook GameEndHook) {
	if hook == nil {
		return
	}
	t.mu.Lock()
	t.gameEndHooks = append(t.gameEndHooks, hook)
	t.mu.Unlock()
}

func (t *Table) dispatchGameEndHooksLocked(winners []int, finalScores []int) {
	if len(t.gameEndHooks) == 0 {
		return
	}
	info := GameEndInfo{
		TableID:      t.ID,
		GameType:     t.Opts.GameType,
		StartedAt:    t.startedAt,
		EndedAt:      time.Now(),
		Winners:      winners,
		FinalScores:  finalScores,
		RoundsPlayed: t.roundsPlayed,
	}
	hooks := append([]GameEndHook(nil), t.gameEndHooks...)
	for _, hook := range hooks {
		go func(cb GameEndHook) {
			defer func() {
				if r := recover(); r != nil {
					t.log.Errorf("table %s game end hook panic: %v", t.ID, r)
				}
			}()
			cb(info)
		}(hook)
	}
}

// --- membership bookkeeping shared by seats.go ---

func (t *Table) seatOf(playerID string) (engine.Seat, bool) {
	p := t.players[playerID]
	if p == nil {
		return engine.NoSeat, false
	}
	return p.Seat, true
}

func (t *Table) seatedCountLocked() int {
	n := 0
	for _, id := range t.seats {
		if id != "" {
			n++
		}
	}
	return n
}

func (t *Table) allSeatsIdleLocked() bool {
	for _, id := range t.seats {
		if id == "" {
			continue
		}
		if p := t.players[id]; p != nil && p.Connected {
			return false
		}
	}
	return true
}

func (t *Table) refreshIdleLocked() {
	if t.allSeatsIdleLocked() {
		if t.idleSince.IsZero() {
			t.idleSince = time.Now()
		}
		if t.cleanupAt.IsZero() {
			t.cleanupAt = time.Now().Add(cleanupDelay)
		}
		return
	}
	t.idleSince = time.Time{}
	t.cleanupAt = time.Time{}
}

// --- broadcast plumbing ---

func (t *Table) send(playerID, event string, payload interface{}) {
	t.broadcast(playerID, codec.MustEncode(event, payload))
}

// broadcastRoom fans one event to every player and spectator.
func (t *Table) broadcastRoom(event string, payload interface{}) {
	data := codec.MustEncode(event, payload)
	for id := range t.players {
		t.broadcast(id, data)
	}
	for id := range t.spectators {
		t.broadcast(id, data)
	}
}

func (t *Table) broadcastSeated(event string, payload interface{}) {
	data := codec.MustEncode(event, payload)
	for id := range t.players {
		t.broadcast(id, data)
	}
}

func (t *Table) playersInfoLocked() []codec.PlayerInfo {
	out := make([]codec.PlayerInfo, 0, 4)
	for seat := engine.Seat(0); seat < 4; seat++ {
		id := t.seats[seat]
		if id == "" {
			continue
		}
		p := t.players[id]
		out = append(out, codec.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      int(p.Seat),
			Connected: p.Connected,
		})
	}
	return out
}

func (t *Table) broadcastPlayersLocked() {
	t.broadcastRoom(codec.EvUpdatePlayers, codec.UpdatePlayers{Players: t.playersInfoLocked()})
}

// Summary builds the lobby listing row for this table.
func (t *Table) Summary() codec.TableSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := codec.TableSummary{
		TableID:        t.ID,
		GameType:       string(t.Opts.GameType),
		PlayerCount:    t.seatedCountLocked(),
		SpectatorCount: len(t.spectators),
		InProgress:     t.gameActiveLocked(),
	}
	for seat := engine.Seat(0); seat < 4; seat++ {
		id := t.seats[seat]
		if id == "" {
			continue
		}
		p := t.players[id]
		s.PlayerNames = append(s.PlayerNames, p.Name)
		if s.InProgress && !p.Connected {
			s.TakeoverSeats = append(s.TakeoverSeats, int(seat))
		}
	}
	return s
}

func seatsToInts(seats []engine.Seat) []int {
	out := make([]int, len(seats))
	for i, s := range seats {
		out[i] = int(s)
	}
	return out
}
