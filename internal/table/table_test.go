package table

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"tricktable/card"
	"tricktable/engine"
	"tricktable/hearts"
	"tricktable/internal/codec"
	"tricktable/spades"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures every envelope a table sends, per player id. SubmitEvent
// is synchronous, so after it returns all resulting broadcasts are recorded.
type recorder struct {
	mu   sync.Mutex
	msgs map[string][]*codec.Envelope
}

func newRecorder() *recorder {
	return &recorder{msgs: make(map[string][]*codec.Envelope)}
}

func (r *recorder) fn(playerID string, data []byte) {
	env, err := codec.Decode(data)
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	r.msgs[playerID] = append(r.msgs[playerID], env)
	r.mu.Unlock()
}

func (r *recorder) received(playerID, event string) []*codec.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*codec.Envelope
	for _, env := range r.msgs[playerID] {
		if env.Event == event {
			out = append(out, env)
		}
	}
	return out
}

func (r *recorder) last(t *testing.T, playerID, event string) *codec.Envelope {
	t.Helper()
	envs := r.received(playerID, event)
	require.NotEmpty(t, envs, "player %s never received %s", playerID, event)
	return envs[len(envs)-1]
}

func testLogger() slog.Logger {
	return slog.NewBackend(io.Discard).Logger("TEST")
}

func newTestTable(t *testing.T, opts Options) (*Table, *recorder) {
	t.Helper()
	rec := newRecorder()
	tbl := New("cezve", opts, rec.fn, testLogger())
	t.Cleanup(tbl.Stop)
	return tbl, rec
}

func join(t *testing.T, tbl *Table, id, name string) {
	t.Helper()
	require.NoError(t, tbl.SubmitEvent(Event{Type: EventJoin, PlayerID: id, Name: name}))
}

func fillTable(t *testing.T, tbl *Table) {
	t.Helper()
	for _, p := range []struct{ id, name string }{
		{"p0", "ayse"}, {"p1", "banu"}, {"p2", "cem"}, {"p3", "derya"},
	} {
		join(t, tbl, p.id, p.name)
	}
}

func TestJoinAssignsSeatsInOrder(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameSpades, Seed: 1})
	fillTable(t, tbl)

	for i, id := range []string{"p0", "p1", "p2", "p3"} {
		var joined codec.TableJoined
		require.NoError(t, rec.last(t, id, codec.EvTableJoined).Bind(&joined))
		assert.Equal(t, i, joined.Seat)
		assert.Equal(t, "cezve", joined.TableID)
	}
}

func TestJoinRequiresName(t *testing.T) {
	tbl, _ := newTestTable(t, Options{GameType: engine.GameHearts})
	err := tbl.SubmitEvent(Event{Type: EventJoin, PlayerID: "p0", Name: "  "})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestFourthJoinStartsGame(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameSpades, Seed: 1})
	fillTable(t, tbl)

	for _, id := range []string{"p0", "p1", "p2", "p3"} {
		var start codec.StartGame
		require.NoError(t, rec.last(t, id, codec.EvStartGame).Bind(&start))
		assert.Len(t, start.Hand, 13)
		assert.Equal(t, "spades", start.GameType)

		var bidding codec.BiddingStart
		require.NoError(t, rec.last(t, id, codec.EvBiddingStart).Bind(&bidding))
		assert.Equal(t, 0, bidding.CurrentBidder)

		var timer codec.BidTimerStart
		require.NoError(t, rec.last(t, id, codec.EvBidTimerStart).Bind(&timer))
		assert.Equal(t, 0, timer.Player)
		assert.Greater(t, timer.TimeoutAt, int64(0))
	}
	assert.True(t, tbl.Summary().InProgress)
}

func TestJoinWhileFullAndRunning(t *testing.T) {
	tbl, _ := newTestTable(t, Options{GameType: engine.GameSpades, Seed: 1})
	fillTable(t, tbl)

	err := tbl.SubmitEvent(Event{Type: EventJoin, PlayerID: "p4", Name: "esra"})
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestHeartsStartsInPassing(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameHearts, Seed: 1})
	fillTable(t, tbl)

	var start codec.StartGame
	require.NoError(t, rec.last(t, "p0", codec.EvStartGame).Bind(&start))
	assert.Equal(t, "passing", start.Phase)
	assert.Equal(t, "left", start.PassDirection)

	rec.last(t, "p0", codec.EvPassTimerStart)
}

func TestBiddingFlow(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameSpades, Seed: 1})
	fillTable(t, tbl)

	err := tbl.SubmitEvent(Event{Type: EventSubmitBid, PlayerID: "p1", Bid: spades.NumberBid(3)})
	require.Error(t, err, "out of order bid must fail")
	assert.Equal(t, engine.KindNotYourTurn, engine.KindOf(err))

	for i, id := range []string{"p0", "p1", "p2", "p3"} {
		require.NoError(t, tbl.SubmitEvent(Event{
			Type: EventSubmitBid, PlayerID: id, Bid: spades.NumberBid(i + 1),
		}))
	}

	var last codec.BidSubmitted
	require.NoError(t, rec.last(t, "p2", codec.EvBidSubmitted).Bind(&last))
	assert.Equal(t, 3, last.Seat)
	require.NotNil(t, last.Bids[0])

	var turn codec.TurnStart
	require.NoError(t, rec.last(t, "p2", codec.EvTurnStart).Bind(&turn))
	assert.Equal(t, 0, turn.Player, "round 1 leader is seat 0")
}

func TestTakeoverAfterMidGameLeave(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameSpades, Seed: 1})
	fillTable(t, tbl)

	require.NoError(t, tbl.SubmitEvent(Event{Type: EventLeave, PlayerID: "p1"}))
	summary := tbl.Summary()
	assert.True(t, summary.InProgress)
	assert.Equal(t, []int{1}, summary.TakeoverSeats)

	join(t, tbl, "p9", "esra")
	var joined codec.TableJoined
	require.NoError(t, rec.last(t, "p9", codec.EvTableJoined).Bind(&joined))
	assert.Equal(t, 1, joined.Seat)

	var update codec.UpdateGame
	require.NoError(t, rec.last(t, "p9", codec.EvUpdateGame).Bind(&update))
	require.NotNil(t, update.State)
	assert.Len(t, update.State.Hand, 13, "takeover joiner sees the seat's hand")

	// The running bid timer is replayed to the joiner only.
	rec.last(t, "p9", codec.EvBidTimerStart)
}

func TestPreGameLeaveFreesSeat(t *testing.T) {
	tbl, _ := newTestTable(t, Options{GameType: engine.GameHearts})
	join(t, tbl, "p0", "ayse")
	join(t, tbl, "p1", "banu")
	require.NoError(t, tbl.SubmitEvent(Event{Type: EventLeave, PlayerID: "p0"}))

	s := tbl.Summary()
	assert.Equal(t, 1, s.PlayerCount)
	assert.False(t, s.InProgress)

	join(t, tbl, "p5", "cem")
	assert.Equal(t, 2, tbl.Summary().PlayerCount)
}

func TestSpectatorSeesNoHand(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameSpades, Seed: 1})
	fillTable(t, tbl)

	require.NoError(t, tbl.SubmitEvent(Event{Type: EventSpectate, PlayerID: "s0", Name: "izleyici"}))

	var joined codec.SpectateJoined
	require.NoError(t, rec.last(t, "s0", codec.EvSpectateJoined).Bind(&joined))
	require.NotNil(t, joined.GameState)
	assert.Nil(t, joined.GameState.Hand)
	assert.Equal(t, []int{13, 13, 13, 13}, joined.GameState.HandCounts)

	// Players are told about the new spectator.
	var update codec.SpectatorUpdate
	require.NoError(t, rec.last(t, "p0", codec.EvSpectatorUpdate).Bind(&update))
	require.NotNil(t, update.SpectatorCount)
	assert.Equal(t, 1, *update.SpectatorCount)
}

func TestRematchRequiresGameOver(t *testing.T) {
	tbl, _ := newTestTable(t, Options{GameType: engine.GameSpades, Seed: 1})
	fillTable(t, tbl)

	err := tbl.SubmitEvent(Event{Type: EventRematch, PlayerID: "p0", Vote: true})
	require.Error(t, err)
	assert.Equal(t, engine.KindPhase, engine.KindOf(err))
}

func TestChatBroadcast(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameHearts})
	join(t, tbl, "p0", "ayse")
	join(t, tbl, "p1", "banu")

	require.NoError(t, tbl.SubmitEvent(Event{Type: EventChat, PlayerID: "p0", Text: "iyi oyunlar!"}))

	var msg codec.Chat
	require.NoError(t, rec.last(t, "p1", codec.EvChat).Bind(&msg))
	assert.Equal(t, "ayse", msg.From)
	assert.Equal(t, 0, msg.Seat)
	assert.Equal(t, "iyi oyunlar!", msg.Text)
}

func TestChatFromStrangerRejected(t *testing.T) {
	tbl, _ := newTestTable(t, Options{GameType: engine.GameHearts})
	join(t, tbl, "p0", "ayse")

	err := tbl.SubmitEvent(Event{Type: EventChat, PlayerID: "ghost", Text: "boo"})
	assert.ErrorIs(t, err, ErrNotSeated)
}

func TestSanitizeChat(t *testing.T) {
	assert.Equal(t, "hey script", sanitizeChat("hey <script>"))
	assert.Equal(t, "merhaba, dünya!", sanitizeChat("merhaba, dünya!"))
	assert.Equal(t, "", sanitizeChat("   \t "))

	long := strings.Repeat("a", 300)
	assert.Len(t, sanitizeChat(long), chatMaxRunes)
}

func TestTypingExcludesSender(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameHearts})
	join(t, tbl, "p0", "ayse")
	join(t, tbl, "p1", "banu")

	require.NoError(t, tbl.SubmitEvent(Event{Type: EventTyping, PlayerID: "p0", IsTyping: true}))

	var update codec.TypingUpdate
	require.NoError(t, rec.last(t, "p1", codec.EvTypingUpdate).Bind(&update))
	assert.Equal(t, []string{"ayse"}, update.Players)
	assert.Empty(t, rec.received("p0", codec.EvTypingUpdate), "sender is not echoed its own typing")
}

func TestStopRejectsFurtherEvents(t *testing.T) {
	tbl, _ := newTestTable(t, Options{GameType: engine.GameHearts})
	tbl.Stop()
	assert.True(t, tbl.IsClosed())

	err := tbl.SubmitEvent(Event{Type: EventJoin, PlayerID: "p0", Name: "ayse"})
	assert.ErrorIs(t, err, ErrTableClosed)
}

func TestConnLostMarksDisconnected(t *testing.T) {
	tbl, _ := newTestTable(t, Options{GameType: engine.GameSpades, Seed: 1})
	fillTable(t, tbl)

	require.NoError(t, tbl.SubmitEvent(Event{Type: EventConnLost, PlayerID: "p2"}))
	assert.Equal(t, []int{2}, tbl.Summary().TakeoverSeats)

	require.NoError(t, tbl.SubmitEvent(Event{Type: EventConnResume, PlayerID: "p2"}))
	assert.Empty(t, tbl.Summary().TakeoverSeats)
}

// The round-end broadcast trails trickEnd by a per-game-type gap; only the
// tick may emit it. Driven through the locked helpers directly so the test
// does not sleep through the real gap.
func TestRoundEndWaitsBehindTrickEndGap(t *testing.T) {
	tbl, rec := newTestTable(t, Options{GameType: engine.GameHearts, Seed: 1})
	fillTable(t, tbl)

	trick := []engine.TrickPlay{
		{Seat: 0, Card: card.MustParse("2h")},
		{Seat: 1, Card: card.MustParse("5h")},
		{Seat: 2, Card: card.MustParse("9h")},
		{Seat: 3, Card: card.SpadeQueen},
	}
	round := &hearts.RoundResult{
		RoundScores:      [4]int{0, 0, 0, 26},
		CumulativeScores: [4]int{10, 20, 30, 56},
		GameOver:         true,
		Winners:          []engine.Seat{0},
	}

	tbl.mu.Lock()
	tbl.pending = &pendingTrick{winner: 3, points: 16, trick: trick, heartsRound: round}
	tbl.finishTrickLocked()
	deferred := tbl.pendingRound
	gap := time.Until(tbl.roundEndAt)
	tbl.mu.Unlock()

	require.NotNil(t, deferred, "round result must be parked until the gap elapses")
	assert.InDelta(t, heartsRoundEndDelay.Seconds(), gap.Seconds(), 1.0)
	assert.NotEmpty(t, rec.received("p0", codec.EvTrickEnd))
	assert.Empty(t, rec.received("p0", codec.EvRoundEnd), "roundEnd must not precede the gap")
	assert.Empty(t, rec.received("p0", codec.EvGameEnd))

	tbl.mu.Lock()
	tbl.emitRoundEndLocked()
	tbl.mu.Unlock()

	var re codec.RoundEnd
	require.NoError(t, rec.last(t, "p0", codec.EvRoundEnd).Bind(&re))
	assert.Equal(t, []int{0, 0, 0, 26}, re.RoundScores)
	assert.True(t, re.GameOver)

	var ge codec.GameEnd
	require.NoError(t, rec.last(t, "p0", codec.EvGameEnd).Bind(&ge))
	assert.Equal(t, []int{0}, ge.Winner)
}

func TestRoundEndGapPerGameType(t *testing.T) {
	for _, tc := range []struct {
		gt   engine.GameType
		want time.Duration
	}{
		{engine.GameHearts, heartsRoundEndDelay},
		{engine.GameKing, kingRoundEndDelay},
		{engine.GameSpades, spadesRoundEndDelay},
	} {
		tbl, _ := newTestTable(t, Options{GameType: tc.gt, Seed: 1})
		assert.Equal(t, tc.want, tbl.roundEndDelayLocked(), string(tc.gt))
	}
}
