package codec

import (
	"encoding/json"
	"testing"

	"tricktable/card"
	"tricktable/engine"
	"tricktable/hearts"
	"tricktable/spades"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	data, err := Encode(EvChat, Chat{From: "ayse", Seat: 1, Text: "hi", Timestamp: 42})
	require.NoError(t, err)

	env, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, EvChat, env.Event)

	var payload Chat
	require.NoError(t, env.Bind(&payload))
	assert.Equal(t, "ayse", payload.From)
	assert.Equal(t, int64(42), payload.Timestamp)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"data":{}}`))
	assert.Error(t, err, "missing event name must fail")
}

func TestCardWireConversion(t *testing.T) {
	wire := FromCard(card.MustParse("Qs"))
	assert.Equal(t, Card{Suit: "spades", Rank: "Q"}, wire)

	back, err := wire.ToCard()
	require.NoError(t, err)
	assert.Equal(t, card.MustParse("Qs"), back)

	_, err = Card{Suit: "wands", Rank: "Q"}.ToCard()
	assert.Error(t, err)
	_, err = Card{Suit: "hearts", Rank: "11"}.ToCard()
	assert.Error(t, err)
}

func TestFromCardsNeverNil(t *testing.T) {
	data, err := json.Marshal(FromCards(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestBidJSON(t *testing.T) {
	data, err := json.Marshal(FromBid(spades.NumberBid(4)))
	require.NoError(t, err)
	assert.Equal(t, "4", string(data))

	data, err = json.Marshal(FromBid(spades.NilBid))
	require.NoError(t, err)
	assert.Equal(t, `"nil"`, string(data))

	var b Bid
	require.NoError(t, json.Unmarshal([]byte(`"blind_nil"`), &b))
	assert.Equal(t, spades.BidBlindNil, b.Kind)

	require.NoError(t, json.Unmarshal([]byte(`7`), &b))
	assert.Equal(t, spades.BidNumber, b.Kind)
	assert.Equal(t, 7, b.Tricks)

	assert.Error(t, json.Unmarshal([]byte(`"seven"`), &b))
}

func TestProjectHeartsHidesOtherHands(t *testing.T) {
	snap := hearts.New(hearts.Config{Seed: 1}).Snapshot()

	gs := ProjectHearts(snap, 2)
	require.NotNil(t, gs.Hearts)
	assert.Len(t, gs.Hand, 13)
	assert.Equal(t, []int{13, 13, 13, 13}, gs.HandCounts)
	assert.Equal(t, FromCards(snap.Hands[2]), gs.Hand)
}

func TestProjectHeartsSpectatorSeesNoHand(t *testing.T) {
	snap := hearts.New(hearts.Config{Seed: 1}).Snapshot()

	gs := ProjectHearts(snap, engine.NoSeat)
	assert.Nil(t, gs.Hand)
	assert.Equal(t, []int{13, 13, 13, 13}, gs.HandCounts)

	data, err := json.Marshal(gs)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"hand"`)
}

func TestProjectSpadesCarriesBids(t *testing.T) {
	e := spades.New(spades.Config{Seed: 1})
	_, err := e.SubmitBid(0, spades.NumberBid(3))
	require.NoError(t, err)
	_, err = e.SubmitBid(1, spades.NilBid)
	require.NoError(t, err)

	gs := ProjectSpades(e.Snapshot(), engine.NoSeat)
	require.NotNil(t, gs.Spades)
	require.Len(t, gs.Spades.Bids, 4)
	require.NotNil(t, gs.Spades.Bids[0])
	assert.Equal(t, 3, gs.Spades.Bids[0].Tricks)
	require.NotNil(t, gs.Spades.Bids[1])
	assert.Equal(t, spades.BidNil, gs.Spades.Bids[1].Kind)
	assert.Nil(t, gs.Spades.Bids[2])
	assert.Equal(t, 2, gs.Spades.CurrentBidder)
}
