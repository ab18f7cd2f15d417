// Package codec defines the JSON event protocol spoken on the client
// channel: the envelope framing, every payload shape, and the per-viewer
// game-state projections built from engine snapshots.
package codec

import (
	"encoding/json"
	"fmt"
)

// Envelope frames every message in both directions as a named event with a
// JSON payload. Unknown payload fields are ignored on decode.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client -> server event names.
const (
	EvListTables     = "listTables"
	EvCreateTable    = "createTable"
	EvJoinTable      = "joinTable"
	EvLeaveTable     = "leaveTable"
	EvSpectateTable  = "spectateTable"
	EvLeaveSpectate  = "leaveSpectate"
	EvSubmitPass     = "submitPass"
	EvSelectContract = "selectContract"
	EvSubmitBid      = "submitBid"
	EvPlayCard       = "playCard"
	EvRematch        = "rematch"
	EvChatMessage    = "chatMessage"
	EvTyping         = "typing"
)

// Server -> client event names.
const (
	EvTablesList             = "tablesList"
	EvTableJoined            = "tableJoined"
	EvSpectateJoined         = "spectateJoined"
	EvSpectatorUpdate        = "spectatorUpdate"
	EvUpdatePlayers          = "updatePlayers"
	EvStartGame              = "startGame"
	EvUpdateGame             = "updateGame"
	EvContractSelectionStart = "contractSelectionStart"
	EvContractSelected       = "contractSelected"
	EvBiddingStart           = "biddingStart"
	EvBidSubmitted           = "bidSubmitted"
	EvCardPlayed             = "cardPlayed"
	EvTrickEnd               = "trickEnd"
	EvTurnStart              = "turnStart"
	EvPassTimerStart         = "passTimerStart"
	EvSelectTimerStart       = "selectTimerStart"
	EvBidTimerStart          = "bidTimerStart"
	EvTimerWarning           = "timerWarning"
	EvAutoPlay               = "autoPlay"
	EvAutoPassSubmitted      = "autoPassSubmitted"
	EvRoundEnd               = "roundEnd"
	EvGameEnd                = "gameEnd"
	EvRematchStatus          = "rematchStatus"
	EvChat                   = "chat"
	EvTypingUpdate           = "typingUpdate"
	EvError                  = "error"
)

// Encode frames an event and its payload into wire bytes.
func Encode(event string, payload interface{}) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// MustEncode is Encode for payload types the server controls; a marshal
// failure there is a programming error.
func MustEncode(event string, payload interface{}) []byte {
	data, err := Encode(event, payload)
	if err != nil {
		panic(err)
	}
	return data
}

// Decode parses an inbound envelope without touching the payload.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("envelope missing event name")
	}
	return &env, nil
}

// Bind unmarshals the envelope payload into v.
func (e *Envelope) Bind(v interface{}) error {
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("malformed %s payload: %w", e.Event, err)
	}
	return nil
}
