// Package gateway terminates client websockets and translates wire events
// into lobby and table actor calls.
package gateway

import (
	"fmt"
	"net/http"
	"sync"

	"tricktable/card"
	"tricktable/engine"
	"tricktable/internal/codec"
	"tricktable/internal/lobby"
	"tricktable/internal/table"
	"tricktable/king"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Settings tune gateway behavior.
type Settings struct {
	// AllowedOrigins for upgrades. Empty allows every origin, which is only
	// intended for development.
	AllowedOrigins []string
	// HeartsEndingScore applies to new Hearts tables that do not set one.
	HeartsEndingScore int
}

// Gateway owns the live connection set. Each connection gets a fresh uuid
// used as its player id everywhere downstream.
type Gateway struct {
	log      slog.Logger
	registry *lobby.Registry
	settings Settings
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*Conn
}

// New builds a gateway.
func New(registry *lobby.Registry, settings Settings, log slog.Logger) *Gateway {
	gw := &Gateway{
		log:      log,
		registry: registry,
		settings: settings,
		conns:    make(map[string]*Conn),
	}
	gw.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(settings.AllowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range settings.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return gw
}

// ServeHTTP upgrades the request and runs the connection pumps.
func (gw *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := gw.upgrader.Upgrade(w, r, nil)
	if err != nil {
		gw.log.Warnf("websocket upgrade failed: %v", err)
		return
	}

	c := newConn(uuid.NewString(), ws, gw)
	gw.mu.Lock()
	gw.conns[c.ID] = c
	n := len(gw.conns)
	gw.mu.Unlock()
	gw.log.Debugf("conn %s opened (%d live)", c.ID, n)

	go c.writePump()
	go c.readPump()
}

// SendTo routes table broadcasts to a connection by player id. Slow clients
// are dropped instead of blocking the sending table actor.
func (gw *Gateway) SendTo(playerID string, data []byte) {
	gw.mu.RLock()
	c := gw.conns[playerID]
	gw.mu.RUnlock()
	if c == nil {
		return
	}
	if !c.enqueue(data) {
		gw.log.Warnf("conn %s send queue full, dropping client", c.ID)
		go gw.dropConn(c)
	}
}

func (gw *Gateway) dropConn(c *Conn) {
	gw.mu.Lock()
	if _, live := gw.conns[c.ID]; !live {
		gw.mu.Unlock()
		return
	}
	delete(gw.conns, c.ID)
	n := len(gw.conns)
	gw.mu.Unlock()

	if tableID, _ := c.currentTable(); tableID != "" {
		if t, ok := gw.registry.Get(tableID); ok {
			err := t.SubmitEvent(table.Event{Type: table.EventConnLost, PlayerID: c.ID})
			if err != nil {
				gw.log.Warnf("conn %s lost: table %s did not take the disconnect: %v", c.ID, tableID, err)
			}
		}
	}
	c.close()
	gw.log.Debugf("conn %s closed (%d live)", c.ID, n)
}

// ConnCount reports the live connection count.
func (gw *Gateway) ConnCount() int {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	return len(gw.conns)
}

func (gw *Gateway) sendErr(c *Conn, msg string) {
	c.enqueue(codec.MustEncode(codec.EvError, codec.ErrorPayload{Message: msg}))
}

func (gw *Gateway) dispatch(c *Conn, data []byte) {
	env, err := codec.Decode(data)
	if err != nil {
		gw.sendErr(c, err.Error())
		return
	}

	switch env.Event {
	case codec.EvListTables:
		err = gw.handleListTables(c, env)
	case codec.EvCreateTable:
		err = gw.handleCreateTable(c, env)
	case codec.EvJoinTable:
		err = gw.handleJoinTable(c, env)
	case codec.EvLeaveTable:
		err = gw.submitToTable(c, table.Event{Type: table.EventLeave, PlayerID: c.ID})
		c.setTable("", false)
	case codec.EvSpectateTable:
		err = gw.handleSpectateTable(c, env)
	case codec.EvLeaveSpectate:
		err = gw.submitToTable(c, table.Event{Type: table.EventLeaveSpectate, PlayerID: c.ID})
		c.setTable("", false)
	case codec.EvSubmitPass:
		err = gw.handleSubmitPass(c, env)
	case codec.EvSelectContract:
		err = gw.handleSelectContract(c, env)
	case codec.EvSubmitBid:
		err = gw.handleSubmitBid(c, env)
	case codec.EvPlayCard:
		err = gw.handlePlayCard(c, env)
	case codec.EvRematch:
		err = gw.handleRematch(c, env)
	case codec.EvChatMessage:
		err = gw.handleChat(c, env)
	case codec.EvTyping:
		err = gw.handleTyping(c, env)
	default:
		err = fmt.Errorf("unknown event %q", env.Event)
	}

	if err != nil {
		gw.sendErr(c, err.Error())
	}
}

// submitToTable forwards an actor event to the connection's current table.
func (gw *Gateway) submitToTable(c *Conn, ev table.Event) error {
	tableID, _ := c.currentTable()
	if tableID == "" {
		return fmt.Errorf("not at a table")
	}
	t, ok := gw.registry.Get(tableID)
	if !ok {
		return fmt.Errorf("table %s no longer exists", tableID)
	}
	return t.SubmitEvent(ev)
}

func (gw *Gateway) handleListTables(c *Conn, env *codec.Envelope) error {
	var req codec.ListTablesRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	tables := gw.registry.List(req.GameType, req.IncludeInProgress)
	c.enqueue(codec.MustEncode(codec.EvTablesList, tables))
	return nil
}

func (gw *Gateway) handleCreateTable(c *Conn, env *codec.Envelope) error {
	var req codec.CreateTableRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	gt := engine.GameType(req.GameType)
	if !gt.Valid() {
		return fmt.Errorf("unknown game type %q", req.GameType)
	}

	opts := table.Options{GameType: gt}
	if req.Options.EndingScore != nil {
		opts.EndingScore = *req.Options.EndingScore
	}
	if req.Options.WinThreshold != nil {
		opts.WinThreshold = *req.Options.WinThreshold
	}
	if req.Options.InitialSelectorSeat != nil {
		opts.InitialSelector = engine.Seat(*req.Options.InitialSelectorSeat)
	}
	if gt == engine.GameHearts && opts.EndingScore == 0 {
		opts.EndingScore = gw.settings.HeartsEndingScore
	}

	t, err := gw.registry.Create(opts, gw.SendTo)
	if err != nil {
		return err
	}
	if err := t.SubmitEvent(table.Event{Type: table.EventJoin, PlayerID: c.ID, Name: req.PlayerName}); err != nil {
		return err
	}
	c.setTable(t.ID, false)
	return nil
}

func (gw *Gateway) handleJoinTable(c *Conn, env *codec.Envelope) error {
	var req codec.JoinTableRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	t, ok := gw.registry.Get(req.TableID)
	if !ok {
		return fmt.Errorf("table %s not found", req.TableID)
	}
	if err := t.SubmitEvent(table.Event{Type: table.EventJoin, PlayerID: c.ID, Name: req.PlayerName}); err != nil {
		return err
	}
	c.setTable(t.ID, false)
	return nil
}

func (gw *Gateway) handleSpectateTable(c *Conn, env *codec.Envelope) error {
	var req codec.SpectateTableRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	t, ok := gw.registry.Get(req.TableID)
	if !ok {
		return fmt.Errorf("table %s not found", req.TableID)
	}
	if err := t.SubmitEvent(table.Event{Type: table.EventSpectate, PlayerID: c.ID, Name: req.PlayerName}); err != nil {
		return err
	}
	c.setTable(t.ID, true)
	return nil
}

func (gw *Gateway) handleSubmitPass(c *Conn, env *codec.Envelope) error {
	var req codec.SubmitPassRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	cards, err := codec.ToCards(req.Cards)
	if err != nil {
		return err
	}
	return gw.submitToTable(c, table.Event{Type: table.EventSubmitPass, PlayerID: c.ID, Cards: cards})
}

func (gw *Gateway) handleSelectContract(c *Conn, env *codec.Envelope) error {
	var req codec.SelectContractRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	contract, err := contractFromRequest(req)
	if err != nil {
		return err
	}
	return gw.submitToTable(c, table.Event{Type: table.EventSelectContract, PlayerID: c.ID, Contract: contract})
}

func contractFromRequest(req codec.SelectContractRequest) (king.Contract, error) {
	switch req.ContractType {
	case "penalty":
		p, ok := king.PenaltyFromName(req.ContractName)
		if !ok {
			return king.Contract{}, fmt.Errorf("unknown penalty contract %q", req.ContractName)
		}
		return king.NewPenalty(p), nil
	case "trump":
		s, ok := card.SuitFromName(req.TrumpSuit)
		if !ok {
			return king.Contract{}, fmt.Errorf("unknown trump suit %q", req.TrumpSuit)
		}
		return king.NewTrump(s), nil
	default:
		return king.Contract{}, fmt.Errorf("unknown contract type %q", req.ContractType)
	}
}

func (gw *Gateway) handleSubmitBid(c *Conn, env *codec.Envelope) error {
	var req codec.SubmitBidRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	return gw.submitToTable(c, table.Event{Type: table.EventSubmitBid, PlayerID: c.ID, Bid: req.Bid.Bid})
}

func (gw *Gateway) handlePlayCard(c *Conn, env *codec.Envelope) error {
	var req codec.PlayCardRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	pc, err := req.Card.ToCard()
	if err != nil {
		return err
	}
	return gw.submitToTable(c, table.Event{Type: table.EventPlayCard, PlayerID: c.ID, Card: pc})
}

func (gw *Gateway) handleRematch(c *Conn, env *codec.Envelope) error {
	var req codec.RematchRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	return gw.submitToTable(c, table.Event{Type: table.EventRematch, PlayerID: c.ID, Vote: req.Vote})
}

func (gw *Gateway) handleChat(c *Conn, env *codec.Envelope) error {
	var req codec.ChatMessageRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	return gw.submitToTable(c, table.Event{Type: table.EventChat, PlayerID: c.ID, Text: req.Text})
}

func (gw *Gateway) handleTyping(c *Conn, env *codec.Envelope) error {
	var req codec.TypingRequest
	if err := env.Bind(&req); err != nil {
		return err
	}
	return gw.submitToTable(c, table.Event{Type: table.EventTyping, PlayerID: c.ID, IsTyping: req.IsTyping})
}
