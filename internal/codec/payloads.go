package codec

// --- Client -> server payloads ---

// TableOptions are the per-game knobs accepted at table creation.
type TableOptions struct {
	EndingScore         *int `json:"endingScore,omitempty"`
	WinThreshold        *int `json:"winThreshold,omitempty"`
	InitialSelectorSeat *int `json:"initialSelectorSeat,omitempty"`
}

type ListTablesRequest struct {
	GameType          string `json:"gameType,omitempty"`
	IncludeInProgress bool   `json:"includeInProgress,omitempty"`
}

type CreateTableRequest struct {
	PlayerName string       `json:"playerName"`
	GameType   string       `json:"gameType"`
	Options    TableOptions `json:"options"`
}

type JoinTableRequest struct {
	TableID    string `json:"tableId"`
	PlayerName string `json:"playerName"`
}

type SpectateTableRequest struct {
	TableID    string `json:"tableId"`
	PlayerName string `json:"playerName,omitempty"`
}

type SubmitPassRequest struct {
	Cards []Card `json:"cards"`
}

type SelectContractRequest struct {
	ContractType string `json:"contractType"`
	ContractName string `json:"contractName,omitempty"`
	TrumpSuit    string `json:"trumpSuit,omitempty"`
}

type SubmitBidRequest struct {
	Bid Bid `json:"bid"`
}

type PlayCardRequest struct {
	Card Card `json:"card"`
}

type RematchRequest struct {
	Vote bool `json:"vote"`
}

type ChatMessageRequest struct {
	Text string `json:"text"`
}

type TypingRequest struct {
	IsTyping bool `json:"isTyping"`
}

// --- Server -> client payloads ---

// PlayerInfo is the public view of a seated player.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Connected bool   `json:"connected"`
}

// TableSummary is one row of a tablesList reply.
type TableSummary struct {
	TableID        string   `json:"tableId"`
	GameType       string   `json:"gameType"`
	PlayerCount    int      `json:"playerCount"`
	PlayerNames    []string `json:"playerNames"`
	SpectatorCount int      `json:"spectatorCount"`
	InProgress     bool     `json:"inProgress"`
	TakeoverSeats  []int    `json:"takeoverSeats,omitempty"`
}

type TableJoined struct {
	TableID     string       `json:"tableId"`
	Seat        int          `json:"seat"`
	GameType    string       `json:"gameType"`
	EndingScore int          `json:"endingScore,omitempty"`
	Players     []PlayerInfo `json:"players"`
}

type SpectateJoined struct {
	TableID   string       `json:"tableId"`
	GameType  string       `json:"gameType"`
	Players   []PlayerInfo `json:"players"`
	GameState *GameState   `json:"gameState,omitempty"`
}

type SpectatorUpdate struct {
	GameState      *GameState `json:"gameState,omitempty"`
	SpectatorCount *int       `json:"spectatorCount,omitempty"`
}

type UpdatePlayers struct {
	Players []PlayerInfo `json:"players"`
}

type StartGame struct {
	Hand          []Card `json:"hand"`
	PassDirection string `json:"passDirection,omitempty"`
	Phase         string `json:"phase"`
	CurrentPlayer int    `json:"currentPlayer"`
	GameType      string `json:"gameType"`
}

type UpdateGame struct {
	GameType string     `json:"gameType"`
	State    *GameState `json:"state"`
}

type ContractSelectionStart struct {
	Selector           int      `json:"selector"`
	AvailableContracts []string `json:"availableContracts"`
	GameNumber         int      `json:"gameNumber"`
	PartyNumber        int      `json:"partyNumber"`
	Hand               []Card   `json:"hand"`
}

type ContractSelected struct {
	Contract   string `json:"contract"`
	GameNumber int    `json:"gameNumber"`
}

type BiddingStart struct {
	Hand          []Card `json:"hand"`
	CurrentBidder int    `json:"currentBidder"`
	RoundNumber   int    `json:"roundNumber"`
}

type BidSubmitted struct {
	Seat       int    `json:"seat"`
	Bid        Bid    `json:"bid"`
	Bids       []*Bid `json:"bids"`
	NextBidder int    `json:"nextBidder"`
}

type CardPlayed struct {
	Seat          int         `json:"seat"`
	Card          Card        `json:"card"`
	CurrentTrick  []TrickCard `json:"currentTrick"`
	TrickComplete bool        `json:"trickComplete,omitempty"`
	Winner        *int        `json:"winner,omitempty"`
}

type TrickEnd struct {
	Winner    int         `json:"winner"`
	Points    int         `json:"points"`
	LastTrick []TrickCard `json:"lastTrick"`
}

type TurnStart struct {
	Player    int   `json:"player"`
	TimeoutAt int64 `json:"timeoutAt"`
}

type PassTimerStart struct {
	TimeoutAt int64 `json:"timeoutAt"`
}

type SelectTimerStart struct {
	TimeoutAt    int64 `json:"timeoutAt"`
	SelectorSeat int   `json:"selectorSeat"`
}

type BidTimerStart struct {
	Player    int   `json:"player"`
	TimeoutAt int64 `json:"timeoutAt"`
}

type AutoPlay struct {
	Card Card `json:"card"`
}

type AutoPassSubmitted struct {
	Cards []Card `json:"cards"`
}

type RoundEnd struct {
	RoundScores      []int    `json:"roundScores"`
	CumulativeScores []int    `json:"cumulativeScores"`
	MoonShooter      *int     `json:"moonShooter,omitempty"`
	PointCardsTaken  [][]Card `json:"pointCardsTaken,omitempty"`
	Bags             []int    `json:"bags,omitempty"`
	GameOver         bool     `json:"gameOver"`
	GameWinner       []int    `json:"gameWinner,omitempty"`
}

type GameEnd struct {
	Winner      []int `json:"winner"`
	FinalScores []int `json:"finalScores"`
}

type RematchStatus struct {
	Votes map[int]bool `json:"votes"`
}

type Chat struct {
	From      string `json:"from"`
	Seat      int    `json:"seat"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type TypingUpdate struct {
	Players []string `json:"players"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
