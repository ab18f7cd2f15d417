package card

type Suit byte

const (
	Spade Suit = iota // ♠️
	Heart             // ♥️
	Club              // ♣️
	Diamond           // ♦️
)

func (s Suit) String() string {
	switch s {
	case Spade:
		return "♠️"
	case Heart:
		return "♥️"
	case Club:
		return "♣️"
	case Diamond:
		return "♦️"
	}
	return "?"
}

// Name returns the lowercase wire name of the suit.
func (s Suit) Name() string {
	switch s {
	case Spade:
		return "spades"
	case Heart:
		return "hearts"
	case Club:
		return "clubs"
	case Diamond:
		return "diamonds"
	}
	return "unknown"
}

// SuitFromName is the inverse of Name.
func SuitFromName(name string) (Suit, bool) {
	switch name {
	case "spades":
		return Spade, true
	case "hearts":
		return Heart, true
	case "clubs":
		return Club, true
	case "diamonds":
		return Diamond, true
	}
	return 0, false
}
