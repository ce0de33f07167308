package engine

import "strconv"

// Rank is a card rank, Ace=1 through King=13.
type Rank uint8

const (
	Ace   Rank = 1
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Ranks lists every rank in shoe-building order.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

func (r Rank) Valid() bool { return r >= Ace && r <= King }

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r.Valid() {
		return strconv.Itoa(int(r))
	}
	return "?"
}

// Value maps the rank into its ten-bucket value.
func (r Rank) Value() Value {
	switch {
	case r == Ace:
		return ValueAce
	case r >= Ten:
		return ValueTen
	default:
		return Value(r)
	}
}

type Suit uint8

const (
	Club Suit = iota
	Diamond
	Heart
	Spade
)

var Suits = []Suit{Spade, Heart, Diamond, Club}

func (s Suit) Valid() bool { return s <= Spade }

func (s Suit) String() string {
	switch s {
	case Club:
		return "♣"
	case Diamond:
		return "♦"
	case Heart:
		return "♥"
	case Spade:
		return "♠"
	}
	return "?"
}

// Red reports whether the suit is a red one (for display).
func (s Suit) Red() bool { return s == Diamond || s == Heart }

// Value is a card's ten-bucket value: 2..9, ValueTen for 10/J/Q/K and
// ValueAce. It is the token used for dealer upcards and pair ranks.
type Value int

const (
	ValueTen Value = 10
	ValueAce Value = 11
)

// Upcards lists the dealer upcard tokens in chart column order.
var Upcards = []Value{2, 3, 4, 5, 6, 7, 8, 9, ValueTen, ValueAce}

func (v Value) Valid() bool { return v >= 2 && v <= ValueAce }

func (v Value) String() string {
	switch v {
	case ValueTen:
		return "T"
	case ValueAce:
		return "A"
	}
	if v.Valid() {
		return strconv.Itoa(int(v))
	}
	return "?"
}

// ParseValue parses an upcard token ("2".."9", "T"/"10", "A").
func ParseValue(s string) (Value, error) {
	switch s {
	case "A", "a":
		return ValueAce, nil
	case "T", "t", "10", "J", "j", "Q", "q", "K", "k":
		return ValueTen, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 || n > 9 {
		return 0, &InvalidCardError{Input: s, Reason: "unknown upcard value"}
	}
	return Value(n), nil
}
