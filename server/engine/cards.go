package engine

import (
	"fmt"
	"strings"

	poker "github.com/paulhankin/poker"
)

// Card is a single playing card backed by the poker package's encoding.
// The zero Card is not a valid card; build cards with NewCard or ParseCard.
type Card struct {
	pc poker.Card
}

// InvalidCardError reports a rank or suit outside the standard deck.
type InvalidCardError struct {
	Input  string
	Reason string
}

func (e *InvalidCardError) Error() string {
	return fmt.Sprintf("invalid card %q: %s", e.Input, e.Reason)
}

func NewCard(r Rank, s Suit) (Card, error) {
	pc, err := toPoker(r, s)
	if err != nil {
		return Card{}, err
	}
	return Card{pc: pc}, nil
}

// MustCard is NewCard for literals known to be valid.
func MustCard(r Rank, s Suit) Card {
	c, err := NewCard(r, s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) Rank() Rank   { return fromPokerRank(c.pc.Rank()) }
func (c Card) Suit() Suit   { return fromPokerSuit(c.pc.Suit()) }
func (c Card) Value() Value { return c.Rank().Value() }

func (c Card) String() string { return c.Rank().String() + c.Suit().String() }

// ParseCard accepts "K♥", "Kh", "10s", "Ts" and similar forms.
func ParseCard(s string) (Card, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return Card{}, &InvalidCardError{Input: s, Reason: "empty"}
	}
	var suit Suit
	var rest string
	switch {
	case strings.HasSuffix(in, "♣"):
		suit, rest = Club, strings.TrimSuffix(in, "♣")
	case strings.HasSuffix(in, "♦"):
		suit, rest = Diamond, strings.TrimSuffix(in, "♦")
	case strings.HasSuffix(in, "♥"):
		suit, rest = Heart, strings.TrimSuffix(in, "♥")
	case strings.HasSuffix(in, "♠"):
		suit, rest = Spade, strings.TrimSuffix(in, "♠")
	default:
		rest = in[:len(in)-1]
		switch in[len(in)-1] {
		case 'c', 'C':
			suit = Club
		case 'd', 'D':
			suit = Diamond
		case 'h', 'H':
			suit = Heart
		case 's', 'S':
			suit = Spade
		default:
			return Card{}, &InvalidCardError{Input: s, Reason: "unknown suit"}
		}
	}
	r, ok := parseRank(rest)
	if !ok {
		return Card{}, &InvalidCardError{Input: s, Reason: "unknown rank"}
	}
	return NewCard(r, suit)
}

func parseRank(s string) (Rank, bool) {
	switch strings.ToUpper(s) {
	case "A":
		return Ace, true
	case "T", "10":
		return Ten, true
	case "J":
		return Jack, true
	case "Q":
		return Queen, true
	case "K":
		return King, true
	}
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		return Rank(s[0] - '0'), true
	}
	return 0, false
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.pc.Valid() {
		return nil, &InvalidCardError{Input: fmt.Sprintf("%#x", uint16(c.pc)), Reason: "zero card"}
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UpcardValue reduces the dealer's visible card to its table token.
func UpcardValue(c Card) Value { return c.Value() }
