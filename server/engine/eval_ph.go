package engine

import (
	"fmt"

	poker "github.com/paulhankin/poker"
)

// Conversions between engine ranks/suits and the poker package's card
// encoding. Ranks agree on both sides (Ace=1 .. King=13).

func toPokerSuit(s Suit) (poker.Suit, bool) {
	switch s {
	case Club:
		return poker.Club, true
	case Diamond:
		return poker.Diamond, true
	case Heart:
		return poker.Heart, true
	case Spade:
		return poker.Spade, true
	}
	return poker.BadSuit, false
}

func fromPokerSuit(s poker.Suit) Suit {
	switch s {
	case poker.Club:
		return Club
	case poker.Diamond:
		return Diamond
	case poker.Heart:
		return Heart
	case poker.Spade:
		return Spade
	}
	return Suit(0xff)
}

func fromPokerRank(r poker.Rank) Rank {
	if r < 1 || r > 13 {
		return 0
	}
	return Rank(r)
}

func toPoker(r Rank, s Suit) (poker.Card, error) {
	in := fmt.Sprintf("rank=%d suit=%d", r, s)
	ps, ok := toPokerSuit(s)
	if !ok {
		return 0, &InvalidCardError{Input: in, Reason: "unknown suit"}
	}
	if !r.Valid() {
		return 0, &InvalidCardError{Input: in, Reason: "unknown rank"}
	}
	pc, err := poker.MakeCard(ps, poker.Rank(r))
	if err != nil {
		return 0, &InvalidCardError{Input: in, Reason: err.Error()}
	}
	return pc, nil
}
