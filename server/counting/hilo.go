// Package counting implements the Hi-Lo running and true count.
package counting

import (
	"math"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

const cardsPerDeck = 52

// minDecksRemaining keeps the true count finite as the shoe runs out.
const minDecksRemaining = 0.25

// Value is the Hi-Lo tag: +1 for 2-6, 0 for 7-9, -1 for tens and aces.
func Value(r engine.Rank) int {
	switch {
	case r >= engine.Two && r <= engine.Six:
		return 1
	case r >= engine.Seven && r <= engine.Nine:
		return 0
	default:
		return -1
	}
}

// Sum is the running count of a card sequence starting from zero.
func Sum(cards []engine.Card) int {
	n := 0
	for _, c := range cards {
		n += Value(c.Rank())
	}
	return n
}

// State is a counting session. The zero State is not usable; start one with
// NewState.
type State struct {
	RunningCount int `json:"running_count"`
	CardsDealt   int `json:"cards_dealt"`
	TotalDecks   int `json:"total_decks"`
}

func NewState(totalDecks int) (State, error) {
	if err := checkDecks(totalDecks); err != nil {
		return State{}, err
	}
	return State{TotalDecks: totalDecks}, nil
}

// Accumulate returns the state after one more card is revealed.
func (s State) Accumulate(c engine.Card) State {
	s.RunningCount += Value(c.Rank())
	s.CardsDealt++
	return s
}

func (s State) DecksRemaining() float64 { return decksRemaining(s.CardsDealt, s.TotalDecks) }

func (s State) TrueCount() float64 { return float64(s.RunningCount) / s.DecksRemaining() }

// DecksRemaining estimates the decks left in a shoe of totalDecks after
// cardsDealt cards, never less than a quarter deck.
func DecksRemaining(cardsDealt, totalDecks int) (float64, error) {
	if totalDecks <= 0 {
		return 0, &engine.ValidationError{Field: "total_decks", Value: totalDecks, Reason: "must be positive"}
	}
	return decksRemaining(cardsDealt, totalDecks), nil
}

func decksRemaining(cardsDealt, totalDecks int) float64 {
	left := max(0, totalDecks*cardsPerDeck-cardsDealt)
	return math.Max(minDecksRemaining, float64(left)/cardsPerDeck)
}

func checkDecks(n int) error {
	if n < engine.MinDecks || n > engine.MaxDecks {
		return &engine.ValidationError{Field: "total_decks", Value: n, Reason: "must be 1..8"}
	}
	return nil
}

// Snapshot is what a counting display shows after each card.
type Snapshot struct {
	RunningCount   int     `json:"running_count"`
	CardsDealt     int     `json:"cards_dealt"`
	DecksRemaining float64 `json:"decks_remaining"`
	TrueCount      float64 `json:"true_count"`
}

func (s State) Snapshot() Snapshot {
	return Snapshot{
		RunningCount:   s.RunningCount,
		CardsDealt:     s.CardsDealt,
		DecksRemaining: s.DecksRemaining(),
		TrueCount:      s.TrueCount(),
	}
}
