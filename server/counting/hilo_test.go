package counting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

func TestValue(t *testing.T) {
	want := map[engine.Rank]int{
		engine.Ace: -1, engine.Two: 1, engine.Three: 1, engine.Four: 1, engine.Five: 1, engine.Six: 1,
		engine.Seven: 0, engine.Eight: 0, engine.Nine: 0,
		engine.Ten: -1, engine.Jack: -1, engine.Queen: -1, engine.King: -1,
	}
	for r, v := range want {
		assert.Equal(t, v, Value(r), r.String())
	}
}

// A full deck counts back to zero.
func TestBalancedDeck(t *testing.T) {
	var deck []engine.Card
	for _, s := range engine.Suits {
		for _, r := range engine.Ranks {
			deck = append(deck, engine.MustCard(r, s))
		}
	}
	assert.Equal(t, 0, Sum(deck))
}

func TestAccumulateSequence(t *testing.T) {
	s, err := NewState(1)
	require.NoError(t, err)
	for _, r := range []engine.Rank{engine.Two, engine.Seven, engine.King, engine.Ace, engine.Five} {
		s = s.Accumulate(engine.MustCard(r, engine.Spade))
	}
	assert.Equal(t, 0, s.RunningCount)
	assert.Equal(t, 5, s.CardsDealt)
	assert.InDelta(t, 47.0/52.0, s.DecksRemaining(), 1e-9)
	assert.InDelta(t, 0.0, s.TrueCount(), 1e-9)
}

func TestAccumulateDoesNotMutate(t *testing.T) {
	s, _ := NewState(6)
	next := s.Accumulate(engine.MustCard(engine.Four, engine.Heart))
	assert.Equal(t, State{TotalDecks: 6}, s)
	assert.Equal(t, State{RunningCount: 1, CardsDealt: 1, TotalDecks: 6}, next)
}

func TestTrueCount(t *testing.T) {
	s := State{RunningCount: 6, CardsDealt: 52, TotalDecks: 4}
	assert.InDelta(t, 3.0, s.DecksRemaining(), 1e-9)
	assert.InDelta(t, 2.0, s.TrueCount(), 1e-9)

	snap := s.Snapshot()
	assert.Equal(t, 6, snap.RunningCount)
	assert.InDelta(t, 2.0, snap.TrueCount, 1e-9)
}

func TestDecksRemainingFloor(t *testing.T) {
	d, err := DecksRemaining(52, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, d)

	d, err = DecksRemaining(500, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, d)

	d, err = DecksRemaining(0, 8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, d)

	s := State{RunningCount: -3, CardsDealt: 60, TotalDecks: 1}
	assert.InDelta(t, -12.0, s.TrueCount(), 1e-9)
}

func TestRejectsBadDecks(t *testing.T) {
	var ve *engine.ValidationError
	_, err := DecksRemaining(0, 0)
	require.ErrorAs(t, err, &ve)
	_, err = DecksRemaining(0, -2)
	require.ErrorAs(t, err, &ve)

	_, err = NewState(0)
	require.ErrorAs(t, err, &ve)
	_, err = NewState(9)
	require.ErrorAs(t, err, &ve)
}
