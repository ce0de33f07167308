package shoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

func TestNewShoeComposition(t *testing.T) {
	s, err := New(2, 42)
	require.NoError(t, err)
	assert.Equal(t, 104, s.Remaining())

	seen := map[engine.Card]int{}
	for s.Remaining() > 0 {
		seen[s.Draw()]++
	}
	assert.Len(t, seen, 52)
	for c, n := range seen {
		assert.Equal(t, 2, n, c.String())
	}
	assert.Equal(t, 104, s.Dealt())
}

func TestShoeSeedIsDeterministic(t *testing.T) {
	a, _ := New(6, 7)
	b, _ := New(6, 7)
	assert.Equal(t, a.DrawN(20), b.DrawN(20))
}

func TestShoeRebuildsWhenEmpty(t *testing.T) {
	s, err := New(1, 1)
	require.NoError(t, err)
	s.DrawN(52)
	assert.Equal(t, 0, s.Remaining())

	s.Draw()
	assert.Equal(t, 51, s.Remaining())
	assert.Equal(t, 1, s.Dealt())
}

func TestShoeRejectsBadDecks(t *testing.T) {
	var ve *engine.ValidationError
	_, err := New(0, 1)
	assert.ErrorAs(t, err, &ve)
	_, err = New(9, 1)
	assert.ErrorAs(t, err, &ve)
}
