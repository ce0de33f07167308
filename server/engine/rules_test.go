package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesValidate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())

	for _, decks := range []int{0, -1, 9} {
		r := DefaultRules()
		r.Decks = decks
		var ve *ValidationError
		require.ErrorAs(t, r.Validate(), &ve)
		assert.Equal(t, "decks", ve.Field)
	}

	r := DefaultRules()
	r.Dealer = "X17"
	var ve *ValidationError
	require.ErrorAs(t, r.Validate(), &ve)
	assert.Equal(t, "dealer_rule", ve.Field)
}

func TestParseDealerRule(t *testing.T) {
	got, err := ParseDealerRule(" h17 ")
	require.NoError(t, err)
	assert.Equal(t, H17, got)

	_, err = ParseDealerRule("")
	assert.Error(t, err)
}

func TestClampDecks(t *testing.T) {
	assert.Equal(t, 1, ClampDecks(0))
	assert.Equal(t, 8, ClampDecks(12))
	assert.Equal(t, 6, ClampDecks(6))
}
