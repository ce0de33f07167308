package shoe

import (
	"math/rand"
	"time"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

// Shoe is a shuffled multi-deck shoe. It rebuilds itself when drawn empty.
// Not safe for concurrent use.
type Shoe struct {
	decks int
	rng   *rand.Rand
	cards []engine.Card
	dealt int
}

// New builds and shuffles a shoe. A zero seed uses the clock.
func New(decks int, seed int64) (*Shoe, error) {
	if decks < engine.MinDecks || decks > engine.MaxDecks {
		return nil, &engine.ValidationError{Field: "decks", Value: decks, Reason: "must be 1..8"}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Shoe{decks: decks, rng: rand.New(rand.NewSource(seed))}
	s.rebuild()
	return s, nil
}

func (s *Shoe) rebuild() {
	cards := make([]engine.Card, 0, s.decks*len(engine.Ranks)*len(engine.Suits))
	for d := 0; d < s.decks; d++ {
		for _, r := range engine.Ranks {
			for _, su := range engine.Suits {
				cards = append(cards, engine.MustCard(r, su))
			}
		}
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	s.cards = cards
	s.dealt = 0
}

// Draw takes the top card, reshuffling a fresh shoe first if empty.
func (s *Shoe) Draw() engine.Card {
	if len(s.cards) == 0 {
		s.rebuild()
	}
	c := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	s.dealt++
	return c
}

func (s *Shoe) DrawN(n int) []engine.Card {
	out := make([]engine.Card, n)
	for i := range out {
		out[i] = s.Draw()
	}
	return out
}

func (s *Shoe) Decks() int     { return s.decks }
func (s *Shoe) Remaining() int { return len(s.cards) }

// Dealt counts cards drawn since the last reshuffle.
func (s *Shoe) Dealt() int { return s.dealt }
