// Package drill runs the trainer's exercises on top of the strategy and
// counting engines: the strategy quiz, the counting stream and the flash test.
package drill

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/izaksullivan/Blackjack-Trainer/server/counting"
	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
	"github.com/izaksullivan/Blackjack-Trainer/server/shoe"
	"github.com/izaksullivan/Blackjack-Trainer/server/strategy"
)

var (
	ErrNoRound       = errors.New("no hand dealt")
	ErrRoundAnswered = errors.New("hand already answered")
	ErrNoStream      = errors.New("counting stream not running")
	ErrNoFlash       = errors.New("no flash test in progress")
)

const (
	minFlashCards     = 4
	maxFlashCards     = 20
	defaultFlashCards = 8
)

// Round is one dealt strategy question.
type Round struct {
	ID     string        `json:"id"`
	Player engine.Hand   `json:"player"`
	Upcard engine.Card   `json:"upcard"`
	Total  int           `json:"total"`
	Kind   strategy.Kind `json:"kind"`

	answered bool
}

type Result struct {
	Round   Round           `json:"round"`
	Chosen  strategy.Action `json:"chosen"`
	Correct bool            `json:"correct"`
	Advice  strategy.Advice `json:"advice"`
	Stats   Stats           `json:"stats"`
}

type StreamStep struct {
	Card engine.Card       `json:"card"`
	Snap counting.Snapshot `json:"count"`
}

type Flash struct {
	ID    string        `json:"id"`
	Cards []engine.Card `json:"cards"`

	answer int
}

type FlashResult struct {
	Correct bool `json:"correct"`
	OffBy   int  `json:"off_by"`
	Answer  int  `json:"answer"`
	Best    int  `json:"flash_best"`
}

// Session is one trainee's state. Every method is safe for concurrent use.
type Session struct {
	ID string

	mu        sync.Mutex
	seed      int64
	reshuffle int64
	rules     engine.Rules
	shoe      *shoe.Shoe
	stats     Stats
	flashBest int
	round     *Round
	stream    *counting.State
	flash     *Flash
}

func NewSession(id string, r engine.Rules, seed int64) (*Session, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	sh, err := shoe.New(r.Decks, seed)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, seed: seed, rules: r, shoe: sh}, nil
}

func (s *Session) Rules() engine.Rules {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules
}

// UpdateRules swaps the rule set and rebuilds the shoe for the new deck
// count. Any open hand is discarded. A seeded session moves to the next
// seed so the new shoe does not replay the old one.
func (s *Session) UpdateRules(r engine.Rules) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seed := s.seed
	if seed != 0 {
		// Stride past the manager's per-session offsets.
		seed += (s.reshuffle + 1) << 32
	}
	sh, err := shoe.New(r.Decks, seed)
	if err != nil {
		return err
	}
	s.reshuffle++
	s.rules = r
	s.shoe = sh
	s.round = nil
	return nil
}

// Deal draws two player cards and the dealer upcard.
func (s *Session) Deal() Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	p1, p2, up := s.shoe.Draw(), s.shoe.Draw(), s.shoe.Draw()
	h := engine.Hand{p1, p2}
	s.round = &Round{
		ID:     uuid.NewString(),
		Player: h,
		Upcard: up,
		Total:  h.Totals().Total,
		Kind:   strategy.Classify(h),
	}
	return *s.round
}

// Answer grades the trainee's action for the current hand. A hand is graded
// once.
func (s *Session) Answer(chosen strategy.Action) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return Result{}, ErrNoRound
	}
	if s.round.answered {
		return Result{}, ErrRoundAnswered
	}
	adv, err := strategy.Advise(s.round.Player, s.round.Upcard, s.rules)
	if err != nil {
		return Result{}, fmt.Errorf("grade round %s: %w", s.round.ID, err)
	}
	correct := adv.Action == chosen
	s.stats.Record(correct)
	s.round.answered = true
	return Result{Round: *s.round, Chosen: chosen, Correct: correct, Advice: adv, Stats: s.stats}, nil
}

// Explain returns the advice for the current hand without grading it.
func (s *Session) Explain() (strategy.Advice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.round == nil {
		return strategy.Advice{}, ErrNoRound
	}
	return strategy.Advise(s.round.Player, s.round.Upcard, s.rules)
}

// StartStream resets the count for a new stream over totalDecks.
func (s *Session) StartStream(totalDecks int) (counting.Snapshot, error) {
	st, err := counting.NewState(totalDecks)
	if err != nil {
		return counting.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stream = &st
	return st.Snapshot(), nil
}

// NextStreamCard reveals one card and folds it into the count.
func (s *Session) NextStreamCard() (StreamStep, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return StreamStep{}, ErrNoStream
	}
	c := s.shoe.Draw()
	next := s.stream.Accumulate(c)
	s.stream = &next
	return StreamStep{Card: c, Snap: next.Snapshot()}, nil
}

func (s *Session) StopStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stream = nil
}

// ClampFlashCards applies the flash test's card limits; n <= 0 picks the
// default.
func ClampFlashCards(n int) int {
	if n <= 0 {
		return defaultFlashCards
	}
	return max(minFlashCards, min(maxFlashCards, n))
}

// NewFlash draws a short sequence for the trainee to count.
func (s *Session) NewFlash(n int) Flash {
	n = ClampFlashCards(n)
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := s.shoe.DrawN(n)
	s.flash = &Flash{ID: uuid.NewString(), Cards: cards, answer: counting.Sum(cards)}
	return *s.flash
}

// CheckFlash compares the trainee's count with the flash sequence.
func (s *Session) CheckFlash(count int) (FlashResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flash == nil {
		return FlashResult{}, ErrNoFlash
	}
	res := FlashResult{Correct: count == s.flash.answer, OffBy: count - s.flash.answer, Answer: s.flash.answer}
	if res.Correct {
		s.flashBest = max(s.flashBest, len(s.flash.Cards))
	}
	res.Best = s.flashBest
	return res, nil
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ShoeState reports how far the strategy shoe has been dealt.
type ShoeState struct {
	Decks     int `json:"decks"`
	Dealt     int `json:"dealt"`
	Remaining int `json:"remaining"`
}

func (s *Session) Shoe() ShoeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ShoeState{Decks: s.shoe.Decks(), Dealt: s.shoe.Dealt(), Remaining: s.shoe.Remaining()}
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	lo, hi := WilsonCI95(s.stats.Correct, s.stats.Hands)
	return Progress{
		Hands:      s.stats.Hands,
		Correct:    s.stats.Correct,
		Accuracy:   s.stats.Accuracy(),
		AccuracyCI: [2]float64{lo, hi},
		BestStreak: s.stats.BestStreak,
		FlashBest:  s.flashBest,
	}
}

// RestoreProgress loads saved totals. The current streak starts over.
func (s *Session) RestoreProgress(p Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = Stats{Hands: p.Hands, Correct: p.Correct, BestStreak: p.BestStreak}
	s.flashBest = p.FlashBest
}
