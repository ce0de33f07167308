package engine

import (
	"fmt"
	"strings"
)

type DealerRule string

const (
	S17 DealerRule = "S17" // dealer stands on soft 17
	H17 DealerRule = "H17" // dealer hits soft 17
)

const (
	MinDecks = 1
	MaxDecks = 8
)

// Rules selects the strategy variant. Peek is carried for display only and
// never changes a decision.
type Rules struct {
	Decks         int        `json:"decks"`
	Dealer        DealerRule `json:"dealer_rule"`
	DAS           bool       `json:"das"`
	LateSurrender bool       `json:"late_surrender"`
	Peek          bool       `json:"peek"`
}

func DefaultRules() Rules {
	return Rules{Decks: 6, Dealer: S17, DAS: true, LateSurrender: true, Peek: true}
}

// ValidationError reports a configuration value outside its allowed range.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (r Rules) Validate() error {
	if r.Decks < MinDecks || r.Decks > MaxDecks {
		return &ValidationError{Field: "decks", Value: r.Decks, Reason: fmt.Sprintf("must be %d..%d", MinDecks, MaxDecks)}
	}
	if _, err := ParseDealerRule(string(r.Dealer)); err != nil {
		return err
	}
	return nil
}

func ParseDealerRule(s string) (DealerRule, error) {
	switch DealerRule(strings.ToUpper(strings.TrimSpace(s))) {
	case S17:
		return S17, nil
	case H17:
		return H17, nil
	}
	return "", &ValidationError{Field: "dealer_rule", Value: s, Reason: "must be S17 or H17"}
}

// ClampDecks pulls a user-entered deck count into range. Settings forms use
// it before building Rules; engine code never clamps.
func ClampDecks(n int) int {
	return max(MinDecks, min(MaxDecks, n))
}
