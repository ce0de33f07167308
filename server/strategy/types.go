package strategy

import (
	"fmt"
	"strings"
)

// Code is a raw table decision. SurrenderOrHit and Double10 are markers that
// only the composer may turn into a final Action.
type Code uint8

const (
	Hit Code = iota + 1
	Stand
	Double
	Split
	SurrenderOrHit
	Double10
)

func (c Code) String() string {
	switch c {
	case Hit:
		return "HIT"
	case Stand:
		return "STAND"
	case Double:
		return "DOUBLE"
	case Split:
		return "SPLIT"
	case SurrenderOrHit:
		return "SURRENDER_OR_HIT"
	case Double10:
		return "DOUBLE_10"
	}
	return "UNKNOWN"
}

func (c Code) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Code) UnmarshalText(b []byte) error {
	for k := Hit; k <= Double10; k++ {
		if k.String() == string(b) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown table code %q", b)
}

// Mark is the one-letter chart abbreviation of the primary recommendation.
func (c Code) Mark() string {
	switch c {
	case Hit:
		return "H"
	case Stand:
		return "S"
	case Double, Double10:
		return "D"
	case Split:
		return "P"
	case SurrenderOrHit:
		return "R"
	}
	return "-"
}

// Action is a user-facing decision.
type Action string

const (
	ActionHit       Action = "HIT"
	ActionStand     Action = "STAND"
	ActionDouble    Action = "DOUBLE"
	ActionSplit     Action = "SPLIT"
	ActionSurrender Action = "SURRENDER"
)

var Actions = []Action{ActionHit, ActionStand, ActionDouble, ActionSplit, ActionSurrender}

func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Kind is how a two-card hand is classified for table lookup.
type Kind string

const (
	KindPair Kind = "Pair"
	KindSoft Kind = "Soft"
	KindHard Kind = "Hard"
)

// Advice is the composer's answer for one hand.
type Advice struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}
