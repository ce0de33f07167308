package engine

// Hand is an ordered set of cards. Drill hands hold exactly two.
type Hand []Card

type Totals struct {
	Total int  `json:"total"`
	Soft  bool `json:"soft"`
}

// Totals scores the hand with every Ace at 11, then demotes Aces to 1 one at
// a time while the total is over 21. The hand is soft when an Ace is still
// counted high.
func (h Hand) Totals() Totals {
	total, high := 0, 0
	for _, c := range h {
		switch v := c.Value(); v {
		case ValueAce:
			total += 11
			high++
		default:
			total += int(v)
		}
	}
	for total > 21 && high > 0 {
		total -= 10
		high--
	}
	return Totals{Total: total, Soft: high > 0 && total <= 21}
}

// IsPair reports whether a two-card hand holds equal ten-bucket values, so a
// 10 with a King counts. Any other size is not a pair.
func (h Hand) IsPair() bool {
	if len(h) != 2 {
		return false
	}
	return h[0].Value() == h[1].Value()
}

func (h Hand) Strings() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.String()
	}
	return out
}
