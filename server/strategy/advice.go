package strategy

import (
	"errors"
	"fmt"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

// ErrHandSize is returned when advice is requested for anything but a
// starting two-card hand.
var ErrHandSize = errors.New("advice needs exactly two cards")

const surrenderFallback = " (or Hit if surrender not available)"

// Advise returns the basic-strategy action for a two-card hand against the
// dealer upcard. Pairs are looked up first, then soft totals, then hard.
func Advise(h engine.Hand, upcard engine.Card, r engine.Rules) (Advice, error) {
	if len(h) != 2 {
		return Advice{}, fmt.Errorf("%w: got %d", ErrHandSize, len(h))
	}
	for _, c := range [...]engine.Card{h[0], h[1], upcard} {
		if !c.Rank().Valid() {
			return Advice{}, &engine.InvalidCardError{Input: c.String(), Reason: "missing card"}
		}
	}
	if err := r.Validate(); err != nil {
		return Advice{}, err
	}
	up := engine.UpcardValue(upcard)

	if h.IsPair() {
		pair := h[0].Value()
		switch code := PairCode(pair, up, r.DAS); code {
		case Split:
			return Advice{Action: ActionSplit, Reason: fmt.Sprintf("Pair of %ss vs %s: split.", pair, up)}, nil
		case Double10:
			// 5,5 plays as hard 10.
			return normalize(HardCode(10, up, r.Dealer, r.LateSurrender), fmt.Sprintf("Hard 10 vs %s.", up))
		case Hit, Stand:
			return normalize(code, fmt.Sprintf("Pair strategy for %s%s vs %s.", pair, pair, up))
		}
	}

	t := h.Totals()
	if isSoftRow(t) {
		return normalize(SoftCode(t.Total, up, r.Dealer), fmt.Sprintf("Soft %d vs %s.", t.Total, up))
	}
	return normalize(HardCode(t.Total, up, r.Dealer, r.LateSurrender), fmt.Sprintf("Hard %d vs %s.", t.Total, up))
}

// Classify names the table a two-card hand is looked up in.
func Classify(h engine.Hand) Kind {
	if h.IsPair() {
		return KindPair
	}
	if isSoftRow(h.Totals()) {
		return KindSoft
	}
	return KindHard
}

func isSoftRow(t engine.Totals) bool { return t.Soft && t.Total >= 13 && t.Total <= 21 }

func normalize(code Code, why string) (Advice, error) {
	var a Advice
	switch code {
	case Hit:
		a.Action = ActionHit
	case Stand:
		a.Action = ActionStand
	case Double, Double10:
		a.Action = ActionDouble
	case Split:
		a.Action = ActionSplit
	case SurrenderOrHit:
		a.Action = ActionSurrender
		why += surrenderFallback
	default:
		return Advice{}, fmt.Errorf("unresolved table code %v for %q", code, why)
	}
	a.Reason = why
	return a, nil
}
