package strategy

import (
	"math"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

// upcards is a set of dealer upcard tokens, one bit per value.
type upcards uint16

func ups(vs ...engine.Value) upcards {
	var u upcards
	for _, v := range vs {
		u |= 1 << uint(v)
	}
	return u
}

// span is the inclusive run lo..hi of upcard tokens.
func span(lo, hi engine.Value) upcards {
	var u upcards
	for v := lo; v <= hi; v++ {
		u |= 1 << uint(v)
	}
	return u
}

func (u upcards) has(v engine.Value) bool { return u&(1<<uint(v)) != 0 }

const (
	ten = engine.ValueTen
	ace = engine.ValueAce
)

var anyUp = span(2, ace)

// cell is one table entry. Sets are checked split, double, stand in that
// order; anything else gets the fallback code.
type cell struct {
	split, double, stand upcards
	fallback             Code
}

func (c cell) resolve(up engine.Value) Code {
	switch {
	case c.split.has(up):
		return Split
	case c.double.has(up):
		return Double
	case c.stand.has(up):
		return Stand
	}
	return c.fallback
}

// byDealer holds the S17 and H17 variants of a cell.
type byDealer struct{ s17, h17 cell }

func (b byDealer) pick(d engine.DealerRule) cell {
	if d == engine.H17 {
		return b.h17
	}
	return b.s17
}

func same(c cell) byDealer { return byDealer{s17: c, h17: c} }

// byDAS holds a pair row without and with double-after-split.
type byDAS struct{ noDAS, das cell }

func (b byDAS) pick(das bool) cell {
	if das {
		return b.das
	}
	return b.noDAS
}

func always(c cell) byDAS { return byDAS{noDAS: c, das: c} }

var pairTable = map[engine.Value]byDAS{
	ace: always(cell{split: anyUp}),
	8:   always(cell{split: anyUp}),
	ten: always(cell{fallback: Stand}),
	9:   always(cell{split: ups(2, 3, 4, 5, 6, 8, 9), fallback: Stand}),
	7:   always(cell{split: span(2, 7), fallback: Hit}),
	6:   always(cell{split: span(2, 6), fallback: Hit}),
	5:   always(cell{fallback: Double10}),
	4:   {noDAS: cell{fallback: Hit}, das: cell{split: ups(5, 6), fallback: Hit}},
	3:   {noDAS: cell{split: span(4, 7), fallback: Hit}, das: cell{split: span(2, 7), fallback: Hit}},
	2:   {noDAS: cell{split: span(4, 7), fallback: Hit}, das: cell{split: span(2, 7), fallback: Hit}},
}

// Soft totals 13 (A,2) through 21 (A,T).
var softTable = map[int]byDealer{
	13: {s17: cell{double: ups(5, 6), fallback: Hit}, h17: cell{double: span(4, 6), fallback: Hit}},
	14: {s17: cell{double: ups(5, 6), fallback: Hit}, h17: cell{double: span(4, 6), fallback: Hit}},
	15: {s17: cell{double: span(4, 6), fallback: Hit}, h17: cell{double: span(3, 6), fallback: Hit}},
	16: {s17: cell{double: span(4, 6), fallback: Hit}, h17: cell{double: span(3, 6), fallback: Hit}},
	17: {s17: cell{double: span(3, 6), fallback: Hit}, h17: cell{double: span(2, 6), fallback: Hit}},
	18: {
		s17: cell{double: span(3, 6), stand: ups(2, 7, 8), fallback: Hit},
		h17: cell{double: span(2, 6), stand: ups(7, 8), fallback: Hit},
	},
	19: {s17: cell{fallback: Stand}, h17: cell{double: ups(6), fallback: Stand}},
	20: same(cell{fallback: Stand}),
	21: same(cell{fallback: Stand}),
}

// hardRow covers the hard totals lo..hi.
type hardRow struct {
	lo, hi int
	byDealer
}

var hardTable = []hardRow{
	{lo: math.MinInt, hi: 8, byDealer: same(cell{fallback: Hit})},
	{lo: 9, hi: 9, byDealer: same(cell{double: span(3, 6), fallback: Hit})},
	{lo: 10, hi: 10, byDealer: same(cell{double: span(2, 9), fallback: Hit})},
	{lo: 11, hi: 11, byDealer: byDealer{s17: cell{double: span(2, ten), fallback: Hit}, h17: cell{double: anyUp}}},
	{lo: 12, hi: 12, byDealer: same(cell{stand: span(4, 6), fallback: Hit})},
	{lo: 13, hi: 16, byDealer: same(cell{stand: span(2, 6), fallback: Hit})},
}

// Late surrender spots, checked ahead of every other hard rule.
var surrenderTable = map[int]upcards{
	16: ups(9, ten, ace),
	15: ups(ten),
}

// PairCode looks up the pair table for a pair of the given ten-bucket value.
// It returns 0 when no row matches.
func PairCode(pair, up engine.Value, das bool) Code {
	row, ok := pairTable[pair]
	if !ok {
		return 0
	}
	return row.pick(das).resolve(up)
}

// SoftCode looks up a soft total. Totals outside 13..21 hit.
func SoftCode(total int, up engine.Value, dealer engine.DealerRule) Code {
	row, ok := softTable[total]
	if !ok {
		return Hit
	}
	return row.pick(dealer).resolve(up)
}

// HardCode looks up a hard total. Totals of 17 and up stand.
func HardCode(total int, up engine.Value, dealer engine.DealerRule, lateSurrender bool) Code {
	if lateSurrender && surrenderTable[total].has(up) {
		return SurrenderOrHit
	}
	for _, row := range hardTable {
		if total >= row.lo && total <= row.hi {
			return row.pick(dealer).resolve(up)
		}
	}
	return Stand
}
