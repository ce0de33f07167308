package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

const (
	S17 = engine.S17
	H17 = engine.H17
)

// codes collects a row of table output across all ten upcards.
func codes(lookup func(engine.Value) Code) string {
	out := ""
	for _, up := range engine.Upcards {
		out += lookup(up).Mark()
	}
	return out
}

func TestPairTable(t *testing.T) {
	// Marks run across upcards 2..9, T, A.
	tests := []struct {
		pair engine.Value
		das  bool
		want string
	}{
		{ace, false, "PPPPPPPPPP"},
		{8, true, "PPPPPPPPPP"},
		{ten, true, "SSSSSSSSSS"},
		{9, false, "PPPPPSPPSS"},
		{7, false, "PPPPPPHHHH"},
		{6, true, "PPPPPHHHHH"},
		{5, true, "DDDDDDDDDD"},
		{4, true, "HHHPPHHHHH"},
		{4, false, "HHHHHHHHHH"},
		{3, true, "PPPPPPHHHH"},
		{3, false, "HHPPPPHHHH"},
		{2, true, "PPPPPPHHHH"},
		{2, false, "HHPPPPHHHH"},
	}
	for _, tt := range tests {
		got := codes(func(up engine.Value) Code { return PairCode(tt.pair, up, tt.das) })
		assert.Equal(t, tt.want, got, "pair %s das=%v", tt.pair, tt.das)
	}
	assert.Equal(t, Double10, PairCode(5, 6, false))
	assert.Equal(t, Code(0), PairCode(engine.Value(1), 6, false))
}

func TestSoftTable(t *testing.T) {
	tests := []struct {
		total  int
		dealer engine.DealerRule
		want   string
	}{
		{13, S17, "HHHDDHHHHH"},
		{13, H17, "HHDDDHHHHH"},
		{14, S17, "HHHDDHHHHH"},
		{15, S17, "HHDDDHHHHH"},
		{16, H17, "HDDDDHHHHH"},
		{17, S17, "HDDDDHHHHH"},
		{17, H17, "DDDDDHHHHH"},
		{18, S17, "SDDDDSSHHH"},
		{18, H17, "DDDDDSSHHH"},
		{19, S17, "SSSSSSSSSS"},
		{19, H17, "SSSSDSSSSS"},
		{20, H17, "SSSSSSSSSS"},
		{21, S17, "SSSSSSSSSS"},
		{12, S17, "HHHHHHHHHH"},
	}
	for _, tt := range tests {
		got := codes(func(up engine.Value) Code { return SoftCode(tt.total, up, tt.dealer) })
		assert.Equal(t, tt.want, got, "soft %d %s", tt.total, tt.dealer)
	}
}

func TestHardTable(t *testing.T) {
	tests := []struct {
		total  int
		dealer engine.DealerRule
		ls     bool
		want   string
	}{
		{5, S17, true, "HHHHHHHHHH"},
		{8, S17, true, "HHHHHHHHHH"},
		{9, S17, true, "HDDDDHHHHH"},
		{10, H17, true, "DDDDDDDDHH"},
		{11, S17, false, "DDDDDDDDDH"},
		{11, H17, false, "DDDDDDDDDD"},
		{12, S17, true, "HHSSSHHHHH"},
		{13, S17, true, "SSSSSHHHHH"},
		{15, S17, true, "SSSSSHHHRH"},
		{15, S17, false, "SSSSSHHHHH"},
		{16, S17, true, "SSSSSHHRRR"},
		{16, H17, false, "SSSSSHHHHH"},
		{17, S17, true, "SSSSSSSSSS"},
		{20, H17, true, "SSSSSSSSSS"},
	}
	for _, tt := range tests {
		got := codes(func(up engine.Value) Code { return HardCode(tt.total, up, tt.dealer, tt.ls) })
		assert.Equal(t, tt.want, got, "hard %d %s ls=%v", tt.total, tt.dealer, tt.ls)
	}
}

func TestSurrenderCheckedFirst(t *testing.T) {
	assert.Equal(t, SurrenderOrHit, HardCode(16, ten, S17, true))
	assert.Equal(t, SurrenderOrHit, HardCode(16, ace, H17, true))
	assert.Equal(t, Hit, HardCode(16, ten, S17, false))
	assert.Equal(t, Hit, HardCode(15, ace, S17, true))
}
