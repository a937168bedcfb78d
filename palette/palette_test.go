package palette

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertEntry(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input YUVA
		a     uint8
		r     uint8
		g     uint8
		b     uint8
	}{
		{"white", YUVA{235, 128, 128, 255}, 255, 255, 255, 255},
		{"black", YUVA{16, 128, 128, 255}, 255, 0, 0, 0},
		{"transparent_black", YUVA{16, 128, 128, 0}, 0, 0, 0, 0},
		{"half_gray", YUVA{126, 128, 128, 128}, 128, 128, 128, 128},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, r, g, b := UnpackARGB(ConvertEntry(tc.input))
			require.Equal(t, tc.a, a)
			require.InDelta(t, float64(tc.r), float64(r), 2)
			require.InDelta(t, float64(tc.g), float64(g), 2)
			require.InDelta(t, float64(tc.b), float64(b), 2)
		})
	}
}

func TestConvertEntryWrapsAround(t *testing.T) {
	// R = 1.164*239 + 2.018*127 = 534.48 -> 534 mod 256
	// G = 1.164*239 - 0.391*127 = 228.54 -> 228
	// B = 1.163*239 = 277.96 -> 277 mod 256
	a, r, g, b := UnpackARGB(ConvertEntry(YUVA{255, 255, 128, 7}))
	require.Equal(t, uint8(7), a)
	require.Equal(t, uint8(534-512), r)
	require.Equal(t, uint8(228), g)
	require.Equal(t, uint8(277-256), b)
}

func TestPackARGB(t *testing.T) {
	require.Equal(t, uint32(0x11223344), PackARGB(0x11, 0x22, 0x33, 0x44))
	a, r, g, b := UnpackARGB(0xaabbccdd)
	require.Equal(t, []uint8{0xaa, 0xbb, 0xcc, 0xdd}, []uint8{a, r, g, b})
}

func TestConvertTruncates(t *testing.T) {
	entries := make([]YUVA, MaxEntries+10)
	for idx := range entries {
		entries[idx] = YUVA{235, 128, 128, uint8(idx)}
	}

	result := Convert(entries)
	require.Len(t, result, MaxEntries)
	for idx, c := range result {
		a, _, _, _ := UnpackARGB(c)
		require.Equal(t, uint8(idx), a)
	}

	var table Table
	table[MaxEntries-1] = 0xdeadbeef
	require.Equal(t, MaxEntries, ConvertInto(&table, entries))
	require.Equal(t, result, table[:])

	table = Table{}
	table[5] = 0xdeadbeef
	require.Equal(t, 3, ConvertInto(&table, entries[:3]))
	require.Equal(t, uint32(0xdeadbeef), table[5])
	require.Empty(t, Convert(nil))
}
