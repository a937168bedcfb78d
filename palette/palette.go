// Package palette converts YUVA colour tables into the ARGB tables
// understood by the compositor.
package palette

// MaxEntries is the maximal amount of entries in a palette.
const MaxEntries = 256

// YUVA is one palette entry: Y, U, V and alpha, in this order.
type YUVA [4]uint8

func (c YUVA) Y() uint8 { return c[0] }
func (c YUVA) U() uint8 { return c[1] }
func (c YUVA) V() uint8 { return c[2] }
func (c YUVA) A() uint8 { return c[3] }

// Table is a complete ARGB hardware palette.
type Table [MaxEntries]uint32

// PackARGB packs the channels as A:R:G:B from the most significant byte
// to the least significant one.
func PackARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// UnpackARGB is the reverse of PackARGB.
func UnpackARGB(c uint32) (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// ConvertEntry converts one YUVA entry using studio-range BT.601
// coefficients.
//
// Out-of-range channel values wrap around modulo 256 (they are NOT clamped).
func ConvertEntry(c YUVA) uint32 {
	y := 1.164 * (float64(c.Y()) - 16)
	u := float64(c.U()) - 128
	v := float64(c.V()) - 128
	return PackARGB(
		c.A(),
		narrow(y+2.018*u),
		narrow(y-0.813*v-0.391*u),
		narrow(1.163*(float64(c.Y())-16)+1.596*v),
	)
}

// narrow truncates toward zero and keeps the lowest 8 bits.
func narrow(v float64) uint8 {
	return uint8(int64(v))
}

// ConvertInto converts up to MaxEntries entries into dst and returns
// the amount of converted entries. The rest of dst is left intact.
func ConvertInto(dst *Table, entries []YUVA) int {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	for idx, entry := range entries {
		dst[idx] = ConvertEntry(entry)
	}
	return len(entries)
}

// Convert converts up to MaxEntries entries into a newly allocated slice.
func Convert(entries []YUVA) []uint32 {
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	result := make([]uint32, len(entries))
	for idx, entry := range entries {
		result[idx] = ConvertEntry(entry)
	}
	return result
}
