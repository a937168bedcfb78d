package frame

import (
	"github.com/xaionaro-go/hwscaler/palette"
)

// Palette is the colour table of an indexed frame.
type Palette struct {
	Entries [palette.MaxEntries]palette.YUVA
	Count   int
}

func NewPalette(entries ...palette.YUVA) *Palette {
	p := &Palette{}
	p.Count = copy(p.Entries[:], entries)
	return p
}

// Used returns the entries actually in use.
func (p *Palette) Used() []palette.YUVA {
	if p == nil {
		return nil
	}
	count := p.Count
	if count < 0 {
		count = 0
	}
	if count > len(p.Entries) {
		count = len(p.Entries)
	}
	return p.Entries[:count]
}
