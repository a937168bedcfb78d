package frame

import (
	"strings"
	"time"
)

type Flags uint8

const (
	FlagKeyFrame = Flags(1 << iota)
	FlagProgressive
	FlagTopFieldFirst
	FlagForced
)

func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) String() string {
	var names []string
	for _, item := range []struct {
		Flag Flags
		Name string
	}{
		{FlagKeyFrame, "key"},
		{FlagProgressive, "progressive"},
		{FlagTopFieldFirst, "tff"},
		{FlagForced, "forced"},
	} {
		if f.Has(item.Flag) {
			names = append(names, item.Name)
		}
	}
	return strings.Join(names, "|")
}

// Properties is the picture metadata carried over from an input frame
// to the corresponding output frame.
type Properties struct {
	PTS      time.Duration
	Duration time.Duration
	Flags    Flags
	NbFields uint8
}
