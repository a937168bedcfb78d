// duration.go converts between libav timestamps and time.Duration.

// Package avconv bridges libav frames and the frames of this module.
package avconv

import (
	"math"
	"time"

	"github.com/asticode/go-astiav"
)

const (
	// see https://ffmpeg.org/doxygen/trunk/group__lavu__time.html#ga2eaefe702f95f619ea6f2d08afa01be1
	avNoPTSValue = math.MinInt64

	// NoDuration represents an unset libav timestamp.
	NoDuration = time.Duration(math.MinInt64)
)

func Duration(t int64, timeBase astiav.Rational) time.Duration {
	if t == avNoPTSValue || timeBase.Den() == 0 {
		return NoDuration
	}
	return time.Duration(math.Round(float64(t) * timeBase.Float64() * float64(time.Second)))
}

func FromDuration(d time.Duration, timeBase astiav.Rational) int64 {
	if d == NoDuration || timeBase.Num() == 0 {
		return avNoPTSValue
	}
	return int64(math.Round(d.Seconds() / timeBase.Float64()))
}
