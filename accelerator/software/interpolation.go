package software

import (
	"fmt"
	"strings"

	"golang.org/x/image/draw"
)

type Interpolation int

const (
	InterpolationNearestNeighbor = Interpolation(iota)
	InterpolationApproxBiLinear
	InterpolationBiLinear
	InterpolationCatmullRom
	endOfInterpolation
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationNearestNeighbor:
		return "nearest"
	case InterpolationApproxBiLinear:
		return "approx-bilinear"
	case InterpolationBiLinear:
		return "bilinear"
	case InterpolationCatmullRom:
		return "catmull-rom"
	}
	return fmt.Sprintf("unknown_%d", int(i))
}

func (i Interpolation) Interpolator() draw.Interpolator {
	switch i {
	case InterpolationApproxBiLinear:
		return draw.ApproxBiLinear
	case InterpolationBiLinear:
		return draw.BiLinear
	case InterpolationCatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

func InterpolationFromString(s string) (Interpolation, error) {
	s = strings.Trim(strings.ToLower(s), " \"\n\r\t")
	for candidate := Interpolation(0); candidate < endOfInterpolation; candidate++ {
		if candidate.String() == s {
			return candidate, nil
		}
	}
	return InterpolationNearestNeighbor, fmt.Errorf("unknown interpolation: '%s'", s)
}

func (i *Interpolation) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("unable to unmarshal the interpolation: %w", err)
	}
	v, err := InterpolationFromString(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func (i Interpolation) MarshalYAML() (any, error) {
	return i.String(), nil
}

// Set implements pflag.Value.
func (i *Interpolation) Set(s string) error {
	v, err := InterpolationFromString(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Type implements pflag.Value.
func (i *Interpolation) Type() string {
	return "interpolation"
}
