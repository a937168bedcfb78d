package types

import (
	"fmt"
	"strings"
)

// Orientation is the EXIF-like orientation of a picture.
type Orientation uint8

const (
	OrientationNormal = Orientation(iota)
	OrientationHFlipped
	OrientationRotated180
	OrientationVFlipped
	OrientationTransposed
	OrientationRotated270
	OrientationRotated90
	OrientationAntiTransposed
	endOfOrientation
)

func (o Orientation) String() string {
	switch o {
	case OrientationNormal:
		return "normal"
	case OrientationHFlipped:
		return "hflip"
	case OrientationRotated180:
		return "rotate180"
	case OrientationVFlipped:
		return "vflip"
	case OrientationTransposed:
		return "transpose"
	case OrientationRotated270:
		return "rotate270"
	case OrientationRotated90:
		return "rotate90"
	case OrientationAntiTransposed:
		return "antitranspose"
	}
	return fmt.Sprintf("unknown_%d", uint8(o))
}

func OrientationFromString(s string) (Orientation, error) {
	s = strings.Trim(strings.ToLower(s), " \"\n\r\t")
	if s == "" {
		return OrientationNormal, nil
	}
	for candidate := OrientationNormal; candidate < endOfOrientation; candidate++ {
		if candidate.String() == s {
			return candidate, nil
		}
	}
	return OrientationNormal, fmt.Errorf("unknown orientation: '%s'", s)
}

func (o *Orientation) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("unable to unmarshal the orientation: %w", err)
	}
	v, err := OrientationFromString(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o Orientation) MarshalYAML() (any, error) {
	return o.String(), nil
}
