package types

import (
	"fmt"
)

// Geometry is the size and orientation of a picture.
type Geometry struct {
	Width       uint32      `yaml:"width"`
	Height      uint32      `yaml:"height"`
	Orientation Orientation `yaml:"orientation,omitempty"`
}

func (g Geometry) String() string {
	if g.Orientation != OrientationNormal {
		return fmt.Sprintf("%dx%d(%s)", g.Width, g.Height, g.Orientation)
	}
	return fmt.Sprintf("%dx%d", g.Width, g.Height)
}

// Parse parses strings like "1920x1080". The orientation is left intact.
func (g *Geometry) Parse(s string) error {
	var w, h uint32
	_, err := fmt.Sscanf(s, "%dx%d", &w, &h)
	if err != nil {
		return fmt.Errorf("unable to parse geometry '%s': %w", s, err)
	}
	g.Width, g.Height = w, h
	return nil
}

// IsZero reports whether the geometry has no area.
func (g Geometry) IsZero() bool {
	return g.Width == 0 || g.Height == 0
}

// ScaleCropAR returns the largest box having the aspect ratio of src which
// fits into g. The part of g outside of that box is cropped away. Each side
// of the result is at least 1 unless g or src has no area.
func (g Geometry) ScaleCropAR(src Geometry) Geometry {
	if g.IsZero() || src.IsZero() {
		return g
	}
	result := g
	// Compare src.W/src.H against g.W/g.H without losing precision.
	lhs := uint64(src.Width) * uint64(g.Height)
	rhs := uint64(g.Width) * uint64(src.Height)
	switch {
	case lhs > rhs:
		// the source is wider: keep the width, crop the height
		result.Height = uint32(uint64(g.Width) * uint64(src.Height) / uint64(src.Width))
	case lhs < rhs:
		// the source is taller: keep the height, crop the width
		result.Width = uint32(uint64(g.Height) * uint64(src.Width) / uint64(src.Height))
	}
	if result.Width == 0 {
		result.Width = 1
	}
	if result.Height == 0 {
		result.Height = 1
	}
	return result
}

// VideoFormat is a pixel format together with the geometry of the pictures.
type VideoFormat struct {
	PixelFormat PixelFormat `yaml:"pixel_format"`
	Geometry    `yaml:",inline"`
}

func (f VideoFormat) String() string {
	return fmt.Sprintf("%s:%s", f.Geometry, f.PixelFormat)
}
