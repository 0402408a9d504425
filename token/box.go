package token

import (
	"encoding/json"
	"fmt"
)

// Box is an axis-aligned bounding box in pixel space. The origin is the
// top-left corner of the page: X grows rightward, Y grows downward, so Y0
// is the top edge and Y1 the bottom edge. Coordinates are integers, as
// produced by OCR engines and rasterized text extraction.
type Box struct {
	X0 int
	Y0 int
	X1 int
	Y1 int
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b Box) Height() int {
	return b.Y1 - b.Y0
}

// Area returns the box area in square pixels.
func (b Box) Area() int {
	return b.Width() * b.Height()
}

// MidY returns the vertical midpoint of the box, rounded down. Tokens that
// share a midpoint sit on the same visual line.
func (b Box) MidY() int {
	return (b.Y0 + b.Y1) / 2
}

// Contains reports whether the point (x, y) lies inside the box,
// boundaries included.
func (b Box) Contains(x, y int) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects reports whether b and other overlap.
func (b Box) Intersects(other Box) bool {
	return b.X0 < other.X1 && other.X0 < b.X1 &&
		b.Y0 < other.Y1 && other.Y0 < b.Y1
}

// Union returns the smallest box covering both b and other.
func (b Box) Union(other Box) Box {
	u := b
	if other.X0 < u.X0 {
		u.X0 = other.X0
	}
	if other.Y0 < u.Y0 {
		u.Y0 = other.Y0
	}
	if other.X1 > u.X1 {
		u.X1 = other.X1
	}
	if other.Y1 > u.Y1 {
		u.Y1 = other.Y1
	}
	return u
}

// MarshalJSON encodes the box as the four-element array [x0, y0, x1, y1],
// the form OCR token dumps use on disk.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X0, b.Y0, b.X1, b.Y1})
}

// UnmarshalJSON decodes the four-element array form.
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords []int
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	if len(coords) != 4 {
		return fmt.Errorf("box: expected 4 coordinates, got %d", len(coords))
	}
	b.X0, b.Y0, b.X1, b.Y1 = coords[0], coords[1], coords[2], coords[3]
	return nil
}
