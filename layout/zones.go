package layout

import (
	"fmt"
	"sort"

	"github.com/solera/factura/token"
)

// Zone identifies one vertical band of a page.
type Zone int

const (
	// ZoneTop is the upper band, where letterheads and invoice headers
	// usually sit.
	ZoneTop Zone = 0
	// ZoneMiddle is the central band, usually the detail table.
	ZoneMiddle Zone = 1
	// ZoneBottom is the lower band, usually totals and payment terms.
	ZoneBottom Zone = 2
)

// String returns a readable name for the zone.
func (z Zone) String() string {
	switch z {
	case ZoneTop:
		return "top"
	case ZoneMiddle:
		return "middle"
	case ZoneBottom:
		return "bottom"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// ZoneConfig holds configuration for vertical zoning.
type ZoneConfig struct {
	// Bands is the number of vertical bands the page is divided into.
	Bands int

	// DefaultHeight is the assumed page height when the stream has no
	// usable bottom edge (empty stream, or every box degenerate at y=0).
	DefaultHeight int
}

// DefaultZoneConfig returns the standard three-band configuration.
func DefaultZoneConfig() ZoneConfig {
	return ZoneConfig{
		Bands:         3,
		DefaultHeight: 1000,
	}
}

// ZoneMap is the banded view of a token stream.
type ZoneMap struct {
	// PageHeight is the bottom edge the banding was computed from.
	PageHeight int

	// BandHeight is the height of a single band.
	BandHeight float64

	zones map[Zone][]token.Token
}

// Tokens returns the tokens assigned to z, in stream order. Zones that
// received no tokens yield nil; callers tolerate missing zones.
func (m *ZoneMap) Tokens(z Zone) []token.Token {
	if m == nil {
		return nil
	}
	return m.zones[z]
}

// Zones returns the zone indexes that received at least one token, in
// ascending order. Indexes past the last configured band are legal: a
// token whose top edge sits at or below the page bottom lands there.
func (m *ZoneMap) Zones() []Zone {
	if m == nil {
		return nil
	}
	zs := make([]Zone, 0, len(m.zones))
	for z := range m.zones {
		zs = append(zs, z)
	}
	sort.Slice(zs, func(i, j int) bool { return zs[i] < zs[j] })
	return zs
}

// Count returns the number of tokens assigned to z.
func (m *ZoneMap) Count(z Zone) int {
	if m == nil {
		return 0
	}
	return len(m.zones[z])
}

// ZoneDetector assigns tokens to vertical bands.
type ZoneDetector struct {
	config ZoneConfig
}

// NewZoneDetector creates a zone detector with default configuration.
func NewZoneDetector() *ZoneDetector {
	return &ZoneDetector{config: DefaultZoneConfig()}
}

// NewZoneDetectorWithConfig creates a zone detector with custom configuration.
func NewZoneDetectorWithConfig(config ZoneConfig) *ZoneDetector {
	return &ZoneDetector{config: config}
}

// Detect bands the stream by vertical position. The page height is taken
// from the maximum bottom edge in the stream, and a token's band is chosen
// by its top edge, so a token whose top reaches the page bottom lands one
// past the last band. Band membership preserves stream order.
func (d *ZoneDetector) Detect(toks []token.Token) *ZoneMap {
	maxHeight := 0
	for _, t := range toks {
		if t.Box.Y1 > maxHeight {
			maxHeight = t.Box.Y1
		}
	}
	if maxHeight <= 0 {
		maxHeight = d.config.DefaultHeight
	}

	bands := d.config.Bands
	if bands <= 0 {
		bands = DefaultZoneConfig().Bands
	}
	bandHeight := float64(maxHeight) / float64(bands)

	m := &ZoneMap{
		PageHeight: maxHeight,
		BandHeight: bandHeight,
		zones:      make(map[Zone][]token.Token),
	}
	for _, t := range toks {
		z := Zone(int(float64(t.Box.Y0) / bandHeight))
		m.zones[z] = append(m.zones[z], t)
	}
	return m
}
