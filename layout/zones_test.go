package layout

import (
	"testing"

	"github.com/solera/factura/token"
)

func makeToken(id int, text string, x0, y0, x1, y1 int) token.Token {
	return token.Token{ID: id, Text: text, Box: token.Box{X0: x0, Y0: y0, X1: x1, Y1: y1}}
}

func makeStream(words ...token.Word) []token.Token {
	return token.NewStream(words)
}

func TestZoneDetector_EmptyStream(t *testing.T) {
	m := NewZoneDetector().Detect(nil)

	if m.PageHeight != 1000 {
		t.Errorf("expected default page height 1000, got %d", m.PageHeight)
	}
	if len(m.Zones()) != 0 {
		t.Errorf("expected no populated zones, got %v", m.Zones())
	}
	if m.Tokens(ZoneTop) != nil {
		t.Error("expected nil token list for empty zone")
	}
}

func TestZoneDetector_ThreeBands(t *testing.T) {
	toks := []token.Token{
		makeToken(0, "FACTURA", 10, 40, 90, 60),
		makeToken(1, "Concepto", 10, 400, 100, 420),
		makeToken(2, "TOTAL", 10, 850, 70, 870),
		makeToken(3, "150,00", 200, 880, 260, 900),
	}

	m := NewZoneDetector().Detect(toks)

	if m.PageHeight != 900 {
		t.Errorf("expected page height 900, got %d", m.PageHeight)
	}
	if got := m.Count(ZoneTop); got != 1 {
		t.Errorf("expected 1 token in top zone, got %d", got)
	}
	if got := m.Count(ZoneMiddle); got != 1 {
		t.Errorf("expected 1 token in middle zone, got %d", got)
	}
	if got := m.Count(ZoneBottom); got != 2 {
		t.Errorf("expected 2 tokens in bottom zone, got %d", got)
	}
}

func TestZoneDetector_TopEdgeDecides(t *testing.T) {
	// The second token's box spans bands; its top edge puts it in the
	// first band.
	toks := []token.Token{
		makeToken(0, "alto", 0, 0, 50, 900),
		makeToken(1, "cruza", 0, 250, 50, 700),
	}

	m := NewZoneDetector().Detect(toks)

	if got := m.Count(ZoneTop); got != 2 {
		t.Errorf("expected both tokens in top zone, got %d", got)
	}
}

func TestZoneDetector_IndexPastLastBand(t *testing.T) {
	// A token whose top edge sits at the page bottom lands one past the
	// last configured band, and the map preserves it.
	toks := []token.Token{
		makeToken(0, "primera", 0, 10, 40, 30),
		makeToken(1, "firma", 0, 900, 60, 900),
	}

	m := NewZoneDetector().Detect(toks)

	if got := m.Count(Zone(3)); got != 1 {
		t.Errorf("expected 1 token in zone 3, got %d", got)
	}
	zones := m.Zones()
	if len(zones) != 2 || zones[0] != ZoneTop || zones[1] != Zone(3) {
		t.Errorf("expected zones [top zone(3)], got %v", zones)
	}
}

func TestZoneDetector_StreamOrderPreserved(t *testing.T) {
	toks := []token.Token{
		makeToken(0, "b", 100, 20, 120, 40),
		makeToken(1, "a", 10, 10, 30, 30),
	}

	m := NewZoneDetector().Detect(toks)

	top := m.Tokens(ZoneTop)
	if len(top) != 2 {
		t.Fatalf("expected 2 tokens in top zone, got %d", len(top))
	}
	if top[0].Text != "b" || top[1].Text != "a" {
		t.Errorf("expected stream order [b a], got [%s %s]", top[0].Text, top[1].Text)
	}
}

func TestZoneDetector_CustomBands(t *testing.T) {
	toks := []token.Token{
		makeToken(0, "x", 0, 0, 10, 10),
		makeToken(1, "y", 0, 55, 10, 100),
	}

	m := NewZoneDetectorWithConfig(ZoneConfig{Bands: 2, DefaultHeight: 1000}).Detect(toks)

	if got := m.Count(ZoneTop); got != 1 {
		t.Errorf("expected 1 token in first band, got %d", got)
	}
	if got := m.Count(Zone(1)); got != 1 {
		t.Errorf("expected 1 token in second band, got %d", got)
	}
}

func TestZone_String(t *testing.T) {
	tests := []struct {
		zone Zone
		want string
	}{
		{ZoneTop, "top"},
		{ZoneMiddle, "middle"},
		{ZoneBottom, "bottom"},
		{Zone(4), "zone(4)"},
	}
	for _, tt := range tests {
		if got := tt.zone.String(); got != tt.want {
			t.Errorf("Zone(%d).String(): expected %q, got %q", int(tt.zone), tt.want, got)
		}
	}
}
