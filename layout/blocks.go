package layout

import (
	"strings"

	"github.com/solera/factura/token"
)

// Category identifies the functional role of a region of an invoice.
type Category int

const (
	// CategoryHeader covers invoice identity: number, date, issue marks.
	CategoryHeader Category = iota
	// CategoryClient covers the billed party: name, tax ID, address.
	CategoryClient
	// CategoryDetail covers the line-item table.
	CategoryDetail
	// CategoryTotals covers bases, taxes and the invoice total.
	CategoryTotals
	// CategoryFooter covers payment terms and closing remarks.
	CategoryFooter
)

// String returns a readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryHeader:
		return "header"
	case CategoryClient:
		return "client"
	case CategoryDetail:
		return "detail"
	case CategoryTotals:
		return "totals"
	case CategoryFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// Vocabulary maps categories to their trigger keywords. Order fixes claim
// priority: the first category whose keyword matches a token claims it,
// and later categories never see it. Keywords are compared folded
// (uppercase, diacritics stripped) by substring containment.
type Vocabulary struct {
	Order    []Category
	Keywords map[Category][]string
}

// DefaultVocabulary returns the Spanish invoice vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Order: []Category{
			CategoryHeader,
			CategoryClient,
			CategoryDetail,
			CategoryTotals,
			CategoryFooter,
		},
		Keywords: map[Category][]string{
			CategoryHeader: {"FACTURA", "FECHA", "NÚMERO", "N°", "EMISIÓN"},
			CategoryClient: {"CLIENTE", "N.I.F", "NIF", "N.L.F", "DIRECCIÓN", "DOMICILIO"},
			CategoryDetail: {"CONCEPTO", "DESCRIPCIÓN", "DESCRIPCION", "CANTIDAD", "PRECIO",
				"CARGOS", "ABONOS", "__DESCRIPCION"},
			CategoryTotals: {"TOTAL", "SUBTOTAL", "BASE", "I.V.A", "IVA", "IMPORTE", "LIQUIDO"},
			CategoryFooter: {"FORMA", "PAGO", "VENCIMIENTO", "OBSERVACIONES"},
		},
	}
}

// All returns every keyword across categories, in priority order. The
// line grouper uses this as its default label list.
func (v Vocabulary) All() []string {
	var all []string
	for _, c := range v.Order {
		all = append(all, v.Keywords[c]...)
	}
	return all
}

// BlockMap is the classified view of a token stream.
type BlockMap struct {
	blocks map[Category][]token.Token
}

// Tokens returns the tokens claimed by c, in stream order (inferred
// detail tokens follow the keyword hits).
func (m *BlockMap) Tokens(c Category) []token.Token {
	if m == nil {
		return nil
	}
	return m.blocks[c]
}

// Count returns the number of tokens claimed by c.
func (m *BlockMap) Count(c Category) int {
	if m == nil {
		return 0
	}
	return len(m.blocks[c])
}

// Span returns the vertical extent of the block: the minimum top edge and
// maximum bottom edge over its tokens. ok is false for an empty block.
func (m *BlockMap) Span(c Category) (top, bottom int, ok bool) {
	toks := m.Tokens(c)
	if len(toks) == 0 {
		return 0, 0, false
	}
	top, bottom = toks[0].Box.Y0, toks[0].Box.Y1
	for _, t := range toks[1:] {
		if t.Box.Y0 < top {
			top = t.Box.Y0
		}
		if t.Box.Y1 > bottom {
			bottom = t.Box.Y1
		}
	}
	return top, bottom, true
}

// BlockClassifier assigns tokens to functional categories by keyword,
// then widens the detail block by position.
type BlockClassifier struct {
	order  []Category
	folded map[Category][]string
}

// NewBlockClassifier creates a classifier with the default vocabulary.
func NewBlockClassifier() *BlockClassifier {
	return NewBlockClassifierWithConfig(DefaultVocabulary())
}

// NewBlockClassifierWithConfig creates a classifier with a custom
// vocabulary. Keywords are folded once here.
func NewBlockClassifierWithConfig(vocab Vocabulary) *BlockClassifier {
	folded := make(map[Category][]string, len(vocab.Keywords))
	for c, kws := range vocab.Keywords {
		fs := make([]string, len(kws))
		for i, kw := range kws {
			fs[i] = token.Fold(kw)
		}
		folded[c] = fs
	}
	order := make([]Category, len(vocab.Order))
	copy(order, vocab.Order)
	return &BlockClassifier{order: order, folded: folded}
}

// Detect classifies the stream. Each token goes to the first category in
// priority order with a keyword contained in the token's folded text.
// Afterwards, unclaimed tokens whose top edge falls inside the detail
// block's vertical span join the detail block: detail rows rarely repeat
// the table-header keywords, but they do share its region.
func (d *BlockClassifier) Detect(toks []token.Token) *BlockMap {
	blocks := make(map[Category][]token.Token, len(d.order))
	claimed := make(map[int]bool, len(toks))

	for _, t := range toks {
		folded := token.Fold(t.Text)
		for _, c := range d.order {
			if !containsAny(folded, d.folded[c]) {
				continue
			}
			blocks[c] = append(blocks[c], t)
			claimed[t.ID] = true
			break
		}
	}

	detail := blocks[CategoryDetail]
	if len(detail) > 0 {
		minTop, maxBottom := detail[0].Box.Y0, detail[0].Box.Y1
		for _, t := range detail[1:] {
			if t.Box.Y0 < minTop {
				minTop = t.Box.Y0
			}
			if t.Box.Y1 > maxBottom {
				maxBottom = t.Box.Y1
			}
		}
		for _, t := range toks {
			if claimed[t.ID] {
				continue
			}
			if t.Box.Y0 >= minTop && t.Box.Y0 <= maxBottom {
				blocks[CategoryDetail] = append(blocks[CategoryDetail], t)
				claimed[t.ID] = true
			}
		}
	}

	return &BlockMap{blocks: blocks}
}

// containsAny reports whether s contains any of the needles.
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
