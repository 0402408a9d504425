package layout

import (
	"regexp"
	"sort"
	"strings"

	"github.com/solera/factura/token"
)

// Line is a group of tokens sharing a visual row.
type Line struct {
	// Key is the integer vertical midpoint shared by the members.
	Key int

	// Tokens are the members, sorted left to right.
	Tokens []token.Token
}

// Text assembles the line's text left to right, space separated.
func (l Line) Text() string {
	var sb strings.Builder
	for i, t := range l.Tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Pair is a label/value candidate: two horizontally adjacent tokens on
// one line where the left one looks like a label.
type Pair struct {
	Key   token.Token
	Value token.Token
}

// LineLayout is the row-grouped view of a token stream.
type LineLayout struct {
	// Lines are the visual rows, top to bottom.
	Lines []Line

	// Pairs are the label/value candidates found on the lines. They are
	// advisory: extractors never depend on them as a sole source, so an
	// external layout model can replace this signal wholesale.
	Pairs []Pair
}

// LineCount returns the number of detected rows.
func (l *LineLayout) LineCount() int {
	if l == nil {
		return 0
	}
	return len(l.Lines)
}

// Text returns the row texts joined by newlines, top to bottom.
func (l *LineLayout) Text() string {
	if l == nil || len(l.Lines) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, line := range l.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line.Text())
	}
	return sb.String()
}

// LineConfig holds configuration for line grouping.
type LineConfig struct {
	// LabelKeywords mark a token as a label even without trailing
	// punctuation. Compared folded, by exact equality.
	LabelKeywords []string
}

// DefaultLineConfig uses the default vocabulary's keywords as labels.
func DefaultLineConfig() LineConfig {
	return LineConfig{LabelKeywords: DefaultVocabulary().All()}
}

// labelTailRe marks label-like tokens: text ending in a colon or period.
var labelTailRe = regexp.MustCompile(`[:.]$`)

// LineGrouper groups tokens into visual rows and derives label/value
// candidates from adjacency.
type LineGrouper struct {
	labels map[string]bool
}

// NewLineGrouper creates a grouper with default configuration.
func NewLineGrouper() *LineGrouper {
	return NewLineGrouperWithConfig(DefaultLineConfig())
}

// NewLineGrouperWithConfig creates a grouper with custom configuration.
func NewLineGrouperWithConfig(config LineConfig) *LineGrouper {
	labels := make(map[string]bool, len(config.LabelKeywords))
	for _, kw := range config.LabelKeywords {
		labels[token.Fold(kw)] = true
	}
	return &LineGrouper{labels: labels}
}

// Detect groups toks into rows keyed by each box's integer vertical
// midpoint, sorts each row left to right, and emits a label/value pair
// for every adjacent pair whose left token looks like a label.
func (g *LineGrouper) Detect(toks []token.Token) *LineLayout {
	byKey := make(map[int][]token.Token)
	for _, t := range toks {
		key := t.Box.MidY()
		byKey[key] = append(byKey[key], t)
	}

	keys := make([]int, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	lines := make([]Line, 0, len(keys))
	for _, k := range keys {
		members := byKey[k]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Box.X0 < members[j].Box.X0
		})
		lines = append(lines, Line{Key: k, Tokens: members})
	}

	return &LineLayout{
		Lines: lines,
		Pairs: g.pairCandidates(lines),
	}
}

// pairCandidates walks each row and emits a candidate for every adjacent
// pair whose left token ends in label punctuation or equals a known
// label keyword.
func (g *LineGrouper) pairCandidates(lines []Line) []Pair {
	var pairs []Pair
	for _, line := range lines {
		for i := 0; i+1 < len(line.Tokens); i++ {
			left := line.Tokens[i]
			if labelTailRe.MatchString(left.Text) || g.labels[token.Fold(left.Text)] {
				pairs = append(pairs, Pair{Key: left, Value: line.Tokens[i+1]})
			}
		}
	}
	return pairs
}
