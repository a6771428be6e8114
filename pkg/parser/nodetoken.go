package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Node Token Grammar
// =============================================================================

// nodeToken is one parsed node mention from a flowchart or state statement,
// e.g. `B{Decision}:::warn`.
type nodeToken struct {
	ID      string
	Label   string
	Shape   ir.NodeShape
	Classes []string
}

// stateStartEndID is the interned id for the `[*]` pseudo state.
const stateStartEndID = "__state_start_end"

// shapeDelimiter is one bracket pair in the flowchart shape grammar.
type shapeDelimiter struct {
	Open  string
	Close string
	Shape ir.NodeShape
}

// Longer delimiters first so `((x))` is a double circle before `(x)` is a
// rounded box, and the slash variants win over the plain square bracket.
var shapeDelimiters = []shapeDelimiter{
	{"((", "))", ir.ShapeDoubleCircle},
	{"[(", ")]", ir.ShapeCylinder},
	{"[[", "]]", ir.ShapeSubroutine},
	{"([", "])", ir.ShapeStadium},
	{"{{", "}}", ir.ShapeHexagon},
	{"[/", "/]", ir.ShapeParallelogram},
	{`[\`, `\]`, ir.ShapeInvParallelogram},
	{"[/", `\]`, ir.ShapeTrapezoid},
	{`[\`, "/]", ir.ShapeInvTrapezoid},
	{"[", "]", ir.ShapeRect},
	{">", "]", ir.ShapeAsymmetric},
	{"(", ")", ir.ShapeRounded},
	{"{", "}", ir.ShapeDiamond},
}

// parseNodeToken decodes one node mention. It never fails outright for
// non-empty input; tokens that resist every bracket rule fall back to a bare
// rectangle. Returns false only when normalization yields no usable id.
func parseNodeToken(raw string) (nodeToken, bool) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return nodeToken{}, false
	}

	// `[*]` is the state dialect's shared start/end marker.
	if token == "[*]" {
		return nodeToken{ID: stateStartEndID, Label: "*", Shape: ir.ShapeCircle}, true
	}

	token, classes := splitClassSuffix(token)
	if token == "" {
		return nodeToken{}, false
	}

	for _, d := range shapeDelimiters {
		if tok, ok := parseWrapped(token, d); ok {
			tok.Classes = classes
			return tok, true
		}
	}

	id := normalizeIdentifier(token)
	if id == "" {
		return nodeToken{}, false
	}
	label := ""
	if cleaned := cleanLabel(token); cleaned != id {
		label = cleaned
	}
	return nodeToken{ID: id, Label: label, Shape: ir.ShapeRect, Classes: classes}, true
}

// splitClassSuffix peels `:::class` suffixes off a node token.
func splitClassSuffix(token string) (string, []string) {
	parts := strings.Split(token, ":::")
	if len(parts) == 1 {
		return token, nil
	}
	var classes []string
	for _, part := range parts[1:] {
		if class := strings.TrimSpace(part); class != "" {
			classes = append(classes, class)
		}
	}
	return strings.TrimSpace(parts[0]), classes
}

// parseWrapped tries one delimiter pair against `prefix OPEN inner CLOSE`.
// The id comes from the prefix; a shape with no prefix (pure label) derives
// its id from the inner text instead.
func parseWrapped(token string, d shapeDelimiter) (nodeToken, bool) {
	if !strings.HasSuffix(token, d.Close) {
		return nodeToken{}, false
	}
	openIdx := strings.Index(token, d.Open)
	if openIdx < 0 {
		return nodeToken{}, false
	}
	innerEnd := len(token) - len(d.Close)
	innerStart := openIdx + len(d.Open)
	if innerStart > innerEnd {
		return nodeToken{}, false
	}

	prefix := token[:openIdx]
	inner := token[innerStart:innerEnd]

	id := normalizeIdentifier(prefix)
	if id == "" {
		id = normalizeIdentifier(inner)
	}
	if id == "" {
		return nodeToken{}, false
	}
	return nodeToken{ID: id, Label: cleanLabel(inner), Shape: d.Shape}, true
}
