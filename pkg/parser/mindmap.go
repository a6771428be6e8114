package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Mindmap Dialect
// =============================================================================

// mindmapFrame is one open ancestor on the indentation stack.
type mindmapFrame struct {
	indent int
	node   ir.NodeID
}

// parseMindmap builds a tree from indentation. Each line's parent is the
// nearest line above with strictly smaller indentation; children hang off
// their parent with plain line edges.
func parseMindmap(source string) Result {
	b := newBuilder(ir.DiagramMindmap)
	headerSeen := false
	var stack []mindmapFrame

	for i, rawLine := range strings.Split(source, "\n") {
		lineNo := i + 1
		line := stripInlineComment(rawLine)
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		if strings.HasPrefix(trimmed, "::icon") || strings.HasPrefix(trimmed, ":::") {
			continue
		}
		span := spanForLine(lineNo, rawLine)

		indent := indentWidth(line)
		tok, ok := parseMindmapNodeToken(trimmed)
		if !ok {
			b.warnUnsupported(lineNo, ir.DiagramMindmap, trimmed)
			continue
		}
		nodeID := b.internNode(tok.ID, tok.Label, tok.Shape, span)

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			b.pushEdge(stack[len(stack)-1].node, nodeID, ir.ArrowLine, "", span)
		}
		stack = append(stack, mindmapFrame{indent: indent, node: nodeID})
	}
	return b.finish()
}

// indentWidth counts leading whitespace, a tab weighing two columns.
func indentWidth(line string) int {
	width := 0
	for _, ch := range line {
		switch ch {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width
		}
	}
	return width
}

// mindmapDelimiters covers the bracket pairs mindmap shares with flowchart.
// Mindmap reads `((x))` as a plain circle, not a double circle.
var mindmapDelimiters = []shapeDelimiter{
	{"((", "))", ir.ShapeCircle},
	{"{{", "}}", ir.ShapeHexagon},
	{"(", ")", ir.ShapeRounded},
	{"[", "]", ir.ShapeRect},
}

// parseMindmapNodeToken decodes one mindmap node. On top of the shared
// bracket pairs, mindmap has its own bang `id))text((` and cloud `id)text(`
// forms.
func parseMindmapNodeToken(raw string) (nodeToken, bool) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return nodeToken{}, false
	}
	token, classes := splitClassSuffix(token)
	if token == "" {
		return nodeToken{}, false
	}

	if tok, ok := parseMindmapBang(token); ok {
		tok.Classes = classes
		return tok, true
	}
	if tok, ok := parseMindmapCloud(token); ok {
		tok.Classes = classes
		return tok, true
	}
	for _, d := range mindmapDelimiters {
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

// parseMindmapBang matches `id))text((`.
func parseMindmapBang(token string) (nodeToken, bool) {
	start := strings.Index(token, "))")
	if start < 0 || !strings.HasSuffix(token, "((") || start+2 > len(token)-2 {
		return nodeToken{}, false
	}
	inner := token[start+2 : len(token)-2]
	id := normalizeIdentifier(token[:start])
	if id == "" {
		id = normalizeIdentifier(inner)
	}
	if id == "" {
		return nodeToken{}, false
	}
	return nodeToken{ID: id, Label: cleanLabel(inner), Shape: ir.ShapeAsymmetric}, true
}

// parseMindmapCloud matches `id)text(`, letting the bang and circle forms
// through to their own rules.
func parseMindmapCloud(token string) (nodeToken, bool) {
	start := strings.Index(token, ")")
	if start < 0 || !strings.HasSuffix(token, "(") || start+1 > len(token)-1 {
		return nodeToken{}, false
	}
	if strings.HasPrefix(token[start:], "))") || strings.HasSuffix(token, "((") {
		return nodeToken{}, false
	}
	inner := token[start+1 : len(token)-1]
	id := normalizeIdentifier(token[:start])
	if id == "" {
		id = normalizeIdentifier(inner)
	}
	if id == "" {
		return nodeToken{}, false
	}
	return nodeToken{ID: id, Label: cleanLabel(inner), Shape: ir.ShapeCloud}, true
}
