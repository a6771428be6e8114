package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Pie and Quadrant Dialects
// =============================================================================

// parsePie reads `"Label" : value` slices as nodes. Values only matter for
// rendering, so the structural IR keeps the labels.
func parsePie(source string) Result {
	b := newBuilder(ir.DiagramPie)
	headerSeen := false

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
		if strings.HasPrefix(strings.ToLower(trimmed), "title") ||
			strings.EqualFold(trimmed, "showdata") {
			continue
		}
		span := spanForLine(lineNo, rawLine)

		name, ok := nameBeforeColon(trimmed)
		if !ok {
			b.warnUnsupported(lineNo, ir.DiagramPie, trimmed)
			continue
		}
		id := normalizeIdentifier(name)
		if id == "" {
			b.warnUnsupported(lineNo, ir.DiagramPie, trimmed)
			continue
		}
		b.internNode(id, name, ir.ShapeRect, span)
	}
	return b.finish()
}

// Quadrant chart configuration keywords.
var quadrantKeywords = []string{
	"title", "x-axis", "y-axis", "quadrant-1", "quadrant-2", "quadrant-3", "quadrant-4",
}

// parseQuadrant reads `Point: [x, y]` entries as nodes.
func parseQuadrant(source string) Result {
	b := newBuilder(ir.DiagramQuadrantChart)
	headerSeen := false

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
		if hasAnyPrefixFold(trimmed, quadrantKeywords) {
			continue
		}
		span := spanForLine(lineNo, rawLine)

		name, ok := nameBeforeColon(trimmed)
		if !ok {
			b.warnUnsupported(lineNo, ir.DiagramQuadrantChart, trimmed)
			continue
		}
		id := normalizeIdentifier(name)
		if id == "" {
			b.warnUnsupported(lineNo, ir.DiagramQuadrantChart, trimmed)
			continue
		}
		b.internNode(id, name, ir.ShapeRect, span)
	}
	return b.finish()
}

func hasAnyPrefixFold(s string, prefixes []string) bool {
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
