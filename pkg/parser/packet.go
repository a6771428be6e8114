package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Packet Dialect
// =============================================================================

// parsePacket handles `packet-beta` field layouts. Bit-range fields like
// `0-15: "Source Port"` become nodes; the edge operators cover extended
// inputs that chain fields together.
func parsePacket(source string) Result {
	b := newBuilder(ir.DiagramPacketBeta)
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
		span := spanForLine(lineNo, rawLine)
		for _, stmt := range splitStatements(trimmed) {
			parsePacketStatement(b, stmt, lineNo, span)
		}
	}
	return b.finish()
}

func parsePacketStatement(b *builder, stmt string, lineNo int, span ir.Span) {
	if strings.HasPrefix(strings.ToLower(stmt), "title") {
		return
	}

	if m, ok := findOperator(stmt, packetOperators, 0); ok {
		left, right := splitAtOperator(stmt, m)
		srcID := normalizeIdentifier(left)
		tgtID := normalizeIdentifier(right)
		if srcID == "" || tgtID == "" {
			b.warnUnsupported(lineNo, ir.DiagramPacketBeta, stmt)
			return
		}
		src := b.internNode(srcID, "", ir.ShapeRect, span)
		tgt := b.internNode(tgtID, "", ir.ShapeRect, span)
		b.pushEdge(src, tgt, m.Arrow, "", span)
		return
	}

	// `0-15: "Source Port"` declares one field covering a bit range.
	name, ok := nameBeforeColon(stmt)
	if !ok {
		b.warnUnsupported(lineNo, ir.DiagramPacketBeta, stmt)
		return
	}
	id := normalizeIdentifier(name)
	if id == "" {
		b.warnUnsupported(lineNo, ir.DiagramPacketBeta, stmt)
		return
	}
	label := stmt[strings.IndexByte(stmt, ':')+1:]
	b.internNode(id, label, ir.ShapeRect, span)
}
