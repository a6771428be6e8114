package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Class Dialect
// =============================================================================

func parseClass(source string) Result {
	b := newBuilder(ir.DiagramClass)
	headerSeen := false
	inBlock := false
	var current ir.NodeID

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
			if inBlock {
				if stmt == "}" {
					inBlock = false
					continue
				}
				b.addEntityAttribute(current, ir.EntityAttribute{Name: strings.TrimSpace(stmt)})
				continue
			}
			current, inBlock = parseClassStatement(b, stmt, lineNo, span)
		}
	}
	return b.finish()
}

// parseClassStatement handles one statement outside a member block. It
// returns the node a following block belongs to and whether a block opened.
func parseClassStatement(b *builder, stmt string, lineNo int, span ir.Span) (ir.NodeID, bool) {
	if strings.HasPrefix(stmt, "class ") {
		rest := strings.TrimSpace(stmt[len("class "):])
		opensBlock := strings.HasSuffix(rest, "{")
		if opensBlock {
			rest = strings.TrimSpace(strings.TrimSuffix(rest, "{"))
		}
		id := normalizeIdentifier(rest)
		if id == "" {
			b.warnUnsupported(lineNo, ir.DiagramClass, stmt)
			return 0, false
		}
		nodeID := b.internNode(id, "", ir.ShapeRect, span)
		return nodeID, opensBlock
	}

	if m, ok := findOperator(stmt, classOperators, 0); ok {
		left, right := splitAtOperator(stmt, m)
		label := ""
		if idx := strings.IndexByte(right, ':'); idx >= 0 {
			label = right[idx+1:]
			right = right[:idx]
		}
		srcID := normalizeIdentifier(left)
		tgtID := normalizeIdentifier(right)
		if srcID == "" || tgtID == "" {
			b.warnUnsupported(lineNo, ir.DiagramClass, stmt)
			return 0, false
		}
		src := b.internNode(srcID, "", ir.ShapeRect, span)
		tgt := b.internNode(tgtID, "", ir.ShapeRect, span)
		b.pushEdge(src, tgt, m.Arrow, label, span)
		return 0, false
	}

	// `ClassName : +member()` attaches one member without a block.
	if name, ok := nameBeforeColon(stmt); ok {
		id := normalizeIdentifier(name)
		if id != "" {
			nodeID := b.internNode(id, "", ir.ShapeRect, span)
			member := strings.TrimSpace(stmt[strings.IndexByte(stmt, ':')+1:])
			if member != "" {
				b.addEntityAttribute(nodeID, ir.EntityAttribute{Name: member})
			}
			return 0, false
		}
	}

	b.warnUnsupported(lineNo, ir.DiagramClass, stmt)
	return 0, false
}
