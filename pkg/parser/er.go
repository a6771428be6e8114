package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Entity-Relationship Dialect
// =============================================================================

func parseEr(source string) Result {
	b := newBuilder(ir.DiagramEr)
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

		if inBlock {
			if trimmed == "}" {
				inBlock = false
				continue
			}
			if attr, ok := parseEntityAttribute(trimmed); ok {
				b.addEntityAttribute(current, attr)
			} else {
				b.warnUnsupported(lineNo, ir.DiagramEr, trimmed)
			}
			continue
		}

		// `CUSTOMER ||--o{ ORDER : places`
		if m, ok := findOperator(trimmed, erOperators, 0); ok {
			left, right := splitAtOperator(trimmed, m)
			label := ""
			if idx := strings.IndexByte(right, ':'); idx >= 0 {
				label = right[idx+1:]
				right = right[:idx]
			}
			srcID := normalizeIdentifier(left)
			tgtID := normalizeIdentifier(right)
			if srcID == "" || tgtID == "" {
				b.warnUnsupported(lineNo, ir.DiagramEr, trimmed)
				continue
			}
			src := b.internNode(srcID, "", ir.ShapeRect, span)
			tgt := b.internNode(tgtID, "", ir.ShapeRect, span)
			b.pushEdge(src, tgt, m.Arrow, label, span)
			continue
		}

		// `CUSTOMER {` opens an attribute block.
		if strings.HasSuffix(trimmed, "{") {
			name := strings.TrimSpace(strings.TrimSuffix(trimmed, "{"))
			id := normalizeIdentifier(name)
			if id == "" {
				b.warnUnsupported(lineNo, ir.DiagramEr, trimmed)
				continue
			}
			current = b.internNode(id, "", ir.ShapeRect, span)
			inBlock = true
			continue
		}

		if id := normalizeIdentifier(trimmed); id != "" {
			b.internNode(id, "", ir.ShapeRect, span)
			continue
		}
		b.warnUnsupported(lineNo, ir.DiagramEr, trimmed)
	}
	return b.finish()
}

// parseEntityAttribute reads `type name PK "comment"` rows.
func parseEntityAttribute(stmt string) (ir.EntityAttribute, bool) {
	comment := ""
	if idx := strings.IndexByte(stmt, '"'); idx >= 0 {
		end := strings.LastIndexByte(stmt, '"')
		if end > idx {
			comment = stmt[idx+1 : end]
			stmt = strings.TrimSpace(stmt[:idx])
		}
	}

	fields := strings.Fields(stmt)
	if len(fields) < 2 {
		return ir.EntityAttribute{}, false
	}
	attr := ir.EntityAttribute{
		DataType: fields[0],
		Name:     fields[1],
		Comment:  comment,
	}
	for _, key := range fields[2:] {
		switch strings.ToUpper(key) {
		case "PK":
			attr.Key = ir.AttributeKeyPrimary
		case "FK":
			attr.Key = ir.AttributeKeyForeign
		case "UK":
			attr.Key = ir.AttributeKeyUnique
		}
	}
	return attr, true
}
