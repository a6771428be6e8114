package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Requirement Dialect
// =============================================================================

// Block kinds that declare a requirement or design element.
var requirementBlockKinds = map[string]bool{
	"requirement":            true,
	"functionalrequirement":  true,
	"interfacerequirement":   true,
	"performancerequirement": true,
	"physicalrequirement":    true,
	"designconstraint":       true,
	"element":                true,
}

func parseRequirement(source string) Result {
	b := newBuilder(ir.DiagramRequirement)
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
			// `text: the test text.` becomes the node label; other
			// properties (id, risk, verifymethod, type) become members.
			if name, ok := nameBeforeColon(trimmed); ok {
				value := strings.TrimSpace(trimmed[strings.IndexByte(trimmed, ':')+1:])
				if strings.EqualFold(name, "text") {
					node := &b.d.Nodes[current]
					if node.Label == nil {
						node.Label = b.internLabel(value, span)
					}
				} else {
					b.addEntityAttribute(current, ir.EntityAttribute{Name: name, Comment: value})
				}
				continue
			}
			b.warnUnsupported(lineNo, ir.DiagramRequirement, trimmed)
			continue
		}

		fields := strings.Fields(trimmed)
		if requirementBlockKinds[strings.ToLower(fields[0])] && strings.HasSuffix(trimmed, "{") {
			name := strings.TrimSpace(strings.TrimSuffix(trimmed[len(fields[0]):], "{"))
			id := normalizeIdentifier(name)
			if id == "" {
				b.warnUnsupported(lineNo, ir.DiagramRequirement, trimmed)
				continue
			}
			current = b.internNode(id, "", ir.ShapeRect, span)
			inBlock = true
			continue
		}

		if parseRequirementRelation(b, trimmed, span) {
			continue
		}
		b.warnUnsupported(lineNo, ir.DiagramRequirement, trimmed)
	}
	return b.finish()
}

// parseRequirementRelation reads `source - relation -> target`, keeping the
// relation verb as the edge label. Endpoints that no block declared are
// auto-created as placeholders and reported at finish time.
func parseRequirementRelation(b *builder, stmt string, span ir.Span) bool {
	arrowIdx := strings.Index(stmt, "->")
	if arrowIdx < 0 {
		return false
	}
	dashIdx := strings.Index(stmt, " - ")
	if dashIdx < 0 || dashIdx >= arrowIdx {
		return false
	}

	srcID := normalizeIdentifier(stmt[:dashIdx])
	relation := strings.TrimSpace(stmt[dashIdx+3 : arrowIdx])
	tgtID := normalizeIdentifier(stmt[arrowIdx+2:])
	if srcID == "" || tgtID == "" {
		return false
	}

	src := b.internImplicitNode(srcID, span)
	tgt := b.internImplicitNode(tgtID, span)
	b.pushEdge(src, tgt, ir.ArrowNormal, relation, span)
	return true
}
