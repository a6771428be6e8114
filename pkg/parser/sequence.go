package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Sequence Dialect
// =============================================================================

// Control-flow keywords that shape a sequence diagram's timeline but add no
// nodes or edges.
var sequenceKeywords = map[string]bool{
	"activate":   true,
	"deactivate": true,
	"autonumber": true,
	"loop":       true,
	"alt":        true,
	"else":       true,
	"opt":        true,
	"par":        true,
	"and":        true,
	"critical":   true,
	"option":     true,
	"break":      true,
	"rect":       true,
	"box":        true,
	"end":        true,
	"note":       true,
	"links":      true,
	"link":       true,
	"title":      true,
}

func parseSequence(source string) Result {
	b := newBuilder(ir.DiagramSequence)
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
			parseSequenceStatement(b, stmt, lineNo, span)
		}
	}
	return b.finish()
}

func parseSequenceStatement(b *builder, stmt string, lineNo int, span ir.Span) {
	fields := strings.Fields(stmt)
	keyword := strings.ToLower(fields[0])

	switch keyword {
	case "participant", "actor":
		declareParticipant(b, strings.TrimSpace(stmt[len(fields[0]):]), span)
		return
	}
	if sequenceKeywords[keyword] {
		return
	}

	m, ok := findOperator(stmt, sequenceOperators, 0)
	if !ok {
		b.warnUnsupported(lineNo, ir.DiagramSequence, stmt)
		return
	}

	left, right := splitAtOperator(stmt, m)
	srcID := normalizeIdentifier(left)
	if srcID == "" {
		b.warnUnsupported(lineNo, ir.DiagramSequence, stmt)
		return
	}

	// `A->>B: message` puts the target before the colon and the message
	// text after it. Activation markers (+/-) on the target are dropped by
	// identifier normalization.
	targetPart := right
	label := ""
	if idx := strings.IndexByte(right, ':'); idx >= 0 {
		targetPart = right[:idx]
		label = right[idx+1:]
	}
	tgtID := normalizeIdentifier(targetPart)
	if tgtID == "" {
		b.warnf("Line %d: message has no target participant", lineNo)
		return
	}

	src := b.internNode(srcID, "", ir.ShapeRect, span)
	tgt := b.internNode(tgtID, "", ir.ShapeRect, span)
	b.pushEdge(src, tgt, m.Arrow, label, span)
}

// declareParticipant handles `participant A as Alice` and the alias-free
// form. The alias text becomes the node label.
func declareParticipant(b *builder, rest string, span ir.Span) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return
	}
	if idx := strings.Index(rest, " as "); idx >= 0 {
		id := normalizeIdentifier(rest[:idx])
		if id == "" {
			return
		}
		b.internNode(id, rest[idx+len(" as "):], ir.ShapeRect, span)
		return
	}
	id := normalizeIdentifier(rest)
	if id == "" {
		return
	}
	label := ""
	if cleaned := cleanLabel(rest); cleaned != id {
		label = cleaned
	}
	b.internNode(id, label, ir.ShapeRect, span)
}
