package parser

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// State Dialect
// =============================================================================

// stateParser tracks composite-state nesting. Composite states become
// clusters; their inner states join every open cluster.
type stateParser struct {
	b     *builder
	stack []int
}

func parseState(source string) Result {
	p := &stateParser{b: newBuilder(ir.DiagramState)}
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
			p.parseStatement(stmt, lineNo, span)
		}
	}

	if len(p.stack) > 0 {
		p.b.warnf("%d composite state(s) were not closed with '}'", len(p.stack))
	}
	return p.b.finish()
}

func (p *stateParser) parseStatement(stmt string, lineNo int, span ir.Span) {
	switch {
	case stmt == "}":
		if len(p.stack) == 0 {
			p.b.warnf("Line %d: '}' without matching composite state", lineNo)
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
		return
	case stmt == "--":
		// Concurrency separator inside a composite state.
		return
	case strings.HasPrefix(stmt, "note"):
		return
	case strings.HasPrefix(stmt, "direction "):
		if dir, ok := ir.ParseDirection(strings.TrimSpace(stmt[len("direction "):])); ok && len(p.stack) == 0 {
			p.b.setDirection(dir)
		}
		return
	case strings.HasPrefix(stmt, "state "):
		p.parseStateDecl(strings.TrimSpace(stmt[len("state "):]), lineNo, span)
		return
	}

	if m, ok := findOperator(stmt, stateOperators, 0); ok {
		left, right := splitAtOperator(stmt, m)
		label := ""
		if idx := strings.IndexByte(right, ':'); idx >= 0 {
			label = right[idx+1:]
			right = right[:idx]
		}
		srcTok, okSrc := parseNodeToken(left)
		tgtTok, okTgt := parseNodeToken(right)
		if !okSrc || !okTgt {
			p.b.warnUnsupported(lineNo, ir.DiagramState, stmt)
			return
		}
		src := p.intern(srcTok, span)
		tgt := p.intern(tgtTok, span)
		p.b.pushEdge(src, tgt, m.Arrow, label, span)
		return
	}

	// `s1 : description` labels a state in place.
	if name, ok := nameBeforeColon(stmt); ok {
		if tok, okTok := parseNodeToken(name); okTok {
			tok.Label = stmt[strings.IndexByte(stmt, ':')+1:]
			p.intern(tok, span)
			return
		}
	}

	if tok, ok := parseNodeToken(stmt); ok {
		p.intern(tok, span)
		return
	}
	p.b.warnUnsupported(lineNo, ir.DiagramState, stmt)
}

// parseStateDecl handles `state "Desc" as s1` and `state Composite {`.
func (p *stateParser) parseStateDecl(rest string, lineNo int, span ir.Span) {
	if idx := strings.Index(rest, " as "); idx >= 0 {
		label := rest[:idx]
		id := normalizeIdentifier(rest[idx+len(" as "):])
		if id == "" {
			p.b.warnf("Line %d: state alias has no identifier", lineNo)
			return
		}
		tok := nodeToken{ID: id, Label: label, Shape: ir.ShapeRect}
		p.intern(tok, span)
		return
	}

	if strings.HasSuffix(rest, "{") {
		name := strings.TrimSpace(strings.TrimSuffix(rest, "{"))
		key := normalizeIdentifier(name)
		if key == "" {
			key = fmt.Sprintf("cluster_anon_line_%d", lineNo)
		}
		idx := p.b.ensureCluster(key, name, span)
		p.stack = append(p.stack, idx)
		return
	}

	if tok, ok := parseNodeToken(rest); ok {
		p.intern(tok, span)
		return
	}
	p.b.warnf("Line %d: state declaration has no identifier", lineNo)
}

func (p *stateParser) intern(tok nodeToken, span ir.Span) ir.NodeID {
	nodeID := p.b.internNode(tok.ID, tok.Label, tok.Shape, span)
	for _, class := range tok.Classes {
		p.b.addClassToNode(nodeID, class)
	}
	for _, idx := range p.stack {
		p.b.addNodeToCluster(idx, nodeID)
	}
	return nodeID
}
