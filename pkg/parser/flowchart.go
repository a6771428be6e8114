package parser

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Flowchart Dialect
// =============================================================================

// flowchartParser carries the cluster stack across lines. Nodes mentioned
// while subgraphs are open become members of every open subgraph.
type flowchartParser struct {
	b     *builder
	stack []int
}

// parseFlowchart handles `flowchart` and legacy `graph` headers.
func parseFlowchart(source string) Result {
	p := &flowchartParser{b: newBuilder(ir.DiagramFlowchart)}
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
			fields := strings.Fields(trimmed)
			if len(fields) > 1 {
				if dir, ok := ir.ParseDirection(fields[1]); ok {
					p.b.setDirection(dir)
				}
			}
			continue
		}
		span := spanForLine(lineNo, rawLine)
		for _, stmt := range splitStatements(trimmed) {
			p.parseStatement(stmt, lineNo, span)
		}
	}

	if len(p.stack) > 0 {
		p.b.warnf("%d subgraph(s) were not closed with 'end'", len(p.stack))
	}
	return p.b.finish()
}

func (p *flowchartParser) parseStatement(stmt string, lineNo int, span ir.Span) {
	switch {
	case strings.HasPrefix(stmt, "subgraph"):
		p.openSubgraph(strings.TrimSpace(stmt[len("subgraph"):]), lineNo, span)
		return
	case stmt == "end":
		if len(p.stack) == 0 {
			p.b.warnf("Line %d: 'end' without matching subgraph", lineNo)
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
		return
	}

	fields := strings.Fields(stmt)
	switch fields[0] {
	case "direction":
		if len(fields) > 1 {
			if dir, ok := ir.ParseDirection(fields[1]); ok && len(p.stack) == 0 {
				p.b.setDirection(dir)
			}
		}
		return
	case "classDef", "style", "linkStyle", "click":
		// Styling and interactivity statements carry no structure.
		return
	case "class":
		p.applyClassStatement(fields, span)
		return
	}

	if p.parseEdgeStatement(stmt, lineNo, span) {
		return
	}

	if tok, ok := parseNodeToken(stmt); ok {
		p.internToken(tok, span)
		return
	}
	p.b.warnUnsupported(lineNo, ir.DiagramFlowchart, stmt)
}

// openSubgraph pushes a new cluster. Headers come in three forms: bare
// (anonymous), `Title only`, and `id [Title]`.
func (p *flowchartParser) openSubgraph(header string, lineNo int, span ir.Span) {
	key := ""
	title := ""

	switch {
	case header == "":
		key = fmt.Sprintf("cluster_anon_line_%d", lineNo)
	case strings.Contains(header, "[") && strings.HasSuffix(header, "]"):
		idx := strings.Index(header, "[")
		key = normalizeIdentifier(header[:idx])
		title = header[idx+1 : len(header)-1]
	default:
		key = normalizeIdentifier(header)
		title = header
	}
	if key == "" {
		key = fmt.Sprintf("cluster_anon_line_%d", lineNo)
	}

	idx := p.b.ensureCluster(key, title, span)
	p.stack = append(p.stack, idx)
}

// applyClassStatement handles `class A,B className`.
func (p *flowchartParser) applyClassStatement(fields []string, span ir.Span) {
	if len(fields) < 3 {
		return
	}
	class := fields[len(fields)-1]
	for _, ref := range strings.Split(strings.Join(fields[1:len(fields)-1], ""), ",") {
		id := normalizeIdentifier(ref)
		if id == "" {
			continue
		}
		nodeID := p.b.internNode(id, "", ir.ShapeRect, span)
		p.b.addClassToNode(nodeID, class)
	}
}

// parseEdgeStatement consumes `A --> B -->|label| C` chains. Returns false
// when the statement holds no edge operator or no usable source token, so
// the caller can try the remaining statement forms.
func (p *flowchartParser) parseEdgeStatement(stmt string, lineNo int, span ir.Span) bool {
	m, ok := findOperator(stmt, flowchartOperators, 0)
	if !ok {
		return false
	}
	left, rest := splitAtOperator(stmt, m)
	srcTok, ok := parseNodeToken(left)
	if !ok {
		return false
	}

	src := p.internToken(srcTok, span)
	arrow := m.Arrow
	for {
		label, _, rem := extractPipeLabel(rest)
		next, found := findOperator(rem, flowchartOperators, 0)
		targetText := rem
		if found {
			targetText, rest = splitAtOperator(rem, next)
		}
		tgtTok, ok := parseNodeToken(targetText)
		if !ok {
			p.b.warnf("Line %d: edge is missing a target node", lineNo)
			return true
		}
		tgt := p.internToken(tgtTok, span)
		p.b.pushEdge(src, tgt, arrow, label, span)
		if !found {
			return true
		}
		src = tgt
		arrow = next.Arrow
	}
}

// internToken interns a parsed node token and records cluster membership for
// every open subgraph.
func (p *flowchartParser) internToken(tok nodeToken, span ir.Span) ir.NodeID {
	nodeID := p.b.internNode(tok.ID, tok.Label, tok.Shape, span)
	for _, class := range tok.Classes {
		p.b.addClassToNode(nodeID, class)
	}
	for _, idx := range p.stack {
		p.b.addNodeToCluster(idx, nodeID)
	}
	return nodeID
}
