package parser

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Git Graph Dialect
// =============================================================================

// gitGraphParser tracks which branch is checked out and the tip commit of
// every branch so merges can draw their second parent edge.
type gitGraphParser struct {
	b       *builder
	current string
	tips    map[string]ir.NodeID
	seq     int
}

func parseGitGraph(source string) Result {
	p := &gitGraphParser{
		b:       newBuilder(ir.DiagramGitGraph),
		current: "main",
		tips:    make(map[string]ir.NodeID),
	}
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
		p.parseStatement(trimmed, lineNo, span)
	}
	return p.b.finish()
}

func (p *gitGraphParser) parseStatement(stmt string, lineNo int, span ir.Span) {
	fields := strings.Fields(stmt)
	switch fields[0] {
	case "commit":
		p.commit(commitOptions(stmt), span)
	case "branch":
		if len(fields) < 2 {
			p.b.warnf("Line %d: branch statement has no name", lineNo)
			return
		}
		name := normalizeIdentifier(fields[1])
		// A new branch starts at the tip of the current one.
		p.tips[name] = p.tips[p.current]
		p.current = name
	case "checkout", "switch":
		if len(fields) < 2 {
			p.b.warnf("Line %d: checkout statement has no branch", lineNo)
			return
		}
		p.current = normalizeIdentifier(fields[1])
	case "merge":
		if len(fields) < 2 {
			p.b.warnf("Line %d: merge statement has no branch", lineNo)
			return
		}
		other := normalizeIdentifier(fields[1])
		merged := p.commit(fmt.Sprintf("merge_%s", other), span)
		// The second parent reads as a dotted edge, the first stays solid.
		if tip, ok := p.tips[other]; ok {
			p.b.pushEdge(tip, merged, ir.ArrowDotted, "", span)
		}
	case "cherry-pick":
		// Recorded in history but structurally a plain commit.
		p.commit("", span)
	default:
		p.b.warnUnsupported(lineNo, ir.DiagramGitGraph, stmt)
	}
}

// commit appends a commit node to the current branch and links it to the
// previous tip. An empty id falls back to a sequence number.
func (p *gitGraphParser) commit(id string, span ir.Span) ir.NodeID {
	p.seq++
	if id == "" {
		id = fmt.Sprintf("commit_%d", p.seq)
	}
	nodeID := p.b.internNode(id, "", ir.ShapeCircle, span)
	if tip, ok := p.tips[p.current]; ok && tip != nodeID {
		p.b.pushEdge(tip, nodeID, ir.ArrowNormal, "", span)
	}
	p.tips[p.current] = nodeID
	return nodeID
}

// commitOptions extracts the id from `commit id: "Alpha" tag: "v1"`.
func commitOptions(stmt string) string {
	idx := strings.Index(stmt, "id:")
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(stmt[idx+len("id:"):])
	if fields := strings.Fields(rest); len(fields) > 0 {
		return normalizeIdentifier(fields[0])
	}
	return ""
}
