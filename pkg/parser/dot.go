package parser

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// DOT Dialect
// =============================================================================

// looksLikeDOT sniffs Graphviz input: a graph/digraph header on the first
// significant line plus a brace-delimited body.
func looksLikeDOT(source string) bool {
	header, ok := firstSignificantLine(source)
	if !ok {
		return false
	}
	lower := strings.ToLower(header)
	headed := strings.HasPrefix(lower, "graph ") ||
		strings.HasPrefix(lower, "digraph ") ||
		strings.HasPrefix(lower, "strict graph ") ||
		strings.HasPrefix(lower, "strict digraph ") ||
		lower == "graph" || lower == "digraph"
	return headed && strings.Contains(source, "{") && strings.Contains(source, "}")
}

// dotScope is one open subgraph with its unbalanced brace count. Plain
// braces inside a subgraph nest into the same scope.
type dotScope struct {
	cluster int
	opens   int
}

// dotParser consumes the token stream the scanner emits.
type dotParser struct {
	b          *builder
	directed   bool
	stack      []dotScope
	pending    string
	pendingSub bool
	line       int
}

// parseDOT reads Graphviz syntax into flowchart-typed IR. Directedness comes
// from the header keyword or, failing that, from any `->` in the body.
func parseDOT(source string) Result {
	p := &dotParser{
		b:        newBuilder(ir.DiagramFlowchart),
		directed: dotIsDirected(source),
	}
	p.scan(source)
	if len(p.stack) > 0 {
		p.b.warnf("%d subgraph(s) were not closed with '}'", len(p.stack))
	}
	return p.b.finish()
}

func dotIsDirected(source string) bool {
	if header, ok := firstSignificantLine(source); ok {
		if strings.Contains(strings.ToLower(header), "digraph") {
			return true
		}
	}
	return strings.Contains(source, "->")
}

// scan splits the source into statements on `;`, newlines, and braces,
// honoring quotes, backslash escapes, and attribute brackets. Braces arrive
// as their own events so subgraph scoping can track them.
func (p *dotParser) scan(source string) {
	var current strings.Builder
	var quote rune
	bracketDepth := 0
	escaped := false
	line := 1
	p.line = 1

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		current.Reset()
		if stmt != "" {
			p.handleStatement(stmt)
		}
	}

	for _, ch := range source {
		if ch == '\n' {
			line++
		} else if current.Len() == 0 && !isSpace(ch) {
			// Statements carry the line they start on, not the line of
			// the delimiter that ends them.
			p.line = line
		}
		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}
		if quote != 0 {
			if ch == '\\' {
				current.WriteRune(ch)
				escaped = true
				continue
			}
			current.WriteRune(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"':
			quote = ch
			current.WriteRune(ch)
		case '[':
			bracketDepth++
			current.WriteRune(ch)
		case ']':
			if bracketDepth > 0 {
				bracketDepth--
			}
			current.WriteRune(ch)
		case '{':
			if bracketDepth > 0 {
				current.WriteRune(ch)
				continue
			}
			flush()
			p.openBrace()
		case '}':
			if bracketDepth > 0 {
				current.WriteRune(ch)
				continue
			}
			flush()
			p.closeBrace()
		case ';', '\n':
			if bracketDepth > 0 {
				current.WriteRune(ch)
				continue
			}
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()
}

// handleStatement classifies one flushed statement. Headers stash themselves
// in pending until the brace that opens their body arrives.
func (p *dotParser) handleStatement(stmt string) {
	lower := strings.ToLower(stmt)
	switch {
	case strings.HasPrefix(lower, "strict graph"), strings.HasPrefix(lower, "strict digraph"),
		strings.HasPrefix(lower, "graph "), strings.HasPrefix(lower, "digraph "),
		lower == "graph", lower == "digraph":
		p.pending = ""
		return
	case strings.HasPrefix(lower, "subgraph"):
		p.pending = strings.TrimSpace(stmt[len("subgraph"):])
		p.pendingSub = true
		return
	}
	p.parseBody(stmt)
}

func (p *dotParser) openBrace() {
	if p.pendingSub {
		key := normalizeIdentifier(p.pending)
		if key == "" {
			key = fmt.Sprintf("cluster_anon_line_%d", p.line)
		}
		span := ir.SpanAtLine(p.line, 0)
		idx := p.b.ensureCluster(key, p.pending, span)
		p.stack = append(p.stack, dotScope{cluster: idx, opens: 1})
		p.pending = ""
		p.pendingSub = false
		return
	}
	if len(p.stack) > 0 {
		p.stack[len(p.stack)-1].opens++
	}
}

func (p *dotParser) closeBrace() {
	if len(p.stack) == 0 {
		return
	}
	top := &p.stack[len(p.stack)-1]
	top.opens--
	if top.opens <= 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// parseBody handles node and edge statements inside the graph body.
func (p *dotParser) parseBody(stmt string) {
	span := ir.SpanAtLine(p.line, len([]rune(stmt)))

	body, attrs := splitDotAttrs(stmt)
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}

	// Attribute defaults and graph-level settings carry no structure.
	lower := strings.ToLower(body)
	if lower == "node" || lower == "edge" || lower == "graph" {
		return
	}
	if strings.ContainsRune(body, '=') {
		return
	}

	label := dotAttrLabel(attrs)

	parts, ops := splitDotChain(body)
	if len(parts) == 1 {
		id := normalizeIdentifier(parts[0])
		if id == "" {
			p.b.warnUnsupported(p.line, ir.DiagramFlowchart, stmt)
			return
		}
		nodeID := p.b.internNode(id, label, ir.ShapeRect, span)
		p.addToScopes(nodeID)
		return
	}

	ids := make([]ir.NodeID, 0, len(parts))
	for _, part := range parts {
		id := normalizeIdentifier(part)
		if id == "" {
			p.b.warnUnsupported(p.line, ir.DiagramFlowchart, stmt)
			return
		}
		nodeID := p.b.internNode(id, "", ir.ShapeRect, span)
		p.addToScopes(nodeID)
		ids = append(ids, nodeID)
	}
	// Directedness is a property of the whole graph, so a stray `--` in a
	// digraph still renders as a directed edge.
	arrow := ir.ArrowLine
	if p.directed {
		arrow = ir.ArrowNormal
	}
	for i := range ops {
		p.b.pushEdge(ids[i], ids[i+1], arrow, label, span)
	}
}

func (p *dotParser) addToScopes(nodeID ir.NodeID) {
	for _, scope := range p.stack {
		p.b.addNodeToCluster(scope.cluster, nodeID)
	}
}

// splitDotAttrs separates `a -> b [label="x"]` into the body and the raw
// attribute list.
func splitDotAttrs(stmt string) (string, string) {
	open := strings.IndexByte(stmt, '[')
	if open < 0 {
		return stmt, ""
	}
	end := strings.LastIndexByte(stmt, ']')
	if end <= open {
		return stmt, ""
	}
	return stmt[:open], stmt[open+1 : end]
}

// dotAttrLabel pulls the label attribute out of an attribute list. Quoted
// values honor backslash escapes; angle-bracket values drop their markup
// tags.
func dotAttrLabel(attrs string) string {
	idx := indexDotKey(attrs, "label")
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(attrs[idx+len("label"):])
	if !strings.HasPrefix(rest, "=") {
		return ""
	}
	rest = strings.TrimSpace(rest[1:])
	if rest == "" {
		return ""
	}

	switch rest[0] {
	case '"':
		var out strings.Builder
		escaped := false
		for _, ch := range rest[1:] {
			if escaped {
				out.WriteRune(ch)
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == '"' {
				break
			}
			out.WriteRune(ch)
		}
		return out.String()
	case '<':
		end := strings.LastIndexByte(rest, '>')
		if end <= 0 {
			return ""
		}
		return stripMarkupTags(rest[1:end])
	default:
		end := strings.IndexAny(rest, ", \t")
		if end < 0 {
			end = len(rest)
		}
		return rest[:end]
	}
}

// indexDotKey finds a `label` key at a word boundary so `xlabel=` does not
// match.
func indexDotKey(attrs, key string) int {
	lower := strings.ToLower(attrs)
	from := 0
	for {
		idx := strings.Index(lower[from:], key)
		if idx < 0 {
			return -1
		}
		idx += from
		if idx == 0 || !isIdentChar(rune(lower[idx-1])) {
			return idx
		}
		from = idx + len(key)
	}
}

// stripMarkupTags removes `<tag>` sequences from HTML-like labels, keeping
// the text between them.
func stripMarkupTags(s string) string {
	var out strings.Builder
	depth := 0
	for _, ch := range s {
		switch {
		case ch == '<':
			depth++
		case ch == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			out.WriteRune(ch)
		}
	}
	return strings.TrimSpace(out.String())
}

// splitDotChain splits `a -> b -> c` into endpoint texts and the operators
// between them. Both edge operators are recognized regardless of graph
// directedness; malformed mixes still parse.
func splitDotChain(body string) ([]string, []string) {
	var parts []string
	var ops []string
	var current strings.Builder
	var quote rune
	runes := []rune(body)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if quote != 0 {
			current.WriteRune(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}
		if ch == '"' {
			quote = ch
			current.WriteRune(ch)
			continue
		}
		if ch == '-' && i+1 < len(runes) && (runes[i+1] == '>' || runes[i+1] == '-') {
			parts = append(parts, current.String())
			current.Reset()
			if runes[i+1] == '>' {
				ops = append(ops, "->")
			} else {
				ops = append(ops, "--")
			}
			i++
			continue
		}
		current.WriteRune(ch)
	}
	parts = append(parts, current.String())
	return parts, ops
}
