package parser

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Gantt Dialect
// =============================================================================

// Header keywords that configure the chart without adding structure.
var ganttKeywords = map[string]bool{
	"title":        true,
	"dateformat":   true,
	"axisformat":   true,
	"tickinterval": true,
	"excludes":     true,
	"includes":     true,
	"todaymarker":  true,
	"weekday":      true,
	"inclusiveenddates": true,
}

// parseGantt turns tasks into nodes and sections into clusters. Task
// metadata after the colon (status, id, dates) stays in the source; only the
// task name matters for structure. Task ids carry a line-number suffix so the
// same task name can recur across sections without merging.
func parseGantt(source string) Result {
	b := newBuilder(ir.DiagramGantt)
	headerSeen := false
	section := -1
	sectionName := ""

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

		fields := strings.Fields(trimmed)
		if ganttKeywords[strings.ToLower(fields[0])] {
			continue
		}
		if strings.HasPrefix(trimmed, "section") {
			title := strings.TrimSpace(trimmed[len("section"):])
			key := normalizeIdentifier(title)
			if key == "" {
				key = fmt.Sprintf("cluster_anon_line_%d", lineNo)
			}
			section = b.ensureCluster(key, title, span)
			sectionName = title
			continue
		}

		name, ok := nameBeforeColon(trimmed)
		if !ok {
			b.warnUnsupported(lineNo, ir.DiagramGantt, trimmed)
			continue
		}
		id := normalizeIdentifier(name)
		if id == "" {
			b.warnf("Line %d: task identifier could not be derived: %s", lineNo, trimmed)
			continue
		}
		label := name
		if sectionName != "" {
			label = sectionName + ": " + name
		}
		nodeID := b.internNode(fmt.Sprintf("%s_%d", id, lineNo), label, ir.ShapeRect, span)
		if section >= 0 {
			b.addNodeToCluster(section, nodeID)
		}
	}
	return b.finish()
}
