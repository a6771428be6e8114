package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Dialect Detection
// =============================================================================

// detection maps a lowercased header prefix to a diagram type.
type detection struct {
	Prefix string
	Type   ir.DiagramType
}

// Ordered prefix table. "flowchart" must come before "graph" so the modern
// header is not classified by the legacy one, and "stateDiagram" covers the
// "-v2" variant via the prefix rule.
var headerPrefixes = []detection{
	{"flowchart", ir.DiagramFlowchart},
	{"graph", ir.DiagramFlowchart},
	{"sequencediagram", ir.DiagramSequence},
	{"classdiagram", ir.DiagramClass},
	{"statediagram", ir.DiagramState},
	{"gantt", ir.DiagramGantt},
	{"erdiagram", ir.DiagramEr},
	{"mindmap", ir.DiagramMindmap},
	{"pie", ir.DiagramPie},
	{"gitgraph", ir.DiagramGitGraph},
	{"journey", ir.DiagramJourney},
	{"requirementdiagram", ir.DiagramRequirement},
	{"timeline", ir.DiagramTimeline},
	{"quadrantchart", ir.DiagramQuadrantChart},
	{"sankey", ir.DiagramSankey},
	{"xychart", ir.DiagramXyChart},
	{"block-beta", ir.DiagramBlockBeta},
	{"packet-beta", ir.DiagramPacketBeta},
	{"architecture-beta", ir.DiagramArchitectureBeta},
}

// C4 headers are matched case sensitively; "c4context" in lowercase is not a
// valid header.
var c4Prefixes = []detection{
	{"C4Context", ir.DiagramC4Context},
	{"C4Container", ir.DiagramC4Container},
	{"C4Component", ir.DiagramC4Component},
	{"C4Dynamic", ir.DiagramC4Dynamic},
	{"C4Deployment", ir.DiagramC4Deployment},
}

// DetectDiagramType classifies raw diagram source by its first significant
// line. Empty lines, `%%` comments, and `%%{ ... }%%` directives are skipped.
// Unrecognized input maps to DiagramUnknown; the function is total and never
// fails.
func DetectDiagramType(source string) ir.DiagramType {
	header, ok := firstSignificantLine(source)
	if !ok {
		return ir.DiagramUnknown
	}

	for _, d := range c4Prefixes {
		if strings.HasPrefix(header, d.Prefix) {
			return d.Type
		}
	}

	lower := strings.ToLower(header)
	for _, d := range headerPrefixes {
		if strings.HasPrefix(lower, d.Prefix) {
			return d.Type
		}
	}
	return ir.DiagramUnknown
}

// firstSignificantLine returns the first trimmed line that is neither empty
// nor a comment or directive.
func firstSignificantLine(source string) (string, bool) {
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}
		return trimmed, true
	}
	return "", false
}
