// Package parser turns diagram source text in any supported dialect into
// the shared intermediate representation. Parsing is total: malformed input
// degrades into warnings and recovery diagnostics, never an error.
package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Parse Entry Point
// =============================================================================

// dialectParsers maps detected diagram types to their parsers. Dialects
// without structural rules fall through to the generic scanner, which keeps
// the detected type and flags every line.
var dialectParsers = map[ir.DiagramType]func(string) Result{
	ir.DiagramFlowchart:     parseFlowchart,
	ir.DiagramSequence:      parseSequence,
	ir.DiagramClass:         parseClass,
	ir.DiagramState:         parseState,
	ir.DiagramGantt:         parseGantt,
	ir.DiagramPie:           parsePie,
	ir.DiagramQuadrantChart: parseQuadrant,
	ir.DiagramPacketBeta:    parsePacket,
	ir.DiagramEr:            parseEr,
	ir.DiagramMindmap:       parseMindmap,
	ir.DiagramGitGraph:      parseGitGraph,
	ir.DiagramJourney:       parseJourney,
	ir.DiagramTimeline:      parseTimeline,
	ir.DiagramRequirement:   parseRequirement,
}

// Parse converts diagram source into IR plus warnings. Graphviz input is
// sniffed before dialect detection since DOT has no Mermaid header.
func Parse(source string) Result {
	if strings.TrimSpace(source) == "" {
		b := newBuilder(ir.DiagramUnknown)
		b.warn("Input was empty; returning empty IR")
		return Result{IR: b.d, Warnings: b.warnings}
	}

	if looksLikeDOT(source) {
		return parseDOT(source)
	}

	diagramType := DetectDiagramType(source)
	if parse, ok := dialectParsers[diagramType]; ok {
		return parse(source)
	}
	return parseGeneric(source, diagramType)
}

// ParseDialect parses the source as a specific dialect, bypassing detection.
// The value "dot" routes to the DOT parser; anything that is not a known
// dialect name falls back to auto-detection.
func ParseDialect(source, dialect string) Result {
	if strings.TrimSpace(source) == "" {
		return Parse(source)
	}
	if strings.EqualFold(dialect, "dot") {
		return parseDOT(source)
	}
	diagramType := ir.DiagramType(dialect)
	if parse, ok := dialectParsers[diagramType]; ok {
		return parse(source)
	}
	return Parse(source)
}

// parseGeneric covers detected dialects that have no structural parser yet
// (C4, sankey, xyChart, block-beta, architecture-beta) and unknown input.
// Every significant line past the header gets an unsupported warning.
func parseGeneric(source string, diagramType ir.DiagramType) Result {
	b := newBuilder(diagramType)
	headerSeen := diagramType == ir.DiagramUnknown

	for i, rawLine := range strings.Split(source, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(stripInlineComment(rawLine))
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		b.warnUnsupported(lineNo, diagramType, trimmed)
	}
	return b.finish()
}
