package parser

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Journey and Timeline Dialects
// =============================================================================

// parseJourney turns `Task: score: Actor` lines into a chain of rounded
// step nodes. Title and section lines are presentation only and skipped.
func parseJourney(source string) Result {
	b := newBuilder(ir.DiagramJourney)
	headerSeen := false
	previousStep := ir.NodeID(-1)

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
		if strings.HasPrefix(strings.ToLower(trimmed), "title") ||
			strings.HasPrefix(trimmed, "section") {
			continue
		}
		span := spanForLine(lineNo, rawLine)

		name, ok := nameBeforeColon(trimmed)
		if !ok {
			b.warnUnsupported(lineNo, ir.DiagramJourney, trimmed)
			continue
		}
		id := normalizeIdentifier(name)
		if id == "" {
			b.warnf("Line %d: journey step identifier could not be derived: %s", lineNo, trimmed)
			continue
		}
		step := b.internNode(id, name, ir.ShapeRounded, span)
		if previousStep >= 0 {
			b.pushEdge(previousStep, step, ir.ArrowLine, "", span)
		}
		previousStep = step
	}
	return b.finish()
}

// parseTimeline chains time periods left to right and hangs each period's
// events underneath it. A line of the form `{period} : {event} : {event}`
// opens a new period; a line starting with `:` continues the previous one.
func parseTimeline(source string) Result {
	b := newBuilder(ir.DiagramTimeline)
	headerSeen := false
	section := -1
	previousPeriod := ir.NodeID(-1)
	currentPeriod := ir.NodeID(-1)

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
		if strings.HasPrefix(strings.ToLower(trimmed), "title") {
			continue
		}
		span := spanForLine(lineNo, rawLine)

		if strings.HasPrefix(trimmed, "section") {
			title := strings.TrimSpace(trimmed[len("section"):])
			key := normalizeIdentifier(title)
			if key == "" {
				key = fmt.Sprintf("cluster_anon_line_%d", lineNo)
			}
			section = b.ensureCluster(key, title, span)
			continue
		}

		// Continuation line: `: more events` for the open period.
		if rest, ok := strings.CutPrefix(trimmed, ":"); ok {
			if currentPeriod >= 0 {
				addTimelineEvents(b, currentPeriod, rest, span)
			} else {
				b.warnf("Line %d: continuation event without preceding time period: %s", lineNo, trimmed)
			}
			continue
		}

		periodText, eventsText := trimmed, ""
		if pos := strings.Index(trimmed, ":"); pos >= 0 {
			periodText = strings.TrimSpace(trimmed[:pos])
			eventsText = trimmed[pos+1:]
		}
		if periodText == "" {
			b.warnf("Line %d: empty time period: %s", lineNo, trimmed)
			continue
		}
		id := normalizeIdentifier(periodText)
		if id == "" {
			b.warnUnsupported(lineNo, ir.DiagramTimeline, trimmed)
			continue
		}
		period := b.internNode(id, periodText, ir.ShapeRect, span)
		if section >= 0 {
			b.addNodeToCluster(section, period)
		}
		if previousPeriod >= 0 {
			b.pushEdge(previousPeriod, period, ir.ArrowNormal, "", span)
		}
		previousPeriod = period
		currentPeriod = period
		addTimelineEvents(b, period, eventsText, span)
	}
	return b.finish()
}

// addTimelineEvents splits a colon-separated event list and hangs each event
// off its period as a rounded child.
func addTimelineEvents(b *builder, period ir.NodeID, eventsText string, span ir.Span) {
	for _, part := range strings.Split(eventsText, ":") {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		id := normalizeIdentifier(text)
		if id == "" {
			continue
		}
		event := b.internNode(id, text, ir.ShapeRounded, span)
		b.pushEdge(period, event, ir.ArrowLine, "", span)
	}
}
