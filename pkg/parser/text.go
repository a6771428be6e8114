package parser

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Identifier Normalization
// =============================================================================

// normalizeIdentifier reduces untrusted source text to a safe node id.
//
// The scan keeps ASCII alphanumerics plus `_ - . /`. Whitespace and `: ; ,`
// (or any other disallowed character) terminate the scan once something has
// been accumulated; before that they are skipped. If the scan yields nothing,
// a grapheme-safe fallback maps every cluster outside [A-Za-z0-9_-] to `_`.
func normalizeIdentifier(raw string) string {
	cleaned := trimQuoteLayers(raw)
	if cleaned == "" {
		return ""
	}

	var out strings.Builder
	for _, ch := range cleaned {
		switch {
		case isIdentChar(ch):
			out.WriteRune(ch)
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == ':' || ch == ';' || ch == ',':
			if out.Len() > 0 {
				return out.String()
			}
		default:
			if out.Len() > 0 {
				return out.String()
			}
		}
	}
	if out.Len() > 0 {
		return out.String()
	}
	return fallbackIdentifier(cleaned)
}

func isIdentChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-' || ch == '.' || ch == '/'
}

// fallbackIdentifier maps every grapheme cluster outside [A-Za-z0-9_-] to an
// underscore so that emoji and combining sequences stay one unit wide, then
// trims the underscores it introduced at the ends.
func fallbackIdentifier(text string) string {
	var out strings.Builder
	graphemes := uniseg.NewGraphemes(text)
	for graphemes.Next() {
		cluster := graphemes.Str()
		if len(cluster) == 1 && isFallbackChar(rune(cluster[0])) {
			out.WriteString(cluster)
		} else {
			out.WriteByte('_')
		}
	}
	return strings.Trim(out.String(), "_")
}

func isFallbackChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-'
}

// trimQuoteLayers strips surrounding whitespace and quote characters.
func trimQuoteLayers(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, `"`)
	cleaned = strings.Trim(cleaned, `'`)
	cleaned = strings.Trim(cleaned, "`")
	return strings.TrimSpace(cleaned)
}

// cleanLabel trims whitespace and surrounding quote characters from label
// text. An empty result means "no label", never an empty label.
func cleanLabel(raw string) string {
	return trimQuoteLayers(raw)
}

// =============================================================================
// Line and Statement Scanning
// =============================================================================

// isCommentLine reports whether the trimmed line is a `%%` comment (which
// also covers `%%{ ... }%%` directives).
func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "%%")
}

// stripInlineComment removes a trailing `%% comment` from a line. The marker
// only counts when it is preceded by whitespace and sits outside quotes and
// brackets, so labels like "100%%" survive.
func stripInlineComment(line string) string {
	var quote rune
	depth := 0
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
		case '%':
			if depth == 0 && i+1 < len(runes) && runes[i+1] == '%' {
				if i == 0 || isSpace(runes[i-1]) {
					return string(runes[:i])
				}
			}
		}
	}
	return line
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t'
}

// splitStatements splits a line into `;`-separated statements, honoring
// quotes, escape sequences, and bracket nesting.
func splitStatements(line string) []string {
	var statements []string
	var current strings.Builder
	var quote rune
	depth := 0
	escaped := false

	for _, ch := range line {
		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}
		if ch == '\\' && quote != 0 {
			current.WriteRune(ch)
			escaped = true
			continue
		}
		if quote != 0 {
			current.WriteRune(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
			current.WriteRune(ch)
		case '[', '(', '{':
			depth++
			current.WriteRune(ch)
		case ']', ')', '}':
			if depth > 0 {
				depth--
			}
			current.WriteRune(ch)
		case ';':
			if depth == 0 {
				statements = append(statements, current.String())
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}
	statements = append(statements, current.String())

	out := statements[:0]
	for _, stmt := range statements {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// extractPipeLabel strips a leading `|label|` from an edge's right-hand
// segment. Returns the label, whether one was found, and the remainder.
func extractPipeLabel(segment string) (string, bool, string) {
	trimmed := strings.TrimSpace(segment)
	if !strings.HasPrefix(trimmed, "|") {
		return "", false, segment
	}
	rest := trimmed[1:]
	end := strings.IndexByte(rest, '|')
	if end < 0 {
		return "", false, segment
	}
	return rest[:end], true, rest[end+1:]
}

// nameBeforeColon splits a `name : rest` statement, returning the trimmed
// name and whether a colon was present.
func nameBeforeColon(statement string) (string, bool) {
	idx := strings.IndexByte(statement, ':')
	if idx < 0 {
		return "", false
	}
	name := strings.TrimSpace(statement[:idx])
	if name == "" {
		return "", false
	}
	return name, true
}

// spanForLine builds a one-line span for diagnostics.
func spanForLine(lineNumber int, line string) ir.Span {
	return ir.SpanAtLine(lineNumber, len([]rune(line)))
}
