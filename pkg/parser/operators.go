package parser

import (
	"strings"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

// =============================================================================
// Edge Operator Tables
// =============================================================================

// edgeOperator pairs a literal operator token with the arrow type it produces.
type edgeOperator struct {
	Token string
	Arrow ir.ArrowType
}

// Per-dialect operator tables. Order matters only for documentation; the
// scanner resolves overlaps by position first and token length second.
var (
	flowchartOperators = []edgeOperator{
		{"-.->", ir.ArrowDotted},
		{"==>", ir.ArrowThick},
		{"-->", ir.ArrowNormal},
		{"---", ir.ArrowLine},
		{"--o", ir.ArrowCircle},
		{"--x", ir.ArrowCross},
	}

	sequenceOperators = []edgeOperator{
		{"-->>", ir.ArrowDotted},
		{"->>", ir.ArrowNormal},
		{"-->", ir.ArrowDotted},
		{"->", ir.ArrowNormal},
		{"--x", ir.ArrowCross},
		{"-x", ir.ArrowCross},
	}

	classOperators = []edgeOperator{
		{"<|--", ir.ArrowNormal},
		{"--|>", ir.ArrowNormal},
		{"..>", ir.ArrowDotted},
		{"<..", ir.ArrowDotted},
		{"-->", ir.ArrowNormal},
		{"--", ir.ArrowLine},
	}

	stateOperators = []edgeOperator{
		{"-->", ir.ArrowNormal},
	}

	packetOperators = []edgeOperator{
		{"-->", ir.ArrowNormal},
		{"->", ir.ArrowNormal},
		{"--", ir.ArrowLine},
		{"==", ir.ArrowThick},
	}

	// Crow's-foot relationship operators. Identifying (solid) relationships
	// keep an arrowhead except exactly-one-to-exactly-one, which reads as a
	// plain line; the dotted variants mark non-identifying relationships.
	erOperators = []edgeOperator{
		{"||--o{", ir.ArrowNormal},
		{"||--|{", ir.ArrowNormal},
		{"}|--||", ir.ArrowNormal},
		{"}o--||", ir.ArrowNormal},
		{"|o--o|", ir.ArrowNormal},
		{"}|..|{", ir.ArrowDotted},
		{"||..||", ir.ArrowDotted},
		{"||--||", ir.ArrowLine},
		{"o|--|{", ir.ArrowNormal},
		{"}|--|{", ir.ArrowNormal},
		{"|o--||", ir.ArrowNormal},
		{"}o--o{", ir.ArrowNormal},
		{"--", ir.ArrowLine},
		{"..", ir.ArrowDotted},
	}
)

// =============================================================================
// Operator Scanning
// =============================================================================

// operatorMatch is a located operator inside a statement.
type operatorMatch struct {
	Index int
	Token string
	Arrow ir.ArrowType
}

// findOperator locates the next edge operator in statement at or after the
// given rune offset. Characters inside quotes or brackets never start a
// match, so labels like "A[a-->b]" stay intact. When several operators begin
// at the same offset the shortest token wins. Braces are left untracked on
// purpose: the crow's-foot operators contain them.
func findOperator(statement string, operators []edgeOperator, from int) (operatorMatch, bool) {
	runes := []rune(statement)
	var quote rune
	depth := 0

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
			continue
		case '[', '(':
			depth++
			continue
		case ']', ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if i < from || depth > 0 {
			continue
		}

		tail := string(runes[i:])
		best := operatorMatch{Index: -1}
		for _, op := range operators {
			if !strings.HasPrefix(tail, op.Token) {
				continue
			}
			if best.Index < 0 || len(op.Token) < len(best.Token) {
				best = operatorMatch{Index: i, Token: op.Token, Arrow: op.Arrow}
			}
		}
		if best.Index >= 0 {
			return best, true
		}
	}
	return operatorMatch{Index: -1}, false
}

// splitAtOperator divides a statement around a located operator, returning
// the text before and after the token.
func splitAtOperator(statement string, m operatorMatch) (string, string) {
	runes := []rune(statement)
	left := string(runes[:m.Index])
	right := string(runes[m.Index+len([]rune(m.Token)):])
	return left, right
}
