package parser

import (
	"testing"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/ir"
)

func TestFindOperatorFlowchart(t *testing.T) {
	tests := []struct {
		statement string
		token     string
		arrow     ir.ArrowType
	}{
		{"A --> B", "-->", ir.ArrowNormal},
		{"A -.-> B", "-.->", ir.ArrowDotted},
		{"A ==> B", "==>", ir.ArrowThick},
		{"A --- B", "---", ir.ArrowLine},
		{"A --o B", "--o", ir.ArrowCircle},
		{"A --x B", "--x", ir.ArrowCross},
	}
	for _, tt := range tests {
		m, ok := findOperator(tt.statement, flowchartOperators, 0)
		if !ok {
			t.Errorf("findOperator(%q) found nothing", tt.statement)
			continue
		}
		if m.Token != tt.token || m.Arrow != tt.arrow {
			t.Errorf("findOperator(%q) = (%q, %q), want (%q, %q)",
				tt.statement, m.Token, m.Arrow, tt.token, tt.arrow)
		}
	}
}

func TestFindOperatorEarliestWins(t *testing.T) {
	// "---" appears before "-->"; position beats table order.
	m, ok := findOperator("A --- B --> C", flowchartOperators, 0)
	if !ok || m.Token != "---" {
		t.Errorf("findOperator() = (%q, %v), want ---", m.Token, ok)
	}
}

func TestFindOperatorShortestOnTie(t *testing.T) {
	// At the same offset "->>" and "->" both match; the shorter token wins.
	m, ok := findOperator("A ->> B", sequenceOperators, 0)
	if !ok {
		t.Fatal("findOperator() found nothing")
	}
	if m.Token != "->" {
		t.Errorf("findOperator() token = %q, want ->", m.Token)
	}
	if m.Arrow != ir.ArrowNormal {
		t.Errorf("findOperator() arrow = %q, want %q", m.Arrow, ir.ArrowNormal)
	}
}

func TestFindOperatorSkipsBracketsAndQuotes(t *testing.T) {
	m, ok := findOperator(`A["a-->b"] --> C`, flowchartOperators, 0)
	if !ok {
		t.Fatal("findOperator() found nothing")
	}
	left, _ := splitAtOperator(`A["a-->b"] --> C`, m)
	if left != `A["a-->b"] ` {
		t.Errorf("operator matched inside brackets, left = %q", left)
	}
}

func TestFindOperatorFromOffset(t *testing.T) {
	statement := "A --> B --> C"
	first, ok := findOperator(statement, flowchartOperators, 0)
	if !ok {
		t.Fatal("first findOperator() found nothing")
	}
	second, ok := findOperator(statement, flowchartOperators, first.Index+len(first.Token))
	if !ok {
		t.Fatal("second findOperator() found nothing")
	}
	if second.Index <= first.Index {
		t.Errorf("second operator index %d not past first %d", second.Index, first.Index)
	}
}

func TestFindOperatorEr(t *testing.T) {
	m, ok := findOperator("CUSTOMER ||--o{ ORDER : places", erOperators, 0)
	if !ok || m.Token != "||--o{" {
		t.Errorf("findOperator() = (%q, %v), want ||--o{", m.Token, ok)
	}
}

func TestErOperatorArrows(t *testing.T) {
	tests := []struct {
		token string
		arrow ir.ArrowType
	}{
		{"||--o{", ir.ArrowNormal},
		{"}o--||", ir.ArrowNormal},
		{"}|--|{", ir.ArrowNormal},
		{"}|..|{", ir.ArrowDotted},
		{"||..||", ir.ArrowDotted},
		{"..", ir.ArrowDotted},
		{"||--||", ir.ArrowLine},
		{"--", ir.ArrowLine},
	}
	for _, tt := range tests {
		m, ok := findOperator("A "+tt.token+" B", erOperators, 0)
		if !ok {
			t.Errorf("findOperator(%q) found nothing", tt.token)
			continue
		}
		if m.Token != tt.token || m.Arrow != tt.arrow {
			t.Errorf("findOperator(%q) = (%q, %q), want (%q, %q)",
				tt.token, m.Token, m.Arrow, tt.token, tt.arrow)
		}
	}
}
