package ir

// Severity ranks a diagnostic's importance.
type Severity string

const (
	SeverityHint    Severity = "hint"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Category groups diagnostics for filtering.
type Category string

const (
	CategoryParser   Category = "parser"
	CategorySemantic Category = "semantic"
	CategoryRecovery Category = "recovery"
)

// Diagnostic is a structured, non-fatal message attached to the IR.
// Parsing never aborts; everything it wants to say ends up here or in the
// plain warning list.
type Diagnostic struct {
	Severity   Severity `json:"severity" bson:"severity"`
	Category   Category `json:"category" bson:"category"`
	Message    string   `json:"message" bson:"message"`
	Span       *Span    `json:"span,omitempty" bson:"span,omitempty"`
	Suggestion string   `json:"suggestion,omitempty" bson:"suggestion,omitempty"`
}

// InfoDiagnostic builds an info-level diagnostic.
func InfoDiagnostic(message string) Diagnostic {
	return Diagnostic{Severity: SeverityInfo, Category: CategoryParser, Message: message}
}

// WarningDiagnostic builds a warning-level diagnostic.
func WarningDiagnostic(message string) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Category: CategoryParser, Message: message}
}

// WithCategory returns a copy with the category set.
func (d Diagnostic) WithCategory(c Category) Diagnostic {
	d.Category = c
	return d
}

// WithSpan returns a copy with the span set.
func (d Diagnostic) WithSpan(s Span) Diagnostic {
	d.Span = &s
	return d
}

// WithSuggestion returns a copy with a suggested fix attached.
func (d Diagnostic) WithSuggestion(text string) Diagnostic {
	d.Suggestion = text
	return d
}

// IsError reports whether the diagnostic is error-level.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// IsWarning reports whether the diagnostic is warning-level.
func (d Diagnostic) IsWarning() bool { return d.Severity == SeverityWarning }
