package xmlschema

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Position locates a diagnostic in its source document.
type Position struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Diagnostic is the presentation form of a violation: severity, code,
// message, and a best-effort source position, suitable for CLI rendering
// or JSON output.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Position Position `json:"position"`
	Tag      string   `json:"tag,omitempty"`
	Expected []string `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Hints    []string `json:"hints,omitempty"`
}

// DiagnosticConverter turns violations into diagnostics, recovering
// line/column positions by scanning the source text for the offending
// element's start tag.
type DiagnosticConverter struct {
	fileName string
	source   string
}

// NewDiagnosticConverter creates a converter over a document's source.
func NewDiagnosticConverter(fileName, source string) *DiagnosticConverter {
	return &DiagnosticConverter{fileName: fileName, source: source}
}

// Convert maps violations to diagnostics in visit order.
func (dc *DiagnosticConverter) Convert(violations []Violation) []Diagnostic {
	out := make([]Diagnostic, 0, len(violations))
	for _, v := range violations {
		d := Diagnostic{
			Severity: SeverityError,
			Code:     v.Code,
			Message:  v.Message,
			Expected: v.Expected,
			Actual:   v.Actual,
			Position: Position{File: dc.fileName},
		}
		if v.Element != nil {
			d.Tag = string(v.Element.LocalName())
			d.Position.Line, d.Position.Column = dc.locate(d.Tag)
		}
		if v.Reason != "" {
			d.Hints = append(d.Hints, v.Reason)
		}
		out = append(out, d)
	}
	return out
}

// locate finds the first start tag for local in the source.
func (dc *DiagnosticConverter) locate(local string) (line, column int) {
	idx := strings.Index(dc.source, "<"+local)
	if idx < 0 {
		return 0, 0
	}
	line = 1 + strings.Count(dc.source[:idx], "\n")
	lastNL := strings.LastIndex(dc.source[:idx], "\n")
	column = idx - lastNL
	return line, column
}

// Render formats a diagnostic the way the CLI prints it.
func (d Diagnostic) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", d.Severity)
	if d.Code != "" {
		fmt.Fprintf(&b, "[%s]", d.Code)
	}
	fmt.Fprintf(&b, ": %s", d.Message)
	if d.Position.Line > 0 {
		fmt.Fprintf(&b, "\n  --> %s:%d:%d", d.Position.File, d.Position.Line, d.Position.Column)
	} else if d.Position.File != "" {
		fmt.Fprintf(&b, "\n  --> %s", d.Position.File)
	}
	if len(d.Expected) > 0 {
		fmt.Fprintf(&b, "\n  expected: %s", strings.Join(d.Expected, ", "))
	}
	if d.Actual != "" {
		fmt.Fprintf(&b, "\n  actual: %s", d.Actual)
	}
	for _, hint := range d.Hints {
		fmt.Fprintf(&b, "\n  hint: %s", hint)
	}
	return b.String()
}
