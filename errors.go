package xmlschema

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// ErrorKind classifies failures surfaced by the schema compiler and the
// document validator.
type ErrorKind int

const (
	// ErrParse marks a malformed schema document: unknown child, missing
	// required attribute, bad facet syntax.
	ErrParse ErrorKind = iota
	// ErrValidation marks an instance document that failed the schema.
	ErrValidation
	// ErrType marks a lexical-level type failure.
	ErrType
	// ErrValue marks a bad literal or enumeration value.
	ErrValue
	// ErrName marks an invalid XML name or QName.
	ErrName
	// ErrDecode marks a text-to-value conversion failure.
	ErrDecode
	// ErrEncode marks a value-to-text conversion failure.
	ErrEncode
	// ErrResource marks an I/O or URL problem.
	ErrResource
	// ErrNamespace marks an unknown namespace prefix.
	ErrNamespace
	// ErrLimitExceeded marks a tripped depth or size guard.
	ErrLimitExceeded
	// ErrCircularity marks a component reference cycle.
	ErrCircularity
	// ErrNotBuilt marks use of a schema before Build.
	ErrNotBuilt
	// ErrStopValidation is the cooperative cancellation sentinel.
	ErrStopValidation
)

var errorKindNames = map[ErrorKind]string{
	ErrParse:          "parse",
	ErrValidation:     "validation",
	ErrType:           "type",
	ErrValue:          "value",
	ErrName:           "name",
	ErrDecode:         "decode",
	ErrEncode:         "encode",
	ErrResource:       "resource",
	ErrNamespace:      "namespace",
	ErrLimitExceeded:  "limit exceeded",
	ErrCircularity:    "circularity",
	ErrNotBuilt:       "not built",
	ErrStopValidation: "stopped",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// SchemaError is a structured failure raised while loading, parsing, or
// building a schema, or while decoding values during validation.
type SchemaError struct {
	Kind      ErrorKind
	Message   string
	Component string // offending schema component, when known
	Location  string // source location (file or URL), when known
	Err       error  // wrapped cause
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error: ")
	b.WriteString(e.Message)
	if e.Component != "" {
		b.WriteString("\n  component: ")
		b.WriteString(e.Component)
	}
	if e.Location != "" {
		b.WriteString("\n  location: ")
		b.WriteString(e.Location)
	}
	if e.Err != nil {
		b.WriteString("\n  caused by: ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ErrStopped is returned by validation internals when the caller set the
// cooperative stop flag on the validation context.
var ErrStopped = &SchemaError{Kind: ErrStopValidation, Message: "validation stopped"}

// parseErrorf records a parse-kind error.
func parseErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Kind: ErrParse, Message: fmt.Sprintf(format, args...)}
}

// decodeErrorf records a decode-kind error naming the primitive and value.
func decodeErrorf(primitive, value string, cause error) *SchemaError {
	return &SchemaError{
		Kind:    ErrDecode,
		Message: fmt.Sprintf("cannot decode %q as %s", value, primitive),
		Err:     cause,
	}
}

// Violation represents a single instance-validation error.
type Violation struct {
	Element   xmldom.Element
	Attribute string
	Code      string
	Message   string
	Reason    string
	Path      string
	Component string // schema component the check came from
	Expected  []string
	Actual    string
}

// Render formats the violation as a message plus its optional fields on
// separate lines.
func (v Violation) Render() string {
	var b strings.Builder
	b.WriteString(v.Message)
	if v.Code != "" {
		fmt.Fprintf(&b, "\n  code: %s", v.Code)
	}
	if v.Path != "" {
		fmt.Fprintf(&b, "\n  path: %s", v.Path)
	}
	if v.Reason != "" {
		fmt.Fprintf(&b, "\n  reason: %s", v.Reason)
	}
	if v.Component != "" {
		fmt.Fprintf(&b, "\n  schema component: %s", v.Component)
	}
	if len(v.Expected) > 0 {
		fmt.Fprintf(&b, "\n  expected: %s", strings.Join(v.Expected, ", "))
	}
	if v.Actual != "" {
		fmt.Fprintf(&b, "\n  actual: %s", v.Actual)
	}
	return b.String()
}
