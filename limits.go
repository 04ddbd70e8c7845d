package xmlschema

import "fmt"

// Limits bounds resource consumption while loading schemas and validating
// documents, so hostile or degenerate inputs trip a guard instead of
// exhausting the process.
type Limits struct {
	// MaxDepth bounds element nesting during validation.
	MaxDepth int
	// MaxDocumentBytes bounds the size of a single schema document read
	// by the loader. Zero disables the guard.
	MaxDocumentBytes int64
	// MaxSchemaDocuments bounds how many documents one worklist run may
	// process. Zero disables the guard.
	MaxSchemaDocuments int
}

// DefaultLimits returns the guards applied when a caller sets none.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:           DefaultMaxDepth,
		MaxDocumentBytes:   64 << 20,
		MaxSchemaDocuments: 10000,
	}
}

// checkDocumentSize guards one schema document read.
func (l Limits) checkDocumentSize(location string, size int64) error {
	if l.MaxDocumentBytes > 0 && size > l.MaxDocumentBytes {
		return &SchemaError{
			Kind:     ErrLimitExceeded,
			Message:  fmt.Sprintf("schema document exceeds the %d byte limit", l.MaxDocumentBytes),
			Location: location,
		}
	}
	return nil
}

// checkDocumentCount guards the loader worklist.
func (l Limits) checkDocumentCount(processed int) error {
	if l.MaxSchemaDocuments > 0 && processed > l.MaxSchemaDocuments {
		return &SchemaError{
			Kind:    ErrLimitExceeded,
			Message: fmt.Sprintf("schema assembly exceeds the %d document limit", l.MaxSchemaDocuments),
		}
	}
	return nil
}
