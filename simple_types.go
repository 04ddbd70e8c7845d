package xmlschema

import (
	"fmt"
	"strings"
)

// Type is implemented by every named or anonymous type definition.
type Type interface {
	Name() QName
}

// Variety classifies a simple type.
type Variety int

const (
	// VarietyAtomic is a single-valued type with a primitive ancestor.
	VarietyAtomic Variety = iota
	// VarietyList is a whitespace-separated list over an item type.
	VarietyList
	// VarietyUnion is an ordered union over member types.
	VarietyUnion
)

// SimpleType represents an XSD simple type: an atomic type, a restriction
// of another simple type, a list, or a union. Every simple type carries a
// (possibly empty) facet set; atomic types reach a primitive by following
// Base links.
type SimpleType struct {
	QName   QName
	Variety Variety

	// Restriction base. BaseName is the unresolved reference recorded at
	// parse time; Base is filled in by the build phase.
	BaseName QName
	Base     *SimpleType

	Facets FacetSet

	// List item type.
	ItemTypeName QName
	ItemType     *SimpleType

	// Union member types, in declaration order.
	MemberTypeNames []QName
	MemberTypes     []*SimpleType

	builtin *builtinType
}

// Name returns the type's qualified name.
func (st *SimpleType) Name() QName { return st.QName }

// IsBuiltin reports whether the type is one of the built-in descriptors.
func (st *SimpleType) IsBuiltin() bool { return st.builtin != nil }

// baseChain returns the restriction chain from the primitive ancestor down
// to st itself.
func (st *SimpleType) baseChain() []*SimpleType {
	var chain []*SimpleType
	seen := make(map[*SimpleType]bool)
	for t := st; t != nil && !seen[t]; t = t.Base {
		seen[t] = true
		chain = append(chain, t)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// primitive returns the built-in ancestor reachable through Base links.
func (st *SimpleType) primitive() *builtinType {
	seen := make(map[*SimpleType]bool)
	for t := st; t != nil && !seen[t]; t = t.Base {
		seen[t] = true
		if t.builtin != nil {
			return t.builtin
		}
	}
	return nil
}

// PrimitiveName names the primitive ancestor, or empty when unresolved.
func (st *SimpleType) PrimitiveName() string {
	if bt := st.primitive(); bt != nil {
		return bt.Primitive
	}
	return ""
}

// WhiteSpaceMode returns the effective whitespace handling: the nearest
// whiteSpace facet walking up the hierarchy, else the primitive default,
// else collapse.
func (st *SimpleType) WhiteSpaceMode() string {
	if st.Variety == VarietyList {
		return WhitespaceCollapse
	}
	seen := make(map[*SimpleType]bool)
	for t := st; t != nil && !seen[t]; t = t.Base {
		seen[t] = true
		if t.Facets.WhiteSpace != nil {
			return t.Facets.WhiteSpace.Value
		}
		if t.builtin != nil {
			return t.builtin.WhiteSpace
		}
	}
	return WhitespaceCollapse
}

// Normalize applies the type's whitespace handling to a raw lexical value.
func (st *SimpleType) Normalize(value string) string {
	return NormalizeWhiteSpace(value, st.WhiteSpaceMode())
}

// Canonical returns the canonical lexical form of an accepted value.
func (st *SimpleType) Canonical(value string) string {
	return st.Normalize(value)
}

// ValidateValue checks a raw lexical value against the type: normalize,
// decode in the primitive's lexical space, then apply the facet chain
// base-first. Lists tokenize and validate per item; unions accept on the
// first member that accepts.
func (st *SimpleType) ValidateValue(value string) []error {
	normalized := st.Normalize(value)
	switch st.Variety {
	case VarietyList:
		return st.validateList(normalized)
	case VarietyUnion:
		if err := st.validateUnion(normalized); err != nil {
			return []error{err}
		}
		return nil
	default:
		return st.validateAtomic(normalized)
	}
}

// Accepts reports whether the type accepts the value.
func (st *SimpleType) Accepts(value string) bool {
	return len(st.ValidateValue(value)) == 0
}

func (st *SimpleType) validateAtomic(normalized string) []error {
	var errs []error
	decoded := false
	for _, t := range st.baseChain() {
		if t.builtin != nil && !decoded {
			// The nearest built-in ancestor carries the full lexical
			// check for its family (e.g. xs:int bounds, not just decimal).
			if err := st.nearestBuiltin().Validate(normalized); err != nil {
				return []error{err}
			}
			decoded = true
		}
		errs = append(errs, t.Facets.Validate(normalized, t)...)
	}
	if !decoded {
		// No primitive ancestor resolved; still apply own facets.
		errs = append(errs, st.Facets.Validate(normalized, st)...)
	}
	return errs
}

// nearestBuiltin returns the closest built-in ancestor (the most derived
// one), which subsumes the checks of everything above it.
func (st *SimpleType) nearestBuiltin() *builtinType {
	seen := make(map[*SimpleType]bool)
	for t := st; t != nil && !seen[t]; t = t.Base {
		seen[t] = true
		if t.builtin != nil {
			return t.builtin
		}
	}
	return nil
}

func (st *SimpleType) validateList(normalized string) []error {
	var errs []error
	items := strings.Fields(normalized)
	item := st.effectiveItemType()
	if item == nil {
		return []error{parseErrorf("list type %s has no item type", st.QName)}
	}
	for i, tok := range items {
		if itemErrs := item.ValidateValue(tok); len(itemErrs) > 0 {
			errs = append(errs, fmt.Errorf("list item %d (%q) is invalid: %w", i+1, tok, itemErrs[0]))
		}
	}
	// List-level facets constrain the token count and the joined value.
	errs = append(errs, st.Facets.Validate(normalized, st)...)
	if st.Base != nil && st.Base.Variety == VarietyList {
		errs = append(errs, st.Base.Facets.Validate(normalized, st)...)
	}
	return errs
}

// effectiveItemType resolves the item type through restriction bases.
func (st *SimpleType) effectiveItemType() *SimpleType {
	seen := make(map[*SimpleType]bool)
	for t := st; t != nil && !seen[t]; t = t.Base {
		seen[t] = true
		if t.ItemType != nil {
			return t.ItemType
		}
	}
	return nil
}

func (st *SimpleType) validateUnion(normalized string) error {
	if len(st.MemberTypes) == 0 {
		return parseErrorf("union type %s has no member types", st.QName)
	}
	var failures []string
	for _, member := range st.MemberTypes {
		if member == nil {
			continue
		}
		memberErrs := member.ValidateValue(normalized)
		if len(memberErrs) == 0 {
			return nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", member.QName, memberErrs[0]))
	}
	return &SchemaError{
		Kind: ErrValue,
		Message: fmt.Sprintf("value %q is not valid against any member type of union %s (%s)",
			normalized, st.QName, strings.Join(failures, "; ")),
	}
}
