package xmlschema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Whitespace facet modes.
const (
	WhitespacePreserve = "preserve"
	WhitespaceReplace  = "replace"
	WhitespaceCollapse = "collapse"
)

// NormalizeWhiteSpace normalizes a value under the given whitespace mode.
// Normalization is idempotent for every mode.
func NormalizeWhiteSpace(value, mode string) string {
	switch mode {
	case WhitespaceReplace:
		result := strings.ReplaceAll(value, "\t", " ")
		result = strings.ReplaceAll(result, "\n", " ")
		result = strings.ReplaceAll(result, "\r", " ")
		return result
	case WhitespaceCollapse:
		return strings.Join(strings.Fields(NormalizeWhiteSpace(value, WhitespaceReplace)), " ")
	default:
		return value
	}
}

// FacetValidator validates a normalized value against one constraining
// facet. The simple type is passed for value-space context (list lengths,
// binary lengths, numeric comparison).
type FacetValidator interface {
	Name() string
	Validate(value string, st *SimpleType) error
}

// LengthFacet constrains the exact value length.
type LengthFacet struct {
	Value int
	Fixed bool
}

func (f *LengthFacet) Name() string { return "length" }

func (f *LengthFacet) Validate(value string, st *SimpleType) error {
	if length := valueLength(value, st); length != f.Value {
		return fmt.Errorf("length must be exactly %d, got %d", f.Value, length)
	}
	return nil
}

// MinLengthFacet constrains the minimum value length.
type MinLengthFacet struct {
	Value int
	Fixed bool
}

func (f *MinLengthFacet) Name() string { return "minLength" }

func (f *MinLengthFacet) Validate(value string, st *SimpleType) error {
	if length := valueLength(value, st); length < f.Value {
		return fmt.Errorf("length must be at least %d, got %d", f.Value, length)
	}
	return nil
}

// MaxLengthFacet constrains the maximum value length.
type MaxLengthFacet struct {
	Value int
	Fixed bool
}

func (f *MaxLengthFacet) Name() string { return "maxLength" }

func (f *MaxLengthFacet) Validate(value string, st *SimpleType) error {
	if length := valueLength(value, st); length > f.Value {
		return fmt.Errorf("length must be at most %d, got %d", f.Value, length)
	}
	return nil
}

// valueLength measures a value in its type's value space: items for lists,
// octets for the binary pair, characters otherwise.
func valueLength(value string, st *SimpleType) int {
	if st != nil {
		if st.Variety == VarietyList {
			return len(strings.Fields(value))
		}
		switch st.PrimitiveName() {
		case "hexBinary":
			return len(value) / 2
		case "base64Binary":
			n := len(value)
			if strings.HasSuffix(value, "==") {
				n -= 2
			} else if strings.HasSuffix(value, "=") {
				n--
			}
			return n * 3 / 4
		}
	}
	return len([]rune(value))
}

// boundFacet is the shared shape of the four range facets.
type boundFacet struct {
	Value string
	Fixed bool
}

func (f *boundFacet) compare(value string, st *SimpleType) (int, error) {
	primitive := "string"
	if st != nil {
		primitive = st.PrimitiveName()
	}
	return compareTypedValues(value, f.Value, primitive)
}

// MinInclusiveFacet constrains the minimum value, inclusive.
type MinInclusiveFacet struct{ boundFacet }

func (f *MinInclusiveFacet) Name() string { return "minInclusive" }

func (f *MinInclusiveFacet) Validate(value string, st *SimpleType) error {
	cmp, err := f.compare(value, st)
	if err != nil {
		return err
	}
	if cmp < 0 {
		return fmt.Errorf("value must be >= %s, got %s", f.Value, value)
	}
	return nil
}

// MaxInclusiveFacet constrains the maximum value, inclusive.
type MaxInclusiveFacet struct{ boundFacet }

func (f *MaxInclusiveFacet) Name() string { return "maxInclusive" }

func (f *MaxInclusiveFacet) Validate(value string, st *SimpleType) error {
	cmp, err := f.compare(value, st)
	if err != nil {
		return err
	}
	if cmp > 0 {
		return fmt.Errorf("value must be <= %s, got %s", f.Value, value)
	}
	return nil
}

// MinExclusiveFacet constrains the minimum value, exclusive.
type MinExclusiveFacet struct{ boundFacet }

func (f *MinExclusiveFacet) Name() string { return "minExclusive" }

func (f *MinExclusiveFacet) Validate(value string, st *SimpleType) error {
	cmp, err := f.compare(value, st)
	if err != nil {
		return err
	}
	if cmp <= 0 {
		return fmt.Errorf("value must be > %s, got %s", f.Value, value)
	}
	return nil
}

// MaxExclusiveFacet constrains the maximum value, exclusive.
type MaxExclusiveFacet struct{ boundFacet }

func (f *MaxExclusiveFacet) Name() string { return "maxExclusive" }

func (f *MaxExclusiveFacet) Validate(value string, st *SimpleType) error {
	cmp, err := f.compare(value, st)
	if err != nil {
		return err
	}
	if cmp >= 0 {
		return fmt.Errorf("value must be < %s, got %s", f.Value, value)
	}
	return nil
}

// TotalDigitsFacet constrains the total significant digit count.
type TotalDigitsFacet struct {
	Value int
	Fixed bool
}

func (f *TotalDigitsFacet) Name() string { return "totalDigits" }

func (f *TotalDigitsFacet) Validate(value string, _ *SimpleType) error {
	digits := strings.TrimLeft(value, "+-")
	digits = strings.Replace(digits, ".", "", 1)
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	if len(digits) > f.Value {
		return fmt.Errorf("total digits must be at most %d, got %d", f.Value, len(digits))
	}
	return nil
}

// FractionDigitsFacet constrains the fractional digit count.
type FractionDigitsFacet struct {
	Value int
	Fixed bool
}

func (f *FractionDigitsFacet) Name() string { return "fractionDigits" }

func (f *FractionDigitsFacet) Validate(value string, _ *SimpleType) error {
	_, frac, found := strings.Cut(value, ".")
	if !found {
		return nil
	}
	if len(frac) > f.Value {
		return fmt.Errorf("fraction digits must be at most %d, got %d", f.Value, len(frac))
	}
	return nil
}

// PatternFacet validates against an anchored regular expression.
type PatternFacet struct {
	Pattern string
	regex   *regexp.Regexp
}

// NewPatternFacet compiles an XSD pattern. Patterns are implicitly anchored.
func NewPatternFacet(pattern string) (*PatternFacet, error) {
	regex, err := regexp.Compile("^" + convertXSDRegex(pattern) + "$")
	if err != nil {
		return nil, parseErrorf("invalid pattern facet %q: %v", pattern, err)
	}
	return &PatternFacet{Pattern: pattern, regex: regex}, nil
}

func (f *PatternFacet) Name() string { return "pattern" }

func (f *PatternFacet) Validate(value string, _ *SimpleType) error {
	if !f.regex.MatchString(value) {
		return fmt.Errorf("value %q does not match pattern %q", value, f.Pattern)
	}
	return nil
}

// convertXSDRegex maps the XSD character-class shortcuts Go's regexp does
// not share onto equivalent classes.
func convertXSDRegex(pattern string) string {
	result := pattern
	result = strings.ReplaceAll(result, `\i`, `[_:A-Za-z]`)
	result = strings.ReplaceAll(result, `\c`, `[_:A-Za-z0-9.-]`)
	result = strings.ReplaceAll(result, `\s`, `[ \t\n\r]`)
	result = strings.ReplaceAll(result, `\S`, `[^ \t\n\r]`)
	return result
}

// EnumerationFacet validates membership in a value set. Multiple
// enumeration elements in one restriction merge into a single facet.
type EnumerationFacet struct {
	Values []string
}

func (f *EnumerationFacet) Name() string { return "enumeration" }

func (f *EnumerationFacet) Validate(value string, _ *SimpleType) error {
	for _, allowed := range f.Values {
		if value == allowed {
			return nil
		}
	}
	return fmt.Errorf("value %q is not in enumeration %v", value, f.Values)
}

// WhiteSpaceFacet selects the normalization mode. It never rejects values
// itself; normalization runs before the other facets apply.
type WhiteSpaceFacet struct {
	Value string
	Fixed bool
}

func (f *WhiteSpaceFacet) Name() string { return "whiteSpace" }

func (f *WhiteSpaceFacet) Validate(string, *SimpleType) error { return nil }

// FacetSet is the bundle of constraining facets attached to a simple type.
// Application order: length and value-range checks, then patterns, then
// enumeration.
type FacetSet struct {
	Length         *LengthFacet
	MinLength      *MinLengthFacet
	MaxLength      *MaxLengthFacet
	MinInclusive   *MinInclusiveFacet
	MaxInclusive   *MaxInclusiveFacet
	MinExclusive   *MinExclusiveFacet
	MaxExclusive   *MaxExclusiveFacet
	TotalDigits    *TotalDigitsFacet
	FractionDigits *FractionDigitsFacet
	Patterns       []*PatternFacet
	Enumeration    *EnumerationFacet
	WhiteSpace     *WhiteSpaceFacet
}

// IsEmpty reports whether no facet is set.
func (fs *FacetSet) IsEmpty() bool {
	return fs == nil || (fs.Length == nil && fs.MinLength == nil && fs.MaxLength == nil &&
		fs.MinInclusive == nil && fs.MaxInclusive == nil && fs.MinExclusive == nil &&
		fs.MaxExclusive == nil && fs.TotalDigits == nil && fs.FractionDigits == nil &&
		len(fs.Patterns) == 0 && fs.Enumeration == nil && fs.WhiteSpace == nil)
}

// ordered returns the type-checked facets in application order, excluding
// patterns and enumeration which run afterwards.
func (fs *FacetSet) ordered() []FacetValidator {
	var out []FacetValidator
	for _, f := range []FacetValidator{
		fs.Length, fs.MinLength, fs.MaxLength,
		fs.MinInclusive, fs.MaxInclusive, fs.MinExclusive, fs.MaxExclusive,
		fs.TotalDigits, fs.FractionDigits,
	} {
		if f != nil && !isNilFacet(f) {
			out = append(out, f)
		}
	}
	return out
}

// isNilFacet guards against typed-nil pointers reaching the interface slice.
func isNilFacet(f FacetValidator) bool {
	switch v := f.(type) {
	case *LengthFacet:
		return v == nil
	case *MinLengthFacet:
		return v == nil
	case *MaxLengthFacet:
		return v == nil
	case *MinInclusiveFacet:
		return v == nil
	case *MaxInclusiveFacet:
		return v == nil
	case *MinExclusiveFacet:
		return v == nil
	case *MaxExclusiveFacet:
		return v == nil
	case *TotalDigitsFacet:
		return v == nil
	case *FractionDigitsFacet:
		return v == nil
	}
	return f == nil
}

// Validate applies every facet in order and returns all violations.
func (fs *FacetSet) Validate(value string, st *SimpleType) []error {
	if fs == nil {
		return nil
	}
	var errs []error
	for _, f := range fs.ordered() {
		if err := f.Validate(value, st); err != nil {
			errs = append(errs, fmt.Errorf("%s constraint violated: %w", f.Name(), err))
		}
	}
	for _, p := range fs.Patterns {
		if err := p.Validate(value, st); err != nil {
			errs = append(errs, fmt.Errorf("pattern constraint violated: %w", err))
		}
	}
	if fs.Enumeration != nil {
		if err := fs.Enumeration.Validate(value, st); err != nil {
			errs = append(errs, fmt.Errorf("enumeration constraint violated: %w", err))
		}
	}
	return errs
}

// add merges one parsed facet into the set. Repeated enumeration elements
// accumulate; other repeats overwrite.
func (fs *FacetSet) add(f FacetValidator) {
	switch v := f.(type) {
	case *LengthFacet:
		fs.Length = v
	case *MinLengthFacet:
		fs.MinLength = v
	case *MaxLengthFacet:
		fs.MaxLength = v
	case *MinInclusiveFacet:
		fs.MinInclusive = v
	case *MaxInclusiveFacet:
		fs.MaxInclusive = v
	case *MinExclusiveFacet:
		fs.MinExclusive = v
	case *MaxExclusiveFacet:
		fs.MaxExclusive = v
	case *TotalDigitsFacet:
		fs.TotalDigits = v
	case *FractionDigitsFacet:
		fs.FractionDigits = v
	case *PatternFacet:
		fs.Patterns = append(fs.Patterns, v)
	case *EnumerationFacet:
		if fs.Enumeration == nil {
			fs.Enumeration = v
		} else {
			fs.Enumeration.Values = append(fs.Enumeration.Values, v.Values...)
		}
	case *WhiteSpaceFacet:
		fs.WhiteSpace = v
	}
}

// parseFacet builds one facet from its element name, value, and fixed flag.
// Unknown names return (nil, nil) so callers can skip non-facet children.
func parseFacet(name, value string, fixed bool) (FacetValidator, error) {
	intValue := func() (int, error) {
		v, err := strconv.Atoi(value)
		if err != nil {
			return 0, parseErrorf("facet %s requires an integer value, got %q", name, value)
		}
		return v, nil
	}
	switch name {
	case "length":
		v, err := intValue()
		if err != nil {
			return nil, err
		}
		return &LengthFacet{Value: v, Fixed: fixed}, nil
	case "minLength":
		v, err := intValue()
		if err != nil {
			return nil, err
		}
		return &MinLengthFacet{Value: v, Fixed: fixed}, nil
	case "maxLength":
		v, err := intValue()
		if err != nil {
			return nil, err
		}
		return &MaxLengthFacet{Value: v, Fixed: fixed}, nil
	case "totalDigits":
		v, err := intValue()
		if err != nil {
			return nil, err
		}
		return &TotalDigitsFacet{Value: v, Fixed: fixed}, nil
	case "fractionDigits":
		v, err := intValue()
		if err != nil {
			return nil, err
		}
		return &FractionDigitsFacet{Value: v, Fixed: fixed}, nil
	case "minInclusive":
		return &MinInclusiveFacet{boundFacet{Value: value, Fixed: fixed}}, nil
	case "maxInclusive":
		return &MaxInclusiveFacet{boundFacet{Value: value, Fixed: fixed}}, nil
	case "minExclusive":
		return &MinExclusiveFacet{boundFacet{Value: value, Fixed: fixed}}, nil
	case "maxExclusive":
		return &MaxExclusiveFacet{boundFacet{Value: value, Fixed: fixed}}, nil
	case "pattern":
		return NewPatternFacet(value)
	case "enumeration":
		return &EnumerationFacet{Values: []string{value}}, nil
	case "whiteSpace":
		switch value {
		case WhitespacePreserve, WhitespaceReplace, WhitespaceCollapse:
			return &WhiteSpaceFacet{Value: value, Fixed: fixed}, nil
		}
		return nil, parseErrorf("invalid whiteSpace facet value %q", value)
	}
	return nil, nil
}
