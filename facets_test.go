package xmlschema

import (
	"strings"
	"testing"
)

func TestFacetValidation(t *testing.T) {
	decimal := builtinSimpleType("decimal")
	str := builtinSimpleType("string")

	tests := []struct {
		name  string
		facet FacetValidator
		st    *SimpleType
		value string
		valid bool
	}{
		{"length ok", &LengthFacet{Value: 3}, str, "abc", true},
		{"length short", &LengthFacet{Value: 3}, str, "ab", false},
		{"length counts runes", &LengthFacet{Value: 2}, str, "äö", true},
		{"minLength", &MinLengthFacet{Value: 2}, str, "a", false},
		{"maxLength", &MaxLengthFacet{Value: 2}, str, "abc", false},
		{"minInclusive ok", &MinInclusiveFacet{boundFacet{Value: "5"}}, decimal, "5", true},
		{"minInclusive under", &MinInclusiveFacet{boundFacet{Value: "5"}}, decimal, "4.9", false},
		{"maxInclusive over", &MaxInclusiveFacet{boundFacet{Value: "10"}}, decimal, "10.1", false},
		{"minExclusive boundary", &MinExclusiveFacet{boundFacet{Value: "5"}}, decimal, "5", false},
		{"maxExclusive boundary", &MaxExclusiveFacet{boundFacet{Value: "10"}}, decimal, "10", false},
		{"totalDigits ok", &TotalDigitsFacet{Value: 4}, decimal, "12.34", true},
		{"totalDigits over", &TotalDigitsFacet{Value: 3}, decimal, "12.34", false},
		{"totalDigits ignores leading zeros", &TotalDigitsFacet{Value: 2}, decimal, "0042", true},
		{"fractionDigits ok", &FractionDigitsFacet{Value: 2}, decimal, "1.25", true},
		{"fractionDigits over", &FractionDigitsFacet{Value: 1}, decimal, "1.25", false},
		{"enumeration member", &EnumerationFacet{Values: []string{"a", "b"}}, str, "b", true},
		{"enumeration outsider", &EnumerationFacet{Values: []string{"a", "b"}}, str, "c", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.facet.Validate(tt.value, tt.st)
			if tt.valid && err != nil {
				t.Errorf("expected %q to pass: %v", tt.value, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to fail", tt.value)
			}
		})
	}
}

func TestPatternFacetAnchoring(t *testing.T) {
	facet, err := NewPatternFacet(`\d{3}`)
	if err != nil {
		t.Fatal(err)
	}
	if err := facet.Validate("123", nil); err != nil {
		t.Errorf("anchored pattern should accept exact match: %v", err)
	}
	// XSD patterns match the whole value, not a substring.
	if err := facet.Validate("a123b", nil); err == nil {
		t.Errorf("pattern should not match a substring")
	}
}

func TestXSDRegexClasses(t *testing.T) {
	facet, err := NewPatternFacet(`\i\c*`)
	if err != nil {
		t.Fatal(err)
	}
	if err := facet.Validate("_name", nil); err != nil {
		t.Errorf("\\i\\c* should accept an XML name: %v", err)
	}
	if err := facet.Validate("9bad", nil); err == nil {
		t.Errorf("\\i\\c* should reject a leading digit")
	}
}

func TestInvalidPatternDowngraded(t *testing.T) {
	// A broken pattern facet is dropped with an error recorded, not fatal.
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:simpleType name="broken">
			<xs:restriction base="xs:string">
				<xs:pattern value="[unclosed"/>
			</xs:restriction>
		</xs:simpleType>
		<xs:element name="v" type="broken"/>
	</xs:schema>`)

	if len(schema.Errors) == 0 {
		t.Fatalf("expected a recorded error for the invalid pattern")
	}
	// The remaining type still validates.
	if violations := validate(t, schema, `<v>anything</v>`); len(violations) != 0 {
		t.Errorf("value should pass without the dropped facet: %v", violations)
	}
}

func TestFacetSetOrdering(t *testing.T) {
	st := &SimpleType{
		QName:   QName{Local: "t"},
		Variety: VarietyAtomic,
		Base:    builtinSimpleType("string"),
	}
	st.Facets.add(&LengthFacet{Value: 3})
	pattern, err := NewPatternFacet(`[a-z]+`)
	if err != nil {
		t.Fatal(err)
	}
	st.Facets.add(pattern)
	st.Facets.add(&EnumerationFacet{Values: []string{"abc"}})

	errs := st.Facets.Validate("XY", st)
	if len(errs) != 3 {
		t.Fatalf("expected three facet errors, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "length") {
		t.Errorf("type-checked facets should run first, got %v", errs[0])
	}
	if !strings.Contains(errs[1].Error(), "pattern") {
		t.Errorf("pattern should run second, got %v", errs[1])
	}
	if !strings.Contains(errs[2].Error(), "enumeration") {
		t.Errorf("enumeration should run last, got %v", errs[2])
	}
}

func TestEnumerationFacetsMerge(t *testing.T) {
	var fs FacetSet
	fs.add(&EnumerationFacet{Values: []string{"a"}})
	fs.add(&EnumerationFacet{Values: []string{"b"}})
	if fs.Enumeration == nil || len(fs.Enumeration.Values) != 2 {
		t.Fatalf("repeated enumeration facets should merge, got %+v", fs.Enumeration)
	}
}

func TestParseFacetValues(t *testing.T) {
	if _, err := parseFacet("length", "abc", false); err == nil {
		t.Errorf("non-integer length should fail")
	}
	if f, err := parseFacet("whiteSpace", "collapse", true); err != nil || f == nil {
		t.Errorf("whiteSpace collapse should parse, got %v", err)
	}
	if _, err := parseFacet("whiteSpace", "trim", false); err == nil {
		t.Errorf("unknown whiteSpace mode should fail")
	}
	if f, err := parseFacet("documentation", "x", false); f != nil || err != nil {
		t.Errorf("unknown facet names are skipped, got %v %v", f, err)
	}
}
