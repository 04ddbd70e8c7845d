package xmlschema

import (
	"testing"
)

func TestWhitespaceNormalizationIdempotent(t *testing.T) {
	inputs := []string{
		"", "plain", "  padded  ", "a\tb\nc", "multi   space", "\r\n mixed \t",
	}
	for _, mode := range []string{WhitespacePreserve, WhitespaceReplace, WhitespaceCollapse} {
		for _, input := range inputs {
			once := NormalizeWhiteSpace(input, mode)
			twice := NormalizeWhiteSpace(once, mode)
			if once != twice {
				t.Errorf("mode %s not idempotent on %q: %q != %q", mode, input, once, twice)
			}
		}
	}
}

func TestBuiltinWhitespaceModes(t *testing.T) {
	tests := []struct {
		typeName string
		want     string
	}{
		{"string", WhitespacePreserve},
		{"normalizedString", WhitespaceReplace},
		{"token", WhitespaceCollapse},
		{"int", WhitespaceCollapse},
		{"dateTime", WhitespaceCollapse},
	}
	for _, tt := range tests {
		st := builtinSimpleType(tt.typeName)
		if st == nil {
			t.Fatalf("missing builtin %s", tt.typeName)
		}
		if got := st.WhiteSpaceMode(); got != tt.want {
			t.Errorf("%s whitespace = %s, want %s", tt.typeName, got, tt.want)
		}
	}
}

func TestBuiltinLexicalSpaces(t *testing.T) {
	tests := []struct {
		typeName string
		value    string
		valid    bool
	}{
		{"boolean", "true", true},
		{"boolean", "yes", false},
		{"decimal", "-1.23", true},
		{"decimal", "1.2.3", false},
		{"integer", "42", true},
		{"integer", "4.2", false},
		{"int", "2147483647", true},
		{"int", "2147483648", false},
		{"byte", "127", true},
		{"byte", "128", false},
		{"unsignedByte", "255", true},
		{"unsignedByte", "-1", false},
		{"date", "2020-02-29", true},
		{"date", "2020-13-01", false},
		{"gYear", "2020", true},
		{"gYear", "20", false},
		{"time", "23:59:59", true},
		{"time", "24:00:01", false},
		{"duration", "P1Y2M3DT4H", true},
		{"duration", "P", false},
		{"hexBinary", "0fb7", true},
		{"hexBinary", "0fb", false},
		{"base64Binary", "Zm9vYg==", true},
		{"language", "en-US", true},
		{"language", "123", false},
		{"NCName", "valid-name", true},
		{"NCName", "in:valid", false},
		{"QName", "ex:name", true},
		{"QName", "a:b:c", false},
		{"NMTOKEN", "a.b-c", true},
		{"NMTOKEN", "", false},
		{"float", "INF", true},
		{"double", "NaN", true},
	}
	for _, tt := range tests {
		t.Run(tt.typeName+"/"+tt.value, func(t *testing.T) {
			bt := GetBuiltinType(tt.typeName)
			if bt == nil {
				t.Fatalf("missing builtin %s", tt.typeName)
			}
			err := bt.Validate(tt.value)
			if tt.valid && err != nil {
				t.Errorf("%s should accept %q: %v", tt.typeName, tt.value, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("%s should reject %q", tt.typeName, tt.value)
			}
		})
	}
}

func TestListTypeValidation(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:simpleType name="intList">
			<xs:list itemType="xs:int"/>
		</xs:simpleType>
		<xs:simpleType name="threeInts">
			<xs:restriction base="intList">
				<xs:length value="3"/>
			</xs:restriction>
		</xs:simpleType>
		<xs:element name="values" type="threeInts"/>
	</xs:schema>`)

	tests := []struct {
		name      string
		xml       string
		wantError bool
	}{
		{"exact length", `<values>1 2 3</values>`, false},
		{"wrong length", `<values>1 2</values>`, true},
		{"bad item", `<values>1 x 3</values>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := validate(t, schema, tt.xml)
			if tt.wantError && len(violations) == 0 {
				t.Errorf("expected a violation")
			}
			if !tt.wantError && len(violations) != 0 {
				t.Errorf("expected no violations, got %v", violations)
			}
		})
	}
}

func TestUnionTypeValidation(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:simpleType name="intOrKeyword">
			<xs:union memberTypes="xs:int">
				<xs:simpleType>
					<xs:restriction base="xs:string">
						<xs:enumeration value="auto"/>
						<xs:enumeration value="none"/>
					</xs:restriction>
				</xs:simpleType>
			</xs:union>
		</xs:simpleType>
		<xs:element name="width" type="intOrKeyword"/>
	</xs:schema>`)

	tests := []struct {
		name      string
		xml       string
		wantError bool
	}{
		{"int member wins", `<width>42</width>`, false},
		{"keyword member wins", `<width>auto</width>`, false},
		{"no member accepts", `<width>wide</width>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := validate(t, schema, tt.xml)
			if tt.wantError && len(violations) == 0 {
				t.Errorf("expected a violation")
			}
			if !tt.wantError && len(violations) != 0 {
				t.Errorf("expected no violations, got %v", violations)
			}
		})
	}
}

// Permuting a union's members must not change whether a value is accepted.
func TestUnionOrderIndependence(t *testing.T) {
	intType := builtinSimpleType("int")
	tokenType := builtinSimpleType("token")

	forward := &SimpleType{
		QName:       QName{Local: "forward"},
		Variety:     VarietyUnion,
		MemberTypes: []*SimpleType{intType, tokenType},
	}
	backward := &SimpleType{
		QName:       QName{Local: "backward"},
		Variety:     VarietyUnion,
		MemberTypes: []*SimpleType{tokenType, intType},
	}

	for _, value := range []string{"42", "word", "two words", "-1", ""} {
		if forward.Accepts(value) != backward.Accepts(value) {
			t.Errorf("acceptance of %q depends on member order", value)
		}
	}
}

// Adding a facet never widens the accepted lexical space.
func TestFacetMonotonicity(t *testing.T) {
	base := &SimpleType{
		QName:   QName{Local: "plain"},
		Variety: VarietyAtomic,
		Base:    builtinSimpleType("string"),
	}
	narrowed := &SimpleType{
		QName:   QName{Local: "narrowed"},
		Variety: VarietyAtomic,
		Base:    base,
	}
	narrowed.Facets.add(&MaxLengthFacet{Value: 4})

	for _, value := range []string{"a", "abcd", "abcde", "", "hello world"} {
		if !base.Accepts(value) && narrowed.Accepts(value) {
			t.Errorf("facet widened the lexical space for %q", value)
		}
	}
	if narrowed.Accepts("abcde") {
		t.Errorf("maxLength 4 should reject a five-character value")
	}
}

// A value accepted once stays accepted in its canonical form.
func TestCanonicalRoundTrip(t *testing.T) {
	token := builtinSimpleType("token")
	values := []string{"a b", "  spaced   out  ", "plain"}
	for _, value := range values {
		if !token.Accepts(value) {
			continue
		}
		canonical := token.Canonical(value)
		if !token.Accepts(canonical) {
			t.Errorf("canonical form %q of %q not accepted", canonical, value)
		}
		if token.Canonical(canonical) != canonical {
			t.Errorf("canonicalisation not stable for %q", value)
		}
	}
}
