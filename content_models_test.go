package xmlschema

import (
	"fmt"
	"strings"
	"testing"
)

func TestChoiceContentModel(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="payment">
			<xs:complexType>
				<xs:choice>
					<xs:element name="card" type="xs:string"/>
					<xs:element name="transfer" type="xs:string"/>
					<xs:element name="cash" type="xs:string"/>
				</xs:choice>
			</xs:complexType>
		</xs:element>
	</xs:schema>`)

	tests := []struct {
		name      string
		xml       string
		wantError bool
	}{
		{"first branch", `<payment><card>visa</card></payment>`, false},
		{"last branch", `<payment><cash>50</cash></payment>`, false},
		{"no branch", `<payment/>`, true},
		{"two branches", `<payment><card>visa</card><cash>50</cash></payment>`, true},
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

func TestAllContentModel(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="person">
			<xs:complexType>
				<xs:all>
					<xs:element name="name" type="xs:string"/>
					<xs:element name="age" type="xs:int"/>
					<xs:element name="email" type="xs:string" minOccurs="0"/>
				</xs:all>
			</xs:complexType>
		</xs:element>
	</xs:schema>`)

	tests := []struct {
		name      string
		xml       string
		wantError bool
	}{
		{"declared order", `<person><name>A</name><age>3</age></person>`, false},
		{"reversed order", `<person><age>3</age><name>A</name></person>`, false},
		{"with optional", `<person><email>a@b</email><name>A</name><age>3</age></person>`, false},
		{"missing required", `<person><name>A</name></person>`, true},
		{"duplicate member", `<person><name>A</name><name>B</name><age>3</age></person>`, true},
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

func TestRepeatedElements(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="list">
			<xs:complexType>
				<xs:sequence>
					<xs:element name="item" type="xs:string" minOccurs="2" maxOccurs="3"/>
				</xs:sequence>
			</xs:complexType>
		</xs:element>
	</xs:schema>`)

	items := func(n int) string {
		var b strings.Builder
		b.WriteString("<list>")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "<item>i%d</item>", i)
		}
		b.WriteString("</list>")
		return b.String()
	}

	if violations := validate(t, schema, items(2)); len(violations) != 0 {
		t.Errorf("two items rejected: %v", violations)
	}
	if violations := validate(t, schema, items(3)); len(violations) != 0 {
		t.Errorf("three items rejected: %v", violations)
	}
	if violations := validate(t, schema, items(1)); len(violations) == 0 {
		t.Errorf("one item is below minOccurs")
	}
	if violations := validate(t, schema, items(4)); len(violations) == 0 {
		t.Errorf("four items exceed maxOccurs")
	}
}

func TestNestedCompositors(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="doc">
			<xs:complexType>
				<xs:sequence>
					<xs:element name="head" type="xs:string"/>
					<xs:choice maxOccurs="unbounded">
						<xs:element name="p" type="xs:string"/>
						<xs:element name="table" type="xs:string"/>
					</xs:choice>
					<xs:element name="foot" type="xs:string"/>
				</xs:sequence>
			</xs:complexType>
		</xs:element>
	</xs:schema>`)

	violations := validate(t, schema, `<doc>
		<head>h</head>
		<p>one</p>
		<table>t</table>
		<p>two</p>
		<foot>f</foot>
	</doc>`)
	if len(violations) != 0 {
		t.Errorf("interleaved choice content rejected: %v", violations)
	}

	violations = validate(t, schema, `<doc><head>h</head><foot>f</foot></doc>`)
	if len(violations) == 0 {
		t.Errorf("the choice requires at least one occurrence")
	}
}

func TestElementDefaultValue(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="port" type="xs:int" default="8080"/>
	</xs:schema>`)

	// An empty element takes the default, which must itself be valid.
	if violations := validate(t, schema, `<port/>`); len(violations) != 0 {
		t.Errorf("default value should apply to an empty element: %v", violations)
	}
	if violations := validate(t, schema, `<port>9</port>`); len(violations) != 0 {
		t.Errorf("explicit value rejected: %v", violations)
	}
	if violations := validate(t, schema, `<port>none</port>`); len(violations) == 0 {
		t.Errorf("non-int content should fail")
	}
}

func TestQualifiedLocalElements(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
	           targetNamespace="http://ex.com/q" elementFormDefault="qualified">
		<xs:element name="outer">
			<xs:complexType>
				<xs:sequence>
					<xs:element name="inner" type="xs:string"/>
				</xs:sequence>
			</xs:complexType>
		</xs:element>
	</xs:schema>`)

	if violations := validate(t, schema,
		`<outer xmlns="http://ex.com/q"><inner>x</inner></outer>`); len(violations) != 0 {
		t.Errorf("qualified locals rejected: %v", violations)
	}
}

func TestUnqualifiedLocalElements(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
	           targetNamespace="http://ex.com/u" xmlns:u="http://ex.com/u">
		<xs:element name="outer">
			<xs:complexType>
				<xs:sequence>
					<xs:element name="inner" type="xs:string"/>
				</xs:sequence>
			</xs:complexType>
		</xs:element>
	</xs:schema>`)

	if violations := validate(t, schema,
		`<u:outer xmlns:u="http://ex.com/u"><inner>x</inner></u:outer>`); len(violations) != 0 {
		t.Errorf("unqualified locals rejected: %v", violations)
	}
}

func TestRecoveryAfterUnexpectedChild(t *testing.T) {
	// After an unexpected child the model state survives, so trailing
	// required elements are still found.
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="r">
			<xs:complexType>
				<xs:sequence>
					<xs:element name="a" type="xs:string"/>
					<xs:element name="b" type="xs:string"/>
				</xs:sequence>
			</xs:complexType>
		</xs:element>
	</xs:schema>`)

	violations := validate(t, schema, `<r><a>1</a><zz>?</zz><b>2</b></r>`)
	if !hasViolation(violations, "cvc-complex-type.2.4.d", "Unexpected element 'zz'") {
		t.Fatalf("expected unexpected-element violation, got %v", violations)
	}
	if hasViolation(violations, "cvc-complex-type.2.4.b", "missing required element b") {
		t.Errorf("b matched after recovery yet was reported missing: %v", violations)
	}
}
