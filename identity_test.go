package xmlschema

import (
	"strings"
	"testing"
)

const identitySchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
	<xs:element name="company">
		<xs:complexType>
			<xs:sequence>
				<xs:element name="employee" minOccurs="0" maxOccurs="unbounded">
					<xs:complexType>
						<xs:attribute name="id" type="xs:string"/>
						<xs:attribute name="manager" type="xs:string"/>
					</xs:complexType>
				</xs:element>
			</xs:sequence>
		</xs:complexType>
		<xs:key name="employeeKey">
			<xs:selector xpath="employee"/>
			<xs:field xpath="@id"/>
		</xs:key>
		<xs:keyref name="managerRef" refer="employeeKey">
			<xs:selector xpath="employee"/>
			<xs:field xpath="@manager"/>
		</xs:keyref>
	</xs:element>
</xs:schema>`

func TestKeyAndKeyref(t *testing.T) {
	schema := mustParseSchema(t, identitySchema)

	tests := []struct {
		name      string
		xml       string
		errorCode string
	}{
		{
			name: "resolved references",
			xml: `<company>
				<employee id="e1"/>
				<employee id="e2" manager="e1"/>
			</company>`,
		},
		{
			name: "duplicate key",
			xml: `<company>
				<employee id="e1"/>
				<employee id="e1"/>
			</company>`,
			errorCode: "cvc-identity-constraint.4.1",
		},
		{
			name: "missing key field",
			xml: `<company>
				<employee manager="e1"/>
			</company>`,
			errorCode: "cvc-identity-constraint.4.2.2",
		},
		{
			name: "dangling keyref",
			xml: `<company>
				<employee id="e1" manager="ghost"/>
			</company>`,
			errorCode: "cvc-identity-constraint.4.3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := validate(t, schema, tt.xml)
			if tt.errorCode == "" {
				if len(violations) != 0 {
					t.Errorf("expected no violations, got %v", violations)
				}
				return
			}
			if !hasViolation(violations, tt.errorCode, "") {
				t.Errorf("expected %s, got %v", tt.errorCode, violations)
			}
		})
	}
}

func TestUniqueConstraint(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="catalog">
			<xs:complexType>
				<xs:sequence>
					<xs:element name="product" minOccurs="0" maxOccurs="unbounded">
						<xs:complexType>
							<xs:attribute name="sku" type="xs:string"/>
						</xs:complexType>
					</xs:element>
				</xs:sequence>
			</xs:complexType>
			<xs:unique name="uniqueSku">
				<xs:selector xpath="product"/>
				<xs:field xpath="@sku"/>
			</xs:unique>
		</xs:element>
	</xs:schema>`)

	if violations := validate(t, schema, `<catalog><product sku="a"/><product sku="b"/></catalog>`); len(violations) != 0 {
		t.Errorf("distinct values rejected: %v", violations)
	}
	violations := validate(t, schema, `<catalog><product sku="a"/><product sku="a"/></catalog>`)
	if !hasViolation(violations, "cvc-identity-constraint.4.1", "") {
		t.Errorf("expected duplicate-unique violation, got %v", violations)
	}

	// Unlike key, unique tolerates absent fields.
	if violations := validate(t, schema, `<catalog><product/><product/></catalog>`); len(violations) != 0 {
		t.Errorf("absent unique fields should be fine: %v", violations)
	}
}

func TestMultiFieldKey(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="grid">
			<xs:complexType>
				<xs:sequence>
					<xs:element name="cell" minOccurs="0" maxOccurs="unbounded">
						<xs:complexType>
							<xs:attribute name="row" type="xs:string"/>
							<xs:attribute name="col" type="xs:string"/>
						</xs:complexType>
					</xs:element>
				</xs:sequence>
			</xs:complexType>
			<xs:key name="cellKey">
				<xs:selector xpath="cell"/>
				<xs:field xpath="@row"/>
				<xs:field xpath="@col"/>
			</xs:key>
		</xs:element>
	</xs:schema>`)

	// Same row, different column: distinct composite keys.
	if violations := validate(t, schema, `<grid><cell row="1" col="1"/><cell row="1" col="2"/></grid>`); len(violations) != 0 {
		t.Errorf("distinct tuples rejected: %v", violations)
	}
	violations := validate(t, schema, `<grid><cell row="1" col="1"/><cell row="1" col="1"/></grid>`)
	if !hasViolation(violations, "cvc-identity-constraint.4.1", "") {
		t.Errorf("expected duplicate tuple violation, got %v", violations)
	}
}

func TestKeyOnChildElementField(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="library">
			<xs:complexType>
				<xs:sequence>
					<xs:element name="book" minOccurs="0" maxOccurs="unbounded">
						<xs:complexType>
							<xs:sequence>
								<xs:element name="isbn" type="xs:string"/>
							</xs:sequence>
						</xs:complexType>
					</xs:element>
				</xs:sequence>
			</xs:complexType>
			<xs:key name="isbnKey">
				<xs:selector xpath="book"/>
				<xs:field xpath="isbn"/>
			</xs:key>
		</xs:element>
	</xs:schema>`)

	violations := validate(t, schema,
		`<library><book><isbn>111</isbn></book><book><isbn>111</isbn></book></library>`)
	if !hasViolation(violations, "cvc-identity-constraint.4.1", "") {
		t.Errorf("expected duplicate key via element field, got %v", violations)
	}
}

func TestIdentityValueNormalization(t *testing.T) {
	schema := mustParseSchema(t, identitySchema)
	// Field values are whitespace-collapsed before comparison.
	violations := validate(t, schema,
		`<company><employee id=" e1 "/><employee id="e1"/></company>`)
	if !hasViolation(violations, "cvc-identity-constraint.4.1", "") {
		t.Errorf("expected normalized duplicate, got %v", violations)
	}
}

func TestSelectorRestrictionsEnforced(t *testing.T) {
	schema := mustParseSchema(t, `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="root" type="xs:string">
			<xs:unique name="badSelector">
				<xs:selector xpath="@attr"/>
				<xs:field xpath="."/>
			</xs:unique>
		</xs:element>
	</xs:schema>`)

	found := false
	for _, err := range schema.Errors {
		if strings.Contains(err.Error(), "attribute steps are not allowed in selector") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a selector restriction error, got %v", schema.Errors)
	}
}
