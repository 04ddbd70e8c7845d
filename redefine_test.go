package xmlschema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedefineOverridesIncluded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "colors.xsd", `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="http://ex.com/c">
		<xs:simpleType name="colorType">
			<xs:restriction base="xs:string">
				<xs:enumeration value="red"/>
				<xs:enumeration value="green"/>
				<xs:enumeration value="blue"/>
			</xs:restriction>
		</xs:simpleType>
		<xs:element name="fallback" type="xs:string"/>
	</xs:schema>`)
	root := writeFile(t, dir, "narrow.xsd", `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
	           targetNamespace="http://ex.com/c" xmlns:c="http://ex.com/c">
		<xs:redefine schemaLocation="colors.xsd">
			<xs:simpleType name="colorType">
				<xs:restriction base="xs:string">
					<xs:enumeration value="red"/>
				</xs:restriction>
			</xs:simpleType>
		</xs:redefine>
		<xs:element name="color" type="c:colorType"/>
	</xs:schema>`)

	schema, err := LoadSchemaFile(root)
	require.NoError(t, err)

	// The redefining definition wins over the included original.
	st, ok := schema.LookupType(QName{Namespace: "http://ex.com/c", Local: "colorType"}).(*SimpleType)
	require.True(t, ok)
	require.NotNil(t, st.Facets.Enumeration)
	assert.Equal(t, []string{"red"}, st.Facets.Enumeration.Values)

	// Non-redefined components of the redefined schema still merge.
	assert.NotNil(t, schema.LookupElement(QName{Namespace: "http://ex.com/c", Local: "fallback"}))

	violations := validate(t, schema, `<color xmlns="http://ex.com/c">red</color>`)
	assert.Empty(t, violations)
	violations = validate(t, schema, `<color xmlns="http://ex.com/c">green</color>`)
	assert.NotEmpty(t, violations, "the redefinition narrows the enumeration")
}

func TestRedefineMissingLocation(t *testing.T) {
	_, err := ParseBytes([]byte(`<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:redefine/>
	</xs:schema>`))
	require.Error(t, err)
}

func TestSelfReferentialRedefineReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.xsd", `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="http://ex.com/r">
		<xs:simpleType name="sizeType">
			<xs:restriction base="xs:string"/>
		</xs:simpleType>
	</xs:schema>`)
	root := writeFile(t, dir, "narrowing.xsd", `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
	           targetNamespace="http://ex.com/r" xmlns:r="http://ex.com/r">
		<xs:redefine schemaLocation="base.xsd">
			<xs:simpleType name="sizeType">
				<xs:restriction base="r:sizeType">
					<xs:maxLength value="4"/>
				</xs:restriction>
			</xs:simpleType>
		</xs:redefine>
		<xs:element name="size" type="r:sizeType"/>
	</xs:schema>`)

	schema, err := LoadSchemaFile(filepath.Join(dir, filepath.Base(root)))
	require.NoError(t, err)
	// A redefinition deriving from its own name is not silently dropped:
	// the unresolved self-reference is reported on the schema.
	assert.NotEmpty(t, schema.Errors)
}
