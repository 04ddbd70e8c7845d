package xmlschema

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSizeLimit(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "big.xsd", `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="e" type="xs:string"/>
	</xs:schema>`)

	loader := NewLoader(dir)
	loader.Limits.MaxDocumentBytes = 16
	_, err := loader.Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "byte limit")
}

func TestDocumentCountLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inc.xsd", `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:element name="included" type="xs:string"/>
	</xs:schema>`)
	root := writeFile(t, dir, "root.xsd", `<?xml version="1.0"?>
	<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
		<xs:include schemaLocation="inc.xsd"/>
		<xs:element name="e" type="xs:string"/>
	</xs:schema>`)

	loader := NewLoader(dir)
	loader.Limits.MaxSchemaDocuments = 1
	_, err := loader.Load(filepath.Join(dir, filepath.Base(root)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document limit")
}

func TestDefaultLimitsAreSane(t *testing.T) {
	limits := DefaultLimits()
	assert.Greater(t, limits.MaxDepth, 0)
	assert.Greater(t, limits.MaxDocumentBytes, int64(0))
	assert.Greater(t, limits.MaxSchemaDocuments, 0)
}

func TestLimitErrorKind(t *testing.T) {
	err := DefaultLimits().checkDocumentSize("x.xsd", 1<<40)
	require.Error(t, err)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, ErrLimitExceeded, schemaErr.Kind)
	assert.True(t, strings.Contains(err.Error(), "limit"))
}
