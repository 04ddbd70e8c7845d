package xmlschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorPathParsing(t *testing.T) {
	valid := []string{
		"employee",
		"department/employee",
		".//employee",
		"//employee",
		"./employee",
		"a | b",
		"ns:employee",
		"*",
		"child::employee",
		".",
	}
	for _, expr := range valid {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseSelectorPath(expr)
			assert.NoError(t, err)
		})
	}

	invalid := []string{
		"@attr",
		"employee/@id",
		"../sibling",
		"employee[1]",
		"ancestor::x",
		"a//b",
		"",
	}
	for _, expr := range invalid {
		t.Run("reject "+expr, func(t *testing.T) {
			_, err := ParseSelectorPath(expr)
			assert.Error(t, err)
		})
	}
}

func TestFieldPathParsing(t *testing.T) {
	valid := []string{"@id", "isbn", "detail/@code", "attribute::id", "."}
	for _, expr := range valid {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseFieldPath(expr)
			assert.NoError(t, err)
		})
	}

	// Attribute steps must be terminal.
	_, err := ParseFieldPath("@id/detail")
	assert.Error(t, err)
}

func TestPathEvaluation(t *testing.T) {
	doc, err := ParseDocumentString(`<root>
		<dept name="eng">
			<emp id="1"><name>a</name></emp>
			<emp id="2"><name>b</name></emp>
		</dept>
		<dept name="ops">
			<emp id="3"><name>c</name></emp>
		</dept>
	</root>`)
	require.NoError(t, err)
	root := doc.DocumentElement()

	direct, err := ParseSelectorPath("dept/emp")
	require.NoError(t, err)
	assert.Len(t, direct.SelectElements(root), 3)

	descendant, err := ParseSelectorPath(".//emp")
	require.NoError(t, err)
	assert.Len(t, descendant.SelectElements(root), 3)

	wildcard, err := ParseSelectorPath("*/emp")
	require.NoError(t, err)
	assert.Len(t, wildcard.SelectElements(root), 3)

	onlyDepts, err := ParseSelectorPath("dept")
	require.NoError(t, err)
	assert.Len(t, onlyDepts.SelectElements(root), 2)
}

func TestFieldValueEvaluation(t *testing.T) {
	doc, err := ParseDocumentString(`<emp id="7"><name>alice</name><badge code="x1"/></emp>`)
	require.NoError(t, err)
	emp := doc.DocumentElement()

	attrField, err := ParseFieldPath("@id")
	require.NoError(t, err)
	value, ok := attrField.SelectValue(emp)
	require.True(t, ok)
	assert.Equal(t, "7", value)

	elemField, err := ParseFieldPath("name")
	require.NoError(t, err)
	value, ok = elemField.SelectValue(emp)
	require.True(t, ok)
	assert.Equal(t, "alice", value)

	nestedAttr, err := ParseFieldPath("badge/@code")
	require.NoError(t, err)
	value, ok = nestedAttr.SelectValue(emp)
	require.True(t, ok)
	assert.Equal(t, "x1", value)

	missing, err := ParseFieldPath("@absent")
	require.NoError(t, err)
	_, ok = missing.SelectValue(emp)
	assert.False(t, ok)

	self, err := ParseFieldPath(".")
	require.NoError(t, err)
	_, ok = self.SelectValue(emp)
	assert.True(t, ok)
}
