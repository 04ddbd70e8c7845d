package xmlschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertString(t *testing.T, xml string, format JSONFormat) string {
	t.Helper()
	doc, err := ParseDocumentString(xml)
	require.NoError(t, err)
	out, err := ConvertToJSON(doc, format, false)
	require.NoError(t, err)
	return string(out)
}

func TestConvertDefault(t *testing.T) {
	got := convertString(t, `<a x="1"><b>t</b><b>u</b><c/></a>`, JSONDefault)
	assert.Equal(t, `{"a":{"@x":"1","b":["t","u"],"c":null}}`, got)
}

func TestConvertDefaultLeafText(t *testing.T) {
	got := convertString(t, `<greeting>hello</greeting>`, JSONDefault)
	assert.Equal(t, `{"greeting":"hello"}`, got)
}

func TestConvertAttributedLeaf(t *testing.T) {
	got := convertString(t, `<price currency="EUR">9.99</price>`, JSONDefault)
	assert.Equal(t, `{"price":{"@currency":"EUR","#text":"9.99"}}`, got)
}

func TestConvertParker(t *testing.T) {
	got := convertString(t, `<a x="1"><b>t</b><b>u</b></a>`, JSONParker)
	// Parker drops attributes entirely.
	assert.Equal(t, `{"a":{"b":["t","u"]}}`, got)
}

func TestConvertBadgerFish(t *testing.T) {
	got := convertString(t, `<price currency="EUR">9.99</price>`, JSONBadgerFish)
	assert.Equal(t, `{"price":{"@currency":"EUR","$":"9.99"}}`, got)
}

func TestConvertUnordered(t *testing.T) {
	got := convertString(t, `<a><b>t</b></a>`, JSONUnordered)
	assert.JSONEq(t, `{"a":{"b":"t"}}`, got)
}

func TestConvertUnknownFormat(t *testing.T) {
	doc, err := ParseDocumentString(`<a/>`)
	require.NoError(t, err)
	_, err = ConvertToJSON(doc, "yaml", false)
	assert.Error(t, err)
}

func TestConvertPretty(t *testing.T) {
	doc, err := ParseDocumentString(`<a><b>t</b></a>`)
	require.NoError(t, err)
	out, err := ConvertToJSON(doc, JSONDefault, true)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n")
}
