package xmlschema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog()
	err := c.Parse([]byte(`<?xml version="1.0"?>
	<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
		<system systemId="urn:oasis:names:tc:dita:xsd:topic.xsd:1.3" uri="xsd/topic.xsd"/>
		<uri name="urn:example:names" uri="names.xsd"/>
	</catalog>`), "/schemas")
	require.NoError(t, err)

	resolved, ok := c.Resolve("urn:oasis:names:tc:dita:xsd:topic.xsd:1.3")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/schemas", "xsd", "topic.xsd"), resolved)

	resolved, ok = c.Resolve("urn:example:names")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/schemas", "names.xsd"), resolved)

	// Unknown identifiers report not-found rather than erroring.
	_, ok = c.Resolve("urn:example:unknown")
	assert.False(t, ok)
}

func TestCatalogFirstWins(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Parse([]byte(`<?xml version="1.0"?>
	<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
		<system systemId="urn:x" uri="first.xsd"/>
	</catalog>`), "/a"))
	require.NoError(t, c.Parse([]byte(`<?xml version="1.0"?>
	<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
		<system systemId="urn:x" uri="second.xsd"/>
		<system systemId="urn:y" uri="extra.xsd"/>
	</catalog>`), "/b"))

	resolved, ok := c.Resolve("urn:x")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/a", "first.xsd"), resolved, "earlier mapping must win")

	_, ok = c.Resolve("urn:y")
	assert.True(t, ok, "non-conflicting entries still merge")
}

func TestCatalogGroupInheritsBase(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Parse([]byte(`<?xml version="1.0"?>
	<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
		<group>
			<system systemId="urn:grouped" uri="g.xsd"/>
		</group>
	</catalog>`), "/base"))

	resolved, ok := c.Resolve("urn:grouped")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/base", "g.xsd"), resolved)
}

func TestCatalogBrokenNextCatalogIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.xml", `<catalog this is not xml`)
	c := NewCatalog()
	err := c.Parse([]byte(`<?xml version="1.0"?>
	<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
		<system systemId="urn:ok" uri="ok.xsd"/>
		<nextCatalog catalog="broken.xml"/>
	</catalog>`), dir)
	require.NoError(t, err, "a broken nested catalog must not poison the primary")

	_, ok := c.Resolve("urn:ok")
	assert.True(t, ok)
}

func TestCatalogNextCatalogMerges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "aux.xml", `<?xml version="1.0"?>
	<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
		<system systemId="urn:aux" uri="aux.xsd"/>
	</catalog>`)
	path := writeFile(t, dir, "main.xml", `<?xml version="1.0"?>
	<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
		<system systemId="urn:main" uri="main.xsd"/>
		<nextCatalog catalog="aux.xml"/>
	</catalog>`)

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Resolve("urn:aux")
	assert.True(t, ok)
}

func TestCatalogRejectsWrongRoot(t *testing.T) {
	c := NewCatalog()
	err := c.Parse([]byte(`<notacatalog/>`), "")
	require.Error(t, err)
}
