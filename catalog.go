package xmlschema

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agentflare-ai/go-xmldom"
)

// CatalogNamespace is the OASIS XML Catalog namespace.
const CatalogNamespace = "urn:oasis:names:tc:entity:xmlns:xml:catalog"

// Catalog maps URN/system identifiers to concrete resource locations, per
// the OASIS XML Catalog subset used by schema corpora such as DITA:
// catalog, group, system, uri, and nextCatalog. Mappings merge first-wins,
// so a broken or conflicting auxiliary catalog cannot displace entries from
// the primary one.
type Catalog struct {
	systemMappings map[string]string // systemId -> uri
	uriMappings    map[string]string // name -> uri
	baseDir        string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		systemMappings: make(map[string]string),
		uriMappings:    make(map[string]string),
	}
}

// LoadCatalog reads and parses a catalog file, following nextCatalog
// references. Relative URIs are resolved against the catalog's directory at
// load time.
func LoadCatalog(path string) (*Catalog, error) {
	c := NewCatalog()
	c.baseDir = filepath.Dir(path)
	if err := c.loadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &SchemaError{
			Kind:     ErrResource,
			Message:  fmt.Sprintf("failed to read catalog %q", path),
			Location: path,
			Err:      err,
		}
	}
	return c.parse(data, filepath.Dir(path))
}

// Parse merges catalog XML content into the catalog, resolving relative
// URIs against baseDir.
func (c *Catalog) Parse(data []byte, baseDir string) error {
	return c.parse(data, baseDir)
}

func (c *Catalog) parse(data []byte, baseDir string) error {
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}
	root := doc.DocumentElement()
	if root == nil {
		return parseErrorf("empty catalog document")
	}
	if string(root.LocalName()) != "catalog" {
		return parseErrorf("expected catalog root element, got %s", root.LocalName())
	}
	c.processChildren(root, baseDir)
	return nil
}

// processChildren walks the children of a catalog or group element. Group
// elements pass through, inheriting the base directory.
func (c *Catalog) processChildren(elem xmldom.Element, baseDir string) {
	for _, child := range childElements(elem) {
		switch string(child.LocalName()) {
		case "system":
			systemID := attrValue(child, "systemId")
			uri := attrValue(child, "uri")
			if systemID == "" || uri == "" {
				continue
			}
			if _, exists := c.systemMappings[systemID]; !exists {
				c.systemMappings[systemID] = resolveAgainstDir(uri, baseDir)
			}
		case "uri":
			name := attrValue(child, "name")
			uri := attrValue(child, "uri")
			if name == "" || uri == "" {
				continue
			}
			if _, exists := c.uriMappings[name]; !exists {
				c.uriMappings[name] = resolveAgainstDir(uri, baseDir)
			}
		case "group":
			c.processChildren(child, baseDir)
		case "nextCatalog":
			location := attrValue(child, "catalog")
			if location == "" {
				continue
			}
			next := resolveAgainstDir(location, baseDir)
			// A broken auxiliary catalog must not poison the primary
			// lookup table, so parse failures here are downgraded.
			if err := c.loadFile(next); err != nil {
				slog.Warn("skipping unparseable nested catalog", "catalog", next, "error", err)
			}
		}
	}
}

// Resolve looks up a location literal, trying the system-ID map and then
// the URI-name map. Unknown identifiers report not-found rather than error.
func (c *Catalog) Resolve(location string) (string, bool) {
	if uri, ok := c.systemMappings[location]; ok {
		return uri, true
	}
	if uri, ok := c.uriMappings[location]; ok {
		return uri, true
	}
	return "", false
}

// Len returns the number of mappings in the catalog.
func (c *Catalog) Len() int {
	return len(c.systemMappings) + len(c.uriMappings)
}

func resolveAgainstDir(uri, baseDir string) string {
	if baseDir == "" || filepath.IsAbs(uri) {
		return uri
	}
	return filepath.Join(baseDir, uri)
}
