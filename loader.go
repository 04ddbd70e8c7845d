package xmlschema

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Loader drives multi-document schema assembly: it drains an explicit
// worklist of schema files instead of recursing, so include chains tens of
// levels deep (DITA, NISO STS) cost memory rather than stack. Each
// canonical path is processed at most once, which also absorbs include
// cycles.
//
// A loader is single-threaded per root schema; the canonical-path set and
// catalog are only mutated during Load.
type Loader struct {
	BaseDir string
	Catalog *Catalog
	Limits  Limits

	loaded map[string]bool
	parsed []*Schema
}

// pendingSchemaWork is one worklist entry: a schema file plus the target
// namespace of the including schema, used for chameleon grafting.
type pendingSchemaWork struct {
	path       string
	parentNS   string
	hasParent  bool
	fromImport bool
}

// NewLoader creates a loader resolving relative locations against baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		BaseDir: baseDir,
		Limits:  DefaultLimits(),
		loaded:  make(map[string]bool),
	}
}

// LoadSchemaFile loads, assembles, and builds the schema rooted at path.
func LoadSchemaFile(path string) (*Schema, error) {
	loader := NewLoader(filepath.Dir(path))
	return loader.Load(path)
}

// LoadSchemaFileWithCatalog loads a schema resolving URN locations through
// an OASIS catalog.
func LoadSchemaFileWithCatalog(path, catalogPath string) (*Schema, error) {
	catalog, err := LoadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	loader := NewLoader(filepath.Dir(path))
	loader.Catalog = catalog
	return loader.Load(path)
}

// LoadSchemaString assembles a schema from in-memory content; includes and
// imports resolve against baseDir.
func LoadSchemaString(content, baseDir string) (*Schema, error) {
	loader := NewLoader(baseDir)
	return loader.LoadBytes([]byte(content))
}

// Load assembles the schema rooted at path. The first successful parse
// becomes the root; every later document merges its globals into the
// root's registry.
func (l *Loader) Load(path string) (*Schema, error) {
	root, err := l.drain([]pendingSchemaWork{{path: l.resolvePath(path)}}, nil)
	if err != nil {
		return nil, err
	}
	return l.finish(root)
}

// LoadBytes assembles a schema whose root document lives in memory.
func (l *Loader) LoadBytes(data []byte) (*Schema, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	root, err := parseSchemaDocument(doc)
	if err != nil {
		return nil, err
	}
	root.BaseURL = l.BaseDir
	root.Catalog = l.Catalog
	l.parsed = append(l.parsed, root)

	queue := l.enqueueReferences(nil, root)
	root, err = l.drain(queue, root)
	if err != nil {
		return nil, err
	}
	return l.finish(root)
}

// drain runs the worklist to exhaustion. A parse failure on the root or on
// an included or redefined document is fatal; failures on imported
// documents are downgraded: logged as a warning and recorded as an error on
// the root.
func (l *Loader) drain(queue []pendingSchemaWork, root *Schema) (*Schema, error) {
	for len(queue) > 0 {
		work := queue[0]
		queue = queue[1:]

		canonical := canonicalPath(work.path)
		if l.loaded[canonical] {
			continue
		}
		l.loaded[canonical] = true

		if err := l.Limits.checkDocumentCount(len(l.loaded)); err != nil {
			return nil, err
		}

		schema, err := l.parseOne(work)
		if err != nil {
			if root == nil {
				return nil, err
			}
			if work.fromImport {
				slog.Warn("skipping unloadable import", "location", work.path, "error", err)
				root.recordError(&SchemaError{
					Kind:     ErrResource,
					Message:  fmt.Sprintf("import of %q failed", work.path),
					Location: work.path,
					Err:      err,
				})
				continue
			}
			return nil, err
		}
		l.parsed = append(l.parsed, schema)

		queue = l.enqueueReferences(queue, schema)

		if root == nil {
			root = schema
		} else {
			root.Globals.Merge(schema.Globals, false)
		}
	}
	if root == nil {
		return nil, parseErrorf("failed to parse any schema document")
	}
	return root, nil
}

// enqueueReferences pushes a parsed schema's pending includes, redefines,
// and located imports onto the worklist.
func (l *Loader) enqueueReferences(queue []pendingSchemaWork, schema *Schema) []pendingSchemaWork {
	for _, location := range schema.pendingIncludes {
		queue = append(queue, pendingSchemaWork{
			path:      resolveSchemaLocation(location, schema.BaseURL, l.catalogFor(schema)),
			parentNS:  schema.TargetNamespace,
			hasParent: true,
		})
	}
	for _, location := range schema.pendingRedefines {
		queue = append(queue, pendingSchemaWork{
			path:      resolveSchemaLocation(location, schema.BaseURL, l.catalogFor(schema)),
			parentNS:  schema.TargetNamespace,
			hasParent: true,
		})
	}
	for _, imp := range schema.Imports {
		if imp.Location == "" {
			continue
		}
		queue = append(queue, pendingSchemaWork{
			path:       resolveSchemaLocation(imp.Location, schema.BaseURL, l.catalogFor(schema)),
			fromImport: true,
		})
	}
	return queue
}

func (l *Loader) catalogFor(schema *Schema) *Catalog {
	if schema.Catalog != nil {
		return schema.Catalog
	}
	return l.Catalog
}

// parseOne reads and parses one schema document without recursing into its
// references, applying the chameleon and namespace-match rules of
// xs:include.
func (l *Loader) parseOne(work pendingSchemaWork) (*Schema, error) {
	data, err := os.ReadFile(work.path)
	if err != nil {
		return nil, &SchemaError{
			Kind:     ErrResource,
			Message:  fmt.Sprintf("failed to read schema %q", work.path),
			Location: work.path,
			Err:      err,
		}
	}
	if err := l.Limits.checkDocumentSize(work.path, int64(len(data))); err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	schema, err := parseSchemaDocument(doc)
	if err != nil {
		return nil, err
	}
	schema.SourceURL = work.path
	schema.BaseURL = filepath.Dir(work.path)
	schema.Catalog = l.Catalog

	if work.hasParent && !work.fromImport {
		if schema.TargetNamespace == "" && work.parentNS != "" {
			// Chameleon include: graft every global into the parent's
			// target namespace.
			schema.Globals.Renamespace(work.parentNS)
			schema.TargetNamespace = work.parentNS
		} else if schema.TargetNamespace != work.parentNS {
			return nil, parseErrorf("included schema %q has different targetNamespace %q, expected %q",
				work.path, schema.TargetNamespace, work.parentNS)
		}
	}
	return schema, nil
}

// finish wires import back-pointers and builds the assembled root.
func (l *Loader) finish(root *Schema) (*Schema, error) {
	byNamespace := make(map[string]*Schema)
	for _, schema := range l.parsed {
		if _, exists := byNamespace[schema.TargetNamespace]; !exists {
			byNamespace[schema.TargetNamespace] = schema
		}
	}
	for _, imp := range root.Imports {
		if loaded, ok := byNamespace[imp.Namespace]; ok && loaded != root {
			imp.Loaded = loaded
		}
	}
	if err := root.Build(); err != nil {
		return nil, err
	}
	return root, nil
}

func (l *Loader) resolvePath(path string) string {
	if filepath.IsAbs(path) || l.BaseDir == "" {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return filepath.Join(l.BaseDir, path)
}

// canonicalPath normalizes a path for the processed-set so the same file
// reached through different spellings loads once.
func canonicalPath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
