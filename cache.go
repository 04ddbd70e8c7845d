package xmlschema

import (
	"path/filepath"
	"sync"
)

// SchemaCache memoizes assembled schemas by resolved location so hosts
// validating many documents against the same schemas pay the load cost
// once. Built schemas are immutable and safe to share across goroutines;
// each entry loads exactly once even under concurrent Get calls.
type SchemaCache struct {
	mu       sync.RWMutex
	schemas  map[string]*cacheEntry
	BasePath string
	Catalog  *Catalog
}

type cacheEntry struct {
	once   sync.Once
	schema *Schema
	err    error
	load   func() (*Schema, error)
}

// NewSchemaCache creates a cache resolving relative locations against
// basePath.
func NewSchemaCache(basePath string) *SchemaCache {
	return &SchemaCache{
		schemas:  make(map[string]*cacheEntry),
		BasePath: basePath,
	}
}

// Get returns the schema at location, loading and building it on first
// use.
func (sc *SchemaCache) Get(location string) (*Schema, error) {
	resolved := sc.resolvePath(location)

	sc.mu.RLock()
	entry, exists := sc.schemas[resolved]
	sc.mu.RUnlock()

	if !exists {
		sc.mu.Lock()
		entry, exists = sc.schemas[resolved]
		if !exists {
			entry = &cacheEntry{load: func() (*Schema, error) {
				loader := NewLoader(filepath.Dir(resolved))
				loader.Catalog = sc.Catalog
				return loader.Load(resolved)
			}}
			sc.schemas[resolved] = entry
		}
		sc.mu.Unlock()
	}

	entry.once.Do(func() {
		entry.schema, entry.err = entry.load()
	})
	return entry.schema, entry.err
}

// Invalidate drops a cached schema so the next Get reloads it.
func (sc *SchemaCache) Invalidate(location string) {
	resolved := sc.resolvePath(location)
	sc.mu.Lock()
	delete(sc.schemas, resolved)
	sc.mu.Unlock()
}

// Len returns the number of cached entries.
func (sc *SchemaCache) Len() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.schemas)
}

func (sc *SchemaCache) resolvePath(location string) string {
	if filepath.IsAbs(location) || sc.BasePath == "" {
		return location
	}
	return filepath.Join(sc.BasePath, location)
}
