package xmlschema

import (
	"net/url"
	"path/filepath"
	"strings"
)

// LocationKind discriminates the resource-location union.
type LocationKind int

const (
	// LocationPath is a file-system path.
	LocationPath LocationKind = iota
	// LocationURL is a remote or file URL.
	LocationURL
	// LocationString is an in-memory resource identifier.
	LocationString
)

// Location identifies a resource a schema or instance document can be read
// from: a file path, a URL, or an in-memory string. Locations carry enough
// information to be resolved against a base URL plus an optional catalog.
type Location struct {
	Kind  LocationKind
	Path  string
	URL   *url.URL
	Value string
}

// FileLocation creates a path location.
func FileLocation(path string) Location {
	return Location{Kind: LocationPath, Path: path}
}

// URLLocation creates a URL location.
func URLLocation(u *url.URL) Location {
	return Location{Kind: LocationURL, URL: u}
}

// StringLocation creates an in-memory location.
func StringLocation(value string) Location {
	return Location{Kind: LocationString, Value: value}
}

// ParseLocation auto-detects the kind of a location literal. Absolute URLs
// with a non-file scheme become URL locations; file-ish strings become
// paths; everything else is an in-memory identifier.
func ParseLocation(s string) Location {
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		return URLLocation(u)
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, ".") || strings.ContainsAny(s, `/\`) || filepath.Ext(s) != "" {
		return FileLocation(s)
	}
	return StringLocation(s)
}

// String renders the location as its source literal.
func (l Location) String() string {
	switch l.Kind {
	case LocationPath:
		return l.Path
	case LocationURL:
		return l.URL.String()
	default:
		return l.Value
	}
}

// IsRemote reports whether the location is a URL.
func (l Location) IsRemote() bool { return l.Kind == LocationURL }

// IsFile reports whether the location is a file path.
func (l Location) IsFile() bool { return l.Kind == LocationPath }

// resolveSchemaLocation resolves a schemaLocation literal to a concrete
// path. Resolution order: catalog lookup, absolute path, relative to the
// referencing schema's base, then the literal itself.
func resolveSchemaLocation(location, baseURL string, catalog *Catalog) string {
	if catalog != nil {
		if resolved, ok := catalog.Resolve(location); ok {
			return resolved
		}
	}
	if filepath.IsAbs(location) {
		return location
	}
	if baseURL != "" {
		return filepath.Join(baseURL, location)
	}
	return location
}
