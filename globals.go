package xmlschema

// Globals is the per-schema registry of global components, keyed by QName.
// Simple and complex types share one map under the Type interface. After a
// schema is built the registry is read-only and may be shared freely.
type Globals struct {
	Types           map[QName]Type
	Elements        map[QName]*ElementDecl
	Attributes      map[QName]*AttributeDecl
	AttributeGroups map[QName]*AttributeGroup
	Groups          map[QName]*ModelGroup
	Notations       map[QName]*Notation
	Identities      map[QName]*IdentityConstraint

	// SubstitutionGroups indexes head element name to the declarations
	// that may substitute for it. Built during the build phase.
	SubstitutionGroups map[QName][]*ElementDecl
}

// NewGlobals creates an empty registry.
func NewGlobals() *Globals {
	return &Globals{
		Types:              make(map[QName]Type),
		Elements:           make(map[QName]*ElementDecl),
		Attributes:         make(map[QName]*AttributeDecl),
		AttributeGroups:    make(map[QName]*AttributeGroup),
		Groups:             make(map[QName]*ModelGroup),
		Notations:          make(map[QName]*Notation),
		Identities:         make(map[QName]*IdentityConstraint),
		SubstitutionGroups: make(map[QName][]*ElementDecl),
	}
}

// Merge copies components from other into g. With overwrite false existing
// entries win (include semantics); with overwrite true the incoming
// components replace same-named ones (redefine semantics).
func (g *Globals) Merge(other *Globals, overwrite bool) {
	for qname, t := range other.Types {
		if _, exists := g.Types[qname]; overwrite || !exists {
			g.Types[qname] = t
		}
	}
	for qname, e := range other.Elements {
		if _, exists := g.Elements[qname]; overwrite || !exists {
			g.Elements[qname] = e
		}
	}
	for qname, a := range other.Attributes {
		if _, exists := g.Attributes[qname]; overwrite || !exists {
			g.Attributes[qname] = a
		}
	}
	for qname, ag := range other.AttributeGroups {
		if _, exists := g.AttributeGroups[qname]; overwrite || !exists {
			g.AttributeGroups[qname] = ag
		}
	}
	for qname, mg := range other.Groups {
		if _, exists := g.Groups[qname]; overwrite || !exists {
			g.Groups[qname] = mg
		}
	}
	for qname, n := range other.Notations {
		if _, exists := g.Notations[qname]; overwrite || !exists {
			g.Notations[qname] = n
		}
	}
	for qname, ic := range other.Identities {
		if _, exists := g.Identities[qname]; overwrite || !exists {
			g.Identities[qname] = ic
		}
	}
}

// Renamespace rewrites every global registry key and component name into
// ns. This implements chameleon inclusion: a no-namespace schema included
// from a namespaced one grafts its globals into the parent namespace.
func (g *Globals) Renamespace(ns string) {
	g.Types = renamespaceMap(g.Types, ns, func(t Type) {
		switch v := t.(type) {
		case *SimpleType:
			v.QName.Namespace = ns
		case *ComplexType:
			v.QName.Namespace = ns
		}
	})
	g.Elements = renamespaceMap(g.Elements, ns, func(e *ElementDecl) {
		e.Name.Namespace = ns
	})
	g.Attributes = renamespaceMap(g.Attributes, ns, func(a *AttributeDecl) {
		a.Name.Namespace = ns
	})
	g.AttributeGroups = renamespaceMap(g.AttributeGroups, ns, func(ag *AttributeGroup) {
		ag.Name.Namespace = ns
	})
	g.Groups = renamespaceMap(g.Groups, ns, func(mg *ModelGroup) {
		mg.Name.Namespace = ns
	})
	g.Notations = renamespaceMap(g.Notations, ns, func(n *Notation) {
		n.Name.Namespace = ns
	})
	g.Identities = renamespaceMap(g.Identities, ns, func(ic *IdentityConstraint) {
		ic.Name.Namespace = ns
	})
}

func renamespaceMap[V any](m map[QName]V, ns string, rename func(V)) map[QName]V {
	out := make(map[QName]V, len(m))
	for qname, v := range m {
		rename(v)
		qname.Namespace = ns
		out[qname] = v
	}
	return out
}

// TypeCount returns the number of registered type definitions.
func (g *Globals) TypeCount() int { return len(g.Types) }

// ElementCount returns the number of registered element declarations.
func (g *Globals) ElementCount() int { return len(g.Elements) }
