package xmlschema

import (
	"slices"
	"strings"
)

// ProcessContentsMode defines how wildcard-matched content is validated.
type ProcessContentsMode string

const (
	// StrictProcess requires a resolvable global declaration.
	StrictProcess ProcessContentsMode = "strict"
	// LaxProcess validates when a declaration resolves, else allows.
	LaxProcess ProcessContentsMode = "lax"
	// SkipProcess performs no checks.
	SkipProcess ProcessContentsMode = "skip"
)

// processContentsRank orders modes tighter-to-looser for restriction
// checking: strict > lax > skip.
func processContentsRank(m ProcessContentsMode) int {
	switch m {
	case StrictProcess, "":
		return 2
	case LaxProcess:
		return 1
	default:
		return 0
	}
}

// IsProcessContentsRestriction reports whether derived is at least as
// tight as base.
func IsProcessContentsRestriction(derived, base ProcessContentsMode) bool {
	return processContentsRank(derived) >= processContentsRank(base)
}

// NamespaceConstraintMode discriminates the wildcard namespace constraint.
type NamespaceConstraintMode int

const (
	// NSAny allows every namespace.
	NSAny NamespaceConstraintMode = iota
	// NSOther allows everything except the target namespace and absent.
	NSOther
	// NSEnum allows an enumerated namespace set.
	NSEnum
	// NSNot disallows an enumerated namespace set (XSD 1.1).
	NSNot
)

// NamespaceConstraint is the namespace half of a wildcard. In enumerated
// sets the empty string stands for the absent (local) namespace.
type NamespaceConstraint struct {
	Mode       NamespaceConstraintMode
	Namespaces []string
	Exclude    string // target namespace captured for NSOther
}

// ParseNamespaceConstraint parses a wildcard namespace attribute. The
// target namespace is captured so ##other and ##targetNamespace keep their
// meaning after chameleon grafting.
func ParseNamespaceConstraint(value, targetNamespace string) *NamespaceConstraint {
	switch value {
	case "", "##any":
		return &NamespaceConstraint{Mode: NSAny}
	case "##other":
		return &NamespaceConstraint{Mode: NSOther, Exclude: targetNamespace}
	}
	var namespaces []string
	for _, tok := range strings.Fields(value) {
		switch tok {
		case "##targetNamespace":
			namespaces = append(namespaces, targetNamespace)
		case "##local":
			namespaces = append(namespaces, "")
		default:
			namespaces = append(namespaces, tok)
		}
	}
	return &NamespaceConstraint{Mode: NSEnum, Namespaces: namespaces}
}

// ParseNotNamespaceConstraint parses an XSD 1.1 notNamespace attribute.
func ParseNotNamespaceConstraint(value, targetNamespace string) *NamespaceConstraint {
	c := ParseNamespaceConstraint(value, targetNamespace)
	c.Mode = NSNot
	return c
}

// Allows reports whether the constraint admits the namespace.
func (c *NamespaceConstraint) Allows(ns string) bool {
	switch c.Mode {
	case NSAny:
		return true
	case NSOther:
		return ns != c.Exclude && ns != ""
	case NSEnum:
		return slices.Contains(c.Namespaces, ns)
	case NSNot:
		return !slices.Contains(c.Namespaces, ns)
	}
	return false
}

// asNot normalizes the constraint into not-set form where possible; NSAny
// is Not(∅) and NSOther is Not({exclude, absent}).
func (c *NamespaceConstraint) asNot() ([]string, bool) {
	switch c.Mode {
	case NSAny:
		return nil, true
	case NSOther:
		return []string{c.Exclude, ""}, true
	case NSNot:
		return c.Namespaces, true
	}
	return nil, false
}

func subset(s, t []string) bool {
	for _, v := range s {
		if !slices.Contains(t, v) {
			return false
		}
	}
	return true
}

func intersect(s, t []string) []string {
	var out []string
	for _, v := range s {
		if slices.Contains(t, v) && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func unite(s, t []string) []string {
	out := slices.Clone(s)
	for _, v := range t {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func subtract(s, t []string) []string {
	var out []string
	for _, v := range s {
		if !slices.Contains(t, v) {
			out = append(out, v)
		}
	}
	return out
}

// IsRestrictionOf reports whether this constraint admits a subset of what
// base admits, per the wildcard-subset rules.
func (c *NamespaceConstraint) IsRestrictionOf(base *NamespaceConstraint) bool {
	if base.Mode == NSAny {
		return true
	}
	if c.Mode == NSAny {
		return false
	}
	if c.Mode == NSEnum {
		switch base.Mode {
		case NSOther:
			return !slices.Contains(c.Namespaces, base.Exclude) && !slices.Contains(c.Namespaces, "")
		case NSEnum:
			return subset(c.Namespaces, base.Namespaces)
		case NSNot:
			return len(intersect(c.Namespaces, base.Namespaces)) == 0
		}
	}
	// Derived is a not-set (other or not): base must also be a not-set
	// whose disallowed namespaces are all disallowed by the derived one.
	derivedNot, ok := c.asNot()
	if !ok {
		return false
	}
	baseNot, ok := base.asNot()
	if !ok {
		return false
	}
	return subset(baseNot, derivedNot)
}

// Union returns a constraint admitting everything either operand admits.
func (c *NamespaceConstraint) Union(o *NamespaceConstraint) *NamespaceConstraint {
	if c.Mode == NSAny || o.Mode == NSAny {
		return &NamespaceConstraint{Mode: NSAny}
	}
	if c.Mode == NSEnum && o.Mode == NSEnum {
		return &NamespaceConstraint{Mode: NSEnum, Namespaces: unite(c.Namespaces, o.Namespaces)}
	}
	cNot, cOK := c.asNot()
	oNot, oOK := o.asNot()
	if cOK && oOK {
		not := intersect(cNot, oNot)
		if len(not) == 0 {
			return &NamespaceConstraint{Mode: NSAny}
		}
		return &NamespaceConstraint{Mode: NSNot, Namespaces: not}
	}
	// One enumerated, one not-set: remove the enumerated values from the
	// disallowed set.
	var enum *NamespaceConstraint
	var not []string
	if c.Mode == NSEnum {
		enum, not = c, oNot
	} else {
		enum, not = o, cNot
	}
	remaining := subtract(not, enum.Namespaces)
	if len(remaining) == 0 {
		return &NamespaceConstraint{Mode: NSAny}
	}
	return &NamespaceConstraint{Mode: NSNot, Namespaces: remaining}
}

// Intersection returns a constraint admitting only what both admit.
func (c *NamespaceConstraint) Intersection(o *NamespaceConstraint) *NamespaceConstraint {
	if c.Mode == NSAny {
		return o
	}
	if o.Mode == NSAny {
		return c
	}
	if c.Mode == NSEnum && o.Mode == NSEnum {
		return &NamespaceConstraint{Mode: NSEnum, Namespaces: intersect(c.Namespaces, o.Namespaces)}
	}
	cNot, cOK := c.asNot()
	oNot, oOK := o.asNot()
	if cOK && oOK {
		return &NamespaceConstraint{Mode: NSNot, Namespaces: unite(cNot, oNot)}
	}
	var enum *NamespaceConstraint
	var not []string
	if c.Mode == NSEnum {
		enum, not = c, oNot
	} else {
		enum, not = o, cNot
	}
	return &NamespaceConstraint{Mode: NSEnum, Namespaces: subtract(enum.Namespaces, not)}
}

// AnyElement represents an xs:any wildcard particle.
type AnyElement struct {
	Constraint      *NamespaceConstraint
	NotQNames       []QName // XSD 1.1 notQName exclusions
	ProcessContents ProcessContentsMode
	Occ             Occurs
}

// Occurs returns the wildcard's occurrence bounds.
func (a *AnyElement) Occurs() Occurs { return a.Occ }

// Matches reports whether the wildcard admits an element named name.
func (a *AnyElement) Matches(name QName) bool {
	if a.Constraint != nil && !a.Constraint.Allows(name.Namespace) {
		return false
	}
	return !slices.Contains(a.NotQNames, name)
}

// Mode returns the effective process-contents mode (strict by default).
func (a *AnyElement) Mode() ProcessContentsMode {
	if a.ProcessContents == "" {
		return StrictProcess
	}
	return a.ProcessContents
}

// AnyAttribute represents an xs:anyAttribute wildcard.
type AnyAttribute struct {
	Constraint      *NamespaceConstraint
	NotQNames       []QName
	ProcessContents ProcessContentsMode
}

// Matches reports whether the wildcard admits an attribute named name.
func (a *AnyAttribute) Matches(name QName) bool {
	if a.Constraint != nil && !a.Constraint.Allows(name.Namespace) {
		return false
	}
	return !slices.Contains(a.NotQNames, name)
}

// Mode returns the effective process-contents mode (strict by default).
func (a *AnyAttribute) Mode() ProcessContentsMode {
	if a.ProcessContents == "" {
		return StrictProcess
	}
	return a.ProcessContents
}
