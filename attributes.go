package xmlschema

// AttributeUse controls whether a declared attribute must, may, or must not
// appear.
type AttributeUse string

const (
	OptionalUse   AttributeUse = "optional"
	RequiredUse   AttributeUse = "required"
	ProhibitedUse AttributeUse = "prohibited"
)

// AttributeDecl represents an attribute declaration. Attribute types are
// always simple. Default and fixed are mutually exclusive, and a default
// requires optional use; violations of either are recorded at parse time.
type AttributeDecl struct {
	Name QName

	// Type is the resolved simple type; TypeName holds the forward
	// reference until the build phase backfills it.
	Type     *SimpleType
	TypeName QName

	Use     AttributeUse
	Form    Form
	Default string
	Fixed   string

	// Inheritable marks an XSD 1.1 inheritable attribute.
	Inheritable bool

	// Ref marks a reference to a global attribute declaration.
	Ref     QName
	refDecl *AttributeDecl
}

// Resolved returns the declaration validation should use.
func (a *AttributeDecl) Resolved() *AttributeDecl {
	if a.refDecl != nil {
		return a.refDecl
	}
	return a
}

// EffectiveName returns the name instance attributes match against.
func (a *AttributeDecl) EffectiveName() QName {
	if !a.Ref.IsZero() {
		return a.Ref
	}
	return a.Name
}

// AttributeGroup is a named collection of attribute declarations plus an
// optional anyAttribute wildcard. References to other attribute groups stay
// pending until the build phase copies their attributes in, with local
// declarations taking precedence.
type AttributeGroup struct {
	Name         QName
	Attributes   []*AttributeDecl
	AnyAttribute *AnyAttribute

	// GroupRefs are referenced attribute groups, resolved during build.
	GroupRefs []QName

	resolved bool
}
