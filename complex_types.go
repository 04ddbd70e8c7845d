package xmlschema

// DerivationMethod names how a type derives from its base.
type DerivationMethod string

const (
	// DerivationExtension appends particles and attributes to the base.
	DerivationExtension DerivationMethod = "extension"
	// DerivationRestriction replaces the base's particles and attributes.
	DerivationRestriction DerivationMethod = "restriction"
)

// ContentTypeLabel classifies a complex type's content.
type ContentTypeLabel int

const (
	// ContentEmpty allows no element children and no significant text.
	ContentEmpty ContentTypeLabel = iota
	// ContentSimple allows text validated by a simple type, no children.
	ContentSimple
	// ContentElementOnly allows children but no significant text.
	ContentElementOnly
	// ContentMixed allows interleaved text and children.
	ContentMixed
)

func (l ContentTypeLabel) String() string {
	switch l {
	case ContentEmpty:
		return "empty"
	case ContentSimple:
		return "simple"
	case ContentElementOnly:
		return "element-only"
	default:
		return "mixed"
	}
}

// OpenContentMode selects how an XSD 1.1 open-content wildcard combines
// with the declared model.
type OpenContentMode string

const (
	// OpenContentInterleave lets the wildcard absorb children between
	// declared matches.
	OpenContentInterleave OpenContentMode = "interleave"
	// OpenContentSuffix lets the wildcard absorb children after the
	// declared model ends.
	OpenContentSuffix OpenContentMode = "suffix"
	// OpenContentNone disables an inherited open content.
	OpenContentNone OpenContentMode = "none"
)

// OpenContent is an XSD 1.1 openContent declaration.
type OpenContent struct {
	Mode     OpenContentMode
	Wildcard *AnyElement
}

// Assertion is an XSD 1.1 xs:assert. Only the trivial literals true() and
// false() are evaluated; other expressions are treated as satisfied until
// a real XPath engine replaces this.
type Assertion struct {
	Test string
}

// Holds evaluates the assertion.
func (a *Assertion) Holds() bool {
	return a.Test != "false()"
}

// ComplexType represents an XSD complex type definition: a content model
// or simple-content reference, an attribute collection, and derivation
// bookkeeping. The build phase flattens derivation so validation sees one
// descriptor.
type ComplexType struct {
	QName QName

	// BaseName plus Derivation record how this type derives; Base is
	// resolved during build.
	BaseName   QName
	Base       Type
	Derivation DerivationMethod

	// Content is the element content model; SimpleContent is set instead
	// for simpleContent derivations.
	Content           *ModelGroup
	SimpleContent     *SimpleType
	SimpleContentName QName

	Attributes      []*AttributeDecl
	AttributeGroups []QName
	AnyAttribute    *AnyAttribute

	Mixed    bool
	Abstract bool
	Block    string
	Final    string

	OpenContent *OpenContent
	Assertions  []*Assertion

	// Errors records defects found while building this type.
	Errors []error

	built bool
}

// Name returns the type's qualified name.
func (ct *ComplexType) Name() QName { return ct.QName }

// ContentType computes the content label from the flattened descriptor.
func (ct *ComplexType) ContentType() ContentTypeLabel {
	if ct.SimpleContent != nil || !ct.SimpleContentName.IsZero() {
		return ContentSimple
	}
	hasParticles := ct.Content != nil && (len(ct.Content.Particles) > 0 || !ct.Content.Ref.IsZero())
	if !hasParticles {
		if ct.Mixed {
			return ContentMixed
		}
		return ContentEmpty
	}
	if ct.Mixed {
		return ContentMixed
	}
	return ContentElementOnly
}

// allowsText reports whether significant character data is allowed.
func (ct *ComplexType) allowsText() bool {
	switch ct.ContentType() {
	case ContentSimple, ContentMixed:
		return true
	}
	return false
}
