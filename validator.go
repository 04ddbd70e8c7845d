package xmlschema

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// ValidationMode controls error accumulation during a validation run.
type ValidationMode string

const (
	// StrictMode surfaces the first error and aborts.
	StrictMode ValidationMode = "strict"
	// LaxMode collects every error and keeps going.
	LaxMode ValidationMode = "lax"
	// SkipMode runs no checks.
	SkipMode ValidationMode = "skip"
)

// DefaultMaxDepth bounds element nesting before the depth guard trips.
const DefaultMaxDepth = 512

// Validator validates instance documents against a built schema. The
// schema is shared read-only; every Validate call owns its own context, so
// one Validator may serve concurrent callers.
type Validator struct {
	schema   *Schema
	Mode     ValidationMode
	MaxDepth int
}

// NewValidator creates a validator in lax (collect-all) mode.
func NewValidator(schema *Schema) *Validator {
	return &Validator{schema: schema, Mode: LaxMode, MaxDepth: DefaultMaxDepth}
}

// ValidationContext is the per-call scratch state of one validation run:
// error list, depth counter, id maps, identity scopes, and the cooperative
// stop flag.
type ValidationContext struct {
	mode     ValidationMode
	depth    int
	maxDepth int

	ids    map[string]xmldom.Element
	idrefs map[string]xmldom.Element

	violations []Violation
	stopped    bool
	identities *IdentityTracker
}

// NewValidationContext creates a context for one validation run.
func NewValidationContext(mode ValidationMode) *ValidationContext {
	return &ValidationContext{
		mode:       mode,
		maxDepth:   DefaultMaxDepth,
		ids:        make(map[string]xmldom.Element),
		idrefs:     make(map[string]xmldom.Element),
		identities: NewIdentityTracker(),
	}
}

// Stop raises the cooperative cancellation flag; the element recursion
// checks it between steps.
func (c *ValidationContext) Stop() { c.stopped = true }

// Stopped reports whether the run was cancelled or aborted.
func (c *ValidationContext) Stopped() bool { return c.stopped }

// Violations returns the errors collected so far, in visit order.
func (c *ValidationContext) Violations() []Violation { return c.violations }

// report records one violation; in strict mode it also halts the run.
func (c *ValidationContext) report(v Violation) {
	if c.mode == SkipMode || c.stopped {
		return
	}
	c.violations = append(c.violations, v)
	if c.mode == StrictMode {
		c.stopped = true
	}
}

func (c *ValidationContext) halted() bool { return c.stopped }

// Validate validates a document and returns the violations found. In
// strict mode at most one violation is returned; in skip mode none.
func (v *Validator) Validate(doc xmldom.Document) []Violation {
	ctx := NewValidationContext(v.Mode)
	ctx.maxDepth = v.MaxDepth
	return v.ValidateWithContext(ctx, doc)
}

// ValidateWithContext validates a document using a caller-owned context,
// which enables cooperative cancellation via ctx.Stop.
func (v *Validator) ValidateWithContext(ctx *ValidationContext, doc xmldom.Document) []Violation {
	if ctx.mode == SkipMode {
		return ctx.violations
	}
	if v.schema == nil || !v.schema.IsBuilt() {
		ctx.report(Violation{
			Code:    "schema-not-built",
			Message: "schema must be built before validation",
		})
		return ctx.violations
	}
	if doc == nil {
		ctx.report(Violation{Code: "xsd-null-document", Message: "document is null"})
		return ctx.violations
	}
	root := doc.DocumentElement()
	if root == nil {
		ctx.report(Violation{Code: "xsd-no-root", Message: "document has no root element"})
		return ctx.violations
	}

	name := v.promote(elementQName(root))
	decl := v.schema.LookupElement(name)
	if decl == nil {
		ctx.report(Violation{
			Element: root,
			Code:    "cvc-elt.1",
			Message: fmt.Sprintf("unknown root element %s", name),
			Path:    elementPath(root),
		})
		return ctx.violations
	}

	v.validateElement(ctx, root, decl)
	v.checkIDRefs(ctx)
	return ctx.violations
}

// promote applies default-namespace promotion: an unqualified name is
// retried against the schema's target namespace.
func (v *Validator) promote(name QName) QName {
	if name.Namespace == "" && v.schema.TargetNamespace != "" {
		if _, ok := v.schema.Globals.Elements[name]; !ok {
			return QName{Namespace: v.schema.TargetNamespace, Local: name.Local}
		}
	}
	return name
}

// elementMatches is the visitor matcher: structural name match with
// default-namespace promotion, then substitution-group membership when the
// expected declaration does not block it.
func (v *Validator) elementMatches(decl *ElementDecl, name QName) bool {
	target := decl.EffectiveName()
	if name == target {
		return true
	}
	if name.Namespace == "" && (QName{Namespace: v.schema.TargetNamespace, Local: name.Local}) == target {
		return true
	}
	head := decl.Resolved()
	if head.blocksSubstitution() {
		return false
	}
	for _, member := range v.schema.Globals.SubstitutionGroups[target] {
		if member.Name == name || (name.Namespace == "" && member.Name.Local == name.Local) {
			return v.substitutionTypeCompatible(member, head)
		}
	}
	return false
}

// substitutionTypeCompatible checks that a substituting member's type is
// the head's type or derives from it.
func (v *Validator) substitutionTypeCompatible(member, head *ElementDecl) bool {
	if head.Type == nil || member.Type == nil {
		return true
	}
	if member.Type == head.Type {
		return true
	}
	headName := head.Type.Name()
	if headName.IsZero() {
		return true
	}
	return v.schema.derivesFrom(member.Type, headName)
}

// validateElement validates one instance element against its declaration,
// dispatching on the declared (or xsi:type-substituted) type.
func (v *Validator) validateElement(ctx *ValidationContext, elem xmldom.Element, decl *ElementDecl) {
	if ctx.halted() {
		return
	}
	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.depth > ctx.maxDepth {
		ctx.report(Violation{
			Element: elem,
			Code:    "limit-exceeded",
			Message: fmt.Sprintf("element nesting exceeds the configured limit of %d", ctx.maxDepth),
			Path:    elementPath(elem),
		})
		ctx.stopped = true
		return
	}

	decl = decl.Resolved()
	local := string(elem.LocalName())

	if decl.Abstract {
		ctx.report(Violation{
			Element: elem,
			Code:    "cvc-elt.2",
			Message: fmt.Sprintf("Element '%s' is abstract and cannot be used directly", local),
		})
	}

	elemType := decl.Type
	if xsiType := string(elem.GetAttributeNS(XSINamespace, "type")); xsiType != "" {
		elemType = v.resolveXsiType(ctx, elem, decl, xsiType, elemType)
	}
	if ct, ok := elemType.(*ComplexType); ok && ct.Abstract {
		ctx.report(Violation{
			Element: elem,
			Code:    "cvc-type.2",
			Message: fmt.Sprintf("Element '%s' has abstract type '%s' which cannot be used directly", local, ct.QName.Local),
		})
	}

	// Identity-constraint scopes open here and close post-order.
	if len(decl.Constraints) > 0 {
		ctx.identities.EnterScope(elem, decl.Constraints)
		defer func() {
			for _, violation := range ctx.identities.LeaveScope() {
				ctx.report(violation)
			}
		}()
	}

	nilled := v.checkNillable(ctx, elem, decl, local)

	switch t := elemType.(type) {
	case *SimpleType:
		v.validateSimpleElementAttrs(ctx, elem)
		if nilled {
			return
		}
		if children := childElements(elem); len(children) > 0 {
			ctx.report(Violation{
				Element: elem,
				Code:    "cvc-type.3.1.2",
				Message: fmt.Sprintf("Element '%s' with simple type cannot have element children", local),
			})
			return
		}
		v.validateSimpleValue(ctx, elem, t, decl.Default, decl.Fixed)
	case *ComplexType:
		v.validateAttributes(ctx, elem, t)
		v.checkAssertions(ctx, elem, t)
		if nilled {
			return
		}
		v.validateComplexContent(ctx, elem, t, decl)
	default:
		// No resolvable type: anyType semantics. Children validate
		// against their global declarations when they have one.
		for _, child := range childElements(elem) {
			if childDecl := v.schema.LookupElement(v.promote(elementQName(child))); childDecl != nil {
				v.validateElement(ctx, child, childDecl)
			}
		}
	}
}

// resolveXsiType applies an xsi:type override: the named type must exist
// and derive from the declared type.
func (v *Validator) resolveXsiType(ctx *ValidationContext, elem xmldom.Element, decl *ElementDecl, lexical string, declared Type) Type {
	qname, err := instanceQName(elem, lexical)
	if err != nil {
		ctx.report(Violation{
			Element: elem,
			Code:    "cvc-elt.4.1",
			Message: fmt.Sprintf("cannot resolve xsi:type %q: %v", lexical, err),
		})
		return declared
	}
	override := v.schema.LookupType(qname)
	if override == nil {
		ctx.report(Violation{
			Element: elem,
			Code:    "cvc-elt.4.2",
			Message: fmt.Sprintf("xsi:type names unknown type %s", qname),
		})
		return declared
	}
	if declared != nil && !declared.Name().IsZero() && !v.schema.derivesFrom(override, declared.Name()) {
		ctx.report(Violation{
			Element: elem,
			Code:    "cvc-elt.4.3",
			Message: fmt.Sprintf("xsi:type %s is not derived from declared type %s", qname, declared.Name()),
		})
		return declared
	}
	return override
}

// instanceQName resolves a lexical QName against the namespace bindings in
// scope at an instance element.
func instanceQName(elem xmldom.Element, lexical string) (QName, error) {
	prefix, local, found := strings.Cut(lexical, ":")
	if !found {
		return QName{Namespace: string(elem.NamespaceURI()), Local: lexical}, nil
	}
	if prefix == "xs" || prefix == "xsd" {
		return QName{Namespace: XSDNamespace, Local: local}, nil
	}
	const elementNodeType = 1
	for node := xmldom.Node(elem); node != nil && node.NodeType() == elementNodeType; node = node.ParentNode() {
		e, ok := node.(xmldom.Element)
		if !ok {
			break
		}
		if uri := attrValue(e, "xmlns:"+prefix); uri != "" {
			return QName{Namespace: uri, Local: local}, nil
		}
	}
	return QName{}, &SchemaError{Kind: ErrNamespace, Message: fmt.Sprintf("unknown namespace prefix %q", prefix)}
}

// checkNillable handles xsi:nil: the declaration must be nillable, and a
// nilled element must be empty. Returns whether the element is nilled.
func (v *Validator) checkNillable(ctx *ValidationContext, elem xmldom.Element, decl *ElementDecl, local string) bool {
	xsiNil := string(elem.GetAttributeNS(XSINamespace, "nil"))
	if xsiNil == "" {
		return false
	}
	if !decl.Nillable {
		ctx.report(Violation{
			Element:   elem,
			Attribute: "xsi:nil",
			Code:      "cvc-elt.3.1",
			Message:   fmt.Sprintf("Element '%s' is not nillable.", local),
		})
		return false
	}
	if xsiNil != "true" && xsiNil != "1" {
		return false
	}
	if len(childElements(elem)) > 0 || hasSignificantText(elem) {
		ctx.report(Violation{
			Element: elem,
			Code:    "cvc-elt.3.2.1",
			Message: fmt.Sprintf("Element '%s' has xsi:nil='true' but is not empty", local),
		})
	}
	if decl.Fixed != "" {
		ctx.report(Violation{
			Element: elem,
			Code:    "cvc-elt.3.2.2",
			Message: fmt.Sprintf("Element '%s' cannot be nilled: it has a fixed value", local),
		})
	}
	return true
}

// validateSimpleElementAttrs rejects attributes on simple-typed elements;
// only namespace declarations and xsi: attributes are invisible.
func (v *Validator) validateSimpleElementAttrs(ctx *ValidationContext, elem xmldom.Element) {
	attrs := elem.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		node := attrs.Item(i)
		if node == nil || isNamespaceAttr(node) {
			continue
		}
		ctx.report(Violation{
			Element:   elem,
			Attribute: string(node.LocalName()),
			Code:      "cvc-type.3.1.1",
			Message: fmt.Sprintf("Attribute '%s' is not allowed on element '%s' with simple type",
				node.LocalName(), elem.LocalName()),
		})
	}
}

// validateSimpleValue validates character content against a simple type,
// applying defaults and checking fixed-value equality.
func (v *Validator) validateSimpleValue(ctx *ValidationContext, elem xmldom.Element, st *SimpleType, defaultValue, fixed string) {
	text := elementText(elem)
	if strings.TrimSpace(text) == "" && defaultValue != "" {
		text = defaultValue
	}
	if fixed != "" {
		if st.Normalize(text) != st.Normalize(fixed) {
			ctx.report(Violation{
				Element: elem,
				Code:    "cvc-elt.5.2.2",
				Message: fmt.Sprintf("Element '%s' must have fixed value '%s' but has '%s'",
					elem.LocalName(), fixed, strings.TrimSpace(text)),
				Expected: []string{fixed},
				Actual:   strings.TrimSpace(text),
			})
		}
	}
	for _, err := range st.ValidateValue(text) {
		ctx.report(Violation{
			Element:   elem,
			Code:      "cvc-datatype-valid.1",
			Message:   err.Error(),
			Actual:    strings.TrimSpace(text),
			Component: st.QName.String(),
		})
	}
	v.trackIDValue(ctx, elem, st, st.Normalize(text))
}

// trackIDValue feeds xs:ID / xs:IDREF values into the document-scope id
// registry.
func (v *Validator) trackIDValue(ctx *ValidationContext, elem xmldom.Element, st *SimpleType, value string) {
	if value == "" {
		return
	}
	bt := st.nearestBuiltin()
	if bt == nil {
		return
	}
	switch bt.Name {
	case "ID":
		if _, dup := ctx.ids[value]; dup {
			ctx.report(Violation{
				Element: elem,
				Code:    "cvc-id.2",
				Message: fmt.Sprintf("Duplicate ID value '%s'", value),
				Actual:  value,
			})
			return
		}
		ctx.ids[value] = elem
	case "IDREF":
		ctx.idrefs[value] = elem
	case "IDREFS":
		for _, ref := range strings.Fields(value) {
			ctx.idrefs[ref] = elem
		}
	}
}

func (v *Validator) checkIDRefs(ctx *ValidationContext) {
	for ref, elem := range ctx.idrefs {
		if _, ok := ctx.ids[ref]; !ok {
			ctx.report(Violation{
				Element: elem,
				Code:    "cvc-id.1",
				Message: fmt.Sprintf("There is no ID/IDREF binding for IDREF '%s'", ref),
				Actual:  ref,
			})
		}
	}
}

func (v *Validator) checkAssertions(ctx *ValidationContext, elem xmldom.Element, ct *ComplexType) {
	for _, assertion := range ct.Assertions {
		if !assertion.Holds() {
			ctx.report(Violation{
				Element: elem,
				Code:    "cvc-assertion",
				Message: fmt.Sprintf("assertion '%s' failed on element '%s'", assertion.Test, elem.LocalName()),
			})
		}
	}
}

// validateAttributes runs the attribute phase: presence, prohibition,
// fixed values, simple-type checks, and wildcard handling for undeclared
// attributes.
func (v *Validator) validateAttributes(ctx *ValidationContext, elem xmldom.Element, ct *ComplexType) {
	expected := make(map[QName]*AttributeDecl, len(ct.Attributes))
	for _, attr := range ct.Attributes {
		expected[attr.EffectiveName()] = attr
	}
	seen := make(map[QName]bool)

	attrs := elem.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		node := attrs.Item(i)
		if node == nil || isNamespaceAttr(node) {
			continue
		}
		name := QName{Namespace: string(node.NamespaceURI()), Local: string(node.LocalName())}
		value := string(node.NodeValue())

		decl, ok := expected[name]
		if !ok && name.Namespace != "" {
			decl, ok = expected[QName{Local: name.Local}]
		}
		if ok {
			seen[decl.EffectiveName()] = true
			v.validateDeclaredAttribute(ctx, elem, decl.Resolved(), name, value)
			continue
		}
		v.validateWildcardAttribute(ctx, elem, ct.AnyAttribute, name, value, ct)
	}

	for name, decl := range expected {
		if seen[name] {
			continue
		}
		resolved := decl.Resolved()
		if resolved.Use == RequiredUse {
			ctx.report(Violation{
				Element:   elem,
				Attribute: name.Local,
				Code:      "cvc-complex-type.4",
				Message:   fmt.Sprintf("Required attribute '%s' is missing", name.Local),
				Expected:  []string{name.Local},
			})
		}
		// Missing optional attributes with defaults are treated as
		// carrying the default value; nothing further to check.
	}
}

func (v *Validator) validateDeclaredAttribute(ctx *ValidationContext, elem xmldom.Element, decl *AttributeDecl, name QName, value string) {
	if decl.Use == ProhibitedUse {
		ctx.report(Violation{
			Element:   elem,
			Attribute: name.Local,
			Code:      "cvc-complex-type.3.2.1",
			Message:   fmt.Sprintf("Attribute '%s' is prohibited on element '%s'", name.Local, elem.LocalName()),
		})
		return
	}
	st := decl.Type
	if decl.Fixed != "" {
		normalized, normalizedFixed := value, decl.Fixed
		if st != nil {
			normalized, normalizedFixed = st.Normalize(value), st.Normalize(decl.Fixed)
		}
		if normalized != normalizedFixed {
			ctx.report(Violation{
				Element:   elem,
				Attribute: name.Local,
				Code:      "cvc-attribute.4",
				Message: fmt.Sprintf("Attribute '%s' must have fixed value '%s' but has '%s'",
					name.Local, decl.Fixed, value),
				Expected: []string{decl.Fixed},
				Actual:   value,
			})
		}
	}
	if st == nil {
		return
	}
	for _, err := range st.ValidateValue(value) {
		violation := Violation{
			Element:   elem,
			Attribute: name.Local,
			Code:      "cvc-attribute.3",
			Message:   fmt.Sprintf("Attribute '%s': %v", name.Local, err),
			Actual:    value,
			Component: st.QName.String(),
		}
		if st.Facets.Enumeration != nil {
			violation.Expected = st.Facets.Enumeration.Values
		}
		ctx.report(violation)
	}
	v.trackIDValue(ctx, elem, st, st.Normalize(value))
}

func (v *Validator) validateWildcardAttribute(ctx *ValidationContext, elem xmldom.Element, wildcard *AnyAttribute, name QName, value string, ct *ComplexType) {
	if wildcard == nil {
		ctx.report(Violation{
			Element:   elem,
			Attribute: name.Local,
			Code:      "cvc-complex-type.3.2.2",
			Message: fmt.Sprintf("Attribute '%s' is not allowed to appear in element '%s'",
				name.Local, elem.LocalName()),
			Actual: name.Local,
		})
		return
	}
	if !wildcard.Matches(name) {
		ctx.report(Violation{
			Element:   elem,
			Attribute: name.Local,
			Code:      "cvc-wildcard-attribute.2",
			Message: fmt.Sprintf("Attribute '%s' is not allowed by the anyAttribute namespace constraint",
				name),
		})
		return
	}
	switch wildcard.Mode() {
	case SkipProcess:
		return
	case StrictProcess, LaxProcess:
		decl := v.schema.LookupAttribute(name)
		if decl == nil && wildcard.Mode() == StrictProcess {
			ctx.report(Violation{
				Element:   elem,
				Attribute: name.Local,
				Code:      "cvc-assess-attr.1.1",
				Message: fmt.Sprintf("No attribute declaration found for '%s' (processContents='strict')",
					name),
			})
			return
		}
		if decl != nil && decl.Type != nil {
			for _, err := range decl.Type.ValidateValue(value) {
				ctx.report(Violation{
					Element:   elem,
					Attribute: name.Local,
					Code:      "cvc-attribute.3",
					Message:   fmt.Sprintf("Attribute '%s': %v", name.Local, err),
					Actual:    value,
				})
			}
		}
	}
}

// validateComplexContent dispatches on the content-type label.
func (v *Validator) validateComplexContent(ctx *ValidationContext, elem xmldom.Element, ct *ComplexType, decl *ElementDecl) {
	children := childElements(elem)
	switch ct.ContentType() {
	case ContentEmpty:
		if len(children) > 0 || hasSignificantText(elem) {
			ctx.report(Violation{
				Element: elem,
				Code:    "cvc-complex-type.2.1",
				Message: fmt.Sprintf("Element '%s' must be empty", elem.LocalName()),
			})
		}
	case ContentSimple:
		if len(children) > 0 {
			ctx.report(Violation{
				Element: elem,
				Code:    "cvc-complex-type.2.2",
				Message: fmt.Sprintf("Element '%s' with simple content cannot have element children", elem.LocalName()),
			})
			return
		}
		if ct.SimpleContent != nil {
			v.validateSimpleValue(ctx, elem, ct.SimpleContent, decl.Default, decl.Fixed)
		}
	case ContentElementOnly:
		if hasSignificantText(elem) {
			ctx.report(Violation{
				Element: elem,
				Code:    "cvc-complex-type.2.3",
				Message: fmt.Sprintf("Element '%s' cannot have character content (element-only)", elem.LocalName()),
				Actual:  strings.TrimSpace(elementText(elem)),
			})
		}
		v.walkContentModel(ctx, elem, ct, children)
	case ContentMixed:
		v.walkContentModel(ctx, elem, ct, children)
	}
}

// childVisitor is the common face of the plain visitor and its
// open-content wrappers.
type childVisitor interface {
	MatchChild(name QName) (Particle, []Particle)
	Stop() []Particle
}

// walkContentModel drives the model visitor over the element's children,
// validating each matched child against its declaration.
func (v *Validator) walkContentModel(ctx *ValidationContext, elem xmldom.Element, ct *ComplexType, children []xmldom.Element) {
	if ct.Content == nil {
		return
	}
	inner := NewModelVisitor(ct.Content)
	inner.SetMatcher(v.elementMatches)

	var visitor childVisitor = inner
	if ct.OpenContent != nil && ct.OpenContent.Wildcard != nil {
		switch ct.OpenContent.Mode {
		case OpenContentInterleave:
			visitor = &InterleavedModelVisitor{Inner: inner, Wildcard: ct.OpenContent.Wildcard}
		case OpenContentSuffix:
			visitor = &SuffixedModelVisitor{Inner: inner, Wildcard: ct.OpenContent.Wildcard}
		}
	}

	for _, child := range children {
		if ctx.halted() {
			return
		}
		name := elementQName(child)
		matched, missing := visitor.MatchChild(name)
		v.reportMissing(ctx, elem, missing)
		if matched == nil {
			ctx.report(Violation{
				Element:  child,
				Code:     "cvc-complex-type.2.4.d",
				Message:  fmt.Sprintf("Unexpected element '%s'", child.LocalName()),
				Expected: qnameLocals(inner.Expected()),
				Actual:   string(child.LocalName()),
				Path:     elementPath(child),
			})
			continue
		}
		switch particle := matched.(type) {
		case *ElementDecl:
			v.validateMatchedChild(ctx, child, name, particle)
		case *AnyElement:
			v.validateWildcardChild(ctx, child, particle)
		}
	}
	v.reportMissing(ctx, elem, visitor.Stop())
}

// validateMatchedChild resolves the declaration for a matched child,
// honouring substitution groups, and recurses.
func (v *Validator) validateMatchedChild(ctx *ValidationContext, child xmldom.Element, name QName, particle *ElementDecl) {
	decl := particle.Resolved()
	if name != decl.Name && name != particle.EffectiveName() {
		// The child substituted for the declared element.
		if actual := v.schema.LookupElement(v.promote(name)); actual != nil {
			decl = actual
		}
	}
	v.validateElement(ctx, child, decl)
}

// validateWildcardChild applies the wildcard's process-contents mode.
func (v *Validator) validateWildcardChild(ctx *ValidationContext, child xmldom.Element, wildcard *AnyElement) {
	name := v.promote(elementQName(child))
	switch wildcard.Mode() {
	case SkipProcess:
		return
	case LaxProcess:
		if decl := v.schema.LookupElement(name); decl != nil {
			v.validateElement(ctx, child, decl)
		}
	case StrictProcess:
		decl := v.schema.LookupElement(name)
		if decl == nil {
			ctx.report(Violation{
				Element: child,
				Code:    "cvc-assess-elt.1.1.1",
				Message: fmt.Sprintf("No element declaration found for %s (processContents='strict')", name),
			})
			return
		}
		v.validateElement(ctx, child, decl)
	}
}

// reportMissing converts skipped-required particles into violations.
func (v *Validator) reportMissing(ctx *ValidationContext, elem xmldom.Element, missing []Particle) {
	for _, p := range missing {
		names := particleLeadingNames(p)
		label := "content"
		if len(names) > 0 {
			label = names[0].Local
		}
		ctx.report(Violation{
			Element:  elem,
			Code:     "cvc-complex-type.2.4.b",
			Message:  fmt.Sprintf("missing required element %s", label),
			Expected: qnameLocals(names),
			Path:     elementPath(elem),
		})
	}
}

func qnameLocals(names []QName) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name.Local)
	}
	return out
}
