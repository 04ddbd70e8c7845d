package xmlschema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// XsdVersion selects the schema dialect.
type XsdVersion string

const (
	// Version10 is XML Schema 1.0.
	Version10 XsdVersion = "1.0"
	// Version11 is XML Schema 1.1.
	Version11 XsdVersion = "1.1"
)

// Import records one xs:import directive. Loaded is filled in when the
// loader could resolve and parse the imported schema; import failures are
// advisory and leave it nil.
type Import struct {
	Namespace string
	Location  string
	Loaded    *Schema
}

// Schema is the compiled form of one schema document plus everything
// merged into it via include, redefine, and import. After Build succeeds
// the schema is immutable and may be shared across concurrent validators.
type Schema struct {
	Version         XsdVersion
	TargetNamespace string

	ElementFormDefault   Form
	AttributeFormDefault Form
	BlockDefault         string
	FinalDefault         string

	// Namespaces holds the prefix bindings of the schema document root.
	Namespaces *NamespaceContext

	Globals *Globals
	Imports []*Import

	// Pending include/redefine locations recorded during the no-recursion
	// parse pass; the loader's worklist drains them.
	pendingIncludes  []string
	pendingRedefines []string

	SourceURL string
	BaseURL   string
	Catalog   *Catalog

	// Errors accumulates parse- and build-phase defects that were
	// downgraded rather than aborting the load.
	Errors []error

	built    bool
	building []QName // cycle-detection stack during build

	anonCounter int
}

// NewSchema creates an empty XSD 1.0 schema.
func NewSchema() *Schema {
	return &Schema{
		Version:    Version10,
		Namespaces: NewNamespaceContext(nil),
		Globals:    NewGlobals(),
	}
}

// IsBuilt reports whether Build completed.
func (s *Schema) IsBuilt() bool { return s.built }

// recordError appends a downgraded defect to the schema's error list.
func (s *Schema) recordError(err error) {
	if err != nil {
		s.Errors = append(s.Errors, err)
	}
}

// anonName generates a registry name for an anonymous component.
func (s *Schema) anonName(prefix string) QName {
	s.anonCounter++
	return QName{Namespace: s.TargetNamespace, Local: fmt.Sprintf("_%s_%d", prefix, s.anonCounter)}
}

// Parse parses a schema document and builds it. Includes and imports are
// not followed; use a Loader for multi-document schemas.
func Parse(doc xmldom.Document) (*Schema, error) {
	s, err := parseSchemaDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := s.Build(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseBytes parses and builds a schema from raw bytes.
func ParseBytes(data []byte) (*Schema, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

// parseSchemaDocument parses one schema document without recursing into
// its includes or redefines; their locations are recorded as pending.
func parseSchemaDocument(doc xmldom.Document) (*Schema, error) {
	if doc == nil {
		return nil, parseErrorf("nil document")
	}
	root := doc.DocumentElement()
	if root == nil {
		return nil, parseErrorf("document has no root element")
	}
	rootNS := string(root.NamespaceURI())
	if !IsXSDNamespace(rootNS) || string(root.LocalName()) != "schema" {
		return nil, parseErrorf("not an XSD schema document: root is %s", elementQName(root))
	}

	s := NewSchema()
	if rootNS == XSD11Namespace {
		s.Version = Version11
	}
	s.Namespaces = extractNamespaceBindings(root, nil)
	s.TargetNamespace = attrValue(root, "targetNamespace")
	if v := attrValue(root, "elementFormDefault"); v != "" {
		s.ElementFormDefault = Form(v)
	}
	if v := attrValue(root, "attributeFormDefault"); v != "" {
		s.AttributeFormDefault = Form(v)
	}
	s.BlockDefault = attrValue(root, "blockDefault")
	s.FinalDefault = attrValue(root, "finalDefault")

	for _, child := range childElements(root) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		switch string(child.LocalName()) {
		case "annotation":
			// Documentation only.
		case "element":
			if decl := s.parseElement(child, true); decl != nil {
				s.Globals.Elements[decl.Name] = decl
			}
		case "complexType":
			if ct := s.parseComplexType(child, attrValue(child, "name")); ct != nil && !ct.QName.IsZero() {
				s.Globals.Types[ct.QName] = ct
			}
		case "simpleType":
			if st := s.parseSimpleType(child, attrValue(child, "name")); st != nil && !st.QName.IsZero() {
				s.Globals.Types[st.QName] = st
			}
		case "attribute":
			if attr := s.parseAttribute(child, true); attr != nil {
				s.Globals.Attributes[attr.Name] = attr
			}
		case "attributeGroup":
			if ag := s.parseAttributeGroup(child); ag != nil {
				s.Globals.AttributeGroups[ag.Name] = ag
			}
		case "group":
			if mg, name := s.parseNamedGroup(child); mg != nil {
				s.Globals.Groups[name] = mg
			}
		case "notation":
			if n := s.parseNotation(child); n != nil {
				s.Globals.Notations[n.Name] = n
			}
		case "import":
			s.parseImport(child)
		case "include":
			location := attrValue(child, "schemaLocation")
			if location == "" {
				return nil, parseErrorf("xs:include requires a schemaLocation attribute")
			}
			s.addPendingInclude(location)
		case "redefine":
			if err := s.parseRedefine(child); err != nil {
				return nil, err
			}
		default:
			s.recordError(parseErrorf("unknown schema child element %q", child.LocalName()))
		}
	}
	return s, nil
}

func (s *Schema) addPendingInclude(location string) {
	for _, existing := range s.pendingIncludes {
		if existing == location {
			return
		}
	}
	s.pendingIncludes = append(s.pendingIncludes, location)
}

func (s *Schema) addPendingRedefine(location string) {
	for _, existing := range s.pendingRedefines {
		if existing == location {
			return
		}
	}
	s.pendingRedefines = append(s.pendingRedefines, location)
}

// parseRedefine records the redefined schema location and parses the
// redefining components. They overwrite the originals when the loader
// merges the redefined document.
func (s *Schema) parseRedefine(elem xmldom.Element) error {
	location := attrValue(elem, "schemaLocation")
	if location == "" {
		return parseErrorf("xs:redefine requires a schemaLocation attribute")
	}
	s.addPendingRedefine(location)
	for _, child := range childElements(elem) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		switch string(child.LocalName()) {
		case "annotation":
		case "complexType":
			if ct := s.parseComplexType(child, attrValue(child, "name")); ct != nil && !ct.QName.IsZero() {
				s.Globals.Types[ct.QName] = ct
			}
		case "simpleType":
			if st := s.parseSimpleType(child, attrValue(child, "name")); st != nil && !st.QName.IsZero() {
				s.Globals.Types[st.QName] = st
			}
		case "group":
			if mg, name := s.parseNamedGroup(child); mg != nil {
				s.Globals.Groups[name] = mg
			}
		case "attributeGroup":
			if ag := s.parseAttributeGroup(child); ag != nil {
				s.Globals.AttributeGroups[ag.Name] = ag
			}
		default:
			s.recordError(parseErrorf("unknown xs:redefine child element %q", child.LocalName()))
		}
	}
	return nil
}

func (s *Schema) parseImport(elem xmldom.Element) {
	imp := &Import{
		Namespace: attrValue(elem, "namespace"),
		Location:  attrValue(elem, "schemaLocation"),
	}
	if imp.Namespace != "" && imp.Namespace == s.TargetNamespace {
		s.recordError(parseErrorf("a schema cannot import its own target namespace %q", imp.Namespace))
		return
	}
	for _, existing := range s.Imports {
		if existing.Namespace == imp.Namespace {
			return
		}
	}
	s.Imports = append(s.Imports, imp)
}

// resolveQName resolves a lexical QName against the schema document's
// prefix bindings. Unprefixed names fall back to the target namespace,
// matching how schema authors reference same-document globals.
func (s *Schema) resolveQName(name string) QName {
	if name == "" {
		return QName{}
	}
	qname, err := s.Namespaces.ParseQName(name, true)
	if err != nil {
		s.recordError(err)
		return QName{Local: name}
	}
	if qname.Namespace == "" {
		qname.Namespace = s.TargetNamespace
	}
	return qname
}

// localDeclName computes the namespace of a local declaration from its
// form.
func (s *Schema) localDeclName(local string, form Form, defaultForm Form) QName {
	effective := form
	if effective == "" {
		effective = defaultForm
	}
	if effective == QualifiedForm {
		return QName{Namespace: s.TargetNamespace, Local: local}
	}
	return QName{Local: local}
}

// parseElement parses an element declaration or reference. Global
// declarations are qualified by the target namespace; local ones follow
// form / elementFormDefault.
func (s *Schema) parseElement(elem xmldom.Element, global bool) *ElementDecl {
	if ref := attrValue(elem, "ref"); ref != "" && !global {
		return &ElementDecl{
			Ref:   s.resolveQName(ref),
			Occ:   parseOccursAttrs(elem),
			Scope: ScopeLocal,
		}
	}
	name := attrValue(elem, "name")
	if name == "" {
		s.recordError(parseErrorf("element declaration requires a name or ref attribute"))
		return nil
	}

	decl := &ElementDecl{
		Occ:      OnceOccurs,
		Nillable: boolAttr(elem, "nillable"),
		Abstract: boolAttr(elem, "abstract"),
		Default:  attrValue(elem, "default"),
		Fixed:    attrValue(elem, "fixed"),
		Block:    attrValue(elem, "block"),
		Final:    attrValue(elem, "final"),
		Form:     Form(attrValue(elem, "form")),
	}
	if decl.Block == "" {
		decl.Block = s.BlockDefault
	}
	if decl.Final == "" {
		decl.Final = s.FinalDefault
	}
	if decl.Default != "" && decl.Fixed != "" {
		s.recordError(parseErrorf("element %q cannot have both default and fixed values", name))
		decl.Default = ""
	}

	if global {
		decl.Scope = ScopeGlobal
		decl.Name = QName{Namespace: s.TargetNamespace, Local: name}
	} else {
		decl.Scope = ScopeLocal
		decl.Name = s.localDeclName(name, decl.Form, s.ElementFormDefault)
		decl.Occ = parseOccursAttrs(elem)
	}

	if substGroup := attrValue(elem, "substitutionGroup"); substGroup != "" {
		decl.SubstitutionGroup = s.resolveQName(substGroup)
	}
	if typeName := attrValue(elem, "type"); typeName != "" {
		decl.TypeName = s.resolveQName(typeName)
	}

	for _, child := range childElements(elem) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		switch string(child.LocalName()) {
		case "annotation":
		case "simpleType":
			decl.Type = s.parseSimpleType(child, "")
		case "complexType":
			decl.Type = s.parseComplexType(child, "")
		case "unique":
			s.addIdentityConstraint(decl, child, UniqueConstraint)
		case "key":
			s.addIdentityConstraint(decl, child, KeyConstraint)
		case "keyref":
			s.addIdentityConstraint(decl, child, KeyRefConstraint)
		case "alternative":
			s.recordError(parseErrorf("xs:alternative on element %q is not supported", name))
		default:
			s.recordError(parseErrorf("unknown element child %q on element %q", child.LocalName(), name))
		}
	}
	return decl
}

func (s *Schema) addIdentityConstraint(decl *ElementDecl, elem xmldom.Element, kind IdentityConstraintKind) {
	constraint := s.parseIdentityConstraint(elem, kind)
	if constraint == nil {
		return
	}
	decl.Constraints = append(decl.Constraints, constraint)
	s.Globals.Identities[constraint.Name] = constraint
}

func (s *Schema) parseIdentityConstraint(elem xmldom.Element, kind IdentityConstraintKind) *IdentityConstraint {
	name := attrValue(elem, "name")
	if name == "" {
		s.recordError(parseErrorf("%s constraint requires a name attribute", kind))
		return nil
	}
	constraint := &IdentityConstraint{
		Name: QName{Namespace: s.TargetNamespace, Local: name},
		Kind: kind,
	}
	if kind == KeyRefConstraint {
		refer := attrValue(elem, "refer")
		if refer == "" {
			s.recordError(parseErrorf("keyref %q requires a refer attribute", name))
			return nil
		}
		constraint.Refer = s.resolveQName(refer)
	}

	for _, child := range childElements(elem) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		switch string(child.LocalName()) {
		case "annotation":
		case "selector":
			path, err := ParseSelectorPath(attrValue(child, "xpath"))
			if err != nil {
				s.recordError(fmt.Errorf("%s %q: %w", kind, name, err))
				return nil
			}
			constraint.Selector = path
		case "field":
			path, err := ParseFieldPath(attrValue(child, "xpath"))
			if err != nil {
				s.recordError(fmt.Errorf("%s %q: %w", kind, name, err))
				return nil
			}
			constraint.Fields = append(constraint.Fields, path)
		}
	}
	if constraint.Selector == nil || len(constraint.Fields) == 0 {
		s.recordError(parseErrorf("%s %q requires a selector and at least one field", kind, name))
		return nil
	}
	return constraint
}

// parseSimpleType parses a simple type definition. Anonymous types get a
// generated registry name so forward references inside them still resolve.
func (s *Schema) parseSimpleType(elem xmldom.Element, name string) *SimpleType {
	st := &SimpleType{Variety: VarietyAtomic}
	if name != "" {
		st.QName = QName{Namespace: s.TargetNamespace, Local: name}
	}

	for _, child := range childElements(elem) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		switch string(child.LocalName()) {
		case "annotation":
		case "restriction":
			s.parseSimpleRestriction(child, st)
		case "list":
			st.Variety = VarietyList
			if itemType := attrValue(child, "itemType"); itemType != "" {
				st.ItemTypeName = s.resolveQName(itemType)
			} else {
				for _, inner := range xsdChildren(child) {
					if string(inner.LocalName()) == "simpleType" {
						item := s.parseSimpleType(inner, "")
						item.QName = s.anonName("list_item")
						s.Globals.Types[item.QName] = item
						st.ItemType = item
						break
					}
				}
			}
		case "union":
			st.Variety = VarietyUnion
			if memberTypes := attrValue(child, "memberTypes"); memberTypes != "" {
				for _, t := range strings.Fields(memberTypes) {
					st.MemberTypeNames = append(st.MemberTypeNames, s.resolveQName(t))
				}
			}
			for _, inner := range xsdChildren(child) {
				if string(inner.LocalName()) == "simpleType" {
					member := s.parseSimpleType(inner, "")
					member.QName = s.anonName("union_member")
					s.Globals.Types[member.QName] = member
					st.MemberTypes = append(st.MemberTypes, member)
					st.MemberTypeNames = append(st.MemberTypeNames, member.QName)
				}
			}
		default:
			s.recordError(parseErrorf("unknown simpleType child element %q", child.LocalName()))
		}
	}
	return st
}

// parseSimpleRestriction fills st from an xs:restriction child: base
// reference (attribute or inline) plus the facet bundle. An invalid
// pattern facet is dropped with an error recorded; it never aborts the
// schema.
func (s *Schema) parseSimpleRestriction(elem xmldom.Element, st *SimpleType) {
	if base := attrValue(elem, "base"); base != "" {
		st.BaseName = s.resolveQName(base)
	}
	for _, child := range childElements(elem) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		local := string(child.LocalName())
		switch local {
		case "annotation":
			continue
		case "simpleType":
			if st.BaseName.IsZero() {
				base := s.parseSimpleType(child, "")
				base.QName = s.anonName("restriction_base")
				s.Globals.Types[base.QName] = base
				st.BaseName = base.QName
			}
			continue
		}
		facet, err := parseFacet(local, attrValue(child, "value"), boolAttr(child, "fixed"))
		if err != nil {
			s.recordError(err)
			continue
		}
		if facet == nil {
			s.recordError(parseErrorf("unknown restriction child element %q", local))
			continue
		}
		st.Facets.add(facet)
	}
}

// parseComplexType parses a complex type definition.
func (s *Schema) parseComplexType(elem xmldom.Element, name string) *ComplexType {
	ct := &ComplexType{
		Mixed:    boolAttr(elem, "mixed"),
		Abstract: boolAttr(elem, "abstract"),
		Block:    attrValue(elem, "block"),
		Final:    attrValue(elem, "final"),
	}
	if name != "" {
		ct.QName = QName{Namespace: s.TargetNamespace, Local: name}
	}
	if ct.Block == "" {
		ct.Block = s.BlockDefault
	}
	if ct.Final == "" {
		ct.Final = s.FinalDefault
	}

	for _, child := range childElements(elem) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		switch string(child.LocalName()) {
		case "annotation":
		case "simpleContent":
			s.parseSimpleContent(child, ct)
		case "complexContent":
			s.parseComplexContent(child, ct)
		case "sequence", "choice", "all":
			ct.Content = s.parseModelGroup(child)
		case "group":
			ct.Content = s.parseGroupRef(child)
		case "openContent":
			ct.OpenContent = s.parseOpenContent(child)
		case "attribute":
			if attr := s.parseAttribute(child, false); attr != nil {
				ct.Attributes = append(ct.Attributes, attr)
			}
		case "attributeGroup":
			if ref := attrValue(child, "ref"); ref != "" {
				ct.AttributeGroups = append(ct.AttributeGroups, s.resolveQName(ref))
			}
		case "anyAttribute":
			ct.AnyAttribute = s.parseAnyAttribute(child)
		case "assert":
			ct.Assertions = append(ct.Assertions, &Assertion{Test: attrValue(child, "test")})
		default:
			s.recordError(parseErrorf("unknown complexType child element %q", child.LocalName()))
		}
	}
	return ct
}

// parseSimpleContent handles simpleContent extension/restriction: the
// type's character content validates against the base simple type, with
// restriction facets layered on top.
func (s *Schema) parseSimpleContent(elem xmldom.Element, ct *ComplexType) {
	for _, child := range xsdChildren(elem) {
		switch string(child.LocalName()) {
		case "extension":
			ct.Derivation = DerivationExtension
			ct.SimpleContentName = s.resolveQName(attrValue(child, "base"))
			s.parseAttributeChildren(child, ct)
		case "restriction":
			ct.Derivation = DerivationRestriction
			restricted := &SimpleType{Variety: VarietyAtomic}
			s.parseSimpleRestriction(child, restricted)
			if restricted.BaseName.IsZero() {
				restricted.BaseName = s.resolveQName(attrValue(child, "base"))
			}
			restricted.QName = s.anonName("simple_content")
			s.Globals.Types[restricted.QName] = restricted
			ct.SimpleContent = restricted
			ct.SimpleContentName = restricted.QName
			s.parseAttributeChildren(child, ct)
		}
	}
}

// parseComplexContent handles complexContent extension/restriction,
// recording the base for the build phase to flatten.
func (s *Schema) parseComplexContent(elem xmldom.Element, ct *ComplexType) {
	if boolAttr(elem, "mixed") {
		ct.Mixed = true
	}
	for _, child := range xsdChildren(elem) {
		switch string(child.LocalName()) {
		case "extension":
			ct.Derivation = DerivationExtension
		case "restriction":
			ct.Derivation = DerivationRestriction
		default:
			continue
		}
		ct.BaseName = s.resolveQName(attrValue(child, "base"))
		for _, inner := range xsdChildren(child) {
			switch string(inner.LocalName()) {
			case "sequence", "choice", "all":
				ct.Content = s.parseModelGroup(inner)
			case "group":
				ct.Content = s.parseGroupRef(inner)
			case "openContent":
				ct.OpenContent = s.parseOpenContent(inner)
			case "attribute":
				if attr := s.parseAttribute(inner, false); attr != nil {
					ct.Attributes = append(ct.Attributes, attr)
				}
			case "attributeGroup":
				if ref := attrValue(inner, "ref"); ref != "" {
					ct.AttributeGroups = append(ct.AttributeGroups, s.resolveQName(ref))
				}
			case "anyAttribute":
				ct.AnyAttribute = s.parseAnyAttribute(inner)
			case "assert":
				ct.Assertions = append(ct.Assertions, &Assertion{Test: attrValue(inner, "test")})
			}
		}
	}
}

// parseAttributeChildren collects attribute declarations, group refs, and
// anyAttribute from a derivation element.
func (s *Schema) parseAttributeChildren(elem xmldom.Element, ct *ComplexType) {
	for _, child := range xsdChildren(elem) {
		switch string(child.LocalName()) {
		case "attribute":
			if attr := s.parseAttribute(child, false); attr != nil {
				ct.Attributes = append(ct.Attributes, attr)
			}
		case "attributeGroup":
			if ref := attrValue(child, "ref"); ref != "" {
				ct.AttributeGroups = append(ct.AttributeGroups, s.resolveQName(ref))
			}
		case "anyAttribute":
			ct.AnyAttribute = s.parseAnyAttribute(child)
		}
	}
}

// parseModelGroup parses a sequence/choice/all compositor and its
// particles.
func (s *Schema) parseModelGroup(elem xmldom.Element) *ModelGroup {
	mg := &ModelGroup{
		Compositor: Compositor(string(elem.LocalName())),
		Occ:        parseOccursAttrs(elem),
	}
	for _, child := range childElements(elem) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		switch string(child.LocalName()) {
		case "annotation":
		case "element":
			if decl := s.parseElement(child, false); decl != nil {
				mg.Particles = append(mg.Particles, decl)
			}
		case "group":
			if ref := s.parseGroupRef(child); ref != nil {
				mg.Particles = append(mg.Particles, ref)
			}
		case "sequence", "choice", "all":
			mg.Particles = append(mg.Particles, s.parseModelGroup(child))
		case "any":
			mg.Particles = append(mg.Particles, s.parseAny(child))
		default:
			s.recordError(parseErrorf("unknown %s child element %q", mg.Compositor, child.LocalName()))
		}
	}
	return mg
}

// parseGroupRef parses a group reference particle.
func (s *Schema) parseGroupRef(elem xmldom.Element) *ModelGroup {
	ref := attrValue(elem, "ref")
	if ref == "" {
		s.recordError(parseErrorf("group reference requires a ref attribute"))
		return nil
	}
	return &ModelGroup{
		Ref: s.resolveQName(ref),
		Occ: parseOccursAttrs(elem),
	}
}

// parseNamedGroup parses a global xs:group definition.
func (s *Schema) parseNamedGroup(elem xmldom.Element) (*ModelGroup, QName) {
	name := attrValue(elem, "name")
	if name == "" {
		s.recordError(parseErrorf("global group requires a name attribute"))
		return nil, QName{}
	}
	qname := QName{Namespace: s.TargetNamespace, Local: name}
	for _, child := range xsdChildren(elem) {
		switch string(child.LocalName()) {
		case "sequence", "choice", "all":
			mg := s.parseModelGroup(child)
			mg.Name = qname
			return mg, qname
		}
	}
	s.recordError(parseErrorf("group %q has no compositor child", name))
	return nil, QName{}
}

func (s *Schema) parseAny(elem xmldom.Element) *AnyElement {
	any := &AnyElement{
		ProcessContents: ProcessContentsMode(attrValue(elem, "processContents")),
		Occ:             parseOccursAttrs(elem),
	}
	if notNamespace := attrValue(elem, "notNamespace"); notNamespace != "" {
		any.Constraint = ParseNotNamespaceConstraint(notNamespace, s.TargetNamespace)
	} else {
		any.Constraint = ParseNamespaceConstraint(attrValue(elem, "namespace"), s.TargetNamespace)
	}
	if notQName := attrValue(elem, "notQName"); notQName != "" {
		for _, tok := range strings.Fields(notQName) {
			any.NotQNames = append(any.NotQNames, s.resolveQName(tok))
		}
	}
	return any
}

func (s *Schema) parseAnyAttribute(elem xmldom.Element) *AnyAttribute {
	any := &AnyAttribute{
		ProcessContents: ProcessContentsMode(attrValue(elem, "processContents")),
	}
	if notNamespace := attrValue(elem, "notNamespace"); notNamespace != "" {
		any.Constraint = ParseNotNamespaceConstraint(notNamespace, s.TargetNamespace)
	} else {
		any.Constraint = ParseNamespaceConstraint(attrValue(elem, "namespace"), s.TargetNamespace)
	}
	if notQName := attrValue(elem, "notQName"); notQName != "" {
		for _, tok := range strings.Fields(notQName) {
			any.NotQNames = append(any.NotQNames, s.resolveQName(tok))
		}
	}
	return any
}

func (s *Schema) parseOpenContent(elem xmldom.Element) *OpenContent {
	oc := &OpenContent{Mode: OpenContentMode(attrValue(elem, "mode"))}
	if oc.Mode == "" {
		oc.Mode = OpenContentInterleave
	}
	for _, child := range xsdChildren(elem) {
		if string(child.LocalName()) == "any" {
			oc.Wildcard = s.parseAny(child)
		}
	}
	return oc
}

// parseAttribute parses an attribute declaration or reference.
func (s *Schema) parseAttribute(elem xmldom.Element, global bool) *AttributeDecl {
	if ref := attrValue(elem, "ref"); ref != "" && !global {
		attr := &AttributeDecl{
			Ref: s.resolveQName(ref),
			Use: OptionalUse,
		}
		if use := attrValue(elem, "use"); use != "" {
			attr.Use = AttributeUse(use)
		}
		return attr
	}
	name := attrValue(elem, "name")
	if name == "" {
		s.recordError(parseErrorf("attribute declaration requires a name or ref attribute"))
		return nil
	}
	attr := &AttributeDecl{
		Use:         OptionalUse,
		Form:        Form(attrValue(elem, "form")),
		Default:     attrValue(elem, "default"),
		Fixed:       attrValue(elem, "fixed"),
		Inheritable: boolAttr(elem, "inheritable"),
	}
	if global {
		attr.Name = QName{Namespace: s.TargetNamespace, Local: name}
	} else {
		attr.Name = s.localDeclName(name, attr.Form, s.AttributeFormDefault)
	}
	if use := attrValue(elem, "use"); use != "" {
		attr.Use = AttributeUse(use)
	}
	if attr.Default != "" && attr.Fixed != "" {
		s.recordError(parseErrorf("attribute %q cannot have both default and fixed values", name))
		attr.Default = ""
	}
	if attr.Default != "" && attr.Use != OptionalUse {
		s.recordError(parseErrorf("attribute %q with a default value must be optional", name))
		attr.Use = OptionalUse
	}
	if typeName := attrValue(elem, "type"); typeName != "" {
		attr.TypeName = s.resolveQName(typeName)
	}
	for _, child := range xsdChildren(elem) {
		if string(child.LocalName()) == "simpleType" {
			attr.Type = s.parseSimpleType(child, "")
		}
	}
	return attr
}

// parseAttributeGroup parses a named attribute group definition.
func (s *Schema) parseAttributeGroup(elem xmldom.Element) *AttributeGroup {
	name := attrValue(elem, "name")
	if name == "" {
		s.recordError(parseErrorf("global attributeGroup requires a name attribute"))
		return nil
	}
	ag := &AttributeGroup{
		Name: QName{Namespace: s.TargetNamespace, Local: name},
	}
	for _, child := range xsdChildren(elem) {
		switch string(child.LocalName()) {
		case "attribute":
			if attr := s.parseAttribute(child, false); attr != nil {
				ag.Attributes = append(ag.Attributes, attr)
			}
		case "attributeGroup":
			if ref := attrValue(child, "ref"); ref != "" {
				ag.GroupRefs = append(ag.GroupRefs, s.resolveQName(ref))
			}
		case "anyAttribute":
			ag.AnyAttribute = s.parseAnyAttribute(child)
		}
	}
	return ag
}

func (s *Schema) parseNotation(elem xmldom.Element) *Notation {
	name := attrValue(elem, "name")
	if name == "" {
		s.recordError(parseErrorf("notation requires a name attribute"))
		return nil
	}
	return &Notation{
		Name:   QName{Namespace: s.TargetNamespace, Local: name},
		Public: attrValue(elem, "public"),
		System: attrValue(elem, "system"),
	}
}

// Lookup helpers

// LookupType finds a named type in the registry, falling back to the
// built-in universe for XSD-namespace names.
func (s *Schema) LookupType(qname QName) Type {
	if t, ok := s.Globals.Types[qname]; ok {
		return t
	}
	if IsXSDNamespace(qname.Namespace) {
		if st := builtinSimpleType(qname.Local); st != nil {
			return st
		}
	}
	return nil
}

// LookupElement finds a global element declaration.
func (s *Schema) LookupElement(qname QName) *ElementDecl {
	return s.Globals.Elements[qname]
}

// LookupAttribute finds a global attribute declaration.
func (s *Schema) LookupAttribute(qname QName) *AttributeDecl {
	return s.Globals.Attributes[qname]
}

// LookupGroup finds a named model group.
func (s *Schema) LookupGroup(qname QName) *ModelGroup {
	return s.Globals.Groups[qname]
}

// ElementNames returns the registered global element names, sorted.
func (s *Schema) ElementNames() []QName {
	return sortedKeys(s.Globals.Elements)
}

// TypeNames returns the registered global type names, sorted.
func (s *Schema) TypeNames() []QName {
	return sortedKeys(s.Globals.Types)
}

// AttributeNames returns the registered global attribute names, sorted.
func (s *Schema) AttributeNames() []QName {
	return sortedKeys(s.Globals.Attributes)
}

// GroupNames returns the registered model group names, sorted.
func (s *Schema) GroupNames() []QName {
	return sortedKeys(s.Globals.Groups)
}

func sortedKeys[V any](m map[QName]V) []QName {
	out := make([]QName, 0, len(m))
	for qname := range m {
		out = append(out, qname)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Local < out[j].Local
	})
	return out
}
