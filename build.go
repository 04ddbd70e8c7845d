package xmlschema

import (
	"fmt"
	"slices"
)

// Build resolves every forward reference in the global registry, flattens
// type derivation, indexes substitution groups, and runs the model
// determinism checks. Defects in non-essential constructs are recorded on
// the schema's error list; Build only fails on structural invariants.
// Building twice is a no-op.
func (s *Schema) Build() error {
	if s.built {
		return nil
	}
	s.building = nil

	// Named types first so element/attribute references can land.
	for _, qname := range sortedKeys(s.Globals.Types) {
		switch t := s.Globals.Types[qname].(type) {
		case *SimpleType:
			s.resolveSimpleType(t)
		case *ComplexType:
			s.resolveComplexType(t)
		}
	}
	for _, qname := range sortedKeys(s.Globals.Groups) {
		s.expandGroupParticles(s.Globals.Groups[qname], nil)
	}
	for _, qname := range sortedKeys(s.Globals.AttributeGroups) {
		s.expandAttributeGroup(s.Globals.AttributeGroups[qname], nil)
	}
	for _, qname := range sortedKeys(s.Globals.Attributes) {
		s.resolveAttribute(s.Globals.Attributes[qname])
	}
	for _, qname := range sortedKeys(s.Globals.Elements) {
		s.resolveElement(s.Globals.Elements[qname])
	}

	s.buildSubstitutionGroups()
	s.resolveIdentityRefs()
	s.runModelChecks()

	s.built = true
	return nil
}

// pushBuilding guards against reference cycles; it reports the cycle path
// when qname is already on the stack.
func (s *Schema) pushBuilding(qname QName) error {
	if slices.Contains(s.building, qname) {
		path := ""
		for _, q := range s.building {
			path += q.String() + " -> "
		}
		return &SchemaError{
			Kind:      ErrCircularity,
			Message:   fmt.Sprintf("Circular definition detected for %s (%s%s)", qname, path, qname),
			Component: qname.String(),
		}
	}
	s.building = append(s.building, qname)
	return nil
}

func (s *Schema) popBuilding() {
	s.building = s.building[:len(s.building)-1]
}

// resolveSimpleType fills in the base, item, and member pointers of a
// simple type, recursing through the restriction chain.
func (s *Schema) resolveSimpleType(st *SimpleType) {
	if st == nil || st.builtin != nil {
		return
	}
	if st.Base == nil && !st.BaseName.IsZero() {
		if err := s.pushBuilding(st.QName); err != nil {
			s.recordError(err)
			return
		}
		base := s.lookupSimpleType(st.BaseName)
		if base == nil {
			s.recordError(parseErrorf("simple type %s has unresolved base %s", st.QName, st.BaseName))
		} else {
			s.resolveSimpleType(base)
			st.Base = base
			// A restriction of a list stays a list.
			if st.Variety == VarietyAtomic && base.Variety == VarietyList {
				st.Variety = VarietyList
			}
		}
		s.popBuilding()
	}
	if st.Variety == VarietyList && st.ItemType == nil && !st.ItemTypeName.IsZero() {
		item := s.lookupSimpleType(st.ItemTypeName)
		if item == nil {
			s.recordError(parseErrorf("list type %s has unresolved item type %s", st.QName, st.ItemTypeName))
		} else {
			s.resolveSimpleType(item)
			st.ItemType = item
		}
	}
	if st.Variety == VarietyUnion && len(st.MemberTypes) < len(st.MemberTypeNames) {
		st.MemberTypes = st.MemberTypes[:0]
		for _, name := range st.MemberTypeNames {
			member := s.lookupSimpleType(name)
			if member == nil {
				s.recordError(parseErrorf("union type %s has unresolved member type %s", st.QName, name))
				continue
			}
			s.resolveSimpleType(member)
			st.MemberTypes = append(st.MemberTypes, member)
		}
	}
}

// lookupSimpleType resolves a QName to a simple type, consulting the
// registry and the built-in universe.
func (s *Schema) lookupSimpleType(qname QName) *SimpleType {
	if t, ok := s.Globals.Types[qname]; ok {
		if st, ok := t.(*SimpleType); ok {
			return st
		}
		return nil
	}
	if IsXSDNamespace(qname.Namespace) {
		return builtinSimpleType(qname.Local)
	}
	return nil
}

// resolveComplexType resolves the base reference, flattens derivation so
// validation sees one descriptor, expands group references, and resolves
// the attribute collection.
func (s *Schema) resolveComplexType(ct *ComplexType) {
	if ct == nil || ct.built {
		return
	}
	ct.built = true

	// Simple content: resolve the referenced simple type. The base of a
	// simpleContent extension may itself be a complex type with simple
	// content.
	if ct.SimpleContent != nil {
		s.resolveSimpleType(ct.SimpleContent)
	} else if !ct.SimpleContentName.IsZero() {
		if st := s.lookupSimpleType(ct.SimpleContentName); st != nil {
			s.resolveSimpleType(st)
			ct.SimpleContent = st
		} else if base, ok := s.Globals.Types[ct.SimpleContentName].(*ComplexType); ok {
			s.resolveComplexType(base)
			ct.SimpleContent = base.SimpleContent
			ct.Attributes = mergeAttributes(base.Attributes, ct.Attributes)
			if ct.AnyAttribute == nil {
				ct.AnyAttribute = base.AnyAttribute
			}
		} else {
			err := parseErrorf("complex type %s has unresolved simple content base %s", ct.QName, ct.SimpleContentName)
			ct.Errors = append(ct.Errors, err)
			s.recordError(err)
		}
	}

	if !ct.BaseName.IsZero() && ct.Base == nil {
		if err := s.pushBuilding(ct.QName); err != nil {
			ct.Errors = append(ct.Errors, err)
			s.recordError(err)
			return
		}
		base := s.LookupType(ct.BaseName)
		if base == nil {
			err := parseErrorf("complex type %s has unresolved base %s", ct.QName, ct.BaseName)
			ct.Errors = append(ct.Errors, err)
			s.recordError(err)
		} else {
			if baseCT, ok := base.(*ComplexType); ok {
				s.resolveComplexType(baseCT)
				s.flattenDerivation(ct, baseCT)
			}
			ct.Base = base
		}
		s.popBuilding()
	}

	if ct.Content != nil && ct.Content.IsReference() {
		if target, ok := s.Globals.Groups[ct.Content.Ref]; ok {
			ct.Content = &ModelGroup{
				Name:       target.Name,
				Compositor: target.Compositor,
				Particles:  target.Particles,
				Occ:        ct.Content.Occ,
				Mixed:      target.Mixed,
			}
		} else {
			err := parseErrorf("unresolved group reference %s", ct.Content.Ref)
			ct.Errors = append(ct.Errors, err)
			s.recordError(err)
		}
	}
	if ct.Content != nil {
		s.expandGroupParticles(ct.Content, nil)
		s.resolveContentParticles(ct.Content)
	}
	ct.Attributes = s.resolveAttributeCollection(ct.Attributes, ct.AttributeGroups, &ct.AnyAttribute)
}

// flattenDerivation composes the effective content model and attribute
// collection of a derived type. Extension appends the derived particles
// after the base's in a sequence and unions the attributes; restriction
// keeps the derived content and layers its attribute overrides on the
// base's collection.
func (s *Schema) flattenDerivation(ct *ComplexType, base *ComplexType) {
	switch ct.Derivation {
	case DerivationExtension:
		if base.Content != nil {
			if ct.Content == nil {
				ct.Content = base.Content
			} else {
				ct.Content = &ModelGroup{
					Compositor: SequenceGroup,
					Occ:        OnceOccurs,
					Particles:  []Particle{base.Content, ct.Content},
				}
			}
		}
		ct.Attributes = mergeAttributes(base.Attributes, ct.Attributes)
		ct.AttributeGroups = append(slices.Clone(base.AttributeGroups), ct.AttributeGroups...)
		if base.Mixed {
			ct.Mixed = true
		}
	case DerivationRestriction:
		// Restriction replaces the content model; attributes not
		// re-declared keep their base declaration.
		ct.Attributes = mergeAttributes(base.Attributes, ct.Attributes)
	}
	if ct.AnyAttribute == nil {
		ct.AnyAttribute = base.AnyAttribute
	}
	if ct.OpenContent == nil {
		ct.OpenContent = base.OpenContent
	}
	if ct.SimpleContent == nil {
		ct.SimpleContent = base.SimpleContent
	}
}

// mergeAttributes unions two attribute lists; later (derived) declarations
// override same-named earlier ones.
func mergeAttributes(base, overrides []*AttributeDecl) []*AttributeDecl {
	out := make([]*AttributeDecl, 0, len(base)+len(overrides))
	index := make(map[QName]int)
	for _, attr := range base {
		index[attr.EffectiveName()] = len(out)
		out = append(out, attr)
	}
	for _, attr := range overrides {
		if i, exists := index[attr.EffectiveName()]; exists {
			out[i] = attr
			continue
		}
		index[attr.EffectiveName()] = len(out)
		out = append(out, attr)
	}
	return out
}

// expandGroupParticles replaces group-reference particles with the
// referenced group's content, carrying the reference's occurrence bounds.
// Cycles keep the unresolved reference and record an error.
func (s *Schema) expandGroupParticles(mg *ModelGroup, visited []QName) {
	if mg == nil {
		return
	}
	for i, p := range mg.Particles {
		switch particle := p.(type) {
		case *ModelGroup:
			if particle.IsReference() {
				if slices.Contains(visited, particle.Ref) {
					s.recordError(&SchemaError{
						Kind:      ErrCircularity,
						Message:   fmt.Sprintf("Circular definition detected for group %s", particle.Ref),
						Component: particle.Ref.String(),
					})
					continue
				}
				target, ok := s.Globals.Groups[particle.Ref]
				if !ok {
					s.recordError(parseErrorf("unresolved group reference %s", particle.Ref))
					continue
				}
				expanded := &ModelGroup{
					Name:       target.Name,
					Compositor: target.Compositor,
					Particles:  target.Particles,
					Occ:        particle.Occ,
					Mixed:      target.Mixed,
				}
				s.expandGroupParticles(expanded, append(visited, particle.Ref))
				mg.Particles[i] = expanded
			} else {
				s.expandGroupParticles(particle, visited)
			}
		}
	}
}

// resolveContentParticles resolves element particles inside a content
// model: reference targets and forward type names.
func (s *Schema) resolveContentParticles(mg *ModelGroup) {
	if mg == nil {
		return
	}
	for _, p := range mg.Particles {
		switch particle := p.(type) {
		case *ElementDecl:
			s.resolveElement(particle)
		case *ModelGroup:
			s.resolveContentParticles(particle)
		}
	}
}

// resolveElement fills the declaration's resolved type pointer and, for
// reference particles, the referenced global declaration.
func (s *Schema) resolveElement(decl *ElementDecl) {
	if decl == nil {
		return
	}
	if decl.IsReference() {
		if decl.refDecl == nil {
			target, ok := s.Globals.Elements[decl.Ref]
			if !ok {
				s.recordError(parseErrorf("unresolved element reference %s", decl.Ref))
				return
			}
			decl.refDecl = target
			s.resolveElement(target)
		}
		return
	}
	if decl.Type == nil && !decl.TypeName.IsZero() {
		t := s.LookupType(decl.TypeName)
		if t == nil {
			s.recordError(parseErrorf("element %s has unresolved type %s", decl.Name, decl.TypeName))
			return
		}
		decl.Type = t
	}
	switch t := decl.Type.(type) {
	case *SimpleType:
		s.resolveSimpleType(t)
	case *ComplexType:
		s.resolveComplexType(t)
	}
}

// resolveAttribute backfills an attribute declaration's type pointer.
func (s *Schema) resolveAttribute(attr *AttributeDecl) {
	if attr == nil {
		return
	}
	if !attr.Ref.IsZero() {
		if attr.refDecl == nil {
			target, ok := s.Globals.Attributes[attr.Ref]
			if !ok {
				s.recordError(parseErrorf("unresolved attribute reference %s", attr.Ref))
				return
			}
			attr.refDecl = target
			s.resolveAttribute(target)
		}
		return
	}
	if attr.Type == nil && !attr.TypeName.IsZero() {
		attr.Type = s.lookupSimpleType(attr.TypeName)
		if attr.Type == nil {
			s.recordError(parseErrorf("attribute %s has unresolved type %s", attr.Name, attr.TypeName))
			return
		}
	}
	s.resolveSimpleType(attr.Type)
}

// expandAttributeGroup copies attributes from referenced groups into ag,
// with ag's own declarations taking precedence.
func (s *Schema) expandAttributeGroup(ag *AttributeGroup, visited []QName) {
	if ag == nil || ag.resolved {
		return
	}
	ag.resolved = true
	var inherited []*AttributeDecl
	for _, ref := range ag.GroupRefs {
		if slices.Contains(visited, ref) {
			s.recordError(&SchemaError{
				Kind:      ErrCircularity,
				Message:   fmt.Sprintf("Circular definition detected for attribute group %s", ref),
				Component: ref.String(),
			})
			continue
		}
		target, ok := s.Globals.AttributeGroups[ref]
		if !ok {
			s.recordError(parseErrorf("unresolved attribute group reference %s", ref))
			continue
		}
		s.expandAttributeGroup(target, append(visited, ag.Name))
		inherited = append(inherited, target.Attributes...)
		if ag.AnyAttribute == nil {
			ag.AnyAttribute = target.AnyAttribute
		}
	}
	ag.Attributes = mergeAttributes(inherited, ag.Attributes)
	for _, attr := range ag.Attributes {
		s.resolveAttribute(attr)
	}
}

// resolveAttributeCollection resolves a complex type's own attributes plus
// its attribute-group references into one flat list. The anyAttribute
// pointer is filled from a group when the type has none.
func (s *Schema) resolveAttributeCollection(own []*AttributeDecl, groupRefs []QName, anyAttr **AnyAttribute) []*AttributeDecl {
	var inherited []*AttributeDecl
	for _, ref := range groupRefs {
		target, ok := s.Globals.AttributeGroups[ref]
		if !ok {
			s.recordError(parseErrorf("unresolved attribute group reference %s", ref))
			continue
		}
		s.expandAttributeGroup(target, nil)
		inherited = append(inherited, target.Attributes...)
		if *anyAttr == nil {
			*anyAttr = target.AnyAttribute
		}
	}
	out := mergeAttributes(inherited, own)
	for _, attr := range out {
		s.resolveAttribute(attr)
	}
	return out
}

// buildSubstitutionGroups indexes the substitution-group membership of
// every global element declaration under its head.
func (s *Schema) buildSubstitutionGroups() {
	for _, qname := range sortedKeys(s.Globals.Elements) {
		decl := s.Globals.Elements[qname]
		if decl.SubstitutionGroup.IsZero() {
			continue
		}
		head := decl.SubstitutionGroup
		members := s.Globals.SubstitutionGroups[head]
		if !slices.Contains(members, decl) {
			s.Globals.SubstitutionGroups[head] = append(members, decl)
		}
		if _, ok := s.Globals.Elements[head]; !ok {
			s.recordError(parseErrorf("element %s names unknown substitution group head %s", decl.Name, head))
		}
	}
}

// resolveIdentityRefs wires every keyref to its referenced key or unique
// constraint; dangling refer names are schema errors.
func (s *Schema) resolveIdentityRefs() {
	for _, qname := range sortedKeys(s.Globals.Identities) {
		constraint := s.Globals.Identities[qname]
		if constraint.Kind != KeyRefConstraint {
			continue
		}
		target, ok := s.Globals.Identities[constraint.Refer]
		if !ok || target.Kind == KeyRefConstraint {
			s.recordError(parseErrorf("keyref %q refers to unknown constraint %s", constraint.Name.Local, constraint.Refer))
			continue
		}
		constraint.referTarget = target
	}
}

// runModelChecks applies the determinism checks (UPA, EDC) and the XSD 1.0
// occurrence restriction on all groups.
func (s *Schema) runModelChecks() {
	check := func(ct *ComplexType) {
		if ct == nil || ct.Content == nil {
			return
		}
		for _, err := range checkModelDeterminism(ct.Content) {
			ct.Errors = append(ct.Errors, err)
			s.recordError(err)
		}
		if s.Version == Version10 {
			s.checkAllGroupOccurs(ct.Content)
		}
	}
	for _, qname := range sortedKeys(s.Globals.Types) {
		if ct, ok := s.Globals.Types[qname].(*ComplexType); ok {
			check(ct)
		}
	}
	for _, qname := range sortedKeys(s.Globals.Elements) {
		if ct, ok := s.Globals.Elements[qname].Type.(*ComplexType); ok && ct.QName.IsZero() {
			check(ct)
		}
	}
}

// checkAllGroupOccurs enforces the XSD 1.0 rule that particles of an all
// group occur at most once.
func (s *Schema) checkAllGroupOccurs(mg *ModelGroup) {
	if mg.Compositor == AllGroup {
		for _, p := range mg.Particles {
			occ := p.Occurs()
			if occ.Max != 0 && occ.Max != 1 {
				s.recordError(parseErrorf("particles of an all group must have maxOccurs 0 or 1 in XSD 1.0"))
			}
		}
	}
	for _, p := range mg.Particles {
		if nested, ok := p.(*ModelGroup); ok {
			s.checkAllGroupOccurs(nested)
		}
	}
}

// derivesFrom reports whether t derives (directly or transitively) from
// the type named baseName.
func (s *Schema) derivesFrom(t Type, baseName QName) bool {
	seen := make(map[QName]bool)
	for t != nil {
		name := t.Name()
		if name == baseName {
			return true
		}
		if seen[name] {
			return false
		}
		seen[name] = true
		switch v := t.(type) {
		case *ComplexType:
			if v.Base != nil {
				t = v.Base
				continue
			}
			t = s.LookupType(v.BaseName)
		case *SimpleType:
			if v.Base == nil {
				return false
			}
			t = v.Base
		default:
			return false
		}
	}
	return false
}
