package xmlschema

import "fmt"

// Compositor is a model-group operator.
type Compositor string

const (
	// SequenceGroup requires particles in order.
	SequenceGroup Compositor = "sequence"
	// ChoiceGroup requires exactly one alternative per occurrence.
	ChoiceGroup Compositor = "choice"
	// AllGroup permits particles in any order.
	AllGroup Compositor = "all"
)

// ModelGroup is a compositor over an ordered particle list. Named groups
// live in the global registry; references carry Ref until the build phase
// expands them.
type ModelGroup struct {
	Name       QName
	Compositor Compositor
	Particles  []Particle
	Occ        Occurs
	Mixed      bool

	// Ref marks an unresolved group reference; the particle list is empty
	// until the build phase expands it.
	Ref QName
}

// Occurs returns the group's occurrence bounds.
func (g *ModelGroup) Occurs() Occurs { return g.Occ }

// IsReference reports whether the group is a pending reference.
func (g *ModelGroup) IsReference() bool { return !g.Ref.IsZero() && len(g.Particles) == 0 }

// EffectiveMin computes the minimum number of element events the group can
// produce per occurrence times its own minOccurs. For sequences the
// particle minimums sum; for choices the smallest branch wins.
func (g *ModelGroup) EffectiveMin() int {
	inner := 0
	switch g.Compositor {
	case ChoiceGroup:
		if len(g.Particles) > 0 {
			inner = particleEffectiveMin(g.Particles[0])
			for _, p := range g.Particles[1:] {
				inner = minOccursMin(inner, particleEffectiveMin(p))
			}
		}
	default:
		for _, p := range g.Particles {
			inner += particleEffectiveMin(p)
		}
	}
	return inner * g.Occ.Min
}

// EffectiveMax computes the maximum number of element events, with
// unbounded absorbing. Sequences sum particle maximums; choices take the
// largest branch.
func (g *ModelGroup) EffectiveMax() int {
	inner := 0
	switch g.Compositor {
	case ChoiceGroup:
		for _, p := range g.Particles {
			inner = maxOccursMax(inner, particleEffectiveMax(p))
		}
	default:
		for _, p := range g.Particles {
			inner = addOccursMax(inner, particleEffectiveMax(p))
		}
	}
	return mulOccursMax(inner, g.Occ.Max)
}

func particleEffectiveMin(p Particle) int {
	if nested, ok := p.(*ModelGroup); ok {
		return nested.EffectiveMin()
	}
	return p.Occurs().Min
}

func particleEffectiveMax(p Particle) int {
	if nested, ok := p.(*ModelGroup); ok {
		return nested.EffectiveMax()
	}
	return p.Occurs().Max
}

// particleLeadingNames collects the element names a particle can start with, used
// by the determinism checks and for expected-set diagnostics.
func particleLeadingNames(p Particle) []QName {
	switch v := p.(type) {
	case *ElementDecl:
		return []QName{v.EffectiveName()}
	case *ModelGroup:
		var names []QName
		for _, inner := range v.Particles {
			names = append(names, particleLeadingNames(inner)...)
			if v.Compositor == SequenceGroup && !inner.Occurs().IsEmptiable() {
				break
			}
		}
		return names
	}
	return nil
}

// checkModelDeterminism enforces Unique Particle Attribution and Element
// Declarations Consistent on one group: two branches of a choice may not
// start with the same name, a particle of a sequence or all group may not
// start with a name that an earlier sibling with a variable occurrence
// count also starts with, and same-named elements reachable in the group
// must share a type.
func checkModelDeterminism(g *ModelGroup) []error {
	var errs []error
	types := make(map[QName]Type)
	var walk func(group *ModelGroup)
	walk = func(group *ModelGroup) {
		seen := make(map[QName]Particle)
		for _, p := range group.Particles {
			if nested, ok := p.(*ModelGroup); ok {
				walk(nested)
			}
			for _, name := range particleLeadingNames(p) {
				// Choice branches always compete for a shared name;
				// elsewhere two particles compete only when the earlier
				// one's occurrence count is not fixed.
				if prev, dup := seen[name]; dup && prev != p &&
					(group.Compositor == ChoiceGroup || prev.Occurs().IsAmbiguous()) {
					errs = append(errs, parseErrorf(
						"unique particle attribution violation: element %s is matchable by two particles of the same %s group",
						name, group.Compositor))
				}
				seen[name] = p
			}
			if decl, ok := p.(*ElementDecl); ok {
				name := decl.EffectiveName()
				if prev, exists := types[name]; exists {
					if decl.Type != nil && prev != nil && decl.Type != prev {
						errs = append(errs, fmt.Errorf(
							"element declarations consistent violation: element %s appears with two different types", name))
					}
				} else {
					types[name] = decl.Type
				}
			}
		}
	}
	walk(g)
	return errs
}
