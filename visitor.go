package xmlschema

import "maps"

// ElementMatcher decides whether an element particle accepts a child name.
// The document validator installs a matcher that understands substitution
// groups; the default matcher compares names structurally.
type ElementMatcher func(decl *ElementDecl, name QName) bool

func defaultElementMatcher(decl *ElementDecl, name QName) bool {
	return decl.EffectiveName() == name
}

// visitorFrame records the position in an enclosing group while the
// visitor works inside one of its nested groups.
type visitorFrame struct {
	group   *ModelGroup
	pos     int // index of the nested group particle in group.Particles
	matched bool
}

// ModelVisitor is a stack-based interpreter of particle trees, driven by
// the child-element stream of an instance element. Matching consumes one
// child per call; Stop reports the particles still owed when the stream
// ends.
//
// Error recovery follows the particle-walker contract: a child that fails
// on the current particle advances past skippable particles and retries;
// required particles skipped this way are reported as missing. A child no
// position can match leaves the visitor state untouched.
type ModelVisitor struct {
	root    *ModelGroup
	frames  []visitorFrame
	group   *ModelGroup
	pos     int
	matched bool
	ended   bool

	occurs  map[Particle]int
	matcher ElementMatcher
}

// NewModelVisitor creates a visitor over the root model group.
func NewModelVisitor(root *ModelGroup) *ModelVisitor {
	return &ModelVisitor{
		root:    root,
		group:   root,
		occurs:  make(map[Particle]int),
		matcher: defaultElementMatcher,
	}
}

// SetMatcher installs a custom element matcher.
func (v *ModelVisitor) SetMatcher(m ElementMatcher) {
	if m != nil {
		v.matcher = m
	}
}

// clone copies the visitor state for look-ahead probes.
func (v *ModelVisitor) clone() *ModelVisitor {
	return &ModelVisitor{
		root:    v.root,
		frames:  append([]visitorFrame(nil), v.frames...),
		group:   v.group,
		pos:     v.pos,
		matched: v.matched,
		ended:   v.ended,
		occurs:  maps.Clone(v.occurs),
		matcher: v.matcher,
	}
}

// Ended reports whether the model is exhausted.
func (v *ModelVisitor) Ended() bool { return v.ended }

// OccursOf returns the occurrence count recorded for a particle.
func (v *ModelVisitor) OccursOf(p Particle) int { return v.occurs[p] }

// MatchChild consumes one child name. On success it returns the matched
// particle plus any required particles that were skipped to reach it. When
// no position can match the child it returns nil and the visitor state is
// unchanged, so the caller can report the child as unexpected and keep
// validating.
func (v *ModelVisitor) MatchChild(name QName) (Particle, []Particle) {
	probe := v.clone()
	matched, missing := probe.step(func(p Particle) bool {
		switch particle := p.(type) {
		case *ElementDecl:
			return v.matcher(particle, name)
		case *AnyElement:
			return particle.Matches(name)
		}
		return false
	})
	if matched == nil {
		return nil, nil
	}
	*v = *probe
	return matched, missing
}

// Stop walks the remaining particles at end of the child stream and
// returns those still below their minimum occurrence.
func (v *ModelVisitor) Stop() []Particle {
	_, missing := v.step(nil)
	return missing
}

// CanStop reports whether the model could legally terminate now.
func (v *ModelVisitor) CanStop() bool {
	return len(v.clone().Stop()) == 0
}

// Expected returns the element names acceptable at the current position,
// for diagnostics.
func (v *ModelVisitor) Expected() []QName {
	if v.ended {
		return nil
	}
	g := v.group
	var names []QName
	if g.Compositor == AllGroup {
		for _, p := range g.Particles {
			if p.Occurs().AllowsMore(v.occurs[p]) {
				names = append(names, particleLeadingNames(p)...)
			}
		}
		return names
	}
	for i := v.pos; i < len(g.Particles); i++ {
		p := g.Particles[i]
		names = append(names, particleLeadingNames(p)...)
		if g.Compositor == SequenceGroup && !p.Occurs().IsEmptiable() {
			break
		}
	}
	return names
}

// step advances the state machine until match succeeds on some particle or
// the model is exhausted. A nil match walks to the end (the Stop path).
func (v *ModelVisitor) step(match func(Particle) bool) (Particle, []Particle) {
	var missing []Particle
	for !v.ended {
		g := v.group

		if g.Compositor == AllGroup {
			if match != nil {
				if p := v.matchInAll(g, match); p != nil {
					v.occurs[p]++
					v.matched = true
					return p, missing
				}
			}
			if v.passRequired() {
				missing = append(missing, v.unsatisfiedAll(g)...)
			}
			if v.matched {
				v.occurs[Particle(g)]++
			}
			v.pop()
			continue
		}

		if v.pos >= len(g.Particles) {
			v.finishGroupPass(&missing)
			continue
		}

		p := g.Particles[v.pos]
		if inner, ok := p.(*ModelGroup); ok {
			v.push(inner)
			continue
		}

		if match != nil && match(p) {
			v.occurs[p]++
			v.matched = true
			if !p.Occurs().AllowsMore(v.occurs[p]) {
				v.advanceLeaf(g)
			}
			return p, missing
		}

		// Miss on the current particle.
		if g.Compositor == ChoiceGroup {
			if v.matched {
				// A branch was already chosen; the rest are skipped.
				v.pos = len(g.Particles)
			} else {
				v.pos++
			}
			continue
		}
		if v.occurs[p] < p.Occurs().Min && v.passRequired() {
			missing = append(missing, p)
		}
		v.pos++
	}
	return nil, missing
}

// advanceLeaf moves past a leaf particle that reached its maximum.
func (v *ModelVisitor) advanceLeaf(g *ModelGroup) {
	if g.Compositor == ChoiceGroup {
		v.pos = len(g.Particles)
		return
	}
	v.pos++
}

// passRequired reports whether the current group pass must be completed:
// either it already consumed something, or the group is still below its
// minimum occurrence.
func (v *ModelVisitor) passRequired() bool {
	return v.matched || v.occurs[Particle(v.group)] < v.group.Occ.Min
}

// finishGroupPass closes one pass over the current group: a productive
// pass counts an occurrence and restarts the group when more are allowed;
// an unproductive pass below the group's minimum reports the group as
// missing and pops to the parent.
func (v *ModelVisitor) finishGroupPass(missing *[]Particle) {
	g := v.group
	if v.matched {
		v.occurs[Particle(g)]++
		if g.Occ.AllowsMore(v.occurs[Particle(g)]) {
			v.resetInnerOccurs(g)
			v.pos = 0
			v.matched = false
			return
		}
	} else if v.occurs[Particle(g)] < g.Occ.Min && g.EffectiveMin() > 0 {
		*missing = append(*missing, g)
	}
	v.pop()
}

// push descends into a nested group particle.
func (v *ModelVisitor) push(inner *ModelGroup) {
	v.frames = append(v.frames, visitorFrame{group: v.group, pos: v.pos, matched: v.matched})
	v.group = inner
	v.pos = 0
	v.matched = false
}

// pop returns to the parent group, resuming after the nested particle.
func (v *ModelVisitor) pop() {
	if len(v.frames) == 0 {
		v.ended = true
		return
	}
	child := v.group
	frame := v.frames[len(v.frames)-1]
	v.frames = v.frames[:len(v.frames)-1]
	v.group = frame.group
	v.pos = frame.pos + 1
	v.matched = frame.matched || v.occurs[Particle(child)] > 0
}

// resetInnerOccurs clears the occurrence counters of every particle inside
// g so a repeated group pass starts fresh.
func (v *ModelVisitor) resetInnerOccurs(g *ModelGroup) {
	for _, p := range g.Particles {
		delete(v.occurs, p)
		if inner, ok := p.(*ModelGroup); ok {
			v.resetInnerOccurs(inner)
		}
	}
}

// matchInAll scans an all group for a particle that accepts the child and
// has occurrences left. Order is irrelevant inside all.
func (v *ModelVisitor) matchInAll(g *ModelGroup, match func(Particle) bool) Particle {
	for _, p := range g.Particles {
		switch p.(type) {
		case *ElementDecl, *AnyElement:
			if p.Occurs().AllowsMore(v.occurs[p]) && match(p) {
				return p
			}
		}
	}
	return nil
}

// unsatisfiedAll returns the all-group particles still below minimum.
func (v *ModelVisitor) unsatisfiedAll(g *ModelGroup) []Particle {
	var out []Particle
	for _, p := range g.Particles {
		if v.occurs[p] < p.Occurs().Min {
			out = append(out, p)
		}
	}
	return out
}

// InterleavedModelVisitor wraps a visitor with an XSD 1.1 interleave
// open-content wildcard: the wildcard may consume a child anywhere without
// advancing the inner model.
type InterleavedModelVisitor struct {
	Inner    *ModelVisitor
	Wildcard *AnyElement
}

// MatchChild tries the inner model first and falls back to the wildcard.
func (iv *InterleavedModelVisitor) MatchChild(name QName) (Particle, []Particle) {
	if p, missing := iv.Inner.MatchChild(name); p != nil {
		return p, missing
	}
	if iv.Wildcard != nil && iv.Wildcard.Matches(name) {
		return iv.Wildcard, nil
	}
	return nil, nil
}

// Stop delegates to the inner model.
func (iv *InterleavedModelVisitor) Stop() []Particle { return iv.Inner.Stop() }

// SuffixedModelVisitor wraps a visitor with an XSD 1.1 suffix open-content
// wildcard: once the inner model has ended, the wildcard absorbs the
// remaining children.
type SuffixedModelVisitor struct {
	Inner    *ModelVisitor
	Wildcard *AnyElement
	inSuffix bool
}

// MatchChild tries the inner model until it can end, then switches to the
// wildcard for the remaining children.
func (sv *SuffixedModelVisitor) MatchChild(name QName) (Particle, []Particle) {
	if !sv.inSuffix {
		if p, missing := sv.Inner.MatchChild(name); p != nil {
			return p, missing
		}
		if sv.Wildcard != nil && sv.Wildcard.Matches(name) && sv.Inner.CanStop() {
			sv.inSuffix = true
			return sv.Wildcard, nil
		}
		return nil, nil
	}
	if sv.Wildcard != nil && sv.Wildcard.Matches(name) {
		return sv.Wildcard, nil
	}
	return nil, nil
}

// Stop delegates to the inner model.
func (sv *SuffixedModelVisitor) Stop() []Particle { return sv.Inner.Stop() }
