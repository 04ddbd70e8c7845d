package xmlschema

import (
	"strconv"

	"github.com/agentflare-ai/go-xmldom"
)

// Unbounded is the maxOccurs value for unbounded particles.
const Unbounded = -1

// Occurs carries minOccurs/maxOccurs bounds for a particle. Max of
// Unbounded (-1) means no upper bound.
type Occurs struct {
	Min int
	Max int
}

// OnceOccurs is the default occurrence of a particle: exactly one.
var OnceOccurs = Occurs{Min: 1, Max: 1}

// IsEmptiable reports whether the particle may be absent.
func (o Occurs) IsEmptiable() bool { return o.Min == 0 }

// IsEmpty reports whether the particle can never occur.
func (o Occurs) IsEmpty() bool { return o.Max == 0 }

// IsSingle reports whether the particle occurs at most once.
func (o Occurs) IsSingle() bool { return o.Max == 1 }

// IsAmbiguous reports whether the occurrence count is not fixed.
func (o Occurs) IsAmbiguous() bool { return o.Max == Unbounded || o.Min != o.Max }

// AllowsMore reports whether another occurrence beyond count is permitted.
func (o Occurs) AllowsMore(count int) bool {
	return o.Max == Unbounded || count < o.Max
}

// Particle is a content-model member with occurrence bounds: an element
// declaration, a wildcard, or a model group.
type Particle interface {
	Occurs() Occurs
}

// parseOccursAttrs reads minOccurs/maxOccurs off a schema element,
// defaulting both to 1.
func parseOccursAttrs(elem xmldom.Element) Occurs {
	occ := OnceOccurs
	if v := attrValue(elem, "minOccurs"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			occ.Min = n
		}
	}
	if v := attrValue(elem, "maxOccurs"); v != "" {
		if v == "unbounded" {
			occ.Max = Unbounded
		} else if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			occ.Max = n
		}
	}
	return occ
}

// addOccursMax adds two maxOccurs values with Unbounded absorbing.
func addOccursMax(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a + b
}

// mulOccursMax multiplies two maxOccurs values with Unbounded absorbing
// (0 times anything stays 0).
func mulOccursMax(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a * b
}

// maxOccursMax returns the larger of two maxOccurs values.
func maxOccursMax(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	if a > b {
		return a
	}
	return b
}

// minOccursMin returns the smaller of two minOccurs values.
func minOccursMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}
