package xmlschema

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// IdentityConstraintKind discriminates identity constraints.
type IdentityConstraintKind string

const (
	UniqueConstraint IdentityConstraintKind = "unique"
	KeyConstraint    IdentityConstraintKind = "key"
	KeyRefConstraint IdentityConstraintKind = "keyref"
)

// IdentityConstraint represents an xs:unique, xs:key, or xs:keyref
// declaration: a selector path plus one or more field paths, and for
// keyrefs the referenced constraint.
type IdentityConstraint struct {
	Name     QName
	Kind     IdentityConstraintKind
	Selector *RestrictedPath
	Fields   []*RestrictedPath

	// Refer names the key/unique a keyref checks against; referTarget is
	// resolved during build.
	Refer       QName
	referTarget *IdentityConstraint
}

// fieldTuple renders the field values of one selected node as a composite
// key. present records which fields yielded a value.
type fieldTuple struct {
	values  []string
	present []bool
}

func (t fieldTuple) complete() bool {
	for _, p := range t.present {
		if !p {
			return false
		}
	}
	return true
}

func (t fieldTuple) hasValues() bool {
	for _, p := range t.present {
		if p {
			return true
		}
	}
	return false
}

func (t fieldTuple) key() string {
	return strings.Join(t.values, "|")
}

// collectTuples evaluates the constraint's selector and fields under scope
// and returns one tuple per selected node.
func (c *IdentityConstraint) collectTuples(scope xmldom.Element) []struct {
	node  xmldom.Element
	tuple fieldTuple
} {
	var out []struct {
		node  xmldom.Element
		tuple fieldTuple
	}
	if c.Selector == nil {
		return out
	}
	for _, node := range c.Selector.SelectElements(scope) {
		tuple := fieldTuple{
			values:  make([]string, len(c.Fields)),
			present: make([]bool, len(c.Fields)),
		}
		for i, field := range c.Fields {
			if value, ok := field.SelectValue(node); ok {
				tuple.values[i] = NormalizeWhiteSpace(value, WhitespaceCollapse)
				tuple.present[i] = true
			}
		}
		out = append(out, struct {
			node  xmldom.Element
			tuple fieldTuple
		}{node, tuple})
	}
	return out
}

// IdentityTracker accumulates identity-constraint scopes as the document
// validator descends, and evaluates each scope's constraints when the
// scope element closes. Insertion order is preserved so error messages are
// deterministic.
type IdentityTracker struct {
	scopes []*identityScope
}

type identityScope struct {
	element     xmldom.Element
	constraints []*IdentityConstraint
}

// NewIdentityTracker creates an empty tracker.
func NewIdentityTracker() *IdentityTracker {
	return &IdentityTracker{}
}

// EnterScope records that elem opened a scope declaring the given
// constraints. Called for every element carrying constraints.
func (t *IdentityTracker) EnterScope(elem xmldom.Element, constraints []*IdentityConstraint) {
	t.scopes = append(t.scopes, &identityScope{element: elem, constraints: constraints})
}

// LeaveScope closes the innermost scope and validates its constraints:
// duplicate tuples for unique/key, missing field values for key, and
// keyref resolution against the referenced constraint's tuples.
func (t *IdentityTracker) LeaveScope() []Violation {
	if len(t.scopes) == 0 {
		return nil
	}
	scope := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]

	var violations []Violation
	for _, c := range scope.constraints {
		switch c.Kind {
		case UniqueConstraint, KeyConstraint:
			violations = append(violations, t.checkKeyed(scope, c)...)
		case KeyRefConstraint:
			violations = append(violations, t.checkKeyref(scope, c)...)
		}
	}
	return violations
}

func (t *IdentityTracker) checkKeyed(scope *identityScope, c *IdentityConstraint) []Violation {
	var violations []Violation
	seen := make(map[string]bool)
	for _, entry := range c.collectTuples(scope.element) {
		if c.Kind == KeyConstraint {
			for i, present := range entry.tuple.present {
				if !present || entry.tuple.values[i] == "" {
					violations = append(violations, Violation{
						Element: entry.node,
						Code:    "cvc-identity-constraint.4.2.2",
						Message: fmt.Sprintf("key constraint %q field %d must yield a non-null value", c.Name.Local, i+1),
					})
				}
			}
		}
		if !entry.tuple.hasValues() {
			continue
		}
		key := entry.tuple.key()
		if seen[key] {
			violations = append(violations, Violation{
				Element: entry.node,
				Code:    "cvc-identity-constraint.4.1",
				Message: fmt.Sprintf("duplicate %s constraint %q value: %s", c.Kind, c.Name.Local, key),
				Actual:  key,
			})
			continue
		}
		seen[key] = true
	}
	return violations
}

func (t *IdentityTracker) checkKeyref(scope *identityScope, c *IdentityConstraint) []Violation {
	target := c.referTarget
	if target == nil {
		// The dangling refer was already reported at build time.
		return nil
	}
	// The referenced key may be declared on this scope or an enclosing
	// one; its tuples are computed over the scope that declares it.
	keyScope := scope.element
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if containsConstraint(t.scopes[i].constraints, target) {
			keyScope = t.scopes[i].element
			break
		}
	}
	if containsConstraint(scope.constraints, target) {
		keyScope = scope.element
	}

	keys := make(map[string]bool)
	for _, entry := range target.collectTuples(keyScope) {
		if entry.tuple.complete() {
			keys[entry.tuple.key()] = true
		}
	}

	var violations []Violation
	for _, entry := range c.collectTuples(scope.element) {
		if !entry.tuple.complete() {
			continue
		}
		if !keys[entry.tuple.key()] {
			violations = append(violations, Violation{
				Element: entry.node,
				Code:    "cvc-identity-constraint.4.3",
				Message: fmt.Sprintf("keyref %q value %q does not match any %s %q",
					c.Name.Local, entry.tuple.key(), target.Kind, target.Name.Local),
				Actual: entry.tuple.key(),
			})
		}
	}
	return violations
}

func containsConstraint(list []*IdentityConstraint, c *IdentityConstraint) bool {
	for _, candidate := range list {
		if candidate == c {
			return true
		}
	}
	return false
}

// Depth returns the number of open scopes.
func (t *IdentityTracker) Depth() int { return len(t.scopes) }
