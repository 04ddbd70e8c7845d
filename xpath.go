package xmlschema

import (
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// The selector and field expressions of identity constraints use a
// restricted XPath subset: forward axes only (child and descendant-or-self
// from the start), name tests and wildcards, and - for fields only - a
// trailing attribute step. Anything else is rejected at build time.

// pathStep is one step of a restricted path.
type pathStep struct {
	name       string // local name; empty for a wildcard test
	wildcard   bool
	descendant bool // step searches descendants (".//" prefix)
	attribute  bool // "@name"; only legal as the final step of a field
}

// RestrictedPath is a parsed selector or field expression. Alternatives
// separated by | are tried in order.
type RestrictedPath struct {
	expr         string
	alternatives [][]pathStep
}

// String returns the source expression.
func (p *RestrictedPath) String() string { return p.expr }

// ParseSelectorPath parses a selector expression. Attribute steps are not
// allowed in selectors.
func ParseSelectorPath(expr string) (*RestrictedPath, error) {
	return parseRestrictedPath(expr, false)
}

// ParseFieldPath parses a field expression; the final step may address an
// attribute.
func ParseFieldPath(expr string) (*RestrictedPath, error) {
	return parseRestrictedPath(expr, true)
}

func parseRestrictedPath(expr string, allowAttributes bool) (*RestrictedPath, error) {
	p := &RestrictedPath{expr: expr}
	for _, alt := range strings.Split(expr, "|") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return nil, parseErrorf("empty alternative in xpath %q", expr)
		}
		steps, err := parsePathAlternative(alt, allowAttributes)
		if err != nil {
			return nil, err
		}
		p.alternatives = append(p.alternatives, steps)
	}
	return p, nil
}

func parsePathAlternative(alt string, allowAttributes bool) ([]pathStep, error) {
	if strings.Contains(alt, "[") || strings.Contains(alt, "]") {
		return nil, parseErrorf("predicates are not allowed in identity-constraint xpath %q", alt)
	}
	if strings.Contains(alt, "..") {
		return nil, parseErrorf("reverse axes are not allowed in identity-constraint xpath %q", alt)
	}
	for _, axis := range []string{"ancestor", "parent::", "preceding", "following", "self::", "namespace::"} {
		if strings.Contains(alt, axis) {
			return nil, parseErrorf("axis %q is not allowed in identity-constraint xpath %q", axis, alt)
		}
	}

	descendantFirst := false
	switch {
	case strings.HasPrefix(alt, ".//"):
		descendantFirst = true
		alt = strings.TrimPrefix(alt, ".//")
	case strings.HasPrefix(alt, "//"):
		descendantFirst = true
		alt = strings.TrimPrefix(alt, "//")
	case strings.HasPrefix(alt, "./"):
		alt = strings.TrimPrefix(alt, "./")
	}

	if alt == "." {
		return nil, nil
	}

	rawSteps := strings.Split(alt, "/")
	steps := make([]pathStep, 0, len(rawSteps))
	for i, raw := range rawSteps {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, parseErrorf("only a leading descendant step is allowed in %q", alt)
		}
		step := pathStep{descendant: i == 0 && descendantFirst}

		raw = strings.TrimPrefix(raw, "child::")
		if rest, found := strings.CutPrefix(raw, "attribute::"); found {
			raw = "@" + rest
		}
		if rest, found := strings.CutPrefix(raw, "@"); found {
			if !allowAttributes {
				return nil, parseErrorf("attribute steps are not allowed in selector xpath %q", alt)
			}
			if i != len(rawSteps)-1 {
				return nil, parseErrorf("attribute step must be last in field xpath %q", alt)
			}
			step.attribute = true
			raw = rest
		}

		// Namespace prefixes resolve against the schema's context; only
		// local names take part in matching here.
		if idx := strings.Index(raw, ":"); idx > 0 {
			raw = raw[idx+1:]
		}

		if raw == "*" {
			step.wildcard = true
		} else {
			if !IsValidNCName(raw) {
				return nil, parseErrorf("invalid name test %q in identity-constraint xpath %q", raw, alt)
			}
			step.name = raw
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (s pathStep) matchesElement(elem xmldom.Element) bool {
	return s.wildcard || string(elem.LocalName()) == s.name
}

// SelectElements evaluates the path from root and returns the matched
// elements in document order per alternative.
func (p *RestrictedPath) SelectElements(root xmldom.Element) []xmldom.Element {
	var out []xmldom.Element
	for _, steps := range p.alternatives {
		if len(steps) == 0 {
			out = append(out, root)
			continue
		}
		out = append(out, evalElementSteps(root, steps)...)
	}
	return out
}

func evalElementSteps(context xmldom.Element, steps []pathStep) []xmldom.Element {
	step := steps[0]
	if step.attribute {
		return nil
	}
	var matched []xmldom.Element
	if step.descendant {
		collectDescendants(context, step, &matched)
	} else {
		for _, child := range childElements(context) {
			if step.matchesElement(child) {
				matched = append(matched, child)
			}
		}
	}
	if len(steps) == 1 {
		return matched
	}
	var out []xmldom.Element
	for _, elem := range matched {
		out = append(out, evalElementSteps(elem, steps[1:])...)
	}
	return out
}

func collectDescendants(elem xmldom.Element, step pathStep, out *[]xmldom.Element) {
	for _, child := range childElements(elem) {
		if step.matchesElement(child) {
			*out = append(*out, child)
		}
		collectDescendants(child, step, out)
	}
}

// SelectValue evaluates a field path from context and returns the matched
// value: an attribute value for attribute steps, the text content of the
// first matched element otherwise. The second result is false when nothing
// matched.
func (p *RestrictedPath) SelectValue(context xmldom.Element) (string, bool) {
	for _, steps := range p.alternatives {
		if len(steps) == 0 {
			return elementText(context), true
		}
		last := steps[len(steps)-1]
		if last.attribute {
			holders := []xmldom.Element{context}
			if len(steps) > 1 {
				holders = evalElementSteps(context, steps[:len(steps)-1])
			}
			for _, holder := range holders {
				if v := attrValue(holder, last.name); v != "" {
					return v, true
				}
			}
			continue
		}
		if matched := evalElementSteps(context, steps); len(matched) > 0 {
			return elementText(matched[0]), true
		}
	}
	return "", false
}
