package xmlschema

import "testing"

const tns = "http://example.com/ns"

func enum(namespaces ...string) *NamespaceConstraint {
	return &NamespaceConstraint{Mode: NSEnum, Namespaces: namespaces}
}

func notSet(namespaces ...string) *NamespaceConstraint {
	return &NamespaceConstraint{Mode: NSNot, Namespaces: namespaces}
}

func TestParseNamespaceConstraint(t *testing.T) {
	tests := []struct {
		value   string
		ns      string
		allowed bool
	}{
		{"##any", "http://anything", true},
		{"##any", "", true},
		{"##other", tns, false},
		{"##other", "", false},
		{"##other", "http://elsewhere", true},
		{"##targetNamespace", tns, true},
		{"##targetNamespace", "http://elsewhere", false},
		{"##local", "", true},
		{"##local", tns, false},
		{"http://a http://b", "http://b", true},
		{"http://a http://b", "http://c", false},
		{"##targetNamespace http://a", tns, true},
		{"##local http://a", "", true},
	}
	for _, tt := range tests {
		c := ParseNamespaceConstraint(tt.value, tns)
		if got := c.Allows(tt.ns); got != tt.allowed {
			t.Errorf("constraint %q allows(%q) = %v, want %v", tt.value, tt.ns, got, tt.allowed)
		}
	}
}

func TestNamespaceConstraintRestriction(t *testing.T) {
	anyNS := &NamespaceConstraint{Mode: NSAny}
	other := &NamespaceConstraint{Mode: NSOther, Exclude: tns}

	tests := []struct {
		name    string
		derived *NamespaceConstraint
		base    *NamespaceConstraint
		legal   bool
	}{
		{"anything restricts any", enum("http://a"), anyNS, true},
		{"other restricts any", other, anyNS, true},
		{"any does not restrict other", anyNS, other, false},
		{"any does not restrict enum", anyNS, enum("http://a"), false},
		{"enum under other without tns", enum("http://a"), other, true},
		{"enum under other with tns", enum("http://a", tns), other, false},
		{"enum under other with absent", enum("http://a", ""), other, false},
		{"subset enum", enum("http://a"), enum("http://a", "http://b"), true},
		{"non-subset enum", enum("http://c"), enum("http://a"), false},
		{"not under not superset", notSet("http://a", "http://b"), notSet("http://a"), true},
		{"not under not subset", notSet("http://a"), notSet("http://a", "http://b"), false},
		{"enum disjoint from not-set", enum("http://c"), notSet("http://a"), true},
		{"enum overlapping not-set", enum("http://a"), notSet("http://a"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.derived.IsRestrictionOf(tt.base); got != tt.legal {
				t.Errorf("IsRestrictionOf = %v, want %v", got, tt.legal)
			}
		})
	}
}

func TestNamespaceConstraintAlgebra(t *testing.T) {
	anyNS := &NamespaceConstraint{Mode: NSAny}

	union := enum("http://a").Union(enum("http://b"))
	if !union.Allows("http://a") || !union.Allows("http://b") || union.Allows("http://c") {
		t.Errorf("enum union wrong: %+v", union)
	}

	if got := anyNS.Union(enum("http://a")); got.Mode != NSAny {
		t.Errorf("any union x should be any")
	}
	if got := anyNS.Intersection(enum("http://a")); got.Mode != NSEnum {
		t.Errorf("any intersect enum should be the enum")
	}

	inter := enum("http://a", "http://b").Intersection(enum("http://b", "http://c"))
	if !inter.Allows("http://b") || inter.Allows("http://a") || inter.Allows("http://c") {
		t.Errorf("enum intersection wrong: %+v", inter)
	}

	notInter := notSet("http://a").Intersection(notSet("http://b"))
	if notInter.Allows("http://a") || notInter.Allows("http://b") || !notInter.Allows("http://c") {
		t.Errorf("not-set intersection wrong: %+v", notInter)
	}

	notUnion := notSet("http://a", "http://b").Union(notSet("http://b"))
	if !notUnion.Allows("http://a") || notUnion.Allows("http://b") {
		t.Errorf("not-set union wrong: %+v", notUnion)
	}

	mixed := enum("http://a").Intersection(notSet("http://a", "http://b"))
	if mixed.Mode != NSEnum || len(mixed.Namespaces) != 0 {
		t.Errorf("enum minus not-set should be empty, got %+v", mixed)
	}
}

func TestProcessContentsOrdering(t *testing.T) {
	tests := []struct {
		derived, base ProcessContentsMode
		legal         bool
	}{
		{StrictProcess, StrictProcess, true},
		{StrictProcess, LaxProcess, true},
		{StrictProcess, SkipProcess, true},
		{LaxProcess, StrictProcess, false},
		{LaxProcess, SkipProcess, true},
		{SkipProcess, LaxProcess, false},
	}
	for _, tt := range tests {
		if got := IsProcessContentsRestriction(tt.derived, tt.base); got != tt.legal {
			t.Errorf("restriction %s under %s = %v, want %v", tt.derived, tt.base, got, tt.legal)
		}
	}
}

func TestNotQNameExclusion(t *testing.T) {
	wildcard := &AnyElement{
		Constraint: &NamespaceConstraint{Mode: NSAny},
		NotQNames:  []QName{{Namespace: tns, Local: "secret"}},
		Occ:        OnceOccurs,
	}
	if wildcard.Matches(QName{Namespace: tns, Local: "secret"}) {
		t.Errorf("notQName member should be excluded")
	}
	if !wildcard.Matches(QName{Namespace: tns, Local: "public"}) {
		t.Errorf("other names should match")
	}
}
