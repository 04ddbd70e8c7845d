package xmlschema

import "testing"

func TestGlobalsMergeFirstWins(t *testing.T) {
	a := NewGlobals()
	b := NewGlobals()

	name := QName{Namespace: "http://ex.com", Local: "t"}
	first := &SimpleType{QName: name, Variety: VarietyAtomic}
	second := &SimpleType{QName: name, Variety: VarietyAtomic}
	a.Types[name] = first
	b.Types[name] = second
	b.Types[QName{Namespace: "http://ex.com", Local: "other"}] = &SimpleType{Variety: VarietyAtomic}

	a.Merge(b, false)
	if a.Types[name] != first {
		t.Errorf("include merge must keep the existing component")
	}
	if a.TypeCount() != 2 {
		t.Errorf("non-conflicting components should merge, got %d", a.TypeCount())
	}

	a.Merge(b, true)
	if a.Types[name] != second {
		t.Errorf("overwrite merge must replace the existing component")
	}
}

func TestGlobalsRenamespace(t *testing.T) {
	g := NewGlobals()
	st := &SimpleType{QName: QName{Local: "color"}, Variety: VarietyAtomic}
	decl := &ElementDecl{Name: QName{Local: "item"}, Scope: ScopeGlobal}
	g.Types[st.QName] = st
	g.Elements[decl.Name] = decl

	const ns = "http://ex.com/grafted"
	g.Renamespace(ns)

	if _, ok := g.Types[QName{Namespace: ns, Local: "color"}]; !ok {
		t.Errorf("type key should be rewritten into the new namespace")
	}
	if st.QName.Namespace != ns {
		t.Errorf("the component's own name should be rewritten too")
	}
	if _, ok := g.Elements[QName{Namespace: ns, Local: "item"}]; !ok {
		t.Errorf("element key should be rewritten")
	}
	if decl.Name.Namespace != ns {
		t.Errorf("element name should be rewritten")
	}
	if _, ok := g.Types[QName{Local: "color"}]; ok {
		t.Errorf("old key should be gone")
	}
}

func TestElementTextAndChildren(t *testing.T) {
	doc, err := ParseDocumentString(`<a>one<b>two</b>three<c/></a>`)
	if err != nil {
		t.Fatal(err)
	}
	root := doc.DocumentElement()

	if got := len(childElements(root)); got != 2 {
		t.Errorf("childElements = %d, want 2", got)
	}
	if got := elementText(root); got != "onethree" {
		t.Errorf("elementText = %q, want direct text only", got)
	}
	if !hasSignificantText(root) {
		t.Errorf("root carries significant text")
	}
}

func TestNamespaceBindingExtraction(t *testing.T) {
	doc, err := ParseDocumentString(
		`<r xmlns="http://default" xmlns:p="http://prefixed" p:a="1" b="2"/>`)
	if err != nil {
		t.Fatal(err)
	}
	nc := extractNamespaceBindings(doc.DocumentElement(), nil)

	if got := nc.Default(); got != "http://default" {
		t.Errorf("default namespace = %q", got)
	}
	if uri, ok := nc.Resolve("p"); !ok || uri != "http://prefixed" {
		t.Errorf("prefix p = %q %v", uri, ok)
	}
}
