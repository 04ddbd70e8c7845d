package xmlschema

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// textNodeType is the DOM node type for character data.
const textNodeType = 3

// ParseDocument decodes an XML document from raw bytes.
func ParseDocument(data []byte) (xmldom.Document, error) {
	doc, err := xmldom.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &SchemaError{Kind: ErrParse, Message: "failed to parse XML document", Err: err}
	}
	return doc, nil
}

// ParseDocumentString decodes an XML document from a string.
func ParseDocumentString(content string) (xmldom.Document, error) {
	return ParseDocument([]byte(content))
}

// childElements collects the element children of elem in document order.
func childElements(elem xmldom.Element) []xmldom.Element {
	children := elem.Children()
	out := make([]xmldom.Element, 0, children.Length())
	for i := uint(0); i < children.Length(); i++ {
		if child := children.Item(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// xsdChildren collects the element children of elem that live in an XML
// Schema namespace, skipping annotation elements.
func xsdChildren(elem xmldom.Element) []xmldom.Element {
	var out []xmldom.Element
	for _, child := range childElements(elem) {
		if !IsXSDNamespace(string(child.NamespaceURI())) {
			continue
		}
		if string(child.LocalName()) == "annotation" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// elementText concatenates the direct text-node children of elem.
func elementText(elem xmldom.Element) string {
	var content strings.Builder
	nodes := elem.ChildNodes()
	for i := uint(0); i < nodes.Length(); i++ {
		if node := nodes.Item(i); node != nil && node.NodeType() == textNodeType {
			content.WriteString(string(node.NodeValue()))
		}
	}
	return content.String()
}

// hasSignificantText reports whether elem carries any non-whitespace text
// directly (not inside child elements).
func hasSignificantText(elem xmldom.Element) bool {
	return strings.TrimSpace(elementText(elem)) != ""
}

// elementQName returns the element's qualified name.
func elementQName(elem xmldom.Element) QName {
	return QName{
		Namespace: string(elem.NamespaceURI()),
		Local:     string(elem.LocalName()),
	}
}

// attrValue reads a plain attribute value.
func attrValue(elem xmldom.Element, name string) string {
	return string(elem.GetAttribute(xmldom.DOMString(name)))
}

// boolAttr reads an attribute holding an xs:boolean literal.
func boolAttr(elem xmldom.Element, name string) bool {
	v := attrValue(elem, name)
	return v == "true" || v == "1"
}

// elementPath renders a /-separated path from the document root to elem for
// diagnostics.
func elementPath(elem xmldom.Element) string {
	const elementNodeType = 1
	var parts []string
	for node := xmldom.Node(elem); node != nil; node = node.ParentNode() {
		if node.NodeType() != elementNodeType {
			break
		}
		parts = append(parts, string(node.LocalName()))
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "/%s", parts[i])
	}
	return b.String()
}

// extractNamespaceBindings collects the xmlns declarations on elem into a
// namespace context chained to parent. Declarations are consumed here; they
// are never treated as ordinary attributes elsewhere.
func extractNamespaceBindings(elem xmldom.Element, parent *NamespaceContext) *NamespaceContext {
	nc := NewNamespaceContext(parent)
	attrs := elem.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		node := attrs.Item(i)
		if node == nil {
			continue
		}
		name := string(node.NodeName())
		value := string(node.NodeValue())
		if name == "xmlns" {
			nc.BindDefault(value)
			continue
		}
		if prefix, found := strings.CutPrefix(name, "xmlns:"); found {
			nc.Bind(prefix, value)
			continue
		}
		// Some DOM layers report declarations through the xmlns namespace
		// instead of the node name.
		ns := string(node.NamespaceURI())
		if ns == XMLNSNamespace || ns == "xmlns" {
			nc.Bind(string(node.LocalName()), value)
		}
	}
	return nc
}

// isNamespaceAttr reports whether an attribute node is an xmlns declaration
// or an xsi: instance attribute, both of which are invisible to attribute
// validation.
func isNamespaceAttr(node xmldom.Node) bool {
	ns := string(node.NamespaceURI())
	local := string(node.LocalName())
	name := string(node.NodeName())
	if ns == XMLNSNamespace || ns == "xmlns" || local == "xmlns" || strings.HasPrefix(name, "xmlns") {
		return true
	}
	return ns == XSINamespace
}
