package xmlschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// JSONFormat selects an XML-to-JSON conversion flavor.
type JSONFormat string

const (
	// JSONDefault keys attributes with "@", text with "#text", and
	// preserves child order.
	JSONDefault JSONFormat = "default"
	// JSONParker drops attributes and collapses leaf elements to values.
	JSONParker JSONFormat = "parker"
	// JSONBadgerFish keys attributes with "@" and text with "$".
	JSONBadgerFish JSONFormat = "badgerfish"
	// JSONUnordered is the default flavor without order preservation.
	JSONUnordered JSONFormat = "unordered"
)

// ConvertToJSON structurally converts an XML document to JSON in the given
// flavor. The conversion is schema-free.
func ConvertToJSON(doc xmldom.Document, format JSONFormat, pretty bool) ([]byte, error) {
	if doc == nil {
		return nil, parseErrorf("nil document")
	}
	root := doc.DocumentElement()
	if root == nil {
		return nil, parseErrorf("document has no root element")
	}

	var value any
	switch format {
	case JSONDefault, "":
		value = orderedPair(string(root.LocalName()), convertElement(root, "#text", true))
	case JSONUnordered:
		value = map[string]any{string(root.LocalName()): convertElement(root, "#text", false)}
	case JSONBadgerFish:
		value = orderedPair(string(root.LocalName()), convertElement(root, "$", true))
	case JSONParker:
		value = map[string]any{string(root.LocalName()): convertParker(root)}
	default:
		return nil, fmt.Errorf("unknown conversion format %q", format)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if pretty {
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}
	return data, nil
}

// convertElement maps one element to a JSON object: attributes prefixed
// with "@", character data under textKey, children grouped by name with
// repeats becoming arrays.
func convertElement(elem xmldom.Element, textKey string, ordered bool) any {
	obj := newJSONObject(ordered)

	attrs := elem.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		node := attrs.Item(i)
		if node == nil || strings.HasPrefix(string(node.NodeName()), "xmlns") {
			continue
		}
		obj.set("@"+string(node.LocalName()), string(node.NodeValue()))
	}

	children := childElements(elem)
	if len(children) == 0 {
		text := strings.TrimSpace(elementText(elem))
		if obj.empty() {
			if text == "" {
				return nil
			}
			return text
		}
		if text != "" {
			obj.set(textKey, text)
		}
		return obj.value()
	}

	if text := strings.TrimSpace(elementText(elem)); text != "" {
		obj.set(textKey, text)
	}
	for _, child := range children {
		obj.append(string(child.LocalName()), convertElement(child, textKey, ordered))
	}
	return obj.value()
}

// convertParker implements the Parker convention: attributes are dropped,
// leaves become scalars, repeated siblings become arrays.
func convertParker(elem xmldom.Element) any {
	children := childElements(elem)
	if len(children) == 0 {
		text := strings.TrimSpace(elementText(elem))
		if text == "" {
			return nil
		}
		return text
	}
	obj := newJSONObject(false)
	for _, child := range children {
		obj.append(string(child.LocalName()), convertParker(child))
	}
	return obj.value()
}

// jsonObject accumulates key/value pairs, optionally preserving insertion
// order, turning repeated keys into arrays.
type jsonObject struct {
	ordered bool
	keys    []string
	values  map[string]any
}

func newJSONObject(ordered bool) *jsonObject {
	return &jsonObject{ordered: ordered, values: make(map[string]any)}
}

func (o *jsonObject) empty() bool { return len(o.values) == 0 }

func (o *jsonObject) set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *jsonObject) append(key string, value any) {
	existing, exists := o.values[key]
	if !exists {
		o.set(key, value)
		return
	}
	if arr, ok := existing.([]any); ok {
		o.values[key] = append(arr, value)
		return
	}
	o.values[key] = []any{existing, value}
}

func (o *jsonObject) value() any {
	if o.ordered {
		return (*orderedJSON)(o)
	}
	return o.values
}

// orderedJSON marshals a jsonObject preserving key insertion order.
type orderedJSON jsonObject

func (o *orderedJSON) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// orderedPair builds a single-key ordered object, used for document roots.
func orderedPair(key string, value any) any {
	obj := newJSONObject(true)
	obj.set(key, value)
	return obj.value()
}
