// Package xmlschema compiles XML Schema (XSD 1.0/1.1) documents and
// validates XML instance documents against them.
//
// Schema assembly is multi-source: the [Loader] drains an iterative
// worklist over include, redefine, and import directives, resolving
// locations through an optional OASIS XML [Catalog] and grafting
// chameleon includes into the including schema's target namespace. The
// worklist makes the maximum include depth a function of memory rather
// than stack, which real corpora (DITA, NISO STS) require.
//
// Parsing produces a typed component graph - element declarations,
// simple and complex types, model groups, attribute groups, wildcards,
// and identity constraints - registered per namespace and QName in the
// schema's [Globals]. Forward references are recorded by name and
// resolved by [Schema.Build], which also flattens type derivation,
// indexes substitution groups, and runs the content-model determinism
// checks. A built schema is immutable and may be shared across
// concurrent validators.
//
// Validation walks an instance document with a [Validator]: attributes
// are checked against the type's attribute collection, character content
// against simple types (whitespace normalization, lexical decoding, then
// the constraining facets), and element content against a [ModelVisitor]
// state machine driven by the child stream. Identity constraints
// (unique, key, keyref) accumulate per scope and resolve when the scope
// element closes. Validation modes mirror the usual triple: strict stops
// at the first error, lax collects everything, skip checks nothing.
//
// Minimal use:
//
//	schema, err := xmlschema.LoadSchemaFile("order.xsd")
//	if err != nil {
//		return err
//	}
//	doc, err := xmlschema.ParseDocument(data)
//	if err != nil {
//		return err
//	}
//	violations := xmlschema.NewValidator(schema).Validate(doc)
package xmlschema
