// Package tree is the node/merge/render engine behind the docx package.
//
// A template is an ordered mapping in which
//
//   - keys starting with "@" are attributes of the enclosing element,
//   - the "#" key holds either text content or a list of merged children,
//   - every other key is an element; a list value repeats the element once
//     per entry.
//
// A Node owns a template and at most one hook, a path into the template at
// which child nodes are spliced when the node is merged:
//
//	body := tree.MustNew(tree.Obj(
//	    "w:document", tree.Obj("w:body", tree.Obj()),
//	), tree.WithHook(`["w:document"]["w:body"]`))
//	body.MustAppend(tree.MustNew(tree.Obj("w:p", tree.Obj())))
//
//	xml, err := body.ToXML()
//	// <w:document><w:body><w:p></w:p></w:body></w:document>
//
// Hooks are written as `.name` segments for plain identifiers and
// `["any key"]` segments for keys with dots, colons or other characters.
// They are parsed once, when the node is built.
//
// Children are merged only where the hook points at a mapping. A node with
// no hook, or whose hook points at a list, keeps its template as it is; this
// is how fixed collections are closed to extension.
//
// Templates can also be written in YAML or JSON and loaded with Parse or
// ParseNode. In YAML the reserved keys must be quoted ("@val", "#").
package tree
