// Package template implements the declarative extraction template and the
// two passes that resolve it.
//
// A template is a tree of explicitly constructed variants: LeafSource (nodes
// plus an accessor), PositionedLeaf (already extracted values), Record
// (ordered named fields), Wrapper (a record that repeats) and Scalar (a
// constant passed through untouched). Extract replaces every LeafSource with a
// PositionedLeaf. Group then replaces every Wrapper with Groups, innermost
// first: the wrapper's fields are merged into one timeline sorted by document
// position and cut into records wherever a non-repeatable field would be set
// twice. Resolve strips positions and returns a plain value tree.
//
//	tpl := template.NewRecord().
//		Set("title", template.Select(doc.Find("h1"))).
//		Set("tweets", template.Repeat(template.NewRecord().
//			Set("author", template.Select(doc.Find(".tweet .author"))).
//			Set("tags", template.Many(doc.Find(".tweet .tag")))))
//	out, err := template.ExtractAndGroup(tpl, doc.PositionFunc())
package template
