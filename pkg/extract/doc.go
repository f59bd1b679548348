// Package extract turns node collections into positioned values: each
// extracted string keeps the document-order rank of the node it came from so
// that fields scraped independently can later be regrouped into records.
//
// Accessors decide which string a node yields. Text is the default; Attr,
// Regex, HTML and Func cover the remaining shorthands, and ParseAccessor maps
// the textual forms ("@href", "/\d+/", "html") used by parselet definitions.
package extract
