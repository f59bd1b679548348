// Package definition reads declarative parselet files and binds them to a
// parsed document.
//
// A definition is JSON or YAML. Strings are selectors, a one-element list of
// a string is a repeatable selector, a one-element list of a mapping is a
// repeatable record, and any other mapping is a plain record:
//
//	name: tweets
//	fields:
//	  title: "h1"
//	  tweets:
//	    - author: ".tweet .author"
//	      link: ".tweet a | @href"
//	      year: ".tweet time | /\\d{4}/"
//	      tags: [".tweet .tag"]
//
// Selectors are CSS unless prefixed with "xpath:". The optional part after
// "|" is an accessor shorthand understood by extract.ParseAccessor. A mapping
// holding only "$const" is passed through as a constant. Field order in the
// file is the field order of the result.
package definition
