// Package document parses HTML payloads and precomputes the document-order
// rank of every element. Extraction consumes the rank through PositionFunc so
// grouping never scans the tree per node.
package document
