package source

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where a payload originated so loaders can operate on
// files, fs.FS entries, URLs or in-memory bytes without leaking details.
type Source interface {
	Kind() Kind
	Location() string
}

// Kind enumerates the loader modalities.
type Kind string

const (
	KindFile   Kind = "file"
	KindFS     Kind = "fs"
	KindURL    Kind = "url"
	KindMemory Kind = "memory"
)

// fileSource identifies on-disk payloads.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() Kind {
	return KindFile
}

// FromFile returns a Source pointing to a file path.
func FromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() Kind {
	return KindFS
}

// FromFS returns a Source identifying a resource inside an fs.FS.
func FromFS(name string) Source {
	return fsSource{name: name}
}

// urlSource references an HTTP/HTTPS endpoint.
type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() Kind {
	return KindURL
}

// FromURL parses the supplied URL string and returns a Source. It panics if
// the URL is invalid to surface configuration mistakes early.
func FromURL(raw string) Source {
	if raw == "" {
		panic("source: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("source: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// memorySource labels payloads that were handed over directly by the caller.
type memorySource struct {
	name string
}

func (s memorySource) Location() string {
	return s.name
}

func (s memorySource) Kind() Kind {
	return KindMemory
}

// Named returns a Source for in-memory payloads. The name only shows up in
// error messages.
func Named(name string) Source {
	if strings.TrimSpace(name) == "" {
		name = "inline"
	}
	return memorySource{name: name}
}

// Parse guesses the Source kind from a command-line style argument: http and
// https prefixes become URL sources, anything else a file path. Empty input
// returns nil.
func Parse(raw string) Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return FromURL(path)
	}
	return FromFile(path)
}
