package parsers

import (
	"errors"
	"fmt"
	"log"
	"path"
	"sort"
	"strings"
	"sync"
)

// Registry maps file extensions to compiled language specs. It is built once
// and only read afterwards, so one instance can serve concurrent callers.
type Registry struct {
	byExt     map[string]*compiledLanguage
	languages []LanguageSpec
}

// NewRegistry compiles every spec and indexes it by extension. Specs whose
// query does not compile are left out and reported in the returned error;
// the registry still serves the remaining languages.
func NewRegistry(specs ...LanguageSpec) (*Registry, error) {
	r := &Registry{
		byExt: make(map[string]*compiledLanguage),
	}

	var errs []error
	for _, spec := range specs {
		cl, err := compile(spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, ext := range spec.Extensions {
			ext = normalizeExt(ext)
			if _, dup := r.byExt[ext]; dup {
				errs = append(errs, fmt.Errorf("extension %q registered twice (language %s)", ext, spec.ID))
				continue
			}
			r.byExt[ext] = cl
		}
		r.languages = append(r.languages, spec)
	}

	return r, errors.Join(errs...)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry for the built-in Languages.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(Languages...)
		if err != nil {
			log.Printf("Warning: some languages are unavailable: %v", err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Lookup returns the spec registered for ext ("ts" or ".ts").
func (r *Registry) Lookup(ext string) (LanguageSpec, bool) {
	cl, ok := r.byExt[normalizeExt(ext)]
	if !ok {
		return LanguageSpec{}, false
	}
	return cl.spec, true
}

// LookupPath returns the spec for the extension of a file path.
func (r *Registry) LookupPath(filePath string) (LanguageSpec, bool) {
	return r.Lookup(path.Ext(filePath))
}

// Supports reports whether ext has a registered extractor.
func (r *Registry) Supports(ext string) bool {
	_, ok := r.byExt[normalizeExt(ext)]
	return ok
}

// Extensions returns every registered extension without the leading dot,
// sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Languages returns the registered specs in registration order.
func (r *Registry) Languages() []LanguageSpec {
	out := make([]LanguageSpec, len(r.languages))
	copy(out, r.languages)
	return out
}

// ExtractFile extracts symbols from a file's content using the extractor for
// its extension. Files without an extractor and files that fail to parse
// yield an empty list; parse failures and syntax errors are logged with the
// path.
func (r *Registry) ExtractFile(filePath string, source []byte) []Symbol {
	cl, ok := r.byExt[normalizeExt(path.Ext(filePath))]
	if !ok {
		return []Symbol{}
	}

	symbols, hasErrors, err := cl.extract(source)
	if err != nil {
		log.Printf("Error parsing %s: %v", filePath, err)
		return []Symbol{}
	}
	if hasErrors {
		log.Printf("Warning: %s has syntax errors, some declarations may be missing", filePath)
	}
	return symbols
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
