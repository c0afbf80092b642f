package parsers

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// compiledLanguage pairs a LanguageSpec with its grammar and compiled query.
// Queries are immutable once compiled and safe to share between goroutines;
// parsers and query cursors are created per call.
type compiledLanguage struct {
	spec     LanguageSpec
	language *sitter.Language
	query    *sitter.Query
}

// compile builds the grammar and query for a spec.
func compile(spec LanguageSpec) (*compiledLanguage, error) {
	if spec.Grammar == nil {
		return nil, fmt.Errorf("language %s has no grammar", spec.ID)
	}
	lang := spec.Grammar()

	query, qerr := sitter.NewQuery(lang, spec.Query)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query: %s", spec.ID, qerr.Error())
	}

	return &compiledLanguage{
		spec:     spec,
		language: lang,
		query:    query,
	}, nil
}

// Extract parses source with the spec's grammar and returns the captured
// declarations, deduplicated by (line, text) and ordered by line.
func Extract(spec LanguageSpec, source []byte) ([]Symbol, error) {
	cl, err := compile(spec)
	if err != nil {
		return nil, err
	}
	defer cl.query.Close()

	symbols, _, err := cl.extract(source)
	return symbols, err
}

// extract runs the compiled query over source. hasErrors reports whether the
// tree contains syntax errors, in which case declarations inside the broken
// region may be missing from the result.
func (cl *compiledLanguage) extract(source []byte) (symbols []Symbol, hasErrors bool, err error) {
	symbols = []Symbol{}
	if len(source) == 0 {
		return symbols, false, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(cl.language); err != nil {
		return nil, false, fmt.Errorf("failed to set %s language: %w", cl.spec.ID, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, false, fmt.Errorf("failed to parse %s source", cl.spec.ID)
	}
	defer tree.Close()

	lines := strings.Split(string(source), "\n")
	captureNames := cl.query.CaptureNames()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(cl.query, tree.RootNode(), source)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		// Next reuses the match memory, so everything is copied out here.
		for _, capture := range match.Captures {
			row := int(capture.Node.StartPosition().Row)
			var text string
			if row < len(lines) {
				text = strings.TrimSpace(lines[row])
			}
			symbols = append(symbols, Symbol{
				Name: capture.Node.Utf8Text(source),
				Kind: kindFromCapture(captureNames[capture.Index]),
				Line: row + 1,
				Text: text,
			})
		}
	}

	return dedupeSymbols(symbols), tree.RootNode().HasError(), nil
}

// dedupeSymbols drops symbols that repeat an earlier (line, text) pair and
// sorts the remainder by line. The first capture for a line wins.
func dedupeSymbols(symbols []Symbol) []Symbol {
	type key struct {
		line int
		text string
	}

	seen := make(map[key]struct{}, len(symbols))
	result := make([]Symbol, 0, len(symbols))
	for _, s := range symbols {
		k := key{line: s.Line, text: s.Text}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Line < result[j].Line
	})
	return result
}
