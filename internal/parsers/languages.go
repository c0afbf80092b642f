package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// LanguageSpec is the capture specification for one language: which grammar
// to parse with, which declarations to capture, and how they are labeled.
// Capture names carry the label; see kindFromCapture.
type LanguageSpec struct {
	ID         string
	Label      string // human readable name
	Fence      string // markdown code fence tag
	Extensions []string
	Grammar    func() *sitter.Language
	Query      string
}

const (
	typeScriptQuery = `
(function_declaration
  name: (identifier) @function.name)

(generator_function_declaration
  name: (identifier) @function.name)

(class_declaration
  name: (type_identifier) @class.name)

(abstract_class_declaration
  name: (type_identifier) @class.name)

(interface_declaration
  name: (type_identifier) @interface.name)

(type_alias_declaration
  name: (type_identifier) @type.name)

(enum_declaration
  name: (identifier) @enum.name)

(method_definition
  name: (property_identifier) @method.name)
`

	javaScriptQuery = `
(function_declaration
  name: (identifier) @function.name)

(generator_function_declaration
  name: (identifier) @function.name)

(class_declaration
  name: (identifier) @class.name)

(method_definition
  name: (property_identifier) @method.name)
`

	rubyQuery = `
(method
  name: (identifier) @method.name)

(singleton_method
  name: (_) @method.name)

(class
  name: (constant) @class.name)

(module
  name: (constant) @class.name)
`

	phpQuery = `
(method_declaration
  name: (name) @method.name)

(function_definition
  name: (name) @function.name)

(class_declaration
  name: (name) @class.name)

(interface_declaration
  name: (name) @interface.name)

(trait_declaration
  name: (name) @class.name)

(enum_declaration
  name: (name) @enum.name)
`

	pythonQuery = `
(function_definition
  name: (identifier) @function.name)

(class_definition
  name: (identifier) @class.name)
`

	goQuery = `
(function_declaration
  name: (identifier) @function.name)

(method_declaration
  name: (field_identifier) @method.name)

(type_declaration
  (type_spec
    name: (type_identifier) @class.name))

(type_declaration
  (type_alias
    name: (type_identifier) @type.name))
`

	javaQuery = `
(method_declaration
  name: (identifier) @method.name)

(class_declaration
  name: (identifier) @class.name)

(record_declaration
  name: (identifier) @class.name)

(interface_declaration
  name: (identifier) @interface.name)

(enum_declaration
  name: (identifier) @enum.name)
`

	rustQuery = `
(function_item
  name: (identifier) @function.name)

(struct_item
  name: (type_identifier) @class.name)

(enum_item
  name: (type_identifier) @enum.name)

(trait_item
  name: (type_identifier) @interface.name)

(type_item
  name: (type_identifier) @type.name)

(impl_item
  type: (type_identifier) @class.name)
`

	cQuery = `
(function_definition
  declarator: (function_declarator
    declarator: (identifier) @function.name))

(function_definition
  declarator: (pointer_declarator
    declarator: (function_declarator
      declarator: (identifier) @function.name)))

(struct_specifier
  name: (type_identifier) @class.name
  body: (field_declaration_list))

(enum_specifier
  name: (type_identifier) @enum.name
  body: (enumerator_list))

(type_definition
  declarator: (type_identifier) @type.name)
`
)

// Languages is the built-in language table. Order only affects the order of
// Registry.Languages; extension lookups do not depend on it.
var Languages = []LanguageSpec{
	{
		ID:         "ruby",
		Label:      "Ruby",
		Fence:      "ruby",
		Extensions: []string{"rb"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(ruby.Language()) },
		Query:      rubyQuery,
	},
	{
		ID:         "javascript",
		Label:      "JavaScript",
		Fence:      "javascript",
		Extensions: []string{"js", "mjs", "cjs"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(javascript.Language()) },
		Query:      javaScriptQuery,
	},
	{
		ID:         "jsx",
		Label:      "React (JSX)",
		Fence:      "javascript",
		Extensions: []string{"jsx"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(javascript.Language()) },
		Query:      javaScriptQuery,
	},
	{
		ID:         "typescript",
		Label:      "TypeScript",
		Fence:      "typescript",
		Extensions: []string{"ts", "mts", "cts"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(typescript.LanguageTypescript()) },
		Query:      typeScriptQuery,
	},
	{
		ID:         "tsx",
		Label:      "TSX",
		Fence:      "typescript",
		Extensions: []string{"tsx"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(typescript.LanguageTSX()) },
		Query:      typeScriptQuery,
	},
	{
		ID:         "php",
		Label:      "PHP",
		Fence:      "php",
		Extensions: []string{"php", "phtml"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(php.LanguagePHP()) },
		Query:      phpQuery,
	},
	{
		ID:         "python",
		Label:      "Python",
		Fence:      "python",
		Extensions: []string{"py", "pyw"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(python.Language()) },
		Query:      pythonQuery,
	},
	{
		ID:         "go",
		Label:      "Go",
		Fence:      "go",
		Extensions: []string{"go"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(golang.Language()) },
		Query:      goQuery,
	},
	{
		ID:         "java",
		Label:      "Java",
		Fence:      "java",
		Extensions: []string{"java"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(java.Language()) },
		Query:      javaQuery,
	},
	{
		ID:         "rust",
		Label:      "Rust",
		Fence:      "rust",
		Extensions: []string{"rs"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(rust.Language()) },
		Query:      rustQuery,
	},
	{
		ID:         "c",
		Label:      "C",
		Fence:      "c",
		Extensions: []string{"c", "h"},
		Grammar:    func() *sitter.Language { return sitter.NewLanguage(c.Language()) },
		Query:      cQuery,
	},
}
