package extract

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	coregex "github.com/coregx/coregex"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// Source code extraction (spec.md §4.2 "Source code"). Each recognized
// extension gets a language key; when a tree-sitter grammar is
// registered for that key (grammarFor), the structural walk in
// walkSourceTree replaces the regex path ("If an external tag generator
// is available it may replace the regex extractor"); otherwise
// regexFeatures runs the per-language coregex table.

type langRule struct {
	name     string
	patterns []*coregex.Regex
}

func buildRule(name string, exprs ...string) langRule {
	r := langRule{name: name}
	for _, e := range exprs {
		re, err := coregex.Compile(e)
		if err != nil {
			continue // malformed table entry never aborts extraction
		}
		r.patterns = append(r.patterns, re)
	}
	return r
}

// languageTables are the per-language production-name patterns spec.md
// §4.2 calls for: function/method, class/struct/interface/enum, import,
// and const/#define/static-final identifiers.
var languageTables = map[string]langRule{
	".c":   buildRule("c", `\b[A-Za-z_][A-Za-z0-9_]*\s*\([^;{]*\)\s*\{`, `#define\s+[A-Za-z_][A-Za-z0-9_]*`, `struct\s+[A-Za-z_][A-Za-z0-9_]*`),
	".h":   buildRule("c", `#define\s+[A-Za-z_][A-Za-z0-9_]*`, `struct\s+[A-Za-z_][A-Za-z0-9_]*`),
	".cc":  buildRule("cpp", `class\s+[A-Za-z_][A-Za-z0-9_]*`, `namespace\s+[A-Za-z_][A-Za-z0-9_]*`, `#include\s*[<"][^">]+[">]`),
	".cpp": buildRule("cpp", `class\s+[A-Za-z_][A-Za-z0-9_]*`, `namespace\s+[A-Za-z_][A-Za-z0-9_]*`, `#include\s*[<"][^">]+[">]`),
	".hpp": buildRule("cpp", `class\s+[A-Za-z_][A-Za-z0-9_]*`, `struct\s+[A-Za-z_][A-Za-z0-9_]*`),
	".py":  buildRule("python", `def\s+[A-Za-z_][A-Za-z0-9_]*`, `class\s+[A-Za-z_][A-Za-z0-9_]*`, `import\s+[A-Za-z_][A-Za-z0-9_.]*`, `from\s+[A-Za-z_][A-Za-z0-9_.]*\s+import`),
	".java": buildRule("java", `class\s+[A-Za-z_][A-Za-z0-9_]*`, `interface\s+[A-Za-z_][A-Za-z0-9_]*`, `enum\s+[A-Za-z_][A-Za-z0-9_]*`, `import\s+[A-Za-z_][A-Za-z0-9_.]*`, `static\s+final\s+\w+\s+[A-Za-z_][A-Za-z0-9_]*`),
	".kt":  buildRule("kotlin", `class\s+[A-Za-z_][A-Za-z0-9_]*`, `fun\s+[A-Za-z_][A-Za-z0-9_]*`, `import\s+[A-Za-z_][A-Za-z0-9_.]*`),
	".go":  buildRule("go", `func\s+(?:\([^)]*\)\s*)?[A-Za-z_][A-Za-z0-9_]*`, `type\s+[A-Za-z_][A-Za-z0-9_]*\s+(?:struct|interface)`, `import\s+"[^"]+"`),
	".rs":  buildRule("rust", `fn\s+[A-Za-z_][A-Za-z0-9_]*`, `struct\s+[A-Za-z_][A-Za-z0-9_]*`, `enum\s+[A-Za-z_][A-Za-z0-9_]*`, `use\s+[A-Za-z_][A-Za-z0-9_:]*`),
	".js":  buildRule("javascript", `function\s+[A-Za-z_$][A-Za-z0-9_$]*`, `class\s+[A-Za-z_$][A-Za-z0-9_$]*`, `import\s+.*from\s+['"][^'"]+['"]`),
	".ts":  buildRule("typescript", `function\s+[A-Za-z_$][A-Za-z0-9_$]*`, `class\s+[A-Za-z_$][A-Za-z0-9_$]*`, `interface\s+[A-Za-z_$][A-Za-z0-9_$]*`, `import\s+.*from\s+['"][^'"]+['"]`),
	".cs":  buildRule("csharp", `class\s+[A-Za-z_][A-Za-z0-9_]*`, `interface\s+[A-Za-z_][A-Za-z0-9_]*`, `namespace\s+[A-Za-z_][A-Za-z0-9_.]*`, `using\s+[A-Za-z_][A-Za-z0-9_.]*`),
	".swift": buildRule("swift", `func\s+[A-Za-z_][A-Za-z0-9_]*`, `class\s+[A-Za-z_][A-Za-z0-9_]*`, `struct\s+[A-Za-z_][A-Za-z0-9_]*`, `import\s+[A-Za-z_][A-Za-z0-9_]*`),
	".rb":  buildRule("ruby", `def\s+[A-Za-z_][A-Za-z0-9_?!]*`, `class\s+[A-Za-z_][A-Za-z0-9_]*`, `module\s+[A-Za-z_][A-Za-z0-9_]*`, `require\s+['"][^'"]+['"]`),
	".php": buildRule("php", `function\s+[A-Za-z_][A-Za-z0-9_]*`, `class\s+[A-Za-z_][A-Za-z0-9_]*`, `interface\s+[A-Za-z_][A-Za-z0-9_]*`, `use\s+[A-Za-z_\\][A-Za-z0-9_\\]*`),
	".m":   buildRule("objc", `@interface\s+[A-Za-z_][A-Za-z0-9_]*`, `@implementation\s+[A-Za-z_][A-Za-z0-9_]*`, `#import\s*[<"][^">]+[">]`),
}

// sourceFeatures runs the source extractor for one file (spec.md §4.2).
func sourceFeatures(ctx context.Context, name string, data []byte, sourcePath string) []normalize.Raw {
	ext := strings.ToLower(filepath.Ext(name))
	rule, ok := languageTables[ext]
	if !ok {
		return nil
	}

	if feats, ok := walkSourceTree(ctx, rule.name, data, sourcePath); ok {
		return feats
	}
	return regexFeatures(rule, data, sourcePath)
}

func regexFeatures(rule langRule, data []byte, sourcePath string) []normalize.Raw {
	text := string(data)
	var out []normalize.Raw
	for _, re := range rule.patterns {
		for _, m := range re.FindAllString(text, -1) {
			if id := lastIdentifier(m); id != "" {
				out = append(out, normalize.Raw{Text: id, SourcePath: sourcePath})
			}
		}
	}
	return out
}

// lastIdentifier returns the trailing identifier-shaped token of a
// keyword match (e.g. "class Foo" -> "Foo", `import "net/http"` ->
// "net/http"), since coregex.Regex only exposes whole-match extraction,
// not submatch iteration over every match (spec.md §4.2's production
// tables only need the name, not the keyword).
func lastIdentifier(match string) string {
	m := strings.TrimRight(match, "{(:")
	fields := strings.Fields(m)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], `"'`)
}

// grammarFor maps a source extractor's language key to a compiled
// tree-sitter grammar, for the subset of languages the pack carries a
// grammar binding for.
func grammarFor(lang string) *tree_sitter.Language {
	switch lang {
	case "c":
		return tree_sitter.NewLanguage(tree_sitter_c.Language())
	case "cpp":
		return tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	case "python":
		return tree_sitter.NewLanguage(tree_sitter_python.Language())
	case "java":
		return tree_sitter.NewLanguage(tree_sitter_java.Language())
	case "go":
		return tree_sitter.NewLanguage(tree_sitter_go.Language())
	case "rust":
		return tree_sitter.NewLanguage(tree_sitter_rust.Language())
	case "javascript":
		return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	case "typescript":
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case "csharp":
		return tree_sitter.NewLanguage(tree_sitter_c_sharp.Language())
	case "ruby":
		return tree_sitter.NewLanguage(tree_sitter_ruby.Language())
	case "php":
		return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())
	}
	return nil
}

// interestingKinds is the set of tree-sitter node kinds, across the
// grammars above, that correspond to the declaration shapes spec.md
// §4.2 wants (function/method, class/struct/interface/enum, import).
// Kotlin, Swift, and Objective-C have no grammar in the pack and stay on
// the regex path (see SPEC_FULL.md's DOMAIN STACK entry).
var interestingKinds = map[string]struct{}{
	"function_declaration":  {},
	"method_declaration":    {},
	"function_definition":   {},
	"function_item":         {},
	"class_declaration":     {},
	"class_definition":      {},
	"struct_item":           {},
	"interface_declaration": {},
	"enum_item":             {},
	"enum_declaration":      {},
	"type_declaration":      {},
	"import_declaration":    {},
	"import_statement":      {},
	"use_declaration":       {},
}

// walkSourceTree parses data with lang's tree-sitter grammar (when one is
// registered) and walks the resulting AST collecting the Utf8Text of
// every node whose Kind is in interestingKinds. Returns ok=false when no
// grammar is registered for lang, telling the caller to fall back to the
// regex table.
func walkSourceTree(ctx context.Context, lang string, data []byte, sourcePath string) ([]normalize.Raw, bool) {
	tsLang := grammarFor(lang)
	if tsLang == nil {
		return nil, false
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, false
	}
	tree := parser.Parse(data, nil)
	if tree == nil {
		return nil, false
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil {
		return nil, false
	}

	var out []normalize.Raw
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, ok := interestingKinds[n.Kind()]; ok {
			text := n.Utf8Text(data)
			if name := firstLineIdentifier(text); name != "" {
				out = append(out, normalize.Raw{Text: name, SourcePath: sourcePath})
			}
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			if c := n.Child(i); c != nil {
				walk(c)
			}
		}
	}
	walk(root)
	return out, true
}

// firstLineIdentifier pulls a plausible declaration name out of a node's
// source text by taking its first line, avoiding the full declaration body.
// On that line it returns the identifier written directly before the first
// "(" that follows one ("func (r T) Name(" -> "Name"); without such a "(",
// it returns the last token before any "{".
func firstLineIdentifier(text string) string {
	if i := bytes.IndexByte([]byte(text), '\n'); i >= 0 {
		text = text[:i]
	}
	for i := 1; i < len(text); i++ {
		c := text[i-1]
		if text[i] == '(' && (c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return lastIdentifier(text[:i])
		}
	}
	if i := strings.IndexByte(text, '{'); i >= 0 {
		text = text[:i]
	}
	return lastIdentifier(text)
}
