package syntax

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language identifies one of the ECMAScript-family grammars scriptlens can parse.
type Language string

const (
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	JavaScript Language = "javascript"
)

// ErrUnsupportedLanguage is returned when no grammar is registered for a language or file.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var extensions = map[string]Language{
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
}

// LanguageForPath detects the language from a file extension.
func LanguageForPath(path string) (Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensions[ext]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
}

// LanguageForID maps an editor language identifier (typescript, javascriptreact, ...)
// to a grammar.
func LanguageForID(id string) (Language, error) {
	switch strings.ToLower(id) {
	case "typescript", "ts":
		return TypeScript, nil
	case "typescriptreact", "tsx":
		return TSX, nil
	case "javascript", "js", "javascriptreact", "jsx":
		return JavaScript, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, id)
}

// Extensions returns every file extension with a registered grammar.
func Extensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	return exts
}

var (
	grammarsOnce sync.Once
	grammars     map[Language]*sitter.Language
	parserPools  map[Language]*sync.Pool
)

func initGrammars() {
	grammarsOnce.Do(func() {
		grammars = map[Language]*sitter.Language{
			TypeScript: sitter.NewLanguage(typescript.LanguageTypescript()),
			TSX:        sitter.NewLanguage(typescript.LanguageTSX()),
			JavaScript: sitter.NewLanguage(javascript.Language()),
		}

		parserPools = make(map[Language]*sync.Pool, len(grammars))
		for lang, grammar := range grammars {
			grammar := grammar
			parserPools[lang] = &sync.Pool{
				New: func() any {
					p := sitter.NewParser()
					if err := p.SetLanguage(grammar); err != nil {
						panic(fmt.Sprintf("set language: %v", err))
					}
					return p
				},
			}
		}
	})
}

// Parse parses source into a Tree. The caller must Close the tree.
// Parsers are pooled per language.
func Parse(lang Language, source []byte) (*Tree, error) {
	initGrammars()

	pool, ok := parserPools[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	p, _ := pool.Get().(*sitter.Parser)
	if p == nil {
		return nil, fmt.Errorf("failed to get parser for %s", lang)
	}
	tree := p.Parse(source, nil)
	pool.Put(p)

	if tree == nil {
		return nil, fmt.Errorf("parse failed for %s", lang)
	}

	return newTree(tree, lang, source), nil
}
