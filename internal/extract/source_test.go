package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastIdentifierStripsKeywordAndPunctuation(t *testing.T) {
	assert.Equal(t, "Foo", lastIdentifier("class Foo {"))
	assert.Equal(t, "net/http", lastIdentifier(`import "net/http"`))
	assert.Equal(t, "doThing", lastIdentifier("fun doThing("))
}

func TestRegexFeaturesExtractsPythonDeclarations(t *testing.T) {
	src := []byte("import os\n\nclass Widget:\n    def render(self):\n        pass\n")
	rule := languageTables[".py"]
	feats := regexFeatures(rule, src, "widget.py")
	texts := rawTexts(feats)
	assert.Contains(t, texts, "Widget")
	assert.Contains(t, texts, "render")
	assert.Contains(t, texts, "os")
}

func TestRegexFeaturesExtractsGoDeclarations(t *testing.T) {
	src := []byte("package main\n\nimport \"fmt\"\n\nfunc DoWork() {}\n")
	rule := languageTables[".go"]
	feats := regexFeatures(rule, src, "main.go")
	texts := rawTexts(feats)
	assert.Contains(t, texts, "DoWork")
	assert.Contains(t, texts, "fmt")
}

func TestSourceFeaturesUnknownExtensionReturnsNil(t *testing.T) {
	feats := sourceFeatures(context.Background(), "data.unknownext", []byte("whatever"), "data.unknownext")
	assert.Nil(t, feats)
}

func TestSourceFeaturesFallsBackToRegexWhenNoGrammar(t *testing.T) {
	src := []byte("import kotlin.collections.List\n\nclass Widget {\n    fun render() {}\n}\n")
	feats := sourceFeatures(context.Background(), "widget.kt", src, "widget.kt")
	texts := rawTexts(feats)
	assert.Contains(t, texts, "Widget")
}

func TestWalkSourceTreeUsesGrammarForGo(t *testing.T) {
	src := []byte("package main\n\nfunc Hello() {}\n")
	feats, ok := walkSourceTree(context.Background(), "go", src, "hello.go")
	assert.True(t, ok)
	texts := rawTexts(feats)
	assert.Contains(t, texts, "Hello")
}
