// Package normalize implements the Feature Normalizer (spec.md §4.3): it
// takes the concatenation of extractor outputs and produces a
// deduplicated, size-capped, insertion-ordered sequence of features. This
// is the "no surprises" boundary between extraction and matching — callers
// downstream never see a raw hash-table iteration order.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

const (
	// MaxFeatureLength truncates features longer than this many bytes
	// (spec.md §4.3 rule 2).
	MaxFeatureLength = 512
	// MinFeatureLength drops features shorter than this many bytes
	// (spec.md §4.3 rule 3).
	MinFeatureLength = 4
)

// Raw is one un-normalized feature coming out of an extractor, paired with
// its optional archive-relative source path.
type Raw struct {
	Text       string
	SourcePath string
}

// Normalized is the Normalizer's output unit.
type Normalized struct {
	Text       string
	SourcePath string
}

// StopList is the curated set of ~120 generic programming tokens the
// Normalizer drops unless they contain an underscore or a non-ASCII
// character (spec.md §4.3 rule 4). It is intentionally the same
// vocabulary the Pattern Validator rejects at ingest (spec.md §4.4), kept
// in one place so the two layers can never drift apart.
var StopList = buildStopList()

func buildStopList() map[string]struct{} {
	words := []string{
		"init", "process", "buffer", "data", "error", "config", "test",
		"path", "bool", "exit", "copy", "main", "run", "start", "stop",
		"close", "open", "read", "write", "get", "set", "new", "free",
		"alloc", "malloc", "memcpy", "memset", "memmove", "strcpy",
		"strcat", "strlen", "strcmp", "sprintf", "printf", "fprintf",
		"scanf", "fopen", "fclose", "fread", "fwrite", "value", "result",
		"object", "item", "list", "array", "index", "count", "size",
		"length", "type", "name", "key", "val", "temp", "tmp", "flag",
		"state", "status", "mode", "level", "node", "tree", "graph",
		"queue", "stack", "map", "set", "hash", "sort", "find", "search",
		"update", "delete", "remove", "add", "insert", "append", "clear",
		"reset", "load", "save", "parse", "format", "encode", "decode",
		"compress", "decompress", "encrypt", "decrypt", "hash", "sign",
		"verify", "validate", "check", "handle", "callback", "listener",
		"event", "message", "request", "response", "client", "server",
		"connection", "socket", "stream", "channel", "thread", "lock",
		"mutex", "context", "session", "token", "auth", "login", "logout",
		"user", "admin", "guest", "public", "private", "protected",
		"static", "final", "const", "var", "let", "func", "method",
		"class", "struct", "interface", "enum", "package", "module",
		"import", "export", "return", "break", "continue", "true",
		"false", "null", "nil", "none", "empty", "default", "value1",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

var caser = cases.Fold()

// foldCase performs non-ASCII-aware case folding, matching
// golang.org/x/text/cases semantics rather than ASCII-only strings.ToLower
// (spec.md §4.3 rule 4 "lowercase-fold where appropriate").
func foldCase(s string) string { return caser.String(s) }

// Fold exports the same case folding for callers outside this package that
// need the identical fold applied to stop-word comparison, such as the
// store package's component-family bookkeeping.
func Fold(s string) string { return caser.String(s) }

// isStopWord applies rule 4: a feature exactly equal (case-folded) to a
// stop-list entry is dropped, unless it contains an underscore or any
// non-ASCII rune.
func isStopWord(s string) bool {
	for _, r := range s {
		if r == '_' || r > unicode.MaxASCII {
			return false
		}
	}
	_, ok := StopList[foldCase(s)]
	return ok
}

// Normalize applies the rules of spec.md §4.3 to each feature in turn:
// truncate it if long, drop it if short or stop-listed, drop it if its
// (truncated) text was already seen, so dedup is stable and
// insertion-ordered; then it caps the total count. Normalize is idempotent:
// Normalize(Normalize(in)) == Normalize(in) (spec.md §8 round-trip
// property), because every rule here is itself idempotent and dedup keys
// off the already-normalized text.
func Normalize(in []Raw, maxFeatures int) ([]Normalized, bool) {
	seen := make(map[string]struct{}, len(in))
	out := make([]Normalized, 0, len(in))
	for _, r := range in {
		text := r.Text
		if len(text) > MaxFeatureLength {
			text = truncateBytes(text, MaxFeatureLength)
		}
		if len(text) < MinFeatureLength {
			continue
		}
		if isStopWord(text) {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, Normalized{Text: text, SourcePath: r.SourcePath})
	}
	truncated := false
	if maxFeatures > 0 && len(out) > maxFeatures {
		out = out[:maxFeatures]
		truncated = true
	}
	return out, truncated
}

// truncateBytes cuts s to at most n bytes without splitting a multi-byte
// UTF-8 rune, so truncation can never produce invalid UTF-8.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	b := s[:n]
	for len(b) > 0 && !validTrailingRune(b) {
		b = b[:len(b)-1]
	}
	return b
}

func validTrailingRune(s string) bool {
	return strings.ToValidUTF8(s, "") == s
}
