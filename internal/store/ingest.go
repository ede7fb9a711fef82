package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Masterminds/semver"
)

// SignatureFile is the decoded form of the JSON document spec.md §6
// describes. Both "signatures" and "patterns" keys are accepted as a
// historical alias; unknown keys are ignored by virtue of not being
// referenced below.
type SignatureFile struct {
	Component struct {
		Name        string `json:"name"`
		Version     string `json:"version"`
		License     string `json:"license"`
		Publisher   string `json:"publisher"`
		Ecosystem   string `json:"ecosystem"`
		Description string `json:"description"`
	} `json:"component"`
	Metadata struct {
		Version             string  `json:"version"`
		ConfidenceThreshold float64 `json:"confidence_threshold"`
		TLSH                string  `json:"tlsh"`
	} `json:"signature_metadata"`
	Signatures []rawPattern `json:"signatures"`
	Patterns   []rawPattern `json:"patterns"`
}

type rawPattern struct {
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context"`
}

// DecodeSignatureFile parses one signature JSON document (spec.md §6).
func DecodeSignatureFile(r io.Reader) (SignatureFile, error) {
	var doc SignatureFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return SignatureFile{}, fmt.Errorf("store: decoding signature file: %w", err)
	}
	return doc, nil
}

// acceptedPattern is one pattern that survived the Pattern Validator, ready
// to be persisted.
type acceptedPattern struct {
	Text       string
	Confidence float64
	Context    string
}

// ValidationError is raised while ingesting a signature file (spec.md §6,
// §7) when every candidate pattern is rejected by the Pattern Validator.
// The root package wraps this in its own binarysniffer.ValidationError at
// the façade boundary; store can't reference that type directly without an
// import cycle, since the root package imports store.
type ValidationError struct {
	File   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("store: validation: %s: %s", e.File, e.Reason)
}

// validateSignatureFile runs every candidate pattern (preferring the
// "signatures" key, falling back to "patterns") through the Pattern
// Validator (spec.md §4.4) exactly once, and rejects the whole file if
// nothing survives (spec.md §6 "an empty accepted-patterns list causes the
// whole file to be rejected").
func validateSignatureFile(doc SignatureFile) ([]acceptedPattern, int, error) {
	candidates := doc.Signatures
	if len(candidates) == 0 {
		candidates = doc.Patterns
	}
	seen := make(map[string]struct{}, len(candidates))
	accepted := make([]acceptedPattern, 0, len(candidates))
	rejected := 0
	for _, c := range candidates {
		if c.Pattern == "" {
			rejected++
			continue
		}
		if reason := validatePattern(c.Pattern, seen); reason != "" {
			rejected++
			continue
		}
		seen[c.Pattern] = struct{}{}
		conf := c.Confidence
		if conf == 0 {
			conf = doc.Metadata.ConfidenceThreshold
		}
		accepted = append(accepted, acceptedPattern{
			Text:       c.Pattern,
			Confidence: clipConfidence(conf),
			Context:    c.Context,
		})
	}
	if len(accepted) == 0 {
		return nil, rejected, &ValidationError{
			File:   doc.Component.Name,
			Reason: "no patterns survived validation",
		}
	}
	return accepted, rejected, nil
}

// commonSPDXIdentifiers is a small allowlist of frequently-seen SPDX
// license identifiers. normalizeLicense reports whether a license string
// is in it; Import discards that report and logs nothing, and every
// value, recognized or not, is stored verbatim as free text (spec.md §3 "license
// (SPDX-style free text or a severity tag ...)"). A real SPDX identifier
// catalog belongs to an SBOM renderer, which is an external collaborator
// per spec.md §1 — see DESIGN.md for why github.com/spdx/tools-golang,
// which targets full SBOM document construction rather than bare license
// validation, isn't wired here.
var commonSPDXIdentifiers = map[string]struct{}{
	"MIT": {}, "Apache-2.0": {}, "BSD-2-Clause": {}, "BSD-3-Clause": {},
	"GPL-2.0-only": {}, "GPL-2.0-or-later": {}, "GPL-3.0-only": {},
	"GPL-3.0-or-later": {}, "LGPL-2.1-only": {}, "LGPL-2.1-or-later": {},
	"LGPL-3.0-only": {}, "MPL-2.0": {}, "ISC": {}, "Zlib": {}, "BSL-1.0": {},
	"Unlicense": {}, "CC0-1.0": {}, "Python-2.0": {}, "OpenSSL": {},
}

// normalizeLicense returns the ingested license string unchanged and tags
// whether it exactly matches a common SPDX identifier; the value is always
// persisted as-is.
func normalizeLicense(license string) (value string, isKnownSPDX bool) {
	_, known := commonSPDXIdentifiers[license]
	return license, known
}

// orderVersions sorts component version strings using semver where
// possible, falling back to lexical order for non-semver version schemes
// (spec.md §3 "Lifecycle: created at signature ingestion, immutable
// thereafter, removed only by full reingest" — reingest needs a stable
// notion of "newer" to decide whether a family member supersedes another).
func orderVersions(a, b string) int {
	av, aerr := semver.NewVersion(a)
	bv, berr := semver.NewVersion(b)
	if aerr == nil && berr == nil {
		return av.Compare(bv)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
