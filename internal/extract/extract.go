// Package extract implements the Format Dispatcher and Feature Extractors
// (spec.md §4.1, §4.2): turning an opaque input file into the raw,
// un-normalized feature list the Normalizer consumes.
package extract

import (
	"bytes"
	"context"

	"github.com/SemClone/binarysniffer/internal/normalize"
)

// FileType is the Format Dispatcher's classification of one input
// (spec.md §4.1).
type FileType string

const (
	TypeELF       FileType = "elf"
	TypePE        FileType = "pe"
	TypeMachO     FileType = "macho"
	TypeAR        FileType = "ar"
	TypeDEX       FileType = "dex"
	TypeZip       FileType = "zip"
	TypeTar       FileType = "tar"
	TypeGzip      FileType = "gzip"
	TypeBzip2     FileType = "bzip2"
	TypeXz        FileType = "xz"
	TypeZstd      FileType = "zstd"
	TypeDeb       FileType = "deb"
	TypeRPM       FileType = "rpm"
	TypeSevenZip  FileType = "7z"
	TypeRar       FileType = "rar"
	TypeCPIO      FileType = "cpio"
	TypeSource    FileType = "source"
	TypeGeneric   FileType = "generic_binary"
	TypeEmpty     FileType = "empty"
)

// Archive reports whether t is one of the container types the archive
// walker (archive.go) recurses into.
func (t FileType) Archive() bool {
	switch t {
	case TypeZip, TypeTar, TypeGzip, TypeBzip2, TypeXz, TypeZstd, TypeDeb, TypeAR, TypeCPIO:
		return true
	}
	return false
}

// Native reports whether t is a native executable/library container,
// gating the Direct Matcher's mobile-ecosystem context filter (spec.md
// §4.5 step 4).
func (t FileType) Native() bool {
	switch t {
	case TypeELF, TypePE, TypeMachO, TypeAR:
		return true
	}
	return false
}

// Result is one extractor's output: the raw features plus the
// classification the dispatcher assigned.
type Result struct {
	Type     FileType
	Features []normalize.Raw
	// InnerNative is set when Type is TypeZip and the archive's only
	// member is itself a native binary (spec.md §4.5 step 4's second
	// sentence: "a ZIP-only wrapper containing a single native binary"
	// gets the same context filter applied as a bare native file).
	InnerNative bool
}

// Limits bounds archive recursion (spec.md §6's "RecursionCap"/
// "MaxArchiveFiles"): live, per-call tunables rather than fixed constants,
// so a caller's [Options] actually reaches the archive walker.
type Limits struct {
	// MaxDepth is the deepest an archive may nest before Walk stops
	// recursing (spec.md §4.1's "recursion cap").
	MaxDepth int
	// MaxMembers caps how many members are read from one archive.
	MaxMembers int
}

// DefaultLimits returns the constants spec.md §6 names as defaults
// (recursion cap 5, 10,000 members), for callers that don't have an
// [Options] value to thread through (tests, for example). Walk's
// recursion passes on the limits it was given rather than these.
func DefaultLimits() Limits {
	return Limits{MaxDepth: MaxRecursionDepth, MaxMembers: MaxArchiveMembers}
}

// Extract runs the Format Dispatcher and the matching Feature Extractor
// over one file's bytes (spec.md §4.1, §4.2). sourcePath is the
// archive-relative path used to annotate emitted features when data came
// from inside a container; for a top-level call it's the input path
// itself.
func Extract(ctx context.Context, name string, data []byte, sourcePath string, limits Limits) (Result, error) {
	if len(data) == 0 {
		return Result{Type: TypeEmpty}, nil
	}

	t := Sniff(name, data)

	switch t {
	case TypeELF:
		feats, err := elfSymbols(data, sourcePath)
		return Result{Type: t, Features: append(feats, stringFeatures(data, sourcePath)...)}, err
	case TypePE:
		feats, err := peSymbols(data, sourcePath)
		return Result{Type: t, Features: append(feats, stringFeatures(data, sourcePath)...)}, err
	case TypeMachO:
		feats, err := machoSymbols(data, sourcePath)
		return Result{Type: t, Features: append(feats, stringFeatures(data, sourcePath)...)}, err
	case TypeAR:
		feats, err := arMembers(data, sourcePath)
		return Result{Type: t, Features: feats}, err
	case TypeDEX:
		feats, err := dexStrings(data, sourcePath)
		return Result{Type: t, Features: feats}, err
	case TypeRPM:
		return Result{Type: t, Features: rpmFeatures(data, sourcePath)}, nil
	case TypeSevenZip, TypeRar:
		// Recognized but opaque (spec.md §4.1 treats these the way it
		// explicitly permits for MSI/PKG/DMG): no pack example parses 7z
		// or RAR, so member listing stays unimplemented rather than
		// guessing at a third-party API never exercised anywhere in the
		// corpus. The content still gets a flat string scan instead of
		// silently falling through to generic-binary misclassification.
		return Result{Type: t, Features: stringFeatures(data, sourcePath)}, nil
	case TypeSource:
		return Result{Type: t, Features: sourceFeatures(ctx, name, data, sourcePath)}, nil
	default:
		if t.Archive() {
			feats, err := Walk(ctx, t, data, sourcePath, 0, limits)
			res := Result{Type: t, Features: feats}
			if t == TypeZip {
				res.InnerNative = singleNativeMember(data)
			}
			return res, err
		}
		return Result{Type: TypeGeneric, Features: stringFeatures(data, sourcePath)}, nil
	}
}

// magicPrefix reports whether data starts with prefix.
func magicPrefix(data, prefix []byte) bool {
	return bytes.HasPrefix(data, prefix)
}
