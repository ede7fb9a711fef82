package binarysniffer

import (
	"sort"
	"time"
)

// FileType tags the container class the Format Dispatcher selected
// (spec.md §4.1).
type FileType string

const (
	FileTypeELF       FileType = "elf"
	FileTypePE        FileType = "pe"
	FileTypeMachO     FileType = "macho"
	FileTypeMachOFat  FileType = "macho-fat"
	FileTypeAr        FileType = "ar"
	FileTypeDex       FileType = "dex"
	FileTypeZip       FileType = "zip"
	FileTypeTar       FileType = "tar"
	FileTypeSevenZip  FileType = "7z"
	FileTypeRar       FileType = "rar"
	FileTypeDeb       FileType = "deb"
	FileTypeRPM       FileType = "rpm"
	FileTypeCPIO      FileType = "cpio"
	FileTypeZstd      FileType = "zstd"
	FileTypeSource    FileType = "source"
	FileTypeGeneric   FileType = "binary"
	FileTypeEmpty     FileType = "empty"
)

// AnalysisResult is the engine's output for a single input file
// (spec.md §3, §6 "Analysis result (engine→caller)").
type AnalysisResult struct {
	Path             string
	FileType         FileType
	FeaturesExtracted int
	WallTime         time.Duration
	Matches          []ComponentMatch
	Digests          *FileDigests
	FuzzyHash        string
	// Truncated is set when the feature cap discarded trailing features
	// (spec.md §7 "feature cap reached: continue with truncated set;
	// annotate result"). Matches are still computed over the truncated set.
	Truncated bool
	// Err carries a per-file failure (spec.md §7); when set, Matches is
	// always empty. The façade never promotes this to a batch-level error.
	Err *AnalysisError
}

// sortMatches applies the final ordering from spec.md §4.7 and §8 property
// 4: confidence descending, then component name ascending.
func sortMatches(ms []ComponentMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Confidence != ms[j].Confidence {
			return ms[i].Confidence > ms[j].Confidence
		}
		return ms[i].Component.Name < ms[j].Component.Name
	})
}
