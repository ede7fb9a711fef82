package binarysniffer

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Options configures one [Engine.Analyze] or [Engine.AnalyzeDirectory] call.
// It is a plain value: there is no global mutable configuration state
// outside of the handle an [Engine] was constructed with (spec.md §6, §9
// "Global state").
type Options struct {
	// Threshold is the minimum confidence a match must reach to be
	// emitted. Default 0.5.
	Threshold float64
	// FuzzyEnable turns the Fuzzy Matcher on or off. Default true.
	FuzzyEnable bool
	// FuzzyThreshold is the LSH distance cutoff: digests at this distance
	// or greater are not candidates. Default 70.
	FuzzyThreshold int
	// MinMatches is the minimum distinct-pattern hit count a direct-match
	// candidate must reach. Default 1.
	MinMatches int
	// MaxFeatures caps the Feature Set size. Default 150000.
	MaxFeatures int
	// SizeCeiling skips files larger than this many bytes when non-zero.
	SizeCeiling int64
	// Timeout bounds a single file's analysis wall-clock. Default 60s.
	Timeout time.Duration
	// RecursionCap bounds archive nesting depth. Default 5.
	RecursionCap int
	// MaxArchiveFiles caps members read from one archive. Default 10000.
	MaxArchiveFiles int
	// Workers bounds analyze_directory's worker pool. Default
	// runtime.GOMAXPROCS(0).
	Workers int
	// IncludeHashes attaches MD5/SHA1/SHA256 to the result.
	IncludeHashes bool
	// IncludeFuzzyHashes attaches the hex-encoded internal/lsh SimHash of
	// the normalized features to the result. It is not a TLSH or ssdeep
	// hash of the input bytes, and it is absent when the features total
	// fewer than lsh.MinCorpusBytes bytes.
	IncludeFuzzyHashes bool
	// TopN truncates the match list to the top N entries; zero means no
	// truncation.
	TopN int
	// PatternIncludeGlobs, when non-empty, restricts both direct and fuzzy
	// matching to features whose text matches at least one glob.
	PatternIncludeGlobs []string
	// DisableContextFilters turns off the native-vs-mobile ecosystem
	// filter in the Direct Matcher (spec.md §9 "Open questions").
	DisableContextFilters bool
	// Recursive enables directory descent in AnalyzeDirectory.
	Recursive bool
	// Parallel caps concurrent AnalyzeDirectory file analyses; zero means
	// Workers is used.
	Parallel int
}

// DefaultOptions returns the configuration defaults enumerated in
// spec.md §6.
func DefaultOptions() Options {
	return Options{
		Threshold:       0.5,
		FuzzyEnable:     true,
		FuzzyThreshold:  70,
		MinMatches:      1,
		MaxFeatures:     150000,
		Timeout:         60 * time.Second,
		RecursionCap:    5,
		MaxArchiveFiles: 10000,
	}
}

// LoadDotEnvOverrides applies BINARYSNIFFER_* environment variables, optionally
// sourced from a ".env" file, on top of o. Mirrors the teacher's ambient
// config-bootstrap convention of layering env/.env overrides over struct
// defaults rather than introducing a separate config file format.
func (o Options) LoadDotEnvOverrides(envFile string) Options {
	if envFile != "" {
		// Ignore a missing .env file; it's an optional local override.
		_ = godotenv.Load(envFile)
	}
	if v, ok := os.LookupEnv("BINARYSNIFFER_THRESHOLD"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.Threshold = f
		}
	}
	if v, ok := os.LookupEnv("BINARYSNIFFER_FUZZY_THRESHOLD"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.FuzzyThreshold = n
		}
	}
	if v, ok := os.LookupEnv("BINARYSNIFFER_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			o.Workers = n
		}
	}
	if v, ok := os.LookupEnv("BINARYSNIFFER_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			o.Timeout = d
		}
	}
	return o
}
