package binarysniffer

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	rtrace "runtime/trace"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quay/zlog"

	"github.com/SemClone/binarysniffer/internal/extract"
	"github.com/SemClone/binarysniffer/internal/lsh"
	"github.com/SemClone/binarysniffer/internal/match"
	"github.com/SemClone/binarysniffer/internal/normalize"
	"github.com/SemClone/binarysniffer/internal/store"
	"github.com/SemClone/binarysniffer/internal/worker"
)

// Engine is the Engine Façade (spec.md §4.8): the single entry point that
// wires the Format Dispatcher, Feature Extractors, Normalizer, Direct and
// Fuzzy Matchers, and Result Merger into the two public operations. An
// Engine owns one read-only signature store handle, shared across every
// worker (spec.md §5 "opened once and shared read-only across workers").
type Engine struct {
	store store.Store
}

// Open constructs an Engine against the signature store at path, creating
// an empty store if one doesn't already exist (spec.md §6).
func Open(ctx context.Context, path string) (*Engine, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "Engine/Open")
	s, err := store.Open(ctx, path)
	if err != nil {
		return nil, &StoreError{Cause: err}
	}
	zlog.Info(ctx).Str("path", path).Msg("opened signature store")
	return &Engine{store: s}, nil
}

// NewWithStore constructs an Engine directly against an already-open
// store, for callers (and tests) that manage the store's lifetime
// themselves.
func NewWithStore(s store.Store) *Engine {
	return &Engine{store: s}
}

// Close releases the Engine's store handle.
func (e *Engine) Close() error { return e.store.Close() }

// Analyze runs the full pipeline against one file (spec.md §4.8).
func (e *Engine) Analyze(ctx context.Context, path string, opts Options) (AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "Engine.Analyze", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()
	start := time.Now()

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	res := e.analyze(ctx, path, opts)
	res.WallTime = time.Since(start)

	analysisDuration.WithLabelValues(string(res.FileType)).Observe(res.WallTime.Seconds())
	filesAnalyzedTotal.WithLabelValues(string(res.FileType)).Inc()
	if res.Err != nil {
		analysisErrorsTotal.WithLabelValues(string(res.Err.Kind)).Inc()
	}
	for _, m := range res.Matches {
		matchesEmittedTotal.WithLabelValues(string(m.MatchMethod)).Inc()
	}
	return res, nil
}

// analyze is Analyze's error-annotated core: every failure is captured in
// the returned result's Err field rather than as a Go error, per spec.md
// §7's "per-file errors yield an AnalysisResult with empty matches and an
// error field".
func (e *Engine) analyze(ctx context.Context, path string, opts Options) AnalysisResult {
	info, err := os.Stat(path)
	if err != nil {
		return AnalysisResult{Path: path, Err: newError(path, KindIO, err)}
	}
	if opts.SizeCeiling > 0 && info.Size() > opts.SizeCeiling {
		return AnalysisResult{Path: path, Err: newError(path, KindResourceExceeded,
			fmt.Errorf("%d bytes exceeds size ceiling of %d bytes", info.Size(), opts.SizeCeiling))}
	}

	f, err := os.Open(path)
	if err != nil {
		return AnalysisResult{Path: path, Err: newError(path, KindIO, err)}
	}
	defer f.Close()

	var digests *FileDigests
	if opts.IncludeHashes {
		fd, err := computeDigests(f)
		if err != nil {
			return AnalysisResult{Path: path, Err: newError(path, KindIO, err)}
		}
		digests = &fd
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return AnalysisResult{Path: path, Err: newError(path, KindIO, err)}
		}
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return AnalysisResult{Path: path, Err: newError(path, KindIO, err)}
	}

	return e.analyzeBytes(ctx, path, data, digests, opts)
}

// analyzeBytes runs extraction, normalization, matching, and merge over an
// already-read buffer; analyze calls it once the file's bytes are read
// and, when requested, its digests computed.
func (e *Engine) analyzeBytes(ctx context.Context, path string, data []byte, digests *FileDigests, opts Options) AnalysisResult {
	ctx, span := tracer.Start(ctx, "Engine.analyzeBytes")
	defer span.End()
	defer rtrace.StartRegion(ctx, "Engine.analyzeBytes").End()
	rtrace.Log(ctx, "path", path)

	limits := extract.DefaultLimits()
	if opts.RecursionCap > 0 {
		limits.MaxDepth = opts.RecursionCap
	}
	if opts.MaxArchiveFiles > 0 {
		limits.MaxMembers = opts.MaxArchiveFiles
	}
	extracted, err := extract.Extract(ctx, filepath.Base(path), data, path, limits)
	if err != nil {
		if ctx.Err() != nil {
			return AnalysisResult{Path: path, FileType: mapFileType(extracted.Type), Digests: digests,
				Err: newError(path, KindTimeout, ctx.Err())}
		}
		return AnalysisResult{Path: path, FileType: mapFileType(extracted.Type), Digests: digests,
			Err: newError(path, KindFormat, err)}
	}

	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultOptions().MaxFeatures
	}
	normalized, truncated := normalize.Normalize(extracted.Features, maxFeatures)

	fileType := mapFileType(extracted.Type)
	result := AnalysisResult{
		Path:              path,
		FileType:          fileType,
		FeaturesExtracted: len(normalized),
		Digests:           digests,
		Truncated:         truncated,
	}

	if opts.IncludeFuzzyHashes {
		texts := make([]string, len(normalized))
		for i, n := range normalized {
			texts[i] = n.Text
		}
		if digest, ok := lsh.Digest(texts); ok {
			result.FuzzyHash = hex.EncodeToString(digest)
		}
	}

	matches, err := e.matchFeatures(ctx, normalized, fileType, extracted.InnerNative, opts)
	if err != nil {
		if ctx.Err() != nil {
			result.Err = newError(path, KindTimeout, ctx.Err())
			return result
		}
		result.Err = newError(path, KindIO, err)
		return result
	}
	result.Matches = matches
	return result
}

// matchFeatures runs the Direct Matcher, Fuzzy Matcher, and Result Merger,
// then resolves each merged hit against its component row to build the
// public ComponentMatch (spec.md §4.5-§4.7).
func (e *Engine) matchFeatures(ctx context.Context, features []normalize.Normalized, ft FileType, innerNative bool, opts Options) ([]ComponentMatch, error) {
	if len(features) > 0 && len(opts.PatternIncludeGlobs) > 0 {
		features = filterByGlobs(features, opts.PatternIncludeGlobs)
	}

	direct, err := match.Direct(ctx, e.store, features, match.DirectOptions{
		Threshold:  opts.Threshold,
		MinMatches: opts.MinMatches,
		NativeOnly: !opts.DisableContextFilters && (isNativeFileType(ft) || innerNative),
	})
	if err != nil {
		return nil, fmt.Errorf("binarysniffer: direct match: %w", err)
	}

	fuzzyEnabled := opts.FuzzyEnable
	fuzzy, err := match.Fuzzy(ctx, e.store, features, match.FuzzyOptions{
		Enabled:   fuzzyEnabled,
		Threshold: opts.FuzzyThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("binarysniffer: fuzzy match: %w", err)
	}

	merged := match.Merge(direct, fuzzy)

	out := make([]ComponentMatch, 0, len(merged))
	for _, m := range merged {
		row, err := e.store.GetComponent(ctx, m.ComponentID)
		if err != nil {
			return nil, fmt.Errorf("binarysniffer: resolving component %s: %w", m.ComponentID, err)
		}
		if m.Confidence < opts.Threshold {
			continue
		}
		component := Component{
			ID:          row.ID,
			Name:        row.Name,
			Version:     row.Version,
			License:     row.License,
			Publisher:   row.Publisher,
			Ecosystem:   Ecosystem(row.Ecosystem),
			Description: row.Description,
			Family:      row.Family,
		}
		component.Version = component.NormalizedVersion()
		out = append(out, ComponentMatch{
			Component: component,
			Confidence:  m.Confidence,
			MatchMethod: MatchMethod(m.Method),
			Evidence: Evidence{
				PatternCount:  m.PatternCount,
				Patterns:      m.Patterns,
				FuzzyDistance: m.FuzzyDistance,
				HasFuzzyDist:  m.HasFuzzyDist,
			},
		})
	}

	sortMatches(out)
	if opts.TopN > 0 && len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out, nil
}

// filterByGlobs restricts features to those whose text matches at least
// one of globs (spec.md §6 "pattern include-globs").
func filterByGlobs(features []normalize.Normalized, globs []string) []normalize.Normalized {
	out := make([]normalize.Normalized, 0, len(features))
	for _, f := range features {
		for _, g := range globs {
			if ok, err := filepath.Match(g, f.Text); err == nil && ok {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// isNativeFileType reports whether ft is a native executable/library
// container, gating the Direct Matcher's mobile-ecosystem context filter
// (spec.md §4.5 step 4).
func isNativeFileType(ft FileType) bool {
	switch ft {
	case FileTypeELF, FileTypePE, FileTypeMachO, FileTypeMachOFat, FileTypeAr:
		return true
	}
	return false
}

// mapFileType translates the extractor's internal classification to the
// façade's public FileType (two separate enums so internal/extract never
// needs to import the root package).
func mapFileType(t extract.FileType) FileType {
	switch t {
	case extract.TypeELF:
		return FileTypeELF
	case extract.TypePE:
		return FileTypePE
	case extract.TypeMachO:
		return FileTypeMachO
	case extract.TypeAR:
		return FileTypeAr
	case extract.TypeDEX:
		return FileTypeDex
	case extract.TypeZip:
		return FileTypeZip
	case extract.TypeTar:
		return FileTypeTar
	case extract.TypeGzip, extract.TypeBzip2, extract.TypeXz:
		return FileTypeTar
	case extract.TypeZstd:
		return FileTypeZstd
	case extract.TypeDeb:
		return FileTypeDeb
	case extract.TypeRPM:
		return FileTypeRPM
	case extract.TypeSevenZip:
		return FileTypeSevenZip
	case extract.TypeRar:
		return FileTypeRar
	case extract.TypeCPIO:
		return FileTypeCPIO
	case extract.TypeSource:
		return FileTypeSource
	case extract.TypeEmpty:
		return FileTypeEmpty
	default:
		return FileTypeGeneric
	}
}

// AnalyzeDirectory walks root and runs Analyze over every regular file
// found, using a bounded worker pool (spec.md §4.8, §5). When
// opts.Recursive is false, only root's immediate children are visited.
func (e *Engine) AnalyzeDirectory(ctx context.Context, root string, opts Options) (map[string]AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "Engine.AnalyzeDirectory", trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	paths, err := collectPaths(root, opts.Recursive)
	if err != nil {
		return nil, newError(root, KindIO, err)
	}
	sort.Strings(paths)

	concurrency := opts.Parallel
	if concurrency <= 0 {
		concurrency = opts.Workers
	}

	tasks := make([]worker.Task[AnalysisResult], len(paths))
	for i, p := range paths {
		tasks[i] = worker.Task[AnalysisResult]{
			Path: p,
			Run: func(ctx context.Context, path string) (AnalysisResult, error) {
				return e.Analyze(ctx, path, opts)
			},
		}
	}

	results := worker.Run(ctx, tasks, concurrency)
	out := make(map[string]AnalysisResult, len(results))
	for _, r := range results {
		if r.Err != nil {
			out[r.Path] = AnalysisResult{Path: r.Path, Err: newError(r.Path, KindIO, r.Err)}
			continue
		}
		out[r.Path] = r.Value
	}
	return out, nil
}

// ImportResult reports what one signature-file ingest did (spec.md §6
// "bulk-importing signature files idempotently").
type ImportResult struct {
	ComponentID      string
	PatternsAccepted int
	PatternsRejected int
	DigestStored     bool
}

// StoreStatus summarizes the signature store (spec.md §6 "printing a
// status summary").
type StoreStatus struct {
	Components   int
	Patterns     int
	LastImportAt time.Time
}

// ImportSignatureFile decodes and ingests one signature-file document
// (spec.md §6), translating the store's local ValidationError into the
// root package's public error type at the façade boundary.
func (e *Engine) ImportSignatureFile(ctx context.Context, r io.Reader) (ImportResult, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "Engine/ImportSignatureFile")
	doc, err := store.DecodeSignatureFile(r)
	if err != nil {
		return ImportResult{}, newError("", KindFormat, err)
	}
	res, err := e.store.Import(ctx, doc)
	if err != nil {
		var verr *store.ValidationError
		if asValidationError(err, &verr) {
			return ImportResult{}, &ValidationError{File: verr.File, Reason: verr.Reason}
		}
		return ImportResult{}, &StoreError{Cause: err}
	}
	zlog.Info(ctx).Str("component", res.ComponentID).Int("accepted", res.PatternsAccepted).
		Int("rejected", res.PatternsRejected).Msg("ingested signature file")
	return ImportResult{
		ComponentID:      res.ComponentID,
		PatternsAccepted: res.PatternsAccepted,
		PatternsRejected: res.PatternsRejected,
		DigestStored:     res.DigestStored,
	}, nil
}

// asValidationError reports whether err is a *store.ValidationError,
// assigning it to *target on success (a small local stand-in for
// errors.As so this file doesn't need to import the generic errors
// package just for one call site).
func asValidationError(err error, target **store.ValidationError) bool {
	verr, ok := err.(*store.ValidationError)
	if ok {
		*target = verr
	}
	return ok
}

// RebuildIndices rebuilds the store's pattern index and contains-lookup
// structures (spec.md §6).
func (e *Engine) RebuildIndices(ctx context.Context) error {
	if err := e.store.RebuildIndices(ctx); err != nil {
		return &StoreError{Cause: err}
	}
	return nil
}

// Status reports the store's summary counts (spec.md §6).
func (e *Engine) Status(ctx context.Context) (StoreStatus, error) {
	st, err := e.store.Status(ctx)
	if err != nil {
		return StoreStatus{}, &StoreError{Cause: err}
	}
	return StoreStatus{Components: st.Components, Patterns: st.Patterns, LastImportAt: st.LastImportAt}, nil
}

// collectPaths lists root's regular files, recursing when recursive is
// set, in no particular order (the caller sorts).
func collectPaths(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var out []string
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		full := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if recursive {
				sub, err := collectPaths(full, recursive)
				if err != nil {
					continue // one unreadable subdirectory never aborts the walk
				}
				out = append(out, sub...)
			}
			continue
		}
		out = append(out, full)
	}
	return out, nil
}
