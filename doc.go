// Package binarysniffer identifies open-source software components embedded
// in binary artifacts by matching extracted lexical features against a
// curated database of component signatures.
//
// The package exposes a single entry point, [Engine], constructed with
// [Open] against a signature store. [Engine.Analyze] and
// [Engine.AnalyzeDirectory] turn a file or directory into ranked
// [ComponentMatch] results.
package binarysniffer
