package binarysniffer

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is grounded on claircore's libindex/metrics.go: one package-level
// Tracer, named after the module path, used for the Analyze, analyzeBytes
// and AnalyzeDirectory spans; extraction, normalization and matching get
// no spans of their own. This module carries no OTLP exporter
// wiring (that's an external collaborator's job, spec.md §1); a caller
// that never calls otel.SetTracerProvider just gets a no-op tracer.
var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/SemClone/binarysniffer")
}
