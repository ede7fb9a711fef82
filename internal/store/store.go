// Package store implements the Signature Store and Pattern Validator
// (spec.md §4.4): a persistent, indexed database of components, patterns,
// an inverted pattern→component index, and optional per-component LSH
// digests. It is grounded on the teacher's [indexer.Store] persistence
// pattern (Setter/Querier split, batched writes, a single shared read-only
// handle) but backed by a single-file SQLite database rather than a
// Postgres cluster, matching spec.md §6's "opaque to users" on-disk store.
package store

import (
	"context"
	"time"
)

// ExactHit is one result row from [Store.LookupExact].
type ExactHit struct {
	ComponentID string
	Confidence  float64
}

// ContainsHit is one result row from [Store.LookupContains].
type ContainsHit struct {
	ComponentID string
	Pattern     string
	Confidence  float64
}

// ComponentRow is the full row persisted for a component, as returned by
// [Store.IterComponents] and [Store.GetComponent].
type ComponentRow struct {
	ID          string
	Name        string
	Version     string
	License     string
	Publisher   string
	Ecosystem   string
	Description string
	Family      string
	PatternCount int
}

// Digest is one stored LSH digest, keyed by component (spec.md §4.4).
type Digest struct {
	ComponentID string
	Bytes       []byte
}

// Status summarizes the store for spec.md §6's "printing a status
// summary": component count, pattern count, last import time.
type Status struct {
	Components    int
	Patterns      int
	LastImportAt  time.Time
}

// Store is the read/write surface the rest of the engine depends on. The
// Direct Matcher consumes LookupExact, LookupContains and GetComponent; the
// Fuzzy Matcher consumes Digests. Writes are reserved for ingestion and
// are always batched in one transaction.
type Store interface {
	// LookupExact reports every component that owns a pattern exactly
	// equal to s (spec.md §4.4).
	LookupExact(ctx context.Context, s string) ([]ExactHit, error)
	// LookupContains reports every pattern that is a substring of s,
	// backed by the trigram auxiliary index built at ingest time (spec.md
	// §4.4, §4.5 step 2).
	LookupContains(ctx context.Context, s string) ([]ContainsHit, error)
	// IterComponents streams every component row, in ascending ID order
	// (spec.md §4.4). Neither matcher calls it.
	IterComponents(ctx context.Context, fn func(ComponentRow) error) error
	// GetComponent fetches one component row by id.
	GetComponent(ctx context.Context, id string) (ComponentRow, error)
	// Digests streams every stored LSH digest.
	Digests(ctx context.Context, fn func(Digest) error) error
	// PutDigest stores (replacing any prior value) one component's LSH
	// digest, computed at ingestion when the source corpus is rich enough
	// (spec.md §3, §4.6 step 1).
	PutDigest(ctx context.Context, componentID string, digest []byte) error
	// PatternCount reports how many patterns a component owns, used by
	// the Direct Matcher's confidence normalization (spec.md §4.5 step 5).
	PatternCount(ctx context.Context, componentID string) (int, error)

	// Import runs the Pattern Validator over one signature file and
	// ingests the patterns it accepts. Import is idempotent: importing the same file twice leaves the
	// store byte-identical (spec.md §8).
	Import(ctx context.Context, doc SignatureFile) (ImportResult, error)

	// RebuildIndices rebuilds the pattern_index table and the trigram
	// contains index from the current components and patterns (spec.md §3 "Pattern→Component Index" lifecycle).
	RebuildIndices(ctx context.Context) error

	// Status reports the store summary (spec.md §6).
	Status(ctx context.Context) (Status, error)

	// Close releases the store's resources.
	Close() error
}

// ImportResult reports what one Import call did, for the caller's own
// logging/status reporting.
type ImportResult struct {
	ComponentID      string
	PatternsAccepted int
	PatternsRejected int
	DigestStored     bool
}
