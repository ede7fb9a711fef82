package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/doug-martin/goqu/v8"
	_ "github.com/doug-martin/goqu/v8/dialect/sqlite3"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/SemClone/binarysniffer/internal/lsh"
	"github.com/SemClone/binarysniffer/internal/normalize"
)

var dialect = goqu.Dialect("sqlite3")

// SQLiteStore is the concrete, single-file realization of [Store] (spec.md
// §6 "opaque to users ... a directory or single file"). It opens one
// modernc.org/sqlite handle, with the foreign_keys and busy_timeout
// pragmas, and uses it for both lookups and ingestion.
type SQLiteStore struct {
	path    string
	db      *sql.DB
	contain *containsIndex
}

// Open opens (creating if necessary) the SQLite file at path and ensures
// its schema is current.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	u := url.URL{
		Scheme: "file",
		Opaque: path,
		RawQuery: url.Values{
			"_pragma": {"foreign_keys(1)", "busy_timeout(5000)"},
		}.Encode(),
	}
	db, err := sql.Open("sqlite", u.String())
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}
	s := &SQLiteStore{path: path, db: db, contain: newContainsIndex()}
	if err := s.RebuildIndices(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// LookupExact implements [Store.LookupExact] as a single indexed equality
// query against pattern_index (spec.md §4.4).
func (s *SQLiteStore) LookupExact(ctx context.Context, text string) ([]ExactHit, error) {
	query, _, err := dialect.From("pattern_index").
		Select("component_id", "confidence").
		Where(goqu.Ex{"text": text}).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("store: building exact-lookup query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: exact lookup: %w", err)
	}
	defer rows.Close()
	var hits []ExactHit
	for rows.Next() {
		var h ExactHit
		if err := rows.Scan(&h.ComponentID, &h.Confidence); err != nil {
			return nil, fmt.Errorf("store: scanning exact hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// LookupContains implements [Store.LookupContains] via the in-memory
// trigram index (containsIndex), not SQL: scanning every stored pattern against a
// haystack with LIKE would be a full table scan per file (spec.md §4.4).
func (s *SQLiteStore) LookupContains(_ context.Context, text string) ([]ContainsHit, error) {
	return s.contain.lookup(text), nil
}

func (s *SQLiteStore) IterComponents(ctx context.Context, fn func(ComponentRow) error) error {
	query, _, err := dialect.From("components").
		Select("id", "name", "version", "license", "publisher", "ecosystem", "description", "family").
		Order(goqu.I("id").Asc()).
		ToSQL()
	if err != nil {
		return fmt.Errorf("store: building component iteration query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("store: iterating components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c ComponentRow
		if err := rows.Scan(&c.ID, &c.Name, &c.Version, &c.License, &c.Publisher, &c.Ecosystem, &c.Description, &c.Family); err != nil {
			return fmt.Errorf("store: scanning component row: %w", err)
		}
		c.PatternCount, err = s.PatternCount(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) GetComponent(ctx context.Context, id string) (ComponentRow, error) {
	query, _, err := dialect.From("components").
		Select("id", "name", "version", "license", "publisher", "ecosystem", "description", "family").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return ComponentRow{}, fmt.Errorf("store: building get-component query: %w", err)
	}
	var c ComponentRow
	row := s.db.QueryRowContext(ctx, query)
	if err := row.Scan(&c.ID, &c.Name, &c.Version, &c.License, &c.Publisher, &c.Ecosystem, &c.Description, &c.Family); err != nil {
		return ComponentRow{}, fmt.Errorf("store: get component %s: %w", id, err)
	}
	c.PatternCount, err = s.PatternCount(ctx, id)
	return c, err
}

func (s *SQLiteStore) Digests(ctx context.Context, fn func(Digest) error) error {
	query, _, err := dialect.From("lsh_digests").Select("component_id", "digest").ToSQL()
	if err != nil {
		return fmt.Errorf("store: building digest query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("store: iterating digests: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d Digest
		if err := rows.Scan(&d.ComponentID, &d.Bytes); err != nil {
			return fmt.Errorf("store: scanning digest: %w", err)
		}
		if err := fn(d); err != nil {
			return err
		}
	}
	return rows.Err()
}

// PutDigest implements [Store.PutDigest] as an upsert into lsh_digests,
// outside any caller transaction (spec.md §4.4's digest store is a simple
// keyed replace, not part of the pattern-import round trip).
func (s *SQLiteStore) PutDigest(ctx context.Context, componentID string, digest []byte) error {
	upsert, _, err := digestUpsertSQL(componentID, digest)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsert); err != nil {
		return fmt.Errorf("store: storing digest for %s: %w", componentID, err)
	}
	return nil
}

// digestUpsertSQL builds the lsh_digests upsert shared by PutDigest and
// Import, so a digest computed inside an import transaction and one stored
// standalone follow the identical replace semantics.
func digestUpsertSQL(componentID string, digest []byte) (string, []interface{}, error) {
	sql, args, err := dialect.Insert("lsh_digests").
		Rows(goqu.Record{"component_id": componentID, "digest": digest}).
		OnConflict(goqu.DoUpdate("component_id", goqu.Record{"digest": goqu.L("excluded.digest")})).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("store: building digest upsert: %w", err)
	}
	return sql, args, nil
}

func (s *SQLiteStore) PatternCount(ctx context.Context, componentID string) (int, error) {
	query, _, err := dialect.From("patterns").
		Select(goqu.COUNT("id")).
		Where(goqu.Ex{"component_id": componentID}).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("store: building pattern-count query: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: counting patterns for %s: %w", componentID, err)
	}
	return n, nil
}

// Import persists one already-decoded signature file. It runs the Pattern
// Validator (validateSignatureFile) and then upserts the component and its
// accepted patterns in a single transaction keyed by (name, version), so
// importing the same file twice leaves the store byte-identical (spec.md
// §8's round-trip property).
func (s *SQLiteStore) Import(ctx context.Context, doc SignatureFile) (ImportResult, error) {
	accepted, rejected, err := validateSignatureFile(doc)
	if err != nil {
		return ImportResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, fmt.Errorf("store: beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	componentID, err := s.upsertComponent(ctx, tx, doc)
	if err != nil {
		return ImportResult{}, err
	}

	del, _, err := dialect.Delete("patterns").Where(goqu.Ex{"component_id": componentID}).ToSQL()
	if err != nil {
		return ImportResult{}, fmt.Errorf("store: building pattern-delete query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, del); err != nil {
		return ImportResult{}, fmt.Errorf("store: clearing previous patterns: %w", err)
	}

	for _, p := range accepted {
		insert, _, err := dialect.Insert("patterns").Rows(goqu.Record{
			"id":           uuid.NewString(),
			"component_id": componentID,
			"text":         p.Text,
			"confidence":   p.Confidence,
			"context":      p.Context,
		}).ToSQL()
		if err != nil {
			return ImportResult{}, fmt.Errorf("store: building pattern insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert); err != nil {
			return ImportResult{}, fmt.Errorf("store: inserting pattern %q: %w", p.Text, err)
		}
	}

	// Compute the Fuzzy Matcher's LSH digest over the accepted pattern
	// corpus when it is rich enough to produce a meaningful SimHash
	// (spec.md §3/§4.6 step 1: "generated at ingestion when the source is
	// rich enough").
	var digestStored bool
	texts := make([]string, len(accepted))
	for i, p := range accepted {
		texts[i] = p.Text
	}
	if digest, ok := lsh.Digest(texts); ok {
		upsert, _, err := digestUpsertSQL(componentID, digest)
		if err != nil {
			return ImportResult{}, err
		}
		if _, err := tx.ExecContext(ctx, upsert); err != nil {
			return ImportResult{}, fmt.Errorf("store: storing digest for %s: %w", componentID, err)
		}
		digestStored = true
	}

	metaUpsert, _, err := dialect.Insert("store_meta").
		Rows(goqu.Record{"key": metaLastImportKey, "value": time.Now().UTC().Format(time.RFC3339)}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{"value": goqu.L("excluded.value")})).
		ToSQL()
	if err != nil {
		return ImportResult{}, fmt.Errorf("store: building import-timestamp upsert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, metaUpsert); err != nil {
		return ImportResult{}, fmt.Errorf("store: recording import timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("store: committing import: %w", err)
	}

	if err := s.RebuildIndices(ctx); err != nil {
		return ImportResult{}, err
	}

	return ImportResult{
		ComponentID:      componentID,
		PatternsAccepted: len(accepted),
		PatternsRejected: rejected,
		DigestStored:     digestStored,
	}, nil
}

func (s *SQLiteStore) upsertComponent(ctx context.Context, tx *sql.Tx, doc SignatureFile) (string, error) {
	license, _ := normalizeLicense(doc.Component.License)
	family := componentFamily(doc.Component.Name)

	// Find the existing row for this family member by version equality
	// rather than exact string match: orderVersions compares via semver
	// when possible, so "1.6.37" and a differently-formatted but
	// semver-equal incoming version string resolve to the same row
	// instead of creating a duplicate component (spec.md §8's "reimporting
	// the same file twice leaves the store byte-identical" round-trip
	// property would otherwise only hold for byte-identical version
	// strings).
	id, err := s.findFamilyVersion(ctx, tx, doc.Component.Name, doc.Component.Version)
	if err != nil {
		return "", err
	}
	switch {
	case id != "":
		update, _, buildErr := dialect.Update("components").Set(goqu.Record{
			"license":     license,
			"publisher":   doc.Component.Publisher,
			"ecosystem":   doc.Component.Ecosystem,
			"description": doc.Component.Description,
			"family":      family,
			"imported_at": time.Now().UTC(),
		}).Where(goqu.Ex{"id": id}).ToSQL()
		if buildErr != nil {
			return "", fmt.Errorf("store: building component update: %w", buildErr)
		}
		if _, err := tx.ExecContext(ctx, update); err != nil {
			return "", fmt.Errorf("store: updating component: %w", err)
		}
		return id, nil
	default:
		id = uuid.NewString()
		insert, _, buildErr := dialect.Insert("components").Rows(goqu.Record{
			"id":          id,
			"name":        doc.Component.Name,
			"version":     doc.Component.Version,
			"license":     license,
			"publisher":   doc.Component.Publisher,
			"ecosystem":   doc.Component.Ecosystem,
			"description": doc.Component.Description,
			"family":      family,
			"imported_at": time.Now().UTC(),
		}).ToSQL()
		if buildErr != nil {
			return "", fmt.Errorf("store: building component insert: %w", buildErr)
		}
		if _, err := tx.ExecContext(ctx, insert); err != nil {
			return "", fmt.Errorf("store: inserting component: %w", err)
		}
		return id, nil
	}
}

// findFamilyVersion looks up the existing component row, if any, whose
// name matches exactly and whose version orderVersions treats as equal
// to version (spec.md §3's component-family lifecycle). Returns "" when
// no such row exists.
func (s *SQLiteStore) findFamilyVersion(ctx context.Context, tx *sql.Tx, name, version string) (string, error) {
	query, _, err := dialect.From("components").
		Select("id", "version").
		Where(goqu.Ex{"name": name}).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("store: building family lookup: %w", err)
	}
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("store: looking up component family: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, existingVersion string
		if err := rows.Scan(&id, &existingVersion); err != nil {
			return "", fmt.Errorf("store: scanning component family row: %w", err)
		}
		if orderVersions(existingVersion, version) == 0 {
			return id, nil
		}
	}
	return "", rows.Err()
}

// componentFamily is the name stem used to order sibling versions (spec.md
// §3 "Lifecycle ... replaced only by full reingest" needs a notion of
// "the same component, a different version").
func componentFamily(name string) string {
	return normalize.Fold(name)
}

// RebuildIndices repopulates pattern_index and the in-memory trigram
// contains index from the current patterns table (spec.md §3's index lifecycle).
func (s *SQLiteStore) RebuildIndices(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: beginning rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pattern_index`); err != nil {
		return fmt.Errorf("store: clearing pattern index: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT text, component_id, confidence FROM patterns`)
	if err != nil {
		return fmt.Errorf("store: scanning patterns for rebuild: %w", err)
	}
	var refs []patternRef
	for rows.Next() {
		var r patternRef
		if err := rows.Scan(&r.text, &r.componentID, &r.confidence); err != nil {
			rows.Close()
			return fmt.Errorf("store: scanning pattern row: %w", err)
		}
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	// Stable order keeps the contains index's pattern-index-to-ref mapping
	// deterministic across rebuilds (spec.md §8 determinism property).
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].text != refs[j].text {
			return refs[i].text < refs[j].text
		}
		return refs[i].componentID < refs[j].componentID
	})

	for _, r := range refs {
		insert, _, err := dialect.Insert("pattern_index").Rows(goqu.Record{
			"text":         r.text,
			"component_id": r.componentID,
			"confidence":   r.confidence,
		}).ToSQL()
		if err != nil {
			return fmt.Errorf("store: building pattern_index insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert); err != nil {
			return fmt.Errorf("store: populating pattern_index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing rebuild: %w", err)
	}

	return s.contain.build(refs)
}

// Status implements [Store.Status] (spec.md §6).
func (s *SQLiteStore) Status(ctx context.Context) (Status, error) {
	var st Status
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM components`).Scan(&st.Components); err != nil {
		return Status{}, fmt.Errorf("store: counting components: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patterns`).Scan(&st.Patterns); err != nil {
		return Status{}, fmt.Errorf("store: counting patterns: %w", err)
	}
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key = ?`, metaLastImportKey).Scan(&raw)
	switch {
	case err == nil && raw.Valid:
		t, parseErr := time.Parse(time.RFC3339, raw.String)
		if parseErr == nil {
			st.LastImportAt = t
		}
	case err == sql.ErrNoRows:
	case err != nil:
		return Status{}, fmt.Errorf("store: reading last import time: %w", err)
	}
	return st, nil
}

var _ Store = (*SQLiteStore)(nil)
