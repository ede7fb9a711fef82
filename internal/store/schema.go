package store

// schema is the DDL applied to a freshly opened store file. It mirrors
// spec.md §3's data model directly: components, their patterns, the
// pattern→component inverted index, and the optional per-component LSH
// digest, one table each.
const schema = `
CREATE TABLE IF NOT EXISTS components (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	version       TEXT NOT NULL,
	license       TEXT NOT NULL DEFAULT '',
	publisher     TEXT NOT NULL DEFAULT '',
	ecosystem     TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	family        TEXT NOT NULL,
	imported_at   DATETIME NOT NULL,
	UNIQUE(name, version)
);

CREATE INDEX IF NOT EXISTS components_family_idx ON components(family);

CREATE TABLE IF NOT EXISTS patterns (
	id            TEXT PRIMARY KEY,
	component_id  TEXT NOT NULL REFERENCES components(id) ON DELETE CASCADE,
	text          TEXT NOT NULL,
	confidence    REAL NOT NULL,
	context       TEXT NOT NULL DEFAULT '',
	UNIQUE(component_id, text)
);

CREATE INDEX IF NOT EXISTS patterns_text_idx ON patterns(text);
CREATE INDEX IF NOT EXISTS patterns_component_idx ON patterns(component_id);

-- pattern_index is the exact-match lookup table (spec.md §4.4 "hash map of
-- pattern -> [componentIDs]"); it is kept denormalized from patterns so
-- LookupExact is a single indexed equality query with no join.
CREATE TABLE IF NOT EXISTS pattern_index (
	text          TEXT NOT NULL,
	component_id  TEXT NOT NULL REFERENCES components(id) ON DELETE CASCADE,
	confidence    REAL NOT NULL,
	PRIMARY KEY (text, component_id)
);

CREATE TABLE IF NOT EXISTS lsh_digests (
	component_id  TEXT PRIMARY KEY REFERENCES components(id) ON DELETE CASCADE,
	digest        BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS store_meta (
	key           TEXT PRIMARY KEY,
	value         TEXT NOT NULL
);
`

// metaLastImportKey is the store_meta row updated by every Import call, so
// Status can report a last-import timestamp without scanning components.
const metaLastImportKey = "last_import_at"
