package db

// SchemaSQL is the complete schema for fresh scout installs.
//
// This is the single source of truth for the database schema. Tests
// load it via GetSchemaSQL() instead of hardcoding CREATE TABLE
// statements, so repository code referencing a missing column fails
// immediately with "no such column" instead of drifting.
//
// Observation timestamps are stored as RFC3339Nano text; the
// (key, seen_at) primary keys give the timestamp sets their set
// semantics at the storage layer too.
const SchemaSQL = `
-- Routes (process-wide, keyed by secret code)
CREATE TABLE IF NOT EXISTS routes (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	occupied INTEGER NOT NULL DEFAULT 0,
	defended INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Route observation timestamps (set of forward times per code)
CREATE TABLE IF NOT EXISTS route_sightings (
	code TEXT NOT NULL,
	seen_at TEXT NOT NULL,
	PRIMARY KEY (code, seen_at),
	FOREIGN KEY (code) REFERENCES routes(code) ON DELETE CASCADE
);

-- Flavor records (per player, keyed by flavor text)
CREATE TABLE IF NOT EXISTS flavors (
	user_id INTEGER NOT NULL,
	flavor_text TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, flavor_text)
);

-- Location tag counters per flavor record
CREATE TABLE IF NOT EXISTS flavor_counts (
	user_id INTEGER NOT NULL,
	flavor_text TEXT NOT NULL,
	tag TEXT NOT NULL,
	count INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, flavor_text, tag),
	FOREIGN KEY (user_id, flavor_text) REFERENCES flavors(user_id, flavor_text) ON DELETE CASCADE
);

-- Counted source-event timestamps per flavor record
CREATE TABLE IF NOT EXISTS flavor_sightings (
	user_id INTEGER NOT NULL,
	flavor_text TEXT NOT NULL,
	seen_at TEXT NOT NULL,
	PRIMARY KEY (user_id, flavor_text, seen_at),
	FOREIGN KEY (user_id, flavor_text) REFERENCES flavors(user_id, flavor_text) ON DELETE CASCADE
);

-- Player profiles from identity messages
CREATE TABLE IF NOT EXISTS profiles (
	user_id INTEGER PRIMARY KEY,
	castle TEXT NOT NULL,
	guild TEXT NOT NULL,
	name TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Audit trail of handled messages and presses
CREATE TABLE IF NOT EXISTS event_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	kind TEXT NOT NULL,
	detail TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema for test setup.
func GetSchemaSQL() string {
	return SchemaSQL
}
