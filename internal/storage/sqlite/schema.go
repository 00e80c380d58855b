// ABOUTME: SQLite schema for the chunk metadata store
// ABOUTME: One row per chunk keyed by the same row id as the vector index
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS chunks (
    row_id INTEGER PRIMARY KEY CHECK (row_id >= 0),
    text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS store_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
