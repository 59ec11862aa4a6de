package store

const schemaDDL = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS workspaces (
  id              TEXT PRIMARY KEY,
  root            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  display_name    TEXT,
  created_at      TIMESTAMP,
  last_indexed_at TIMESTAMP,
  expires_at      TIMESTAMP
);

CREATE TABLE IF NOT EXISTS files (
  path            TEXT NOT NULL,
  workspace_id    TEXT NOT NULL,
  language        TEXT,
  size            INTEGER,
  content_hash    TEXT,
  last_indexed_at TIMESTAMP,
  content         TEXT,
  PRIMARY KEY (workspace_id, path)
);

CREATE TABLE IF NOT EXISTS symbols (
  id              TEXT PRIMARY KEY,
  workspace_id    TEXT NOT NULL,
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  language        TEXT NOT NULL,
  file_path       TEXT NOT NULL,
  start_line      INTEGER,
  start_column    INTEGER,
  end_line        INTEGER,
  end_column      INTEGER,
  start_byte      INTEGER,
  end_byte        INTEGER,
  signature       TEXT,
  doc_comment     TEXT,
  visibility      TEXT,
  parent_id       TEXT,
  semantic_group  TEXT,
  confidence      REAL,
  code_context    TEXT,
  content_type    TEXT,
  has_embedding   INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_symbols_ws_name ON symbols(workspace_id, name);
CREATE INDEX IF NOT EXISTS idx_symbols_ws_file ON symbols(workspace_id, file_path);
CREATE INDEX IF NOT EXISTS idx_symbols_parent ON symbols(parent_id);
CREATE INDEX IF NOT EXISTS idx_symbols_no_embedding ON symbols(workspace_id, has_embedding);

CREATE TABLE IF NOT EXISTS relationships (
  id              TEXT PRIMARY KEY,
  workspace_id    TEXT NOT NULL,
  from_symbol_id  TEXT NOT NULL,
  to_symbol_id    TEXT NOT NULL,
  kind            TEXT NOT NULL,
  file_path       TEXT NOT NULL,
  line_number     INTEGER,
  confidence      REAL,
  metadata        TEXT
);

CREATE INDEX IF NOT EXISTS idx_rel_from ON relationships(from_symbol_id);
CREATE INDEX IF NOT EXISTS idx_rel_to ON relationships(to_symbol_id);
CREATE INDEX IF NOT EXISTS idx_rel_ws_file ON relationships(workspace_id, file_path);

CREATE TABLE IF NOT EXISTS identifiers (
  id                   TEXT PRIMARY KEY,
  workspace_id         TEXT NOT NULL,
  name                 TEXT NOT NULL,
  kind                 TEXT NOT NULL,
  file_path            TEXT NOT NULL,
  start_line           INTEGER,
  start_column         INTEGER,
  containing_symbol_id TEXT,
  confidence           REAL
);

CREATE INDEX IF NOT EXISTS idx_ident_ws_name ON identifiers(workspace_id, name);
CREATE INDEX IF NOT EXISTS idx_ident_ws_file ON identifiers(workspace_id, file_path);

CREATE VIRTUAL TABLE IF NOT EXISTS symbol_fts USING fts5(
  symbol_id UNINDEXED,
  workspace_id UNINDEXED,
  name,
  signature,
  doc_comment,
  tokenize = 'unicode61 remove_diacritics 2'
);

CREATE VIRTUAL TABLE IF NOT EXISTS file_content_fts USING fts5(
  path UNINDEXED,
  workspace_id UNINDEXED,
  content,
  tokenize = 'unicode61 remove_diacritics 2'
);
`
