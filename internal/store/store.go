// Package store implements Julie's embedded symbol store (C3): a SQLite
// database (via modernc.org/sqlite, no cgo) holding workspaces, files,
// symbols, relationships, and identifiers, plus two FTS5 virtual tables
// for symbol text and file content search.
//
// Writes are serialized behind a single mutex per Store, mirroring the
// teacher's single-writer-handle discipline; reads use SQLite's normal
// concurrent-reader guarantees. Every multi-row write (ReplaceFileData,
// DeleteFile, DeleteWorkspace) runs inside one transaction so a crash or
// error never leaves the store half-updated for a file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	julierrors "github.com/standardbeagle/julie/internal/errors"
	"github.com/standardbeagle/julie/internal/types"
)

// Store is one workspace's symbol database. The primary workspace and
// every reference workspace each get their own *Store, opened against
// their own file per the workspace manager's directory layout (C7).
type Store struct {
	db      *sql.DB
	writeMu sync.Mutex
}

// Open opens (and migrates) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, julierrors.NewStorageError("open", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, julierrors.NewStorageError("ping", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return julierrors.NewStorageError("migrate", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertFile inserts or replaces a file's tracking record.
func (s *Store) UpsertFile(ctx context.Context, rec types.FileRecord) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (path, workspace_id, language, size, content_hash, last_indexed_at, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(workspace_id, path) DO UPDATE SET
			language = excluded.language,
			size = excluded.size,
			content_hash = excluded.content_hash,
			last_indexed_at = excluded.last_indexed_at,
			content = excluded.content
	`, rec.Path, rec.WorkspaceID, rec.Language, rec.Size, fmt.Sprintf("%x", rec.ContentHash), rec.LastIndexedAt, rec.Content)
	if err != nil {
		return julierrors.NewStorageError("upsert_file", err)
	}

	if rec.Content != "" {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM file_content_fts WHERE path = ? AND workspace_id = ?`, rec.Path, rec.WorkspaceID); err != nil {
			return julierrors.NewStorageError("upsert_file_fts_delete", err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO file_content_fts (path, workspace_id, content) VALUES (?, ?, ?)`, rec.Path, rec.WorkspaceID, rec.Content); err != nil {
			return julierrors.NewStorageError("upsert_file_fts_insert", err)
		}
	}

	return nil
}

// GetFileContentHash returns the stored content_hash for a file, or
// ("", false) when the file has never been indexed. Used by the indexing
// pipeline's hash-based skip (C8 step 2).
func (s *Store) GetFileContentHash(ctx context.Context, workspaceID, path string) (string, bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT content_hash FROM files WHERE workspace_id = ? AND path = ?`, workspaceID, path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, julierrors.NewStorageError("get_file_content_hash", err)
	}
	return hash, true, nil
}

// GetFileContent returns the stored body of path, used by fast_search's
// `output=lines` rendering to slice out matching lines after an FTS hit.
func (s *Store) GetFileContent(ctx context.Context, workspaceID, path string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `SELECT content FROM files WHERE workspace_id = ? AND path = ?`, workspaceID, path).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", julierrors.NewStorageError("get_file_content", err)
	}
	return content, nil
}

// ReplaceFileData atomically deletes every symbol/relationship/identifier
// row for path and re-inserts the freshly extracted ones, in a single
// transaction, per spec §3's "partial updates are atomic: delete-by-file
// then bulk-insert" invariant.
func (s *Store) ReplaceFileData(ctx context.Context, workspaceID, path string, symbols []types.Symbol, rels []types.Relationship, idents []types.Identifier) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return julierrors.NewStorageError("replace_file_data_begin", err)
	}
	defer tx.Rollback()

	if err := deleteFileDataTx(ctx, tx, workspaceID, path); err != nil {
		return err
	}

	for _, sym := range symbols {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO symbols (id, workspace_id, name, kind, language, file_path,
				start_line, start_column, end_line, end_column, start_byte, end_byte,
				signature, doc_comment, visibility, parent_id, semantic_group,
				confidence, code_context, content_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sym.ID, workspaceID, sym.Name, string(sym.Kind), sym.Language, sym.FilePath,
			sym.StartLine, sym.StartColumn, sym.EndLine, sym.EndColumn, sym.StartByte, sym.EndByte,
			sym.Signature, sym.DocComment, string(sym.Visibility), nullable(sym.ParentID), sym.SemanticGroup,
			sym.Confidence, sym.CodeContext, sym.ContentType); err != nil {
			return julierrors.NewStorageError("replace_file_data_insert_symbol", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO symbol_fts (symbol_id, workspace_id, name, signature, doc_comment) VALUES (?, ?, ?, ?, ?)`,
			sym.ID, workspaceID, sym.Name, sym.Signature, sym.DocComment); err != nil {
			return julierrors.NewStorageError("replace_file_data_insert_fts", err)
		}
	}

	for _, rel := range rels {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO relationships (id, workspace_id, from_symbol_id, to_symbol_id, kind, file_path, line_number, confidence, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rel.ID, workspaceID, rel.FromSymbolID, rel.ToSymbolID, string(rel.Kind), rel.FilePath, rel.LineNumber, rel.Confidence, encodeMetadata(rel.Metadata)); err != nil {
			return julierrors.NewStorageError("replace_file_data_insert_relationship", err)
		}
	}

	for _, ident := range idents {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO identifiers (id, workspace_id, name, kind, file_path, start_line, start_column, containing_symbol_id, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, ident.ID, workspaceID, ident.Name, string(ident.Kind), ident.FilePath, ident.StartLine, ident.StartColumn, nullable(ident.ContainingSymbolID), ident.Confidence); err != nil {
			return julierrors.NewStorageError("replace_file_data_insert_identifier", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return julierrors.NewStorageError("replace_file_data_commit", err)
	}
	return nil
}

// DeleteFile removes every row associated with path, used when a file
// disappears from the workspace.
func (s *Store) DeleteFile(ctx context.Context, workspaceID, path string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return julierrors.NewStorageError("delete_file_begin", err)
	}
	defer tx.Rollback()

	if err := deleteFileDataTx(ctx, tx, workspaceID, path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE workspace_id = ? AND path = ?`, workspaceID, path); err != nil {
		return julierrors.NewStorageError("delete_file", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM file_content_fts WHERE workspace_id = ? AND path = ?`, workspaceID, path); err != nil {
		return julierrors.NewStorageError("delete_file_fts", err)
	}

	if err := tx.Commit(); err != nil {
		return julierrors.NewStorageError("delete_file_commit", err)
	}
	return nil
}

func deleteFileDataTx(ctx context.Context, tx *sql.Tx, workspaceID, path string) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM symbols WHERE workspace_id = ? AND file_path = ?`, workspaceID, path)
	if err != nil {
		return julierrors.NewStorageError("delete_file_data_select_symbols", err)
	}
	var symbolIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return julierrors.NewStorageError("delete_file_data_scan_symbol", err)
		}
		symbolIDs = append(symbolIDs, id)
	}
	rows.Close()

	if len(symbolIDs) > 0 {
		placeholders, args := inClause(symbolIDs)
		if _, err := tx.ExecContext(ctx, `DELETE FROM symbol_fts WHERE symbol_id IN (`+placeholders+`)`, args...); err != nil {
			return julierrors.NewStorageError("delete_file_data_fts", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM relationships WHERE from_symbol_id IN (`+placeholders+`) OR to_symbol_id IN (`+placeholders+`)`, append(append([]any{}, args...), args...)...); err != nil {
			return julierrors.NewStorageError("delete_file_data_relationships", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM identifiers WHERE workspace_id = ? AND file_path = ?`, workspaceID, path); err != nil {
		return julierrors.NewStorageError("delete_file_data_identifiers", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM relationships WHERE workspace_id = ? AND file_path = ?`, workspaceID, path); err != nil {
		return julierrors.NewStorageError("delete_file_data_relationships_by_file", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM symbols WHERE workspace_id = ? AND file_path = ?`, workspaceID, path); err != nil {
		return julierrors.NewStorageError("delete_file_data_symbols", err)
	}

	return nil
}

// DeleteWorkspace removes every row for workspaceID across all tables.
// Used by manage_workspace remove|clean.
func (s *Store) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return julierrors.NewStorageError("delete_workspace_begin", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM symbol_fts WHERE workspace_id = ?`,
		`DELETE FROM file_content_fts WHERE workspace_id = ?`,
		`DELETE FROM relationships WHERE workspace_id = ?`,
		`DELETE FROM identifiers WHERE workspace_id = ?`,
		`DELETE FROM symbols WHERE workspace_id = ?`,
		`DELETE FROM files WHERE workspace_id = ?`,
		`DELETE FROM workspaces WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, workspaceID); err != nil {
			return julierrors.NewStorageError("delete_workspace", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return julierrors.NewStorageError("delete_workspace_commit", err)
	}
	return nil
}

// GetSymbolsByName returns every symbol named exactly name in workspaceID.
func (s *Store) GetSymbolsByName(ctx context.Context, workspaceID, name string) ([]types.Symbol, error) {
	rows, err := s.db.QueryContext(ctx, symbolSelectSQL+` WHERE workspace_id = ? AND name = ?`, workspaceID, name)
	if err != nil {
		return nil, julierrors.NewStorageError("get_symbols_by_name", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// GetSymbolsByIDs returns symbols matching any of ids, in no particular order.
func (s *Store) GetSymbolsByIDs(ctx context.Context, workspaceID string, ids []string) ([]types.Symbol, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	args = append([]any{workspaceID}, args...)
	rows, err := s.db.QueryContext(ctx, symbolSelectSQL+` WHERE workspace_id = ? AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, julierrors.NewStorageError("get_symbols_by_ids", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// GetSymbolsForFile returns every symbol extracted from path, ordered by
// position so callers can rebuild nesting with a single pass over
// ParentID.
func (s *Store) GetSymbolsForFile(ctx context.Context, workspaceID, path string) ([]types.Symbol, error) {
	rows, err := s.db.QueryContext(ctx, symbolSelectSQL+` WHERE workspace_id = ? AND file_path = ? ORDER BY start_byte`, workspaceID, path)
	if err != nil {
		return nil, julierrors.NewStorageError("get_symbols_for_file", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// GetAllSymbols returns every symbol in workspaceID. Intended for
// offline/startup consistency sweeps and small workspaces; callers on a
// hot path should prefer a more targeted query.
func (s *Store) GetAllSymbols(ctx context.Context, workspaceID string) ([]types.Symbol, error) {
	rows, err := s.db.QueryContext(ctx, symbolSelectSQL+` WHERE workspace_id = ?`, workspaceID)
	if err != nil {
		return nil, julierrors.NewStorageError("get_all_symbols", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// GetSymbolCountForWorkspace returns the number of symbols currently
// stored for workspaceID.
func (s *Store) GetSymbolCountForWorkspace(ctx context.Context, workspaceID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM symbols WHERE workspace_id = ?`, workspaceID).Scan(&count)
	if err != nil {
		return 0, julierrors.NewStorageError("get_symbol_count_for_workspace", err)
	}
	return count, nil
}

// GetRelationshipCountForWorkspace returns the number of relationship
// edges currently stored for workspaceID, read fresh rather than from an
// in-memory counter (spec §4.8 step 7).
func (s *Store) GetRelationshipCountForWorkspace(ctx context.Context, workspaceID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships WHERE workspace_id = ?`, workspaceID).Scan(&count)
	if err != nil {
		return 0, julierrors.NewStorageError("get_relationship_count_for_workspace", err)
	}
	return count, nil
}

// GetFileCountForWorkspace returns the number of tracked files for
// workspaceID, read fresh (spec §4.8 step 7).
func (s *Store) GetFileCountForWorkspace(ctx context.Context, workspaceID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files WHERE workspace_id = ?`, workspaceID).Scan(&count)
	if err != nil {
		return 0, julierrors.NewStorageError("get_file_count_for_workspace", err)
	}
	return count, nil
}

// GetSymbolsWithoutEmbeddings returns symbols flagged has_embedding = 0,
// the background embedding job's work queue (C8 step 8).
func (s *Store) GetSymbolsWithoutEmbeddings(ctx context.Context, workspaceID string, limit int) ([]types.Symbol, error) {
	rows, err := s.db.QueryContext(ctx, symbolSelectSQL+` WHERE workspace_id = ? AND has_embedding = 0 LIMIT ?`, workspaceID, limit)
	if err != nil {
		return nil, julierrors.NewStorageError("get_symbols_without_embeddings", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// MarkEmbedded flags ids as embedded after the vector store has accepted
// their vectors, so a later call to GetSymbolsWithoutEmbeddings excludes
// them.
func (s *Store) MarkEmbedded(ctx context.Context, workspaceID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	placeholders, args := inClause(ids)
	args = append(args, workspaceID)
	_, err := s.db.ExecContext(ctx, `UPDATE symbols SET has_embedding = 1 WHERE id IN (`+placeholders+`) AND workspace_id = ?`, args...)
	if err != nil {
		return julierrors.NewStorageError("mark_embedded", err)
	}
	return nil
}

// GetRelationshipsForSymbol returns outgoing edges (id is from_symbol_id).
func (s *Store) GetRelationshipsForSymbol(ctx context.Context, workspaceID, id string) ([]types.Relationship, error) {
	rows, err := s.db.QueryContext(ctx, relationshipSelectSQL+` WHERE workspace_id = ? AND from_symbol_id = ?`, workspaceID, id)
	if err != nil {
		return nil, julierrors.NewStorageError("get_relationships_for_symbol", err)
	}
	defer rows.Close()
	return scanRelationships(rows)
}

// GetRelationshipsToSymbol returns incoming edges (id is to_symbol_id).
func (s *Store) GetRelationshipsToSymbol(ctx context.Context, workspaceID, id string) ([]types.Relationship, error) {
	rows, err := s.db.QueryContext(ctx, relationshipSelectSQL+` WHERE workspace_id = ? AND to_symbol_id = ?`, workspaceID, id)
	if err != nil {
		return nil, julierrors.NewStorageError("get_relationships_to_symbol", err)
	}
	defer rows.Close()
	return scanRelationships(rows)
}

// GetRelationshipsToSymbols is the batched form of GetRelationshipsToSymbol.
func (s *Store) GetRelationshipsToSymbols(ctx context.Context, workspaceID string, ids []string) ([]types.Relationship, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	args = append([]any{workspaceID}, args...)
	rows, err := s.db.QueryContext(ctx, relationshipSelectSQL+` WHERE workspace_id = ? AND to_symbol_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, julierrors.NewStorageError("get_relationships_to_symbols", err)
	}
	defer rows.Close()
	return scanRelationships(rows)
}

// GetRelationshipsToSymbolsFilteredByKind narrows GetRelationshipsToSymbols
// to a single relationship kind (fast_refs' reference_kind filter).
func (s *Store) GetRelationshipsToSymbolsFilteredByKind(ctx context.Context, workspaceID string, ids []string, kind types.RelationshipKind) ([]types.Relationship, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	args = append([]any{workspaceID}, args...)
	args = append(args, string(kind))
	rows, err := s.db.QueryContext(ctx, relationshipSelectSQL+` WHERE workspace_id = ? AND to_symbol_id IN (`+placeholders+`) AND kind = ?`, args...)
	if err != nil {
		return nil, julierrors.NewStorageError("get_relationships_to_symbols_filtered_by_kind", err)
	}
	defer rows.Close()
	return scanRelationships(rows)
}

// GetIdentifiersByNames returns identifier usage sites matching any name.
func (s *Store) GetIdentifiersByNames(ctx context.Context, workspaceID string, names []string) ([]types.Identifier, error) {
	if len(names) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(names)
	args = append([]any{workspaceID}, args...)
	rows, err := s.db.QueryContext(ctx, identifierSelectSQL+` WHERE workspace_id = ? AND name IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, julierrors.NewStorageError("get_identifiers_by_names", err)
	}
	defer rows.Close()
	return scanIdentifiers(rows)
}

// GetIdentifiersByNamesAndKind narrows GetIdentifiersByNames to one
// identifier kind (call|variable_ref|type_usage|member_access|import).
func (s *Store) GetIdentifiersByNamesAndKind(ctx context.Context, workspaceID string, names []string, kind types.IdentifierKind) ([]types.Identifier, error) {
	if len(names) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(names)
	args = append([]any{workspaceID}, args...)
	args = append(args, string(kind))
	rows, err := s.db.QueryContext(ctx, identifierSelectSQL+` WHERE workspace_id = ? AND name IN (`+placeholders+`) AND kind = ?`, args...)
	if err != nil {
		return nil, julierrors.NewStorageError("get_identifiers_by_names_and_kind", err)
	}
	defer rows.Close()
	return scanIdentifiers(rows)
}

// FileSearchResult is one BM25-ranked hit from SearchFileContentFTS.
type FileSearchResult struct {
	Path  string
	Score float64
}

// SearchFileContentFTS runs an FTS5 query over file bodies, ranked by
// BM25 (closer to zero is a better match, per SQLite's `rank` convention;
// results are returned best-first).
func (s *Store) SearchFileContentFTS(ctx context.Context, workspaceID, query string, limit int) ([]FileSearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, rank FROM file_content_fts
		WHERE workspace_id = ? AND file_content_fts MATCH ?
		ORDER BY rank LIMIT ?
	`, workspaceID, query, limit)
	if err != nil {
		return nil, julierrors.NewStorageError("search_file_content_fts", err)
	}
	defer rows.Close()

	var out []FileSearchResult
	for rows.Next() {
		var r FileSearchResult
		if err := rows.Scan(&r.Path, &r.Score); err != nil {
			return nil, julierrors.NewStorageError("search_file_content_fts_scan", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SymbolSearchResult is one BM25-ranked hit from SearchSymbolFTS.
type SymbolSearchResult struct {
	SymbolID string
	Score    float64
}

// SearchSymbolFTS runs an FTS5 query over symbol name/signature/doc text,
// the text-mode backend behind fast_search before ranking composition
// (path relevance, exact-match boost) is applied in the query layer (C9).
func (s *Store) SearchSymbolFTS(ctx context.Context, workspaceID, query string, limit int) ([]SymbolSearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol_id, rank FROM symbol_fts
		WHERE workspace_id = ? AND symbol_fts MATCH ?
		ORDER BY rank LIMIT ?
	`, workspaceID, query, limit)
	if err != nil {
		return nil, julierrors.NewStorageError("search_symbol_fts", err)
	}
	defer rows.Close()

	var out []SymbolSearchResult
	for rows.Next() {
		var r SymbolSearchResult
		if err := rows.Scan(&r.SymbolID, &r.Score); err != nil {
			return nil, julierrors.NewStorageError("search_symbol_fts_scan", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertWorkspace inserts or updates a workspace's registry row.
func (s *Store) UpsertWorkspace(ctx context.Context, ws types.Workspace) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspaces (id, root, kind, display_name, created_at, last_indexed_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			root = excluded.root, kind = excluded.kind, display_name = excluded.display_name,
			last_indexed_at = excluded.last_indexed_at, expires_at = excluded.expires_at
	`, ws.ID, ws.Root, string(ws.Kind), ws.DisplayName, ws.CreatedAt, ws.LastIndexedAt, nullableTime(ws.ExpiresAt))
	if err != nil {
		return julierrors.NewStorageError("upsert_workspace", err)
	}
	return nil
}

const symbolSelectSQL = `SELECT id, name, kind, language, file_path, start_line, start_column,
	end_line, end_column, start_byte, end_byte, signature, doc_comment, visibility,
	COALESCE(parent_id, ''), COALESCE(semantic_group, ''), confidence,
	COALESCE(code_context, ''), COALESCE(content_type, '') FROM symbols`

func scanSymbols(rows *sql.Rows) ([]types.Symbol, error) {
	var out []types.Symbol
	for rows.Next() {
		var sym types.Symbol
		var kind, visibility string
		if err := rows.Scan(&sym.ID, &sym.Name, &kind, &sym.Language, &sym.FilePath,
			&sym.StartLine, &sym.StartColumn, &sym.EndLine, &sym.EndColumn,
			&sym.StartByte, &sym.EndByte, &sym.Signature, &sym.DocComment, &visibility,
			&sym.ParentID, &sym.SemanticGroup, &sym.Confidence, &sym.CodeContext, &sym.ContentType); err != nil {
			return nil, julierrors.NewStorageError("scan_symbol", err)
		}
		sym.Kind = types.SymbolKind(kind)
		sym.Visibility = types.Visibility(visibility)
		out = append(out, sym)
	}
	return out, rows.Err()
}

const relationshipSelectSQL = `SELECT id, from_symbol_id, to_symbol_id, kind, file_path, line_number, confidence, COALESCE(metadata, '') FROM relationships`

func scanRelationships(rows *sql.Rows) ([]types.Relationship, error) {
	var out []types.Relationship
	for rows.Next() {
		var rel types.Relationship
		var kind, metadata string
		if err := rows.Scan(&rel.ID, &rel.FromSymbolID, &rel.ToSymbolID, &kind, &rel.FilePath, &rel.LineNumber, &rel.Confidence, &metadata); err != nil {
			return nil, julierrors.NewStorageError("scan_relationship", err)
		}
		rel.Kind = types.RelationshipKind(kind)
		rel.Metadata = decodeMetadata(metadata)
		out = append(out, rel)
	}
	return out, rows.Err()
}

const identifierSelectSQL = `SELECT id, name, kind, file_path, start_line, start_column, COALESCE(containing_symbol_id, ''), confidence FROM identifiers`

func scanIdentifiers(rows *sql.Rows) ([]types.Identifier, error) {
	var out []types.Identifier
	for rows.Next() {
		var ident types.Identifier
		var kind string
		if err := rows.Scan(&ident.ID, &ident.Name, &kind, &ident.FilePath, &ident.StartLine, &ident.StartColumn, &ident.ContainingSymbolID, &ident.Confidence); err != nil {
			return nil, julierrors.NewStorageError("scan_identifier", err)
		}
		ident.Kind = types.IdentifierKind(kind)
		out = append(out, ident)
	}
	return out, rows.Err()
}

func inClause(values []string) (string, []any) {
	placeholders := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return strings.Join(placeholders, ", "), args
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// encodeMetadata/decodeMetadata use a minimal "k=v;k=v" encoding rather
// than JSON: relationship metadata holds at most a handful of short keys,
// so a full codec would be unused weight.
func encodeMetadata(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ";")
}

func decodeMetadata(s string) map[string]string {
	if s == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			out[kv[0]] = kv[1]
		}
	}
	return out
}
