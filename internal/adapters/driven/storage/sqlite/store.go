package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/relnotes-labs/relnotes-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
	"github.com/relnotes-labs/relnotes-cli/internal/logger"
)

// Store is a unified SQLite-based storage that provides access to all
// metadata store interfaces through wrapper types.
type Store struct {
	db         *sql.DB
	path       string
	ftsEnabled bool
}

var _ driven.StatsProvider = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.relnotes/data/relnotes.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".relnotes", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "relnotes.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	// The full-text index is an optimisation; search falls back to
	// substring matching when the build lacks the FTS5 module.
	s.ftsEnabled = s.initFTS() == nil
	if !s.ftsEnabled {
		logger.Debug("sqlite: FTS5 unavailable, search falls back to substring matching")
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// CommitStore returns a CommitStore interface backed by this store.
func (s *Store) CommitStore() driven.CommitStore {
	return &commitStore{store: s}
}

// RevisionStateStore returns a RevisionStateStore interface backed by this store.
func (s *Store) RevisionStateStore() driven.RevisionStateStore {
	return &revisionStateStore{store: s}
}

// CheckpointStore returns a CheckpointStore interface backed by this store.
func (s *Store) CheckpointStore() driven.CheckpointStore {
	return &checkpointStore{store: s}
}

// Stats reports row counts and the database size on disk.
func (s *Store) Stats(ctx context.Context) (*domain.StoreStats, error) {
	var stats domain.StoreStats

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM documents", &stats.DocumentCount},
		{"SELECT COUNT(*) FROM commits", &stats.CommitCount},
		{"SELECT COUNT(*) FROM revision_state", &stats.RevisionCount},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting rows: %w", err)
		}
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	if err := row.Scan(&stats.SizeBytes); err != nil {
		return nil, fmt.Errorf("reading database size: %w", err)
	}

	return &stats, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// initFTS creates the external-content full-text index and the triggers
// that keep it in step with the documents table.
func (s *Store) initFTS() error {
	_, err := s.db.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			title, description,
			content='documents', content_rowid='rowid'
		)
	`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		CREATE TRIGGER IF NOT EXISTS documents_fts_insert AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(rowid, title, description)
			VALUES (new.rowid, new.title, new.description);
		END;
		CREATE TRIGGER IF NOT EXISTS documents_fts_delete AFTER DELETE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, description)
			VALUES ('delete', old.rowid, old.title, old.description);
		END;
		CREATE TRIGGER IF NOT EXISTS documents_fts_update AFTER UPDATE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, description)
			VALUES ('delete', old.rowid, old.title, old.description);
			INSERT INTO documents_fts(rowid, title, description)
			VALUES (new.rowid, new.title, new.description);
		END
	`)
	return err
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// UpsertDocument stores or updates a document by path. The first-seen date
// follows an earliest-wins rule: once set it is never overwritten, and a
// nil incoming value never erases it.
func (s *documentStore) UpsertDocument(ctx context.Context, doc *domain.DocumentRecord) error {
	if doc.Path == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (
			path, source_key, title, description, product, version,
			release_date, preview_date, ga_date, blob_sha,
			last_modified, first_seen_date, web_url, raw_url,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			source_key = excluded.source_key,
			title = excluded.title,
			description = excluded.description,
			product = excluded.product,
			version = excluded.version,
			release_date = excluded.release_date,
			preview_date = excluded.preview_date,
			ga_date = excluded.ga_date,
			blob_sha = excluded.blob_sha,
			last_modified = excluded.last_modified,
			first_seen_date = COALESCE(documents.first_seen_date, excluded.first_seen_date),
			web_url = excluded.web_url,
			raw_url = excluded.raw_url,
			updated_at = excluded.updated_at
	`, doc.Path, doc.SourceKey, doc.Title, doc.Description, doc.Product, doc.Version,
		nullableTime(doc.ReleaseDate), nullableTime(doc.PreviewDate), nullableTime(doc.GADate),
		doc.BlobSHA, nullableTime(doc.LastModified), nullableTime(doc.FirstSeen),
		doc.WebURL, doc.RawURL, doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by path.
func (s *documentStore) GetDocument(ctx context.Context, path string) (*domain.DocumentRecord, error) {
	row := s.store.db.QueryRowContext(ctx, documentColumns+" FROM documents WHERE path = ?", path)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// ListProducts returns the distinct product labels present, sorted.
func (s *documentStore) ListProducts(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT DISTINCT product FROM documents WHERE product != '' ORDER BY product")
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

// ==================== Commit Store ====================

// commitStore implements driven.CommitStore.
type commitStore struct {
	store *Store
}

var _ driven.CommitStore = (*commitStore)(nil)

// UpsertCommit stores or fully overwrites a commit record by SHA.
func (s *commitStore) UpsertCommit(ctx context.Context, commit *domain.CommitRecord) error {
	if commit.SHA == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO commits (sha, source_key, message, author, commit_date, additions, deletions, total_changes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sha) DO UPDATE SET
			source_key = excluded.source_key,
			message = excluded.message,
			author = excluded.author,
			commit_date = excluded.commit_date,
			additions = excluded.additions,
			deletions = excluded.deletions,
			total_changes = excluded.total_changes
	`, commit.SHA, commit.SourceKey, commit.Message, commit.Author,
		commit.Date, commit.Additions, commit.Deletions, commit.TotalChanges)

	if err != nil {
		return fmt.Errorf("saving commit: %w", err)
	}
	return nil
}

// RecentCommits returns the newest commits across all sources.
func (s *commitStore) RecentCommits(ctx context.Context, limit int) ([]domain.CommitRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT sha, source_key, message, author, commit_date, additions, deletions, total_changes
		FROM commits
		ORDER BY commit_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying commits: %w", err)
	}
	defer rows.Close()

	var commits []domain.CommitRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.CommitRecord
		var date sql.NullTime
		if err := rows.Scan(&c.SHA, &c.SourceKey, &c.Message, &c.Author,
			&date, &c.Additions, &c.Deletions, &c.TotalChanges); err != nil {
			return nil, fmt.Errorf("scanning commit: %w", err)
		}
		if date.Valid {
			c.Date = date.Time
		}
		commits = append(commits, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commits: %w", err)
	}

	return commits, nil
}

// ==================== Revision State Store ====================

// revisionStateStore implements driven.RevisionStateStore.
type revisionStateStore struct {
	store *Store
}

var _ driven.RevisionStateStore = (*revisionStateStore)(nil)

// GetRevisions returns the full stored source-to-tip mapping.
func (s *revisionStateStore) GetRevisions(ctx context.Context) (domain.RevisionState, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT source_key, tip_sha FROM revision_state")
	if err != nil {
		return nil, fmt.Errorf("querying revision state: %w", err)
	}
	defer rows.Close()

	state := make(domain.RevisionState)
	for rows.Next() {
		var key, sha string
		if err := rows.Scan(&key, &sha); err != nil {
			return nil, fmt.Errorf("scanning revision state: %w", err)
		}
		state[key] = sha
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revision state: %w", err)
	}

	return state, nil
}

// SaveRevision overwrites the stored tip for one source.
func (s *revisionStateStore) SaveRevision(ctx context.Context, sourceKey, tipSHA string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO revision_state (source_key, tip_sha, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(source_key) DO UPDATE SET
			tip_sha = excluded.tip_sha,
			updated_at = excluded.updated_at
	`, sourceKey, tipSHA, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving revision state: %w", err)
	}
	return nil
}

// ==================== Checkpoint Store ====================

// checkpointStore implements driven.CheckpointStore.
type checkpointStore struct {
	store *Store
}

var _ driven.CheckpointStore = (*checkpointStore)(nil)

// GetCheckpoint returns the singleton checkpoint. A store that has never
// synced yields an idle checkpoint, not an error.
func (s *checkpointStore) GetCheckpoint(ctx context.Context) (*domain.SyncCheckpoint, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT status, last_sync_time, last_duration_ms, record_count, last_error
		FROM sync_checkpoint WHERE id = 1
	`)

	var cp domain.SyncCheckpoint
	var status string
	var lastSync sql.NullTime
	var durationMS int64
	if err := row.Scan(&status, &lastSync, &durationMS, &cp.RecordCount, &cp.LastError); err != nil {
		if err == sql.ErrNoRows {
			return &domain.SyncCheckpoint{Status: domain.SyncIdle}, nil
		}
		return nil, fmt.Errorf("scanning checkpoint: %w", err)
	}

	cp.Status = domain.SyncStatus(status)
	cp.LastDuration = time.Duration(durationMS) * time.Millisecond
	if lastSync.Valid {
		t := lastSync.Time
		cp.LastSyncTime = &t
	}

	return &cp, nil
}

// SaveCheckpoint overwrites the singleton checkpoint.
func (s *checkpointStore) SaveCheckpoint(ctx context.Context, cp *domain.SyncCheckpoint) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_checkpoint (id, status, last_sync_time, last_duration_ms, record_count, last_error)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			last_sync_time = excluded.last_sync_time,
			last_duration_ms = excluded.last_duration_ms,
			record_count = excluded.record_count,
			last_error = excluded.last_error
	`, string(cp.Status), nullableTime(cp.LastSyncTime),
		cp.LastDuration.Milliseconds(), cp.RecordCount, cp.LastError)

	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// documentColumns is the shared SELECT list for document scans.
const documentColumns = `SELECT path, source_key, title, description, product, version,
	release_date, preview_date, ga_date, blob_sha,
	last_modified, first_seen_date, web_url, raw_url,
	created_at, updated_at`

// nullableTime converts an optional time to a driver value, NULL when nil.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// scanDocument scans a document from any row scanner.
func scanDocument(scan func(dest ...any) error) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	var releaseDate, previewDate, gaDate, lastModified, firstSeen sql.NullTime

	err := scan(&doc.Path, &doc.SourceKey, &doc.Title, &doc.Description,
		&doc.Product, &doc.Version,
		&releaseDate, &previewDate, &gaDate, &doc.BlobSHA,
		&lastModified, &firstSeen, &doc.WebURL, &doc.RawURL,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.ReleaseDate = timePtr(releaseDate)
	doc.PreviewDate = timePtr(previewDate)
	doc.GADate = timePtr(gaDate)
	doc.LastModified = timePtr(lastModified)
	doc.FirstSeen = timePtr(firstSeen)

	return &doc, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
