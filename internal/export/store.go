// Copyright (c) 2025 Neomantra Corp

package export

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// safeName matches filesystem-safe parquet basenames, guarding the
// identifiers that get interpolated into a CREATE VIEW/DROP VIEW
// statement below.
var safeName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Store is a directory of parquet files (one per decode batch) queryable
// as a single DuckDB view, mirroring the teacher's mcp_data cache: write
// once, read via SQL, never re-parse the parquet by hand.
type Store struct {
	cacheDir string
	db       *sql.DB
	logger   *slog.Logger
}

// NewStore prepares a Store rooted at cacheDir. Call InitCache before
// WriteBatch or Query.
func NewStore(cacheDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cacheDir: cacheDir, logger: logger}
}

// InitCache creates the cache directory, opens an in-memory DuckDB
// database, hardens it against extension loading and remote filesystem
// access, and builds the view over any parquet files already present.
func (s *Store) InitCache() error {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("opening duckdb: %w", err)
	}
	for _, stmt := range []string{
		"SET autoinstall_known_extensions = false",
		"SET autoload_known_extensions = false",
		"SET allow_community_extensions = false",
		"SET disabled_filesystems = 'HTTPFileSystem'",
		"SET lock_configuration = true",
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("configuring duckdb (%s): %w", stmt, err)
		}
	}
	s.db = db
	return s.refreshView()
}

// Close closes the underlying DuckDB connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// refreshView (re)creates the "runners" view over every parquet file in
// the cache directory, or drops it when none remain.
func (s *Store) refreshView() error {
	if s.db == nil {
		return nil
	}
	glob := filepath.Join(s.cacheDir, "*.parquet")
	matches, _ := filepath.Glob(glob)
	if len(matches) == 0 {
		_, err := s.db.Exec(`DROP VIEW IF EXISTS runners`)
		return err
	}
	stmt := fmt.Sprintf(`CREATE OR REPLACE VIEW runners AS SELECT * FROM read_parquet(%s)`, sqlLiteral(glob))
	if _, err := s.db.Exec(stmt); err != nil {
		s.logger.Warn("failed to create view", "error", err)
		return err
	}
	return nil
}

// WriteBatch writes rows to a new parquet file named name+".parquet"
// under the cache directory and refreshes the queryable view.
func (s *Store) WriteBatch(name string, rows []RunnerRow) (string, error) {
	if !safeName.MatchString(name) {
		return "", fmt.Errorf("export: invalid batch name %q", name)
	}
	path := filepath.Join(s.cacheDir, name+".parquet")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	pw, err := NewParquetWriter(f)
	if err != nil {
		f.Close()
		return "", err
	}
	for _, row := range rows {
		if err := pw.WriteRow(row); err != nil {
			pw.Close()
			f.Close()
			return "", fmt.Errorf("writing row: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("closing parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return path, s.refreshView()
}

// Query runs userSQL (wrapped in a 10000-row LIMIT, matching the
// teacher's queryDuckDB guard against unbounded result sets) against the
// cache and returns the result as CSV.
func (s *Store) Query(userSQL string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("export: cache not initialized")
	}
	wrapped := fmt.Sprintf("SELECT * FROM (%s) LIMIT 10000", userSQL)
	rows, err := s.db.Query(wrapped)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Write(columns)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}
		record := make([]string, len(columns))
		for i, v := range values {
			switch t := v.(type) {
			case nil:
				record[i] = ""
			case []byte:
				record[i] = string(t)
			default:
				record[i] = fmt.Sprintf("%v", t)
			}
		}
		w.Write(record)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FileInfo describes one cached parquet file.
type FileInfo struct {
	Filename  string
	SizeBytes int64
}

// ListFiles returns every parquet file currently in the cache, sorted by
// name.
func (s *Store) ListFiles() ([]FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(s.cacheDir, "*.parquet"))
	if err != nil {
		return nil, err
	}
	infos := make([]FileInfo, 0, len(matches))
	for _, m := range matches {
		size := int64(0)
		if stat, err := os.Stat(m); err == nil {
			size = stat.Size()
		}
		infos = append(infos, FileInfo{Filename: filepath.Base(m), SizeBytes: size})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Filename < infos[j].Filename })
	return infos, nil
}

// ClearCache removes every parquet file from the cache and refreshes the
// view, returning the number of files removed.
func (s *Store) ClearCache() (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.cacheDir, "*.parquet"))
	if err != nil {
		return 0, err
	}
	for _, m := range matches {
		os.Remove(m)
	}
	return len(matches), s.refreshView()
}
