// Package store exports reconciled results to SQLite and CSV.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/logging"
	"github.com/agentstation/reelmap/pkg/pipeline"
	"github.com/agentstation/reelmap/pkg/reconciler"
)

// Table names.
const (
	MoviesTable = "movies"
	GenresTable = "genres"
	RunsTable   = "runs"
)

// columnTypes maps fixed columns to SQLite types; genre columns are INTEGER.
var columnTypes = map[string]string{
	constants.ColMovieID:           "INTEGER NOT NULL PRIMARY KEY",
	constants.ColTMDBID:            "INTEGER",
	constants.ColIMDBID:            "TEXT",
	constants.ColTitle:             "TEXT",
	constants.ColOriginalLanguage:  "TEXT",
	constants.ColReleaseDate:       "TEXT",
	constants.ColYear:              "INTEGER",
	constants.ColRuntime:           "REAL",
	constants.ColBudget:            "REAL",
	constants.ColRevenue:           "REAL",
	constants.ColIMDBAverageRating: "REAL",
	constants.ColIMDBNumVotes:      "INTEGER",
}

// SQLite writes pipeline runs into a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the database at path and ensures the run log table.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	s := &SQLite{db: db, path: path}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS "`+RunsTable+`" (
		"run_id" TEXT NOT NULL PRIMARY KEY,
		"started_at" TEXT NOT NULL,
		"rows" INTEGER NOT NULL,
		"catalog_matches" INTEGER NOT NULL,
		"rating_matches" INTEGER NOT NULL,
		"genres" INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, s.wrap("create runs table", err)
	}
	return s, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Write replaces the movies and genres tables with out and appends a run record,
// all in one transaction.
func (s *SQLite) Write(ctx context.Context, out *pipeline.Output) error {
	res := out.Result
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.writeMovies(ctx, tx, res); err != nil {
		return err
	}
	if err := s.writeGenres(ctx, tx, res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO "`+RunsTable+`" ("run_id","started_at","rows","catalog_matches","rating_matches","genres") VALUES (?,?,?,?,?,?)`,
		out.RunID, out.StartedAt.Time.UTC().Format(time.RFC3339), res.Stats.Rows,
		res.Stats.CatalogMatches, res.Stats.RatingMatches, len(res.Vocabulary),
	); err != nil {
		return s.wrap("insert run", err)
	}
	if err := tx.Commit(); err != nil {
		return s.wrap("commit", err)
	}

	logging.FromContext(ctx).Info().
		Str("path", s.path).
		Int("rows", len(res.Rows)).
		Msg("Wrote SQLite export")
	return nil
}

func (s *SQLite) writeMovies(ctx context.Context, tx *sql.Tx, res *reconciler.Result) error {
	defs := make([]string, len(res.Columns))
	quoted := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		t := columnTypes[c]
		if t == "" {
			t = "INTEGER"
		}
		quoted[i] = quote(c)
		defs[i] = quoted[i] + " " + t
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS "`+MoviesTable+`"`); err != nil {
		return s.wrap("drop movies table", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE "`+MoviesTable+`" (`+strings.Join(defs, ",")+`)`); err != nil {
		return s.wrap("create movies table", err)
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(res.Columns)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO "`+MoviesTable+`" (`+strings.Join(quoted, ",")+`) VALUES (`+ph+`)`)
	if err != nil {
		return s.wrap("prepare insert", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, values := range res.Values() {
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return s.wrap("insert movie", err)
		}
	}
	return nil
}

func (s *SQLite) writeGenres(ctx context.Context, tx *sql.Tx, res *reconciler.Result) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS "`+GenresTable+`"`); err != nil {
		return s.wrap("drop genres table", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE "`+GenresTable+`" ("position" INTEGER NOT NULL PRIMARY KEY, "name" TEXT NOT NULL UNIQUE)`); err != nil {
		return s.wrap("create genres table", err)
	}
	for i, name := range res.Vocabulary {
		if _, err := tx.ExecContext(ctx, `INSERT INTO "`+GenresTable+`" ("position","name") VALUES (?,?)`, i, name); err != nil {
			return s.wrap("insert genre", err)
		}
	}
	return nil
}

// Runs returns the recorded run ids, oldest first.
func (s *SQLite) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT "run_id" FROM "`+RunsTable+`" ORDER BY "started_at", rowid`)
	if err != nil {
		return nil, s.wrap("query runs", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, s.wrap("scan run", err)
		}
		ids = append(ids, id)
	}
	return ids, s.wrap("iterate runs", rows.Err())
}

func (s *SQLite) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &errors.ResourceError{
		Operation: "export",
		Resource:  "sqlite",
		ID:        s.path,
		Message:   fmt.Sprintf("%s: %v", op, err),
		Err:       err,
	}
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
