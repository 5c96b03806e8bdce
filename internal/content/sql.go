package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"quizhub/internal/quiz"
)

// Driver names accepted by OpenDB.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB opens a database handle for the given driver. Postgres rides
// the pgx stdlib adapter; sqlite uses the pure-Go modernc driver so no
// cgo is needed.
func OpenDB(driver, dsn string) (*sql.DB, error) {
	var name string
	switch driver {
	case DriverSQLite:
		name = "sqlite"
	case DriverPostgres:
		name = "pgx"
	default:
		return nil, fmt.Errorf("unknown content driver %q", driver)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// SQLSource serves quiz documents from the quizzes table. Rows store
// the raw document verbatim; Load re-validates it on every call.
// Statements use $N placeholders, which both drivers accept.
type SQLSource struct {
	db *sql.DB
}

var _ Source = (*SQLSource)(nil)

func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

func (s *SQLSource) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, format, document FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id, format string
			document   []byte
		)
		if err := rows.Scan(&id, &format, &document); err != nil {
			return nil, fmt.Errorf("scan quiz row: %w", err)
		}
		title := titleFromDocument(document, quiz.Format(format))
		if title == "" {
			title = labelFromStem(id)
		}
		entries = append(entries, Entry{ID: id, Title: title})
	}
	return entries, rows.Err()
}

func (s *SQLSource) Load(ctx context.Context, id string) (*quiz.Document, error) {
	var (
		format   string
		document []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT format, document FROM quizzes WHERE id = $1`, id,
	).Scan(&format, &document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz %s: %w", id, err)
	}
	return quiz.Parse(id, document, quiz.Format(format))
}

// Put inserts or replaces a stored quiz document. Used by the migrator
// seed command; the document is parsed first so bad content never
// lands in the table.
func (s *SQLSource) Put(ctx context.Context, id string, format quiz.Format, document []byte) error {
	if _, err := quiz.Parse(id, document, format); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quizzes (id, format, document, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			format = excluded.format,
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP`,
		id, string(format), document,
	)
	if err != nil {
		return fmt.Errorf("store quiz %s: %w", id, err)
	}
	return nil
}
