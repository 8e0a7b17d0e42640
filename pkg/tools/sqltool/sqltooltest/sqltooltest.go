// Package sqltooltest provides an in-memory Querier for tests of code that
// sits on top of the SQL tools.
package sqltooltest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Rows is a pgx.Rows over a fixed result set. Scan supports *string targets
// only; Values returns the stored values as-is.
type Rows struct {
	Columns []string
	Data    [][]any
	// Error is reported by Err once iteration finishes.
	Error error

	pos    int
	closed bool
}

func (r *Rows) Close()                        { r.closed = true }
func (r *Rows) Err() error                    { return r.Error }
func (r *Rows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) RawValues() [][]byte           { return nil }
func (r *Rows) Conn() *pgx.Conn               { return nil }

// Closed reports whether Close was called.
func (r *Rows) Closed() bool { return r.closed }

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

func (r *Rows) Next() bool {
	if r.closed || r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	row := r.Data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: want %d targets, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		ptr, ok := d.(*string)
		if !ok {
			return fmt.Errorf("scan: unsupported target %T", d)
		}
		s, ok := row[i].(string)
		if !ok {
			return fmt.Errorf("scan: column %d is %T", i, row[i])
		}
		*ptr = s
	}
	return nil
}

func (r *Rows) Values() ([]any, error) { return r.Data[r.pos-1], nil }

// DB answers every query with the next entry of Results, or with Error when
// set. It records the statements it receives.
type DB struct {
	Results []*Rows
	Error   error

	mu      sync.Mutex
	queries []string
}

// Query implements sqltool.Querier.
func (db *DB) Query(ctx context.Context, sql string, _ ...any) (pgx.Rows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.queries = append(db.queries, sql)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if db.Error != nil {
		return nil, db.Error
	}
	if len(db.Results) == 0 {
		return &Rows{}, nil
	}
	rows := db.Results[0]
	db.Results = db.Results[1:]
	return rows, nil
}

// Queries returns the statements received so far.
func (db *DB) Queries() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]string(nil), db.queries...)
}

// Schema builds the rows the schema tool expects from table/column pairs.
func Schema(pairs ...[2]string) *Rows {
	rows := &Rows{Columns: []string{"table_name", "column_name"}}
	for _, p := range pairs {
		rows.Data = append(rows.Data, []any{p[0], p[1]})
	}
	return rows
}
