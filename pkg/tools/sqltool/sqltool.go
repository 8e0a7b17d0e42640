// Package sqltool gives the agent read access to a Postgres database: one
// tool describes the schema, the other runs SELECT statements chosen by the
// model. A textual prefix check is the only gate in front of the database.
package sqltool

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Tool names as presented to the model.
const (
	SchemaToolName = "sql_schema_tool"
	QueryToolName  = "sql_execution_tool"
)

// ErrNotSelect is returned for any statement that does not start with SELECT.
// The text is shown to the model verbatim.
var ErrNotSelect = errors.New("Only SELECT statements are allowed.") //nolint:staticcheck // observation text

// Querier runs a statement and streams its rows. *pgxpool.Pool satisfies it;
// each call acquires a pooled connection and releases it when the rows are
// closed.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Option customises the SQL tools.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// CheckSelect reports whether stmt may be executed: after trimming, it must
// start with SELECT in any letter case. Nothing else about the statement is
// inspected, so "SELECT 1; DELETE FROM users" passes.
func CheckSelect(stmt string) error {
	const prefix = "SELECT"
	s := strings.TrimSpace(stmt)
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return ErrNotSelect
	}
	return nil
}
