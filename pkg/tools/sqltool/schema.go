package sqltool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Protocol-Lattice/react-agent/pkg/tools"
)

const schemaQuery = `
SELECT table_name, column_name
FROM information_schema.columns
WHERE table_schema = 'public'
ORDER BY table_name, ordinal_position;`

// Table is one table of the public schema with its columns in ordinal order.
type Table struct {
	Name    string
	Columns []string
}

// SchemaSnapshot lists the tables of the public schema in name order. It
// marshals to a compact JSON object mapping table name to column names,
// keeping that order.
type SchemaSnapshot []Table

// Columns looks a table up by name, ignoring case.
func (s SchemaSnapshot) Columns(table string) ([]string, bool) {
	for _, t := range s {
		if strings.EqualFold(t.Name, table) {
			return t.Columns, true
		}
	}
	return nil, false
}

func (s SchemaSnapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		cols := t.Columns
		if cols == nil {
			cols = []string{}
		}
		colJSON, err := json.Marshal(cols)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(colJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SchemaTool describes the tables and columns of the public schema.
type SchemaTool struct {
	db   Querier
	opts options
}

// NewSchemaTool returns the sql_schema_tool capability.
func NewSchemaTool(db Querier, opts ...Option) *SchemaTool {
	return &SchemaTool{db: db, opts: buildOptions(opts)}
}

func (t *SchemaTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{
		Name:        SchemaToolName,
		Description: "Lists all table names and their columns in the current database schema. The input is ignored.",
	}
}

// Invoke ignores its input and returns the snapshot as JSON.
func (t *SchemaTool) Invoke(ctx context.Context, _ string) (string, error) {
	snapshot, err := t.Snapshot(ctx)
	if err != nil {
		return "", tools.NewError("SQL schema", err)
	}
	out, err := json.Marshal(snapshot)
	if err != nil {
		return "", tools.NewError("SQL schema", err)
	}
	return string(out), nil
}

// Snapshot reads the public schema. Rows with the same table name in a
// different letter case are grouped together.
func (t *SchemaTool) Snapshot(ctx context.Context) (SchemaSnapshot, error) {
	rows, err := t.db.Query(ctx, schemaQuery)
	if err != nil {
		return nil, fmt.Errorf("query information schema: %w", err)
	}
	defer rows.Close()

	var snapshot SchemaSnapshot
	index := make(map[string]int)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("scan information schema: %w", err)
		}
		key := strings.ToLower(table)
		pos, ok := index[key]
		if !ok {
			pos = len(snapshot)
			index[key] = pos
			snapshot = append(snapshot, Table{Name: table})
		}
		snapshot[pos].Columns = append(snapshot[pos].Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read information schema: %w", err)
	}
	t.opts.logger.Debug("schema snapshot", zap.Int("tables", len(snapshot)))
	return snapshot, nil
}
