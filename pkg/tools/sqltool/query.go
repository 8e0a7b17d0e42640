package sqltool

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/react-agent/pkg/tools"
)

const queryDescription = `Use for complex SELECT queries, aggregations or joins.
Provide the SQL query as input.
Only the SQL query, no additional data is required.`

// Field is one column of a result row.
type Field struct {
	Name  string
	Value any
}

// Row keeps the column order of the result set when marshalled. A repeated
// column name keeps its first position and its last value.
type Row []Field

func (r Row) MarshalJSON() ([]byte, error) {
	order := make([]string, 0, len(r))
	values := make(map[string]any, len(r))
	for _, f := range r {
		if _, seen := values[f.Name]; !seen {
			order = append(order, f.Name)
		}
		values[f.Name] = f.Value
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QueryTool executes read-only statements written by the model.
type QueryTool struct {
	db   Querier
	opts options
}

// NewQueryTool returns the sql_execution_tool capability.
func NewQueryTool(db Querier, opts ...Option) *QueryTool {
	return &QueryTool{db: db, opts: buildOptions(opts)}
}

func (t *QueryTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{Name: QueryToolName, Description: queryDescription}
}

// Invoke trims input and runs it when it passes CheckSelect and returns the rows as a JSON
// array. A rejected statement never reaches the database.
func (t *QueryTool) Invoke(ctx context.Context, input string) (string, error) {
	stmt := strings.TrimSpace(input)
	if err := CheckSelect(stmt); err != nil {
		t.opts.logger.Warn("rejected statement", zap.String("sql", stmt))
		return "", tools.NewError("", err)
	}

	rows, err := t.Execute(ctx, stmt)
	if err != nil {
		return "", tools.NewError("SQL execution", err)
	}
	out, err := json.Marshal(rows)
	if err != nil {
		return "", tools.NewError("SQL execution", err)
	}
	return string(out), nil
}

// Execute runs stmt without parameters and collects every row. It does not
// apply CheckSelect.
func (t *QueryTool) Execute(ctx context.Context, stmt string) ([]Row, error) {
	rs, err := t.db.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	fields := rs.FieldDescriptions()
	result := make([]Row, 0)
	for rs.Next() {
		values, err := rs.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, 0, len(values))
		for i, v := range values {
			name := ""
			if i < len(fields) {
				name = fields[i].Name
			}
			row = append(row, Field{Name: name, Value: jsonValue(v)})
		}
		result = append(result, row)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	t.opts.logger.Debug("statement executed", zap.Int("rows", len(result)))
	return result, nil
}

// jsonValue converts driver values without a useful JSON form.
func jsonValue(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	default:
		return v
	}
}
