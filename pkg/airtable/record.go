// Package airtable talks to the tabular record store that holds every durable
// entity of the dashboard: contacts, enrollments, availability submissions,
// classes, invoices and reports.
package airtable

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Fields is the loosely typed column map of a record.
type Fields map[string]any

// Record is a single row of a table.
type Record struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      Fields    `json:"fields"`
}

// DeleteResult is returned by Delete.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Query narrows a List call.
type Query struct {
	Filter     Expr
	Fields     []string
	MaxRecords int
}

// Store is the record-store contract used by repositories.
type Store interface {
	List(ctx context.Context, base, table string, q Query) ([]Record, error)
	Create(ctx context.Context, base, table string, fields Fields) (Record, error)
	Update(ctx context.Context, base, table, id string, fields Fields) (Record, error)
	Delete(ctx context.Context, base, table, id string) (DeleteResult, error)
}

// String returns the field rendered as text. Lookup columns arrive as arrays;
// their first element is used.
func (f Fields) String(name string) string {
	return stringify(f[name])
}

// Float returns the numeric value of a field, parsing text when needed.
func (f Fields) Float(name string) float64 {
	switch v := f[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case []any:
		if len(v) > 0 {
			return Fields{"v": v[0]}.Float("v")
		}
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return n
		}
	}
	return 0
}

// Has reports whether the field is present and non-empty.
func (f Fields) Has(name string) bool {
	return strings.TrimSpace(f.String(name)) != ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		if len(t) == 0 {
			return ""
		}
		return stringify(t[0])
	case []string:
		if len(t) == 0 {
			return ""
		}
		return t[0]
	default:
		return fmt.Sprint(t)
	}
}
