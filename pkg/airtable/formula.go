package airtable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Expr is a filter that renders to a filterByFormula expression and can be
// evaluated locally against a record.
type Expr interface {
	Formula() string
	Match(f Fields) bool
}

type eqExpr struct {
	field string
	value string
	fold  bool
}

// Eq matches records whose field equals value exactly.
func Eq(field, value string) Expr { return eqExpr{field: field, value: value} }

// EqFold matches records whose field equals value ignoring case and
// surrounding whitespace.
func EqFold(field, value string) Expr {
	return eqExpr{field: field, value: strings.ToLower(strings.TrimSpace(value)), fold: true}
}

func (e eqExpr) Formula() string {
	if e.fold {
		return fmt.Sprintf("LOWER(TRIM({%s}))='%s'", e.field, quote(e.value))
	}
	return fmt.Sprintf("{%s}='%s'", e.field, quote(e.value))
}

func (e eqExpr) Match(f Fields) bool {
	got := f.String(e.field)
	if e.fold {
		return strings.EqualFold(strings.TrimSpace(got), e.value)
	}
	return got == e.value
}

type gteExpr struct {
	field string
	n     float64
}

// Gte matches numeric fields greater than or equal to n.
func Gte(field string, n float64) Expr { return gteExpr{field: field, n: n} }

func (e gteExpr) Formula() string {
	return fmt.Sprintf("{%s}>=%s", e.field, strconv.FormatFloat(e.n, 'f', -1, 64))
}

func (e gteExpr) Match(f Fields) bool {
	if !f.Has(e.field) {
		return false
	}
	return f.Float(e.field) >= e.n
}

type dateExpr struct {
	field      string
	date       time.Time
	onOrBefore bool
}

// After matches date fields strictly after day.
func After(field string, day time.Time) Expr { return dateExpr{field: field, date: day} }

// OnOrBefore matches date fields on or before day.
func OnOrBefore(field string, day time.Time) Expr {
	return dateExpr{field: field, date: day, onOrBefore: true}
}

func (e dateExpr) Formula() string {
	d := e.date.Format(dateLayout)
	if e.onOrBefore {
		return fmt.Sprintf("IS_BEFORE({%s}, DATEADD('%s', 1, 'days'))", e.field, d)
	}
	return fmt.Sprintf("IS_AFTER({%s}, '%s')", e.field, d)
}

func (e dateExpr) Match(f Fields) bool {
	raw := f.String(e.field)
	if len(raw) < len(dateLayout) {
		return false
	}
	day, err := time.Parse(dateLayout, raw[:len(dateLayout)])
	if err != nil {
		return false
	}
	bound := time.Date(e.date.Year(), e.date.Month(), e.date.Day(), 0, 0, 0, 0, time.UTC)
	if e.onOrBefore {
		return !day.After(bound)
	}
	return day.After(bound)
}

type logicExpr struct {
	op    string
	exprs []Expr
}

// And matches when every expression matches. An empty And matches everything.
func And(exprs ...Expr) Expr { return logicExpr{op: "AND", exprs: compact(exprs)} }

// Or matches when any expression matches.
func Or(exprs ...Expr) Expr { return logicExpr{op: "OR", exprs: compact(exprs)} }

func (e logicExpr) Formula() string {
	switch len(e.exprs) {
	case 0:
		return ""
	case 1:
		return e.exprs[0].Formula()
	}
	parts := make([]string, len(e.exprs))
	for i, x := range e.exprs {
		parts[i] = x.Formula()
	}
	return e.op + "(" + strings.Join(parts, ", ") + ")"
}

func (e logicExpr) Match(f Fields) bool {
	if len(e.exprs) == 0 {
		return e.op == "AND"
	}
	for _, x := range e.exprs {
		ok := x.Match(f)
		if e.op == "OR" && ok {
			return true
		}
		if e.op == "AND" && !ok {
			return false
		}
	}
	return e.op == "AND"
}

func compact(exprs []Expr) []Expr {
	out := make([]Expr, 0, len(exprs))
	for _, x := range exprs {
		if x != nil {
			out = append(out, x)
		}
	}
	return out
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
