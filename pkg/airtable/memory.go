package airtable

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. It backs local development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	tables   map[string][]Record
	failures map[string]error
	now      func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[string][]Record),
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// SetClock overrides the time source used for createdTime.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Seed inserts records and returns them with their assigned IDs.
func (m *MemoryStore) Seed(base, table string, rows ...Fields) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, 0, len(rows))
	for _, f := range rows {
		rec := Record{ID: newRecordID(), CreatedTime: m.now().UTC(), Fields: cloneFields(f)}
		m.tables[key(base, table)] = append(m.tables[key(base, table)], rec)
		out = append(out, rec)
	}
	return out
}

// SeedRecord inserts a fully formed record, keeping its ID and createdTime.
func (m *MemoryStore) SeedRecord(base, table string, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.Fields = cloneFields(rec.Fields)
	m.tables[key(base, table)] = append(m.tables[key(base, table)], rec)
}

// Fail makes every call against the table return err. A nil err clears it.
func (m *MemoryStore) Fail(base, table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, key(base, table))
		return
	}
	m.failures[key(base, table)] = err
}

// Records returns a snapshot of a table.
func (m *MemoryStore) Records(base, table string) []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := m.tables[key(base, table)]
	out := make([]Record, len(rows))
	for i, r := range rows {
		r.Fields = cloneFields(r.Fields)
		out[i] = r
	}
	return out
}

func (m *MemoryStore) List(ctx context.Context, base, table string, q Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[key(base, table)]; err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range m.tables[key(base, table)] {
		if q.Filter != nil && !q.Filter.Match(r.Fields) {
			continue
		}
		r.Fields = project(r.Fields, q.Fields)
		out = append(out, r)
		if q.MaxRecords > 0 && len(out) == q.MaxRecords {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, base, table string, fields Fields) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[key(base, table)]; err != nil {
		return Record{}, err
	}
	rec := Record{ID: newRecordID(), CreatedTime: m.now().UTC(), Fields: cloneFields(fields)}
	m.tables[key(base, table)] = append(m.tables[key(base, table)], rec)
	rec.Fields = cloneFields(rec.Fields)
	return rec, nil
}

func (m *MemoryStore) Update(ctx context.Context, base, table, id string, fields Fields) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[key(base, table)]; err != nil {
		return Record{}, err
	}
	rows := m.tables[key(base, table)]
	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		for k, v := range fields {
			rows[i].Fields[k] = v
		}
		out := rows[i]
		out.Fields = cloneFields(out.Fields)
		return out, nil
	}
	return Record{}, notFound("update", table)
}

func (m *MemoryStore) Delete(ctx context.Context, base, table, id string) (DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return DeleteResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[key(base, table)]; err != nil {
		return DeleteResult{}, err
	}
	rows := m.tables[key(base, table)]
	for i := range rows {
		if rows[i].ID == id {
			m.tables[key(base, table)] = append(rows[:i:i], rows[i+1:]...)
			return DeleteResult{ID: id, Deleted: true}, nil
		}
	}
	return DeleteResult{}, notFound("delete", table)
}

func notFound(op, table string) error {
	return &StatusError{Op: op, Table: table, Status: http.StatusNotFound, StatusText: http.StatusText(http.StatusNotFound)}
}

func key(base, table string) string { return base + "/" + table }

func newRecordID() string {
	return "rec" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

func cloneFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func project(f Fields, names []string) Fields {
	if len(names) == 0 {
		return cloneFields(f)
	}
	out := make(Fields, len(names))
	for _, n := range names {
		if v, ok := f[n]; ok {
			out[n] = v
		}
	}
	return out
}
