package repository

import (
	"context"

	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/airtable"
)

// StudentRepository proxies the contact base Students table.
type StudentRepository struct {
	store airtable.Store
	base  string
	table string
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(store airtable.Store, base, table string) *StudentRepository {
	return &StudentRepository{store: store, base: base, table: table}
}

func (r *StudentRepository) List(ctx context.Context) ([]models.ContactRecord, error) {
	if err := requireBase("CONTACT_BASE_ID", r.base); err != nil {
		return nil, err
	}
	records, err := r.store.List(ctx, r.base, r.table, airtable.Query{})
	if err != nil {
		return nil, storeError(err, "list students")
	}
	out := make([]models.ContactRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, toContact(rec))
	}
	return out, nil
}

func (r *StudentRepository) Create(ctx context.Context, fields map[string]any) (models.ContactRecord, error) {
	if err := requireBase("CONTACT_BASE_ID", r.base); err != nil {
		return models.ContactRecord{}, err
	}
	rec, err := r.store.Create(ctx, r.base, r.table, airtable.Fields(fields))
	if err != nil {
		return models.ContactRecord{}, storeError(err, "create student")
	}
	return toContact(rec), nil
}

func (r *StudentRepository) Update(ctx context.Context, id string, fields map[string]any) (models.ContactRecord, error) {
	if err := requireBase("CONTACT_BASE_ID", r.base); err != nil {
		return models.ContactRecord{}, err
	}
	rec, err := r.store.Update(ctx, r.base, r.table, id, airtable.Fields(fields))
	if err != nil {
		return models.ContactRecord{}, storeError(err, "update student")
	}
	return toContact(rec), nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) (airtable.DeleteResult, error) {
	if err := requireBase("CONTACT_BASE_ID", r.base); err != nil {
		return airtable.DeleteResult{}, err
	}
	res, err := r.store.Delete(ctx, r.base, r.table, id)
	if err != nil {
		return airtable.DeleteResult{}, storeError(err, "delete student")
	}
	return res, nil
}

func toContact(rec airtable.Record) models.ContactRecord {
	fields := make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	return models.ContactRecord{ID: rec.ID, CreatedTime: rec.CreatedTime, Fields: fields}
}
