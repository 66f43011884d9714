package repository

import (
	"context"
	"strings"

	"github.com/riseresearch/rise-api/pkg/airtable"
)

const (
	fieldEmail      = "Email"
	fieldEmailLower = "email"
	fieldRate       = "Rate"
)

// ContactRepository reads the contact base: role tables and mentor rates.
type ContactRepository struct {
	store airtable.Store
	base  string
}

// NewContactRepository constructs the repository.
func NewContactRepository(store airtable.Store, base string) *ContactRepository {
	return &ContactRepository{store: store, base: base}
}

// HasEmail reports whether table holds a row with the email, ignoring case.
func (r *ContactRepository) HasEmail(ctx context.Context, table, email string) (bool, error) {
	if err := requireBase("CONTACT_BASE_ID", r.base); err != nil {
		return false, err
	}
	records, err := r.store.List(ctx, r.base, table, airtable.Query{
		Filter:     airtable.EqFold(fieldEmail, email),
		Fields:     []string{fieldEmail},
		MaxRecords: 1,
	})
	if err != nil {
		return false, storeError(err, "look up "+table)
	}
	return len(records) > 0, nil
}

// ListEmails returns the normalised emails of every row in table.
func (r *ContactRepository) ListEmails(ctx context.Context, table string) ([]string, error) {
	if err := requireBase("CONTACT_BASE_ID", r.base); err != nil {
		return nil, err
	}
	records, err := r.store.List(ctx, r.base, table, airtable.Query{})
	if err != nil {
		return nil, storeError(err, "list "+table)
	}
	out := make([]string, 0, len(records))
	for _, rec := range records {
		email := rec.Fields.String(fieldEmail)
		if email == "" {
			email = rec.Fields.String(fieldEmailLower)
		}
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			out = append(out, email)
		}
	}
	return out, nil
}

// FindRate returns the raw Rate column of the row matching email.
func (r *ContactRepository) FindRate(ctx context.Context, table, email string) (string, bool, error) {
	if err := requireBase("CONTACT_BASE_ID", r.base); err != nil {
		return "", false, err
	}
	records, err := r.store.List(ctx, r.base, table, airtable.Query{
		Filter:     airtable.EqFold(fieldEmail, email),
		MaxRecords: 1,
	})
	if err != nil {
		return "", false, storeError(err, "find rate in "+table)
	}
	if len(records) == 0 {
		return "", false, nil
	}
	return records[0].Fields.String(fieldRate), true, nil
}
