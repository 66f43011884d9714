package repository

import (
	"context"

	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/airtable"
)

// InvoiceRepository writes mentor invoices.
type InvoiceRepository struct {
	store airtable.Store
	base  string
	table string
}

// NewInvoiceRepository constructs the repository.
func NewInvoiceRepository(store airtable.Store, base, table string) *InvoiceRepository {
	return &InvoiceRepository{store: store, base: base, table: table}
}

// Create stores the invoice and returns it with its record ID.
func (r *InvoiceRepository) Create(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	if err := requireBase("INVOICING_BASE_ID", r.base); err != nil {
		return models.Invoice{}, err
	}
	rec, err := r.store.Create(ctx, r.base, r.table, airtable.Fields{
		"Name":               inv.Name,
		"Email":              inv.Email,
		"Month":              inv.Month,
		"Classes This Month": inv.ClassesThisMonth,
		"Total Amount":       inv.TotalAmount,
	})
	if err != nil {
		return models.Invoice{}, storeError(err, "create invoice")
	}
	inv.ID = rec.ID
	inv.CreatedAt = rec.CreatedTime
	return inv, nil
}
