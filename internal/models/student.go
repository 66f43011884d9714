package models

import "time"

// ContactRecord is a raw contact-table row passed through to clients.
type ContactRecord struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}
