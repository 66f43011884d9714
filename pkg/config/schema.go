package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RoleTable binds a contact-base table to the role its members receive.
type RoleTable struct {
	Table string `yaml:"table"`
	Role  string `yaml:"role"`
}

// Schema names the record-store tables the service reads and writes.
// Role tables are listed in lookup priority order.
type Schema struct {
	RoleTables     []RoleTable `yaml:"role_tables"`
	Students       string      `yaml:"students"`
	Mentors        string      `yaml:"mentors"`
	WritingCoaches string      `yaml:"writing_coaches"`
	Classes        string      `yaml:"classes"`
	Invoices       string      `yaml:"invoices"`
	Enrollments    string      `yaml:"enrollments"`
	Availability   string      `yaml:"availability"`
}

// DefaultSchema mirrors the production base layout.
func DefaultSchema() Schema {
	return Schema{
		RoleTables: []RoleTable{
			{Table: "Students", Role: "Student"},
			{Table: "Parents", Role: "Parent"},
			{Table: "Mentors", Role: "Mentor"},
			{Table: "Writing Coaches", Role: "Writing Coach"},
			{Table: "Team", Role: "Team"},
		},
		Students:       "Students",
		Mentors:        "Mentors",
		WritingCoaches: "Writing Coaches",
		Classes:        "Classes",
		Invoices:       "Invoices",
		Enrollments:    "Enrollments",
		Availability:   "Availability",
	}
}

// LoadSchema overlays the YAML file at path onto DefaultSchema. An empty path
// returns the defaults.
func LoadSchema(path string) (Schema, error) {
	schema := DefaultSchema()
	if strings.TrimSpace(path) == "" {
		return schema, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema file %s: %w", path, err)
	}

	var override Schema
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return Schema{}, fmt.Errorf("parse schema file %s: %w", path, err)
	}

	if len(override.RoleTables) > 0 {
		for i, rt := range override.RoleTables {
			if strings.TrimSpace(rt.Table) == "" || strings.TrimSpace(rt.Role) == "" {
				return Schema{}, fmt.Errorf("schema role_tables[%d]: table and role are required", i)
			}
		}
		schema.RoleTables = override.RoleTables
	}
	overlay(&schema.Students, override.Students)
	overlay(&schema.Mentors, override.Mentors)
	overlay(&schema.WritingCoaches, override.WritingCoaches)
	overlay(&schema.Classes, override.Classes)
	overlay(&schema.Invoices, override.Invoices)
	overlay(&schema.Enrollments, override.Enrollments)
	overlay(&schema.Availability, override.Availability)

	return schema, nil
}

func overlay(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}
