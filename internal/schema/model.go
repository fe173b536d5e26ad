package schema

import (
	"fmt"
	"strings"
)

// Table identifies a database table by schema and name.
// An empty Schema means the table is not schema-qualified.
type Table struct {
	Schema string
	Name   string
}

// FullName returns the quoted, schema-qualified name of the table.
func (t Table) FullName(quote string) string {
	if t.Schema == "" {
		return quoteIdent(t.Name, quote)
	}
	return quoteIdent(t.Schema, quote) + "." + quoteIdent(t.Name, quote)
}

func (t Table) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Less orders tables by schema, then name.
func (t Table) Less(other Table) bool {
	if t.Schema != other.Schema {
		return t.Schema < other.Schema
	}
	return t.Name < other.Name
}

func quoteIdent(s, quote string) string {
	if quote == "" {
		return s
	}
	return quote + strings.ReplaceAll(s, quote, quote+quote) + quote
}

// Relationship is a foreign key: Parent holds the FK column, Referenced owns the referenced key.
// Two relationships are the same relationship iff their names match.
type Relationship struct {
	Name       string
	Parent     Table
	Referenced Table
}

// Equal compares relationships by constraint name only.
func (r Relationship) Equal(other Relationship) bool {
	return r.Name == other.Name
}

// IsSelfReference reports whether the relationship points back at its own table.
func (r Relationship) IsSelfReference() bool {
	return r.Parent == r.Referenced
}

func (r Relationship) String() string {
	return fmt.Sprintf("%s -> %s [%s]", r.Parent, r.Referenced, r.Name)
}

// TemporalTable is a system-versioned table together with its history table.
type TemporalTable struct {
	Schema        string
	Name          string
	HistorySchema string
	HistoryName   string
}

func (t TemporalTable) Table() Table {
	return Table{Schema: t.Schema, Name: t.Name}
}

func (t TemporalTable) HistoryTable() Table {
	return Table{Schema: t.HistorySchema, Name: t.HistoryName}
}

// Scope restricts discovery to a subset of schemas and tables.
type Scope struct {
	TablesToIgnore   []string `mapstructure:"tables_to_ignore" yaml:"tables_to_ignore,omitempty" json:"tables_to_ignore,omitempty"`
	TablesToInclude  []string `mapstructure:"tables_to_include" yaml:"tables_to_include,omitempty" json:"tables_to_include,omitempty"`
	SchemasToIgnore  []string `mapstructure:"schemas_to_ignore" yaml:"schemas_to_ignore,omitempty" json:"schemas_to_ignore,omitempty"`
	SchemasToInclude []string `mapstructure:"schemas_to_include" yaml:"schemas_to_include,omitempty" json:"schemas_to_include,omitempty"`
}

// Empty reports whether the scope applies no filtering.
func (s Scope) Empty() bool {
	return len(s.TablesToIgnore) == 0 && len(s.TablesToInclude) == 0 &&
		len(s.SchemasToIgnore) == 0 && len(s.SchemasToInclude) == 0
}
