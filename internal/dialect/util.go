package dialect

import (
	"fmt"
	"strings"

	"db-respawn/internal/schema"
)

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdent quotes a single identifier with quote, doubling embedded quotes.
func QuoteIdent(s, quote string) string {
	return quote + strings.ReplaceAll(s, quote, quote+quote) + quote
}

// LiteralList renders values as a comma-separated list of string literals.
func LiteralList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = QuoteLiteral(v)
	}
	return strings.Join(quoted, ", ")
}

// ScopeFilter returns the AND clauses that restrict a metadata query to scope.
// schemaColumn and tableColumn are the column expressions to filter on.
func ScopeFilter(scope schema.Scope, schemaColumn, tableColumn string) string {
	var b strings.Builder
	if len(scope.TablesToIgnore) > 0 {
		fmt.Fprintf(&b, "AND %s NOT IN (%s)\n", tableColumn, LiteralList(scope.TablesToIgnore))
	}
	if len(scope.TablesToInclude) > 0 {
		fmt.Fprintf(&b, "AND %s IN (%s)\n", tableColumn, LiteralList(scope.TablesToInclude))
	}
	if len(scope.SchemasToIgnore) > 0 {
		fmt.Fprintf(&b, "AND %s NOT IN (%s)\n", schemaColumn, LiteralList(scope.SchemasToIgnore))
	}
	if len(scope.SchemasToInclude) > 0 {
		fmt.Fprintf(&b, "AND %s IN (%s)\n", schemaColumn, LiteralList(scope.SchemasToInclude))
	}
	return b.String()
}

// tableNames returns the quoted full names of tables.
func tableNames(tables []schema.Table, quote string) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.FullName(quote)
	}
	return out
}

// tableKeys returns "schema.name" for each table.
func tableKeys(tables []schema.Table) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.String()
	}
	return out
}
