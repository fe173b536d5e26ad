package dialect

import "db-respawn/internal/schema"

// Dialect renders the database-specific SQL needed to reset a database.
// Implementations only build text; they never touch a connection.
type Dialect interface {
	Name() string
	QuoteChar() string

	// Metadata Queries (Schema Introspection)
	GetDatabaseNameQuery() string
	// Rows: schema, table.
	GetTablesQuery(scope schema.Scope) string
	// Rows: parent schema, parent table, referenced schema, referenced table, constraint name.
	GetForeignKeysQuery(scope schema.Scope) string

	// Temporal (system-versioned) tables
	SupportsTemporalTables() bool
	// Single integer row, 1 when the database can hold temporal tables.
	GetTemporalSupportQuery(database string) string
	// Rows: schema, table, history schema, history table.
	GetTemporalTablesQuery(scope schema.Scope) string
	TurnOffVersioningCommands(tables []schema.TemporalTable) []string
	TurnOnVersioningCommands(tables []schema.TemporalTable) []string

	// Reset Commands
	// SuspendCommands switch off enforcement of the graph's cyclic relationships.
	// RestoreCommands undo them and must be safe to run again after a failure.
	SuspendCommands(g *schema.Graph) []string
	DeleteCommands(g *schema.Graph) []string
	RestoreCommands(g *schema.Graph) []string
	ReseedCommands(tables []schema.Table) []string
}
