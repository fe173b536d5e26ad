package dialect

import (
	"fmt"
	"strings"

	"db-respawn/internal/schema"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) QuoteChar() string {
	return `"`
}

func (d *PostgresDialect) GetDatabaseNameQuery() string {
	return "SELECT current_database()"
}

func (d *PostgresDialect) GetTablesQuery(scope schema.Scope) string {
	return `SELECT table_schema, table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
AND table_schema NOT IN ('pg_catalog', 'information_schema')
` + ScopeFilter(scope, "table_schema", "table_name")
}

func (d *PostgresDialect) GetForeignKeysQuery(scope schema.Scope) string {
	// Constraint names are only unique per table, so the name is qualified
	// with the parent table.
	return `SELECT pn.nspname, pc.relname, rn.nspname, rc.relname,
    pn.nspname || '.' || pc.relname || '.' || c.conname
FROM pg_catalog.pg_constraint c
JOIN pg_catalog.pg_class pc ON pc.oid = c.conrelid
JOIN pg_catalog.pg_namespace pn ON pn.oid = pc.relnamespace
JOIN pg_catalog.pg_class rc ON rc.oid = c.confrelid
JOIN pg_catalog.pg_namespace rn ON rn.oid = rc.relnamespace
WHERE c.contype = 'f'
` + ScopeFilter(scope, "rn.nspname", "rc.relname")
}

func (d *PostgresDialect) SupportsTemporalTables() bool {
	return false
}

func (d *PostgresDialect) GetTemporalSupportQuery(database string) string {
	return ""
}

func (d *PostgresDialect) GetTemporalTablesQuery(scope schema.Scope) string {
	return ""
}

func (d *PostgresDialect) TurnOffVersioningCommands(tables []schema.TemporalTable) []string {
	return nil
}

func (d *PostgresDialect) TurnOnVersioningCommands(tables []schema.TemporalTable) []string {
	return nil
}

// SuspendCommands disables triggers, and with them FK enforcement, on the
// parent tables of cyclic relationships.
func (d *PostgresDialect) SuspendCommands(g *schema.Graph) []string {
	var cmds []string
	for _, t := range g.ParentTables() {
		cmds = append(cmds, fmt.Sprintf("ALTER TABLE %s DISABLE TRIGGER ALL", t.FullName(d.QuoteChar())))
	}
	return cmds
}

// DeleteCommands empties every table with a single TRUNCATE ... CASCADE.
func (d *PostgresDialect) DeleteCommands(g *schema.Graph) []string {
	if len(g.ToDelete) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("TRUNCATE TABLE %s CASCADE",
		strings.Join(tableNames(g.ToDelete, d.QuoteChar()), ", "))}
}

func (d *PostgresDialect) RestoreCommands(g *schema.Graph) []string {
	var cmds []string
	for _, t := range g.ParentTables() {
		cmds = append(cmds, fmt.Sprintf("ALTER TABLE %s ENABLE TRIGGER ALL", t.FullName(d.QuoteChar())))
	}
	return cmds
}

// ReseedCommands restarts every serial and identity sequence owned by tables.
func (d *PostgresDialect) ReseedCommands(tables []schema.Table) []string {
	if len(tables) == 0 {
		return nil
	}

	// ALTER SEQUENCE does not take variables, so the statement is built and executed.
	resetFn := `CREATE OR REPLACE FUNCTION pg_temp.reset_sequence(seq text, start_val bigint, increment_val bigint) RETURNS void AS $$
BEGIN
    EXECUTE 'ALTER SEQUENCE ' || seq || ' RESTART WITH ' || start_val || ' INCREMENT ' || increment_val;
END;
$$ LANGUAGE plpgsql`

	reset := fmt.Sprintf(`WITH all_sequences AS (
    SELECT
        pg_get_serial_sequence(quote_ident(table_schema) || '.' || quote_ident(table_name), column_name) AS sequence_name,
        coalesce(identity_start, '1')::bigint AS start_val,
        coalesce(identity_increment, '1')::bigint AS increment_val
    FROM information_schema.columns
    WHERE pg_get_serial_sequence(quote_ident(table_schema) || '.' || quote_ident(table_name), column_name) IS NOT NULL
    AND '"' || table_schema || '"."' || table_name || '"' IN (%s)
)
SELECT pg_temp.reset_sequence(s.sequence_name, s.start_val, s.increment_val) FROM all_sequences s`,
		LiteralList(tableNames(tables, d.QuoteChar())))

	return []string{resetFn, reset}
}
