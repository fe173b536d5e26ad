package dialect

import (
	"fmt"

	"db-respawn/internal/schema"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string {
	return "oracle"
}

func (d *OracleDialect) QuoteChar() string {
	return `"`
}

func (d *OracleDialect) GetDatabaseNameQuery() string {
	return "SELECT SYS_CONTEXT('USERENV', 'DB_NAME') FROM DUAL"
}

func (d *OracleDialect) GetTablesQuery(scope schema.Scope) string {
	q := `SELECT OWNER, TABLE_NAME
FROM ALL_TABLES
WHERE NESTED = 'NO' AND SECONDARY = 'N'
`
	// Oracle schemas are users; default to the session's current schema.
	if len(scope.SchemasToInclude) == 0 {
		q += "AND OWNER = SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA')\n"
	}
	return q + ScopeFilter(scope, "OWNER", "TABLE_NAME")
}

func (d *OracleDialect) GetForeignKeysQuery(scope schema.Scope) string {
	q := `SELECT c.OWNER, c.TABLE_NAME, r.OWNER, r.TABLE_NAME, c.CONSTRAINT_NAME
FROM ALL_CONSTRAINTS c
JOIN ALL_CONSTRAINTS r
    ON c.R_OWNER = r.OWNER AND c.R_CONSTRAINT_NAME = r.CONSTRAINT_NAME
WHERE c.CONSTRAINT_TYPE = 'R'
`
	if len(scope.SchemasToInclude) == 0 {
		q += "AND r.OWNER = SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA')\n"
	}
	return q + ScopeFilter(scope, "r.OWNER", "r.TABLE_NAME")
}

func (d *OracleDialect) SupportsTemporalTables() bool {
	return false
}

func (d *OracleDialect) GetTemporalSupportQuery(database string) string {
	return ""
}

func (d *OracleDialect) GetTemporalTablesQuery(scope schema.Scope) string {
	return ""
}

func (d *OracleDialect) TurnOffVersioningCommands(tables []schema.TemporalTable) []string {
	return nil
}

func (d *OracleDialect) TurnOnVersioningCommands(tables []schema.TemporalTable) []string {
	return nil
}

// SuspendCommands disables exactly the cyclic constraints. Oracle DDL commits
// implicitly, so a rollback does not re-enable them.
func (d *OracleDialect) SuspendCommands(g *schema.Graph) []string {
	return d.constraintCommands(g, "DISABLE")
}

func (d *OracleDialect) DeleteCommands(g *schema.Graph) []string {
	var cmds []string
	for _, t := range g.ToDelete {
		cmds = append(cmds, fmt.Sprintf("DELETE FROM %s", t.FullName(d.QuoteChar())))
	}
	return cmds
}

func (d *OracleDialect) RestoreCommands(g *schema.Graph) []string {
	return d.constraintCommands(g, "ENABLE")
}

func (d *OracleDialect) constraintCommands(g *schema.Graph, action string) []string {
	var cmds []string
	q := d.QuoteChar()
	for _, r := range g.CyclicRelationships {
		cmds = append(cmds, fmt.Sprintf("ALTER TABLE %s %s CONSTRAINT %s",
			r.Parent.FullName(q), action, QuoteIdent(r.Name, q)))
	}
	return cmds
}

// ReseedCommands restarts identity columns at 1, keeping their generation type.
func (d *OracleDialect) ReseedCommands(tables []schema.Table) []string {
	if len(tables) == 0 {
		return nil
	}

	return []string{fmt.Sprintf(`BEGIN
    FOR c IN (
        SELECT OWNER, TABLE_NAME, COLUMN_NAME, GENERATION_TYPE
        FROM ALL_TAB_IDENTITY_COLS
        WHERE OWNER || '.' || TABLE_NAME IN (%s)
    ) LOOP
        EXECUTE IMMEDIATE 'ALTER TABLE "' || c.OWNER || '"."' || c.TABLE_NAME || '" MODIFY "' || c.COLUMN_NAME ||
            '" GENERATED ' || c.GENERATION_TYPE || ' AS IDENTITY (START WITH 1)';
    END LOOP;
END;`, LiteralList(tableKeys(tables)))}
}
