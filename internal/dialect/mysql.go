package dialect

import (
	"fmt"

	"db-respawn/internal/schema"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string {
	return "mysql"
}

func (d *MysqlDialect) QuoteChar() string {
	return "`"
}

func (d *MysqlDialect) GetDatabaseNameQuery() string {
	return "SELECT DATABASE()"
}

func (d *MysqlDialect) GetTablesQuery(scope schema.Scope) string {
	q := `SELECT TABLE_SCHEMA, TABLE_NAME
FROM information_schema.TABLES
WHERE TABLE_TYPE = 'BASE TABLE'
`
	// Without an explicit schema list only the connected database is in scope.
	if len(scope.SchemasToInclude) == 0 {
		q += "AND TABLE_SCHEMA = DATABASE()\n"
	}
	return q + ScopeFilter(scope, "TABLE_SCHEMA", "TABLE_NAME")
}

func (d *MysqlDialect) GetForeignKeysQuery(scope schema.Scope) string {
	q := `SELECT rc.CONSTRAINT_SCHEMA, rc.TABLE_NAME, rc.UNIQUE_CONSTRAINT_SCHEMA, rc.REFERENCED_TABLE_NAME, rc.CONSTRAINT_NAME
FROM information_schema.REFERENTIAL_CONSTRAINTS rc
WHERE 1=1
`
	if len(scope.SchemasToInclude) == 0 {
		q += "AND rc.UNIQUE_CONSTRAINT_SCHEMA = DATABASE()\n"
	}
	return q + ScopeFilter(scope, "rc.UNIQUE_CONSTRAINT_SCHEMA", "rc.REFERENCED_TABLE_NAME")
}

func (d *MysqlDialect) SupportsTemporalTables() bool {
	return false
}

func (d *MysqlDialect) GetTemporalSupportQuery(database string) string {
	return ""
}

func (d *MysqlDialect) GetTemporalTablesQuery(scope schema.Scope) string {
	return ""
}

func (d *MysqlDialect) TurnOffVersioningCommands(tables []schema.TemporalTable) []string {
	return nil
}

func (d *MysqlDialect) TurnOnVersioningCommands(tables []schema.TemporalTable) []string {
	return nil
}

// SuspendCommands switches off FK checks for the session when the graph has
// cycles. MySQL cannot suspend a single constraint. The setting outlives a
// rollback, so RestoreCommands must run on the same connection.
func (d *MysqlDialect) SuspendCommands(g *schema.Graph) []string {
	if len(g.CyclicRelationships) == 0 {
		return nil
	}
	return []string{"SET FOREIGN_KEY_CHECKS = 0"}
}

func (d *MysqlDialect) DeleteCommands(g *schema.Graph) []string {
	var cmds []string
	for _, t := range g.ToDelete {
		cmds = append(cmds, fmt.Sprintf("DELETE FROM %s", t.FullName(d.QuoteChar())))
	}
	return cmds
}

func (d *MysqlDialect) RestoreCommands(g *schema.Graph) []string {
	if len(g.CyclicRelationships) == 0 {
		return nil
	}
	return []string{"SET FOREIGN_KEY_CHECKS = 1"}
}

func (d *MysqlDialect) ReseedCommands(tables []schema.Table) []string {
	var cmds []string
	for _, t := range tables {
		cmds = append(cmds, fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = 1", t.FullName(d.QuoteChar())))
	}
	return cmds
}
