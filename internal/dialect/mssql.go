package dialect

import (
	"fmt"

	"db-respawn/internal/schema"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string {
	return "sqlserver"
}

func (d *MSSQLDialect) QuoteChar() string {
	return `"`
}

func (d *MSSQLDialect) GetDatabaseNameQuery() string {
	return "SELECT DB_NAME()"
}

func (d *MSSQLDialect) GetTablesQuery(scope schema.Scope) string {
	return `SELECT s.name, t.name
FROM sys.tables t
JOIN sys.schemas s ON t.schema_id = s.schema_id
WHERE 1=1
` + ScopeFilter(scope, "s.name", "t.name")
}

func (d *MSSQLDialect) GetForeignKeysQuery(scope schema.Scope) string {
	return `SELECT chs.name, cht.name, pas.name, pat.name, sfk.name
FROM sys.foreign_keys sfk
JOIN sys.objects pat ON sfk.referenced_object_id = pat.object_id
JOIN sys.schemas pas ON pat.schema_id = pas.schema_id
JOIN sys.objects cht ON sfk.parent_object_id = cht.object_id
JOIN sys.schemas chs ON cht.schema_id = chs.schema_id
WHERE 1=1
` + ScopeFilter(scope, "pas.name", "pat.name")
}

func (d *MSSQLDialect) SupportsTemporalTables() bool {
	return true
}

// GetTemporalSupportQuery rejects Azure SQL Data Warehouse (engine edition 6)
// and compatibility levels below 130 (SQL Server 2016).
func (d *MSSQLDialect) GetTemporalSupportQuery(database string) string {
	return fmt.Sprintf(`SELECT CASE
    WHEN CAST(SERVERPROPERTY('EngineEdition') AS int) <> 6 AND d.compatibility_level >= 130 THEN 1
    ELSE 0
END
FROM sys.databases d
WHERE d.name = %s`, QuoteLiteral(database))
}

func (d *MSSQLDialect) GetTemporalTablesQuery(scope schema.Scope) string {
	return `SELECT s.name, t.name, hs.name, ht.name
FROM sys.tables t
JOIN sys.schemas s ON t.schema_id = s.schema_id
JOIN sys.tables ht ON t.history_table_id = ht.object_id
JOIN sys.schemas hs ON ht.schema_id = hs.schema_id
WHERE t.temporal_type = 2
` + ScopeFilter(scope, "s.name", "t.name")
}

func (d *MSSQLDialect) TurnOffVersioningCommands(tables []schema.TemporalTable) []string {
	var cmds []string
	for _, t := range tables {
		cmds = append(cmds, fmt.Sprintf("ALTER TABLE %s SET (SYSTEM_VERSIONING = OFF)",
			t.Table().FullName(d.QuoteChar())))
	}
	return cmds
}

func (d *MSSQLDialect) TurnOnVersioningCommands(tables []schema.TemporalTable) []string {
	var cmds []string
	for _, t := range tables {
		cmds = append(cmds, fmt.Sprintf("ALTER TABLE %s SET (SYSTEM_VERSIONING = ON (HISTORY_TABLE = %s))",
			t.Table().FullName(d.QuoteChar()), t.HistoryTable().FullName(d.QuoteChar())))
	}
	return cmds
}

// SuspendCommands suspends every constraint of the cyclic parent tables.
func (d *MSSQLDialect) SuspendCommands(g *schema.Graph) []string {
	var cmds []string
	for _, t := range g.ParentTables() {
		cmds = append(cmds, fmt.Sprintf("ALTER TABLE %s NOCHECK CONSTRAINT ALL", t.FullName(d.QuoteChar())))
	}
	return cmds
}

func (d *MSSQLDialect) DeleteCommands(g *schema.Graph) []string {
	var cmds []string
	for _, t := range g.ToDelete {
		cmds = append(cmds, fmt.Sprintf("DELETE FROM %s", t.FullName(d.QuoteChar())))
	}
	return cmds
}

// RestoreCommands re-enables and re-validates the suspended constraints.
func (d *MSSQLDialect) RestoreCommands(g *schema.Graph) []string {
	var cmds []string
	for _, t := range g.ParentTables() {
		cmds = append(cmds, fmt.Sprintf("ALTER TABLE %s WITH CHECK CHECK CONSTRAINT ALL", t.FullName(d.QuoteChar())))
	}
	return cmds
}

// ReseedCommands reseeds identity columns back to their initial seed. Tables
// whose identity was never used are skipped, otherwise the next value would be
// one below the seed.
func (d *MSSQLDialect) ReseedCommands(tables []schema.Table) []string {
	if len(tables) == 0 {
		return nil
	}

	return []string{fmt.Sprintf(`DECLARE @Schema sysname = N''
DECLARE @TableName sysname = N''
DECLARE @LastValue sql_variant = NULL
DECLARE @InitialSeed bigint = 0
DECLARE @SQL nvarchar(4000) = N''

DECLARE IdentityTables CURSOR FAST_FORWARD FOR
    SELECT OBJECT_SCHEMA_NAME(t.object_id, DB_ID()),
           t.name,
           ic.last_value,
           CAST(IDENT_SEED(QUOTENAME(OBJECT_SCHEMA_NAME(t.object_id, DB_ID())) + '.' + QUOTENAME(t.name)) AS bigint)
    FROM sys.tables t
    JOIN sys.identity_columns ic ON ic.object_id = t.object_id
    WHERE OBJECT_SCHEMA_NAME(t.object_id, DB_ID()) + '.' + t.name IN (%s)

OPEN IdentityTables
FETCH NEXT FROM IdentityTables INTO @Schema, @TableName, @LastValue, @InitialSeed
WHILE @@FETCH_STATUS = 0
BEGIN
    IF (@LastValue IS NOT NULL)
    BEGIN
        SET @SQL = N'DBCC CHECKIDENT(''' + QUOTENAME(@Schema) + '.' + QUOTENAME(@TableName) + ''', RESEED, ' + CONVERT(varchar(32), @InitialSeed - 1) + ')'
        EXECUTE (@SQL)
    END
    FETCH NEXT FROM IdentityTables INTO @Schema, @TableName, @LastValue, @InitialSeed
END
CLOSE IdentityTables
DEALLOCATE IdentityTables`, LiteralList(tableKeys(tables)))}
}
