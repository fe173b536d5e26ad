package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"db-respawn/internal/dialect"
	"db-respawn/internal/schema"
)

// ---------------------------------------------------------------------
// Schema Discovery
// ---------------------------------------------------------------------

func queryDatabaseName(ctx context.Context, db *sql.DB, d dialect.Dialect) (string, error) {
	var name sql.NullString
	if err := db.QueryRowContext(ctx, d.GetDatabaseNameQuery()).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to query database name: %w", err)
	}
	return name.String, nil
}

func queryTables(ctx context.Context, db *sql.DB, d dialect.Dialect, scope schema.Scope) ([]schema.Table, error) {
	rows, err := db.QueryContext(ctx, d.GetTablesQuery(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.Table
	for rows.Next() {
		var sName, tName sql.NullString
		if err := rows.Scan(&sName, &tName); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		if !tName.Valid {
			continue
		}
		tables = append(tables, schema.Table{Schema: sName.String, Name: tName.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

func queryRelationships(ctx context.Context, db *sql.DB, d dialect.Dialect, scope schema.Scope) ([]schema.Relationship, error) {
	rows, err := db.QueryContext(ctx, d.GetForeignKeysQuery(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var relationships []schema.Relationship
	for rows.Next() {
		var pSchema, pTable, rSchema, rTable, cName sql.NullString
		if err := rows.Scan(&pSchema, &pTable, &rSchema, &rTable, &cName); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if !pTable.Valid || !rTable.Valid || !cName.Valid {
			continue
		}
		relationships = append(relationships, schema.Relationship{
			Name:       cName.String,
			Parent:     schema.Table{Schema: pSchema.String, Name: pTable.String},
			Referenced: schema.Table{Schema: rSchema.String, Name: rTable.String},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}
	return relationships, nil
}

func queryTemporalSupport(ctx context.Context, db *sql.DB, d dialect.Dialect, database string) (bool, error) {
	if !d.SupportsTemporalTables() {
		return false, nil
	}

	var supported int
	err := db.QueryRowContext(ctx, d.GetTemporalSupportQuery(database)).Scan(&supported)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check temporal table support: %w", err)
	}
	return supported == 1, nil
}

func queryTemporalTables(ctx context.Context, db *sql.DB, d dialect.Dialect, scope schema.Scope) ([]schema.TemporalTable, error) {
	rows, err := db.QueryContext(ctx, d.GetTemporalTablesQuery(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to query temporal tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.TemporalTable
	for rows.Next() {
		var t schema.TemporalTable
		if err := rows.Scan(&t.Schema, &t.Name, &t.HistorySchema, &t.HistoryName); err != nil {
			return nil, fmt.Errorf("failed to scan temporal table: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating temporal tables: %w", err)
	}
	return tables, nil
}
