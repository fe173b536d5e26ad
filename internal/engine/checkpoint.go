package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"db-respawn/internal/dialect"
	"db-respawn/internal/schema"
)

// DefaultCommandTimeout bounds every statement when Options.CommandTimeout is zero.
const DefaultCommandTimeout = 120 * time.Second

// Options configures which tables a Checkpoint resets and how.
type Options struct {
	schema.Scope `mapstructure:",squash"`

	CheckTemporalTables bool          `mapstructure:"check_temporal_table"`
	ReseedIdentity      bool          `mapstructure:"reseed_identity"`
	CommandTimeout      time.Duration `mapstructure:"command_timeout"`
}

// Plan is everything a reset executes, computed once per Checkpoint.
type Plan struct {
	Dialect        string
	Database       string
	Graph          *schema.Graph
	TemporalTables []schema.TemporalTable

	TurnOffVersioning []string
	SuspendCommands   []string
	DeleteCommands    []string
	RestoreCommands   []string
	ReseedCommands    []string
	TurnOnVersioning  []string
}

// Statements returns every statement of the plan in execution order.
func (p *Plan) Statements() []string {
	var all []string
	all = append(all, p.TurnOffVersioning...)
	all = append(all, p.batch()...)
	all = append(all, p.TurnOnVersioning...)
	return all
}

// batch is the part of the plan that runs inside the reset transaction.
func (p *Plan) batch() []string {
	return slices.Concat(p.SuspendCommands, p.DeleteCommands, p.RestoreCommands, p.ReseedCommands)
}

// Checkpoint resets a database to empty tables between tests. The plan is
// discovered on first use and reused afterwards. A Checkpoint is not safe for
// concurrent use.
type Checkpoint struct {
	dialect dialect.Dialect
	opts    Options
	plan    *Plan

	// OnProgress, if set, is called after each statement of the reset transaction.
	OnProgress func(done, total int)
}

func NewCheckpoint(d dialect.Dialect, opts Options) *Checkpoint {
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultCommandTimeout
	}
	return &Checkpoint{dialect: d, opts: opts}
}

// Refresh discards the cached plan so the next call rediscovers the schema.
func (c *Checkpoint) Refresh() {
	c.plan = nil
}

// Plan discovers the tables and foreign keys in scope and renders the reset statements.
func (c *Checkpoint) Plan(ctx context.Context, db *sql.DB) (*Plan, error) {
	if c.plan != nil {
		return c.plan, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.CommandTimeout)
	defer cancel()

	d := c.dialect
	log.Printf("Analyzing schema (%s)...", d.Name())

	database, err := queryDatabaseName(ctx, db, d)
	if err != nil {
		return nil, err
	}

	tables, err := queryTables(ctx, db, d, c.opts.Scope)
	if err != nil {
		return nil, err
	}

	var temporal []schema.TemporalTable
	if c.opts.CheckTemporalTables {
		supported, err := queryTemporalSupport(ctx, db, d, database)
		if err != nil {
			return nil, err
		}
		if supported {
			if temporal, err = queryTemporalTables(ctx, db, d, c.opts.Scope); err != nil {
				return nil, err
			}
		} else {
			log.Printf("Temporal tables are not supported by %s (%s), skipping", database, d.Name())
		}
	}

	relationships, err := queryRelationships(ctx, db, d, c.opts.Scope)
	if err != nil {
		return nil, err
	}

	g := schema.BuildGraph(tables, relationships)
	if len(g.CyclicRelationships) > 0 {
		log.Printf("Found %d cyclic relationship(s), their constraints are suspended during the reset", len(g.CyclicRelationships))
	}

	plan := &Plan{
		Dialect:           d.Name(),
		Database:          database,
		Graph:             g,
		TemporalTables:    temporal,
		TurnOffVersioning: d.TurnOffVersioningCommands(temporal),
		SuspendCommands:   d.SuspendCommands(g),
		DeleteCommands:    d.DeleteCommands(g),
		RestoreCommands:   d.RestoreCommands(g),
		TurnOnVersioning:  d.TurnOnVersioningCommands(temporal),
	}
	if c.opts.ReseedIdentity {
		plan.ReseedCommands = d.ReseedCommands(g.ToDelete)
	}

	log.Printf("Planned reset of %d tables in %s", len(g.ToDelete), database)
	c.plan = plan
	return plan, nil
}

// Reset empties every table in scope. Suspended constraints are restored and
// system versioning is switched back on even when the delete fails. Everything
// runs on one connection because some suspensions are session state.
func (c *Checkpoint) Reset(ctx context.Context, db *sql.DB) error {
	plan, err := c.Plan(ctx, db)
	if err != nil {
		return err
	}
	if len(plan.Statements()) == 0 {
		return nil
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if len(plan.TurnOffVersioning) > 0 {
		log.Printf("Turning off system versioning for %d tables...", len(plan.TemporalTables))
		if err := execEach(ctx, conn, plan.TurnOffVersioning, c.opts.CommandTimeout); err != nil {
			return fmt.Errorf("failed to turn off system versioning: %w", err)
		}
	}

	resetErr := execBatch(ctx, conn, plan.batch(), c.opts.CommandTimeout, c.OnProgress)
	if resetErr != nil {
		resetErr = fmt.Errorf("failed to reset %s: %w", plan.Database, resetErr)

		// A rollback does not undo DDL that commits implicitly or session settings.
		if len(plan.RestoreCommands) > 0 {
			log.Printf("Restoring %d suspended constraint(s) after failure...", len(plan.Graph.CyclicRelationships))
			if err := execEach(ctx, conn, plan.RestoreCommands, c.opts.CommandTimeout); err != nil {
				resetErr = errors.Join(resetErr, fmt.Errorf("failed to restore constraints: %w", err))
			}
		}
	}

	if len(plan.TurnOnVersioning) > 0 {
		log.Printf("Turning on system versioning for %d tables...", len(plan.TemporalTables))
		if err := execEach(ctx, conn, plan.TurnOnVersioning, c.opts.CommandTimeout); err != nil {
			return errors.Join(resetErr, fmt.Errorf("failed to turn on system versioning: %w", err))
		}
	}

	return resetErr
}
