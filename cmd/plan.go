package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"db-respawn/internal/engine"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var output string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the deletion order and statements without running them",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := checkpointOptions()
		if err != nil {
			return err
		}
		if err := connect(cmd.Context()); err != nil {
			return err
		}

		plan, err := engine.NewCheckpoint(Dialect, opts).Plan(cmd.Context(), DB)
		if err != nil {
			return err
		}
		return writePlan(os.Stdout, plan, output)
	},
}

func init() {
	addScopeFlags(planCmd)
	planCmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, yaml or json")
	RootCmd.AddCommand(planCmd)
}

type planView struct {
	Dialect             string   `yaml:"dialect" json:"dialect"`
	Database            string   `yaml:"database" json:"database"`
	DeletionOrder       []string `yaml:"deletion_order" json:"deletion_order"`
	CyclicRelationships []string `yaml:"cyclic_relationships,omitempty" json:"cyclic_relationships,omitempty"`
	TemporalTables      []string `yaml:"temporal_tables,omitempty" json:"temporal_tables,omitempty"`
	Statements          []string `yaml:"statements" json:"statements"`
}

func newPlanView(p *engine.Plan) planView {
	v := planView{
		Dialect:    p.Dialect,
		Database:   p.Database,
		Statements: p.Statements(),
	}
	for _, t := range p.Graph.ToDelete {
		v.DeletionOrder = append(v.DeletionOrder, t.String())
	}
	for _, r := range p.Graph.CyclicRelationships {
		v.CyclicRelationships = append(v.CyclicRelationships, r.String())
	}
	for _, t := range p.TemporalTables {
		v.TemporalTables = append(v.TemporalTables, fmt.Sprintf("%s (history %s)", t.Table(), t.HistoryTable()))
	}
	return v
}

// terminate appends a semicolon unless the statement, like a PL/SQL block,
// already ends with one.
func terminate(stmt string) string {
	if strings.HasSuffix(strings.TrimSpace(stmt), ";") {
		return stmt
	}
	return stmt + ";"
}

func writePlan(w io.Writer, p *engine.Plan, format string) error {
	v := newPlanView(p)

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
		return nil
	case "text", "":
		fmt.Fprintf(w, "Database: %s (%s)\n", v.Database, v.Dialect)
		fmt.Fprintf(w, "\nDeletion order (%d tables):\n", len(v.DeletionOrder))
		for i, t := range v.DeletionOrder {
			fmt.Fprintf(w, "  %3d. %s\n", i+1, t)
		}
		if len(v.CyclicRelationships) > 0 {
			fmt.Fprintf(w, "\nCyclic relationships (%d):\n", len(v.CyclicRelationships))
			for _, r := range v.CyclicRelationships {
				fmt.Fprintf(w, "  - %s\n", r)
			}
		}
		if len(v.TemporalTables) > 0 {
			fmt.Fprintf(w, "\nTemporal tables (%d):\n", len(v.TemporalTables))
			for _, t := range v.TemporalTables {
				fmt.Fprintf(w, "  - %s\n", t)
			}
		}
		fmt.Fprintln(w, "\nStatements:")
		for _, s := range v.Statements {
			fmt.Fprintln(w, terminate(s))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text, yaml or json)", format)
	}
}
