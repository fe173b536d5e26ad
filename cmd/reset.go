package cmd

import (
	"fmt"
	"log"
	"time"

	"db-respawn/internal/engine"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
)

var (
	ignoreTables   []string
	includeTables  []string
	ignoreSchemas  []string
	includeSchemas []string
	temporal       bool
	reseed         bool
	timeout        time.Duration
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all rows from the tables in scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := checkpointOptions()
		if err != nil {
			return err
		}
		if err := connect(cmd.Context()); err != nil {
			return err
		}

		cp := engine.NewCheckpoint(Dialect, opts)
		start := time.Now()

		plan, err := cp.Plan(cmd.Context(), DB)
		if err != nil {
			return err
		}
		if len(plan.Graph.ToDelete) == 0 {
			log.Println("Nothing to reset.")
			return nil
		}

		uiprogress.Start()
		total := len(plan.SuspendCommands) + len(plan.DeleteCommands) + len(plan.RestoreCommands) + len(plan.ReseedCommands)
		bar := uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Resetting: "
		})
		cp.OnProgress = func(done, total int) {
			bar.Set(done)
		}

		err = cp.Reset(cmd.Context(), DB)
		uiprogress.Stop()
		if err != nil {
			return err
		}

		fmt.Printf("\nReset %d tables in %s (%d cyclic relationships) in %s\n",
			len(plan.Graph.ToDelete), plan.Database, len(plan.Graph.CyclicRelationships),
			time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	addScopeFlags(resetCmd)
	RootCmd.AddCommand(resetCmd)
}

// addScopeFlags registers the flags that override the "checkpoint" config section.
func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&ignoreTables, "ignore-tables", nil, "table names to leave untouched")
	cmd.Flags().StringSliceVar(&includeTables, "include-tables", nil, "only reset tables with these names")
	cmd.Flags().StringSliceVar(&ignoreSchemas, "ignore-schemas", nil, "schemas to leave untouched")
	cmd.Flags().StringSliceVar(&includeSchemas, "include-schemas", nil, "only reset tables in these schemas")
	cmd.Flags().BoolVar(&temporal, "temporal", false, "switch system versioning off around the reset (SQL Server)")
	cmd.Flags().BoolVar(&reseed, "reseed", false, "restart identity columns and sequences")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout per statement (default 2m)")
}
