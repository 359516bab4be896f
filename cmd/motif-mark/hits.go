package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/motif-mark/internal/duckdb"
)

func newHitsCmd() *cobra.Command {
	var (
		runID    int64
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "hits [record-id]",
		Short: "List motif hits stored by 'mark --db'",
		Long: `Without a record ID, lists the records of a run with their hit counts and
the per-motif totals. With a record ID, lists that record's hits.
--clear deletes every stored run.`,
		Example: `  motif-mark hits --db hits.duckdb
  motif-mark hits --db hits.duckdb INSR
  motif-mark hits --db hits.duckdb --run 2 MBNL
  motif-mark hits --db hits.duckdb --clear`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = viper.GetString("db")
			}
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if clearAll {
				if len(args) > 0 {
					return fmt.Errorf("--clear does not take a record ID")
				}
				if err := store.ClearRuns(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared all runs from %s\n", dbPath)
				return nil
			}

			if runID == 0 {
				if runID, err = store.LatestRun(); err != nil {
					return err
				}
				if runID == 0 {
					return fmt.Errorf("no runs stored in %s", dbPath)
				}
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				hits, err := store.LookupHits(runID, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "#record_id\tmotif\tstart\tend")
				for _, h := range hits {
					fmt.Fprintf(out, "%s\t%s\t%d\t%d\n", h.RecordID, h.Motif, h.Start, h.Start+h.Length)
				}
				return nil
			}

			recs, err := store.Records(runID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# run %d\n", runID)
			fmt.Fprintln(out, "#record_id\tlength\texon_start\texon_length\thits")
			for _, r := range recs {
				fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\n", r.RecordID, r.SeqLength, r.ExonStart, r.ExonLength, r.Hits)
			}

			counts, err := store.CountByMotif(runID)
			if err != nil {
				return err
			}
			motifs := make([]string, 0, len(counts))
			for m := range counts {
				motifs = append(motifs, m)
			}
			sort.Strings(motifs)
			for _, m := range motifs {
				fmt.Fprintf(out, "# %s\t%d\n", m, counts[m])
			}
			return nil
		},
	}

	cmd.Flags().String("db", "", "DuckDB database written by 'mark --db'")
	cmd.Flags().Int64Var(&runID, "run", 0, "run ID (default: latest)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every stored run")

	return cmd
}
