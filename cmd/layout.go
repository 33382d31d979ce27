package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/vibe-cli/internal/config"
	"github.com/kamusis/vibe-cli/internal/vibe/layout"
)

var (
	flagSeed       uint64
	flagIterations int
	flagWorkers    int
	flagShowTrace  bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Lay out the catalog's anchors and print their coordinates",
	Long: `Run the spring embedding over the anchor graph and print the resulting
coordinates with a convergence summary. Nothing is written to disk; use
'vibe build' to persist an index.`,
	Args: cobra.NoArgs,
	RunE: runLayout,
}

func init() {
	addLayoutFlags(layoutCmd)
	layoutCmd.Flags().BoolVar(&flagShowTrace, "trace", false, "Print the per-iteration force trace")
	rootCmd.AddCommand(layoutCmd)
}

// addLayoutFlags registers the flags shared by layout and build.
func addLayoutFlags(c *cobra.Command) {
	c.Flags().Uint64Var(&flagSeed, "seed", 0, "Override layout.seed")
	c.Flags().IntVar(&flagIterations, "iterations", 0, "Override layout.iterations")
	c.Flags().IntVar(&flagWorkers, "workers", 0, "Override layout.workers")
}

// applyLayoutFlags copies explicitly set flags over cfg and revalidates.
func applyLayoutFlags(c *cobra.Command, cfg *config.Config) error {
	if c.Flags().Changed("seed") {
		cfg.Layout.Seed = flagSeed
	}
	if c.Flags().Changed("iterations") {
		cfg.Layout.Iterations = flagIterations
	}
	if c.Flags().Changed("workers") {
		cfg.Layout.Workers = flagWorkers
	}
	return cfg.Layout.Validate()
}

func runLayout(c *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyLayoutFlags(c, cfg); err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat, res, err := p.layoutCatalog(ctx)
	if err != nil {
		return err
	}

	printSection("Layout")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, id := range res.Positions.IDs() {
		pt := res.Positions[id]
		fmt.Fprintf(w, "  %s\t%8.2f\t%8.2f\n", id, pt.X, pt.Y)
	}
	_ = w.Flush()

	printSection("Summary")
	if res.Pinned {
		printInfo("", "all anchors pinned; layout skipped")
	} else {
		printInfo("", fmt.Sprintf("seed %d, %d iteration(s) in %s", cfg.Layout.Seed, res.Iterations, res.Elapsed.Round(time.Millisecond)))
		printInfo("", fmt.Sprintf("final force %.4g", res.FinalForce))
		if cfg.Layout.Tolerance > 0 && !res.Converged {
			printWarn("", fmt.Sprintf("did not reach tolerance %g within %d iterations", cfg.Layout.Tolerance, cfg.Layout.Iterations))
		}
	}

	st := layout.Measure(cat.Graph, res.Positions)
	if st.ConnectedPairs > 0 {
		printInfo("", fmt.Sprintf("mean connected distance %.2f over %d pair(s)", st.MeanConnected, st.ConnectedPairs))
		printInfo("", fmt.Sprintf("worst edge %s-%s stretched to %.2fx the mean", st.WorstEdge[0], st.WorstEdge[1], st.WorstEdgeRatio))
	}
	if st.UnconnectedPairs > 0 {
		printInfo("", fmt.Sprintf("mean unconnected distance %.2f over %d pair(s)", st.MeanUnconnected, st.UnconnectedPairs))
	}

	if flagShowTrace && len(res.ForceTrace) > 0 {
		printSection("Force trace")
		for i, f := range res.ForceTrace {
			fmt.Printf("  %d\t%.6g\n", i+1, f)
		}
	}
	return nil
}
