package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Lay out the anchors, index every sub-vibe and install the snapshot",
	Long: `Run the full pipeline: load the catalog, lay out the anchors, embed each
sub-vibe and write the index. The snapshot is written to a temporary
directory and swapped into place under a lock, so concurrent readers see
either the previous index or the new one.

Sub-vibes with invalid compositions are skipped and reported; the rest of
the index is still built.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var flagBuildStrict bool

func init() {
	addLayoutFlags(buildCmd)
	buildCmd.Flags().BoolVar(&flagBuildStrict, "strict", false, "Exit non-zero if any sub-vibe was rejected")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(c *cobra.Command, _ []string) error {
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

	printSection("Build")
	rep, err := p.build(ctx)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	m := rep.Manifest
	if m.Pinned {
		printInfo("", fmt.Sprintf("%d pinned anchor(s); layout skipped", m.Anchors))
	} else {
		printInfo("", fmt.Sprintf("%d anchor(s) laid out in %d iteration(s), final force %.4g", m.Anchors, m.Iterations, m.FinalForce))
	}

	if len(rep.Rejected) > 0 {
		printBullet("Rejected sub-vibes:")
		for _, r := range rep.Rejected {
			printWarn(string(r.ID), r.Err.Error())
		}
		fmt.Println()
	}
	printOK("", fmt.Sprintf("index written: %s (%d point(s), %d rejected, build %s)", rep.Dir, m.Points, m.Rejected, m.BuildID))

	if flagBuildStrict && len(rep.Rejected) > 0 {
		return fmt.Errorf("%d sub-vibe(s) rejected", len(rep.Rejected))
	}
	return nil
}
