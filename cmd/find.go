package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagFindK int

var findCmd = &cobra.Command{
	Use:   "find <words...>",
	Short: "Find indexed sub-vibes by keyword",
	Long: `Case-insensitive keyword lookup over the installed index. Every word must
appear in the sub-vibe's id, description or dominant anchor.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().IntVar(&flagFindK, "k", 10, "Maximum results to show (0 = all)")
	rootCmd.AddCommand(findCmd)
}

func runFind(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	snap, err := p.loadSnapshot()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results := snap.Index.Find(query, flagFindK)
	fmt.Printf("\nvibe find %q\n\n", query)
	fmt.Printf("Results (%d found):\n", len(results))
	if len(results) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, pt := range results {
		fmt.Fprintf(w, "  %d.\t%s\t(%.1f, %.1f)\t%s\n", i+1, pt.ID, pt.Position.X, pt.Position.Y, pt.Parent)
		if d := strings.TrimSpace(pt.Description); d != "" {
			fmt.Fprintf(w, "  - %s\n", d)
		}
	}
	_ = w.Flush()
	return nil
}
