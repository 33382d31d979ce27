package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the installed index and how it was built",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Println("=== Index ===")
	if _, err := os.Stat(cfg.IndexPath); os.IsNotExist(err) {
		printMiss("", fmt.Sprintf("no index at %s (run: vibe build)", cfg.IndexPath))
		return nil
	}
	snap, err := p.loadSnapshot()
	if err != nil {
		printErr("", err.Error())
		return err
	}

	m := snap.Manifest
	fmt.Printf("  Path:        %s\n", cfg.IndexPath)
	fmt.Printf("  Build:       %s\n", m.BuildID)
	fmt.Printf("  Created:     %s\n", m.CreatedAt)
	fmt.Printf("  Anchors:     %d\n", m.Anchors)
	fmt.Printf("  Points:      %d (%d rejected at build)\n", m.Points, m.Rejected)
	if m.Pinned {
		fmt.Println("  Layout:      pinned")
	} else {
		fmt.Printf("  Layout:      seed %d, %d iteration(s), final force %.4g\n", m.Seed, m.Iterations, m.FinalForce)
	}

	// Sub-vibes per dominant anchor.
	counts := make(map[string]int)
	for _, pt := range snap.Index.All() {
		counts[string(pt.Parent)]++
	}
	fmt.Println("\n● Sub-vibes by dominant anchor:")
	for _, a := range snap.Anchors {
		n := counts[a.ID]
		if n == 0 {
			printSkip(a.ID, "none")
			continue
		}
		printOK(a.ID, fmt.Sprintf("%d", n))
	}
	return nil
}
