package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/vibe-cli/internal/catalog"
	"github.com/kamusis/vibe-cli/internal/config"
	"github.com/kamusis/vibe-cli/internal/vibe/index"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that vibe's config, catalog and index are present and valid.
Run this command when something seems wrong, or before filing a bug report.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("vibe doctor")
	fmt.Println()

	// ── Check 1: vibe directory ───────────────────────────────────────────────
	fmt.Println("[ vibe directory ]")
	vibeDir, err := config.VibeDir()
	if err != nil {
		failD("cannot determine vibe directory: %v", err)
	} else if _, err := os.Stat(vibeDir); os.IsNotExist(err) {
		failD("%s not found — run 'vibe init' first", vibeDir)
	} else {
		printOK("", fmt.Sprintf("exists: %s", vibeDir))
	}
	fmt.Println()

	// ── Check 2: vibe.yaml ────────────────────────────────────────────────────
	fmt.Println("[ vibe.yaml ]")
	cfg, loadErr := config.Load()
	if loadErr != nil {
		failD("cannot load vibe.yaml: %v", loadErr)
	} else {
		printOK("", fmt.Sprintf("valid — seed %d, %d iteration(s), %d worker(s)", cfg.Layout.Seed, cfg.Layout.Iterations, cfg.Layout.Workers))
		if cfg.Layout.Tolerance == 0 {
			printInfo("", "tolerance is 0; every layout runs the full iteration budget")
		}
	}
	fmt.Println()

	// ── Check 3: catalog ──────────────────────────────────────────────────────
	fmt.Println("[ Catalog ]")
	if loadErr == nil {
		cat, err := catalog.Load(cfg.CatalogPath, cfg.Layout.IdealDistance)
		if err != nil {
			failD("%v", err)
		} else {
			printOK("", fmt.Sprintf("%d anchor(s), %d edge(s), %d sub-vibe(s)", cat.Graph.Len(), len(cat.Graph.Edges()), len(cat.SubVibes)))
			if cat.Graph.Pinned() {
				printInfo("", "all anchors pinned; layout will be skipped")
			}
			var unknown int
			for _, d := range cat.SubVibes {
				err := d.Err
				if err == nil {
					err = d.Composition.Validate(cat.Graph.Has)
				}
				if err != nil {
					printWarn(string(d.ID), err.Error())
					unknown++
				}
			}
			if unknown > 0 {
				printWarn("", fmt.Sprintf("%d sub-vibe(s) will be rejected at build", unknown))
			}
		}
	} else {
		printWarn("", "skipped (vibe.yaml not loaded)")
	}
	fmt.Println()

	// ── Check 4: index ────────────────────────────────────────────────────────
	fmt.Println("[ Index ]")
	if loadErr == nil {
		if _, err := os.Stat(cfg.IndexPath); os.IsNotExist(err) {
			printMiss("", fmt.Sprintf("no index at %s (run: vibe build)", cfg.IndexPath))
		} else if snap, err := index.Load(cfg.IndexPath); err != nil {
			failD("index does not load: %v", err)
		} else {
			printOK("", fmt.Sprintf("build %s, %d point(s)", snap.Manifest.BuildID, snap.Index.Len()))
		}
	} else {
		printWarn("", "skipped (vibe.yaml not loaded)")
	}
	fmt.Println()

	if !allOK {
		return fmt.Errorf("one or more checks failed")
	}
	fmt.Println("  All checks passed.")
	return nil
}
