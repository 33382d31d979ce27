package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/vibe-cli/internal/catalog"
	"github.com/kamusis/vibe-cli/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.vibe with a default config and a sample catalog",
	Long: `Initialize the vibe directory (~/.vibe, or $VIBE_HOME).

Writes vibe.yaml, a commented .env template and a starter catalog of
anchors and sub-vibes. Existing files are never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var flagInitNoSample bool

func init() {
	initCmd.Flags().BoolVar(&flagInitNoSample, "no-sample", false, "Do not write the sample catalog")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve ~/.vibe directory ──────────────────────────────────────────
	vibeDir, err := config.VibeDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(vibeDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", vibeDir, err)
	}
	printOK("", fmt.Sprintf("Vibe directory ready: %s", vibeDir))

	// ── 2. Write vibe.yaml if missing ─────────────────────────────────────────
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}

	// ── 3. Load final config ──────────────────────────────────────────────────
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// ── 4. Sample catalog ─────────────────────────────────────────────────────
	if flagInitNoSample {
		printSkip("", "sample catalog not requested")
	} else {
		created, err := catalog.WriteSample(cfg.CatalogPath)
		if err != nil {
			return err
		}
		if len(created) == 0 {
			printSkip("", fmt.Sprintf("Catalog already exists: %s", cfg.CatalogPath))
		}
		for _, p := range created {
			printOK("", fmt.Sprintf("Sample written: %s", p))
		}
	}

	fmt.Println("\nNext: run 'vibe build' to lay out the anchors and index the sub-vibes.")
	return nil
}
