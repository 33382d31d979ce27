package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/vibe-cli/internal/catalog"
	"github.com/kamusis/vibe-cli/internal/vibe"
)

var (
	flagRouteWeights []string
	flagRouteStdin   bool
	flagRouteK       int
	flagRouteExclude []string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Route an anchor composition to the nearest sub-vibe",
	Long: `Embed a weighted blend of anchors on the manifold and print the nearest
indexed sub-vibe.

  vibe route --weight calm=0.6 --weight cozy=0.4
  echo '{"calm": 0.6, "cozy": 0.4}' | vibe route --stdin --k 3

Weights must lie in [0, 1] and are normalised by their sum.`,
	Args: cobra.NoArgs,
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().StringArrayVarP(&flagRouteWeights, "weight", "w", nil, "Anchor weight as id=value (repeatable)")
	routeCmd.Flags().BoolVar(&flagRouteStdin, "stdin", false, "Read a YAML/JSON map of anchor id to weight from stdin")
	routeCmd.Flags().IntVar(&flagRouteK, "k", 1, "Number of sub-vibes to show")
	routeCmd.Flags().StringSliceVar(&flagRouteExclude, "exclude", nil, "Sub-vibe ids to skip")
	routeCmd.MarkFlagsMutuallyExclusive("weight", "stdin")
	routeCmd.MarkFlagsOneRequired("weight", "stdin")
	rootCmd.AddCommand(routeCmd)
}

func runRoute(c *cobra.Command, _ []string) error {
	var comp vibe.Composition
	var err error
	if flagRouteStdin {
		comp, err = catalog.DecodeWeights(c.InOrStdin())
	} else {
		comp, err = parseWeightFlags(flagRouteWeights)
	}
	if err != nil {
		return err
	}
	exclude, err := parseIDs(flagRouteExclude)
	if err != nil {
		return err
	}

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

	res, err := p.route(context.Background(), snap, comp, flagRouteK, exclude)
	if err != nil {
		return err
	}

	best := res.Matches[0]
	dom, _ := comp.Dominant()
	fmt.Printf("target  (%.2f, %.2f)  dominant %s\n", res.Target.X, res.Target.Y, dom)
	fmt.Printf("nearest %s  distance %.3f\n", best.ID, best.Distance)
	if len(res.Matches) > 1 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for i, m := range res.Matches {
			pt, _ := snap.Index.Get(m.ID)
			fmt.Fprintf(w, "  %d.\t%s\t%.3f\t%s\n", i+1, m.ID, m.Distance, pt.Description)
		}
		_ = w.Flush()
	}
	return nil
}

// parseWeightFlags turns repeated id=value flags into a Composition.
func parseWeightFlags(args []string) (vibe.Composition, error) {
	raw := make(map[string]float64, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("%w: weight %q must be id=value", vibe.ErrInvalidComposition, a)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: weight %q: %v", vibe.ErrInvalidComposition, a, err)
		}
		k = strings.TrimSpace(k)
		if _, dup := raw[k]; dup {
			return nil, fmt.Errorf("%w: anchor %q given twice", vibe.ErrInvalidComposition, k)
		}
		raw[k] = w
	}
	return catalog.ParseWeights(raw)
}

func parseIDs(ss []string) ([]vibe.ID, error) {
	out := make([]vibe.ID, 0, len(ss))
	for _, s := range ss {
		id, err := vibe.ParseID(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
