package cli

import (
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/framelabels/mlf"
	"github.com/spf13/cobra"
)

func (c *CLI) newInspectCommand() *cobra.Command {
	var showClasses bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate label files and print index statistics",
		Example: `  framelabels inspect --config labels.yaml
  framelabels inspect --mlf train.mlf --dimension 132 --classes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, cfg, err := c.open(cmd)
			if err != nil {
				return err
			}
			stats := d.Stats()
			fmt.Printf("Label files: %d\n", len(cfg.LabelFiles))
			fmt.Printf("Utterances:  %d\n", stats.Utterances)
			fmt.Printf("Frames:      %d\n", stats.Frames)
			used := 0
			for _, n := range stats.ClassCounts {
				if n > 0 {
					used++
				}
			}
			fmt.Printf("Classes:     %d/%d used\n", used, len(stats.ClassCounts))

			if !showClasses {
				return nil
			}
			var states *mlf.StateList
			if cfg.LabelMappingFile != "" {
				states, err = mlf.LoadStateList(cfg.LabelMappingFile)
				if err != nil {
					slog.Warn("Cannot read label mapping", "path", cfg.LabelMappingFile, "error", err)
				}
			}
			printClassHistogram(stats.ClassCounts, stats.Frames, states)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showClasses, "classes", false, "Print per-class frame counts")
	return cmd
}

func printClassHistogram(counts []int, total int, states *mlf.StateList) {
	fmt.Printf("\nPer-class frames:\n")
	fmt.Printf("%6s  %12s  %9s  %6s\n", "class", "symbol", "frames", "share")
	for id, n := range counts {
		if n == 0 {
			continue
		}
		sym := "."
		if states != nil {
			if s := states.Symbol(id); s != "" {
				sym = s
			}
		}
		share := 0.0
		if total > 0 {
			share = float64(n) / float64(total) * 100
		}
		fmt.Printf("%6d  %12s  %9d  %5.1f%%\n", id, sym, n, share)
	}
}
