package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/happyhackingspace/framelabels"
	"github.com/happyhackingspace/framelabels/index"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// catalog is the utterance table written by dump.
type catalog struct {
	Stream      string            `json:"stream" yaml:"stream"`
	Dimension   int               `json:"dimension" yaml:"dimension"`
	ElementType string            `json:"elementType" yaml:"elementType"`
	Storage     string            `json:"storage" yaml:"storage"`
	Frames      int               `json:"frames" yaml:"frames"`
	Utterances  []index.Utterance `json:"utterances" yaml:"utterances"`
}

func (c *CLI) newDumpCommand() *cobra.Command {
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the utterance catalog (key, frame offset, frame count)",
		Example: `  framelabels dump --config labels.yaml
  framelabels dump --config labels.yaml --format json -o catalog.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := c.open(cmd)
			if err != nil {
				return err
			}

			w := io.Writer(os.Stdout)
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := writeCatalog(w, newCatalog(d), format); err != nil {
				return err
			}
			if outPath != "" {
				slog.Info("Catalog written", "path", outPath, "utterances", len(d.Utterances()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newCatalog(d *framelabels.Deserializer) catalog {
	stream := d.StreamDescriptions()[0]
	return catalog{
		Stream:      stream.Name,
		Dimension:   stream.Dimension,
		ElementType: stream.ElementType.String(),
		Storage:     stream.Storage.String(),
		Frames:      d.Index().TotalFrames(),
		Utterances:  d.Utterances(),
	}
}

func writeCatalog(w io.Writer, cat catalog, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}
	return fmt.Errorf("unknown format %q", format)
}
