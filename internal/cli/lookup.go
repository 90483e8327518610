package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/happyhackingspace/framelabels"
	"github.com/happyhackingspace/framelabels/index"
	"github.com/spf13/cobra"
)

// frameResult is the JSON shape printed by lookup.
type frameResult struct {
	FrameID   int       `json:"frameId"`
	Key       index.Key `json:"key"`
	ClassID   int       `json:"classId"`
	Indices   []int     `json:"indices"`
	Values    []float64 `json:"values"`
	Dimension int       `json:"dimension"`
}

func (c *CLI) newLookupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <key> [frame]",
		Short: "Resolve an utterance frame and print its one-hot label",
		Args:  cobra.RangeArgs(1, 2),
		Example: `  # One frame of an utterance
  framelabels lookup spk1_001 10 --config labels.yaml

  # Every frame of an utterance
  framelabels lookup spk1_001 --config labels.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			d, _, err := c.open(cmd)
			if err != nil {
				return err
			}

			var minors []int
			if len(args) == 2 {
				minor, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("frame offset %q: %w", args[1], err)
				}
				minors = []int{minor}
			} else {
				u, ok := d.Index().Registry().Lookup(key)
				if !ok {
					return fmt.Errorf("%q: %w", key, index.ErrUnknownKey)
				}
				for k := 0; k < u.FrameCount; k++ {
					minors = append(minors, k)
				}
			}

			results := make([]frameResult, 0, len(minors))
			for _, minor := range minors {
				r, err := lookupFrame(d, key, minor)
				if err != nil {
					return err
				}
				results = append(results, r)
			}
			slog.Debug("Lookup completed", "key", key, "frames", len(results))

			var out any = results
			if len(results) == 1 {
				out = results[0]
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	return cmd
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func lookupFrame(d *framelabels.Deserializer, key string, minor int) (frameResult, error) {
	id, err := d.Resolve(key, minor)
	if err != nil {
		return frameResult{}, err
	}
	f, err := d.SequenceByKey(index.Key{Major: key, Minor: minor})
	if err != nil {
		return frameResult{}, err
	}
	v, err := d.Materialize(id)
	if err != nil {
		return frameResult{}, err
	}
	values := make([]float64, v.Nnz())
	for i := range values {
		values[i] = v.Value(i)
	}
	return frameResult{
		FrameID:   id,
		Key:       f.Key,
		ClassID:   v.Indices[0],
		Indices:   v.Indices,
		Values:    values,
		Dimension: v.Dim,
	}, nil
}
