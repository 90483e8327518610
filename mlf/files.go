package mlf

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/happyhackingspace/framelabels/index"
)

// ReadFiles parses paths concurrently and returns their utterances in path
// order, then entry order. Keys must be unique across all files.
func ReadFiles(ctx context.Context, paths []string, opts Options) ([]index.LabeledUtterance, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([][]index.LabeledUtterance, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			utts, err := readFile(path, opts)
			if err != nil {
				return err
			}
			results[i] = utts
			slog.Debug("Label file parsed", "path", path, "utterances", len(utts))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]index.LabeledUtterance, 0, total)
	owner := make(map[string]string, total)
	for _, r := range results {
		for _, u := range r {
			if prev, ok := owner[u.Key]; ok {
				return nil, fmt.Errorf("%s: %q already defined in %s: %w", u.Source, u.Key, prev, index.ErrDuplicateKey)
			}
			owner[u.Key] = u.Source
			out = append(out, u)
		}
	}
	return out, nil
}

func readFile(path string, opts Options) ([]index.LabeledUtterance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f, path, opts)
}
