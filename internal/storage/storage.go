// Package storage locates the label files that make up a label set.
package storage

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/happyhackingspace/framelabels/internal/textutil"
)

// Storage resolves label file paths relative to a base folder.
type Storage struct {
	Folder string
}

// NewStorage creates a Storage rooted at folder. An empty folder means the
// working directory.
func NewStorage(folder string) *Storage {
	return &Storage{Folder: folder}
}

// Path returns p resolved against the base folder.
func (s *Storage) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || s.Folder == "" {
		return p
	}
	return filepath.Join(s.Folder, p)
}

// LabelFiles expands patterns (plain paths or globs) and the entries of
// listFile into an ordered, de-duplicated list of label file paths.
func (s *Storage) LabelFiles(patterns []string, listFile string) ([]string, error) {
	var entries []string
	entries = append(entries, patterns...)
	if listFile != "" {
		listed, err := s.ReadList(listFile)
		if err != nil {
			return nil, fmt.Errorf("read label file list: %w", err)
		}
		entries = append(entries, listed...)
	}

	seen := make(map[string]bool)
	var paths []string
	for _, entry := range entries {
		matches, err := s.expand(entry)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if seen[m] {
				slog.Warn("Label file listed twice", "path", m)
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no label files configured")
	}
	return paths, nil
}

func (s *Storage) expand(entry string) ([]string, error) {
	p := s.Path(strings.TrimSpace(entry))
	if !strings.ContainsAny(p, "*?[") {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("label file: %w", err)
		}
		return []string{filepath.Clean(p)}, nil
	}
	matches, err := filepath.Glob(p)
	if err != nil {
		return nil, fmt.Errorf("label file pattern %q: %w", entry, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("label file pattern %q matches no files", entry)
	}
	return matches, nil
}

// ReadList reads a list file with one path per line. Blank lines and lines
// starting with # are skipped.
func (s *Storage) ReadList(path string) ([]string, error) {
	f, err := os.Open(s.Path(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if textutil.IsComment(line) {
			continue
		}
		out = append(out, strings.TrimSpace(line))
	}
	return out, scanner.Err()
}
