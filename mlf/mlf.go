// Package mlf reads HTK master label files into per-utterance label segments.
//
// An MLF holds any number of entries:
//
//	#!MLF!#
//	"*/spk1_001.lab"
//	0 300000 sil
//	300000 700000 ah_s2
//	.
//
// Times are in HTK units of 100ns and are converted to frames with
// Options.TimeToFrame. Labels are mapped to class ids with a state list, or
// read as integers when no state list is configured.
package mlf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/happyhackingspace/framelabels/index"
	"github.com/happyhackingspace/framelabels/internal/textutil"
)

const (
	header     = "#!MLF!#"
	terminator = "."

	// DefaultTimeToFrame is 10ms frames expressed in HTK time units.
	DefaultTimeToFrame = 100000.0
)

var (
	ErrSyntax       = errors.New("syntax error")
	ErrUnknownLabel = errors.New("label not in state list")
)

// ParseError locates a reader error in a label file.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Options controls how label lines are converted.
type Options struct {
	// TimeToFrame is the number of HTK time units per frame.
	TimeToFrame float64
	// States maps label symbols to class ids. When nil, labels must be
	// non-negative integers.
	States *StateList
	// Concurrency bounds how many files ReadFiles parses at once.
	Concurrency int
}

// DefaultOptions returns options for 10ms frames and integer labels.
func DefaultOptions() Options {
	return Options{TimeToFrame: DefaultTimeToFrame, Concurrency: 4}
}

// Parse reads all entries of one MLF. name is used as the Source of each
// utterance and in error messages.
func Parse(r io.Reader, name string, opts Options) ([]index.LabeledUtterance, error) {
	if opts.TimeToFrame <= 0 {
		opts.TimeToFrame = DefaultTimeToFrame
	}

	var (
		out     []index.LabeledUtterance
		current *index.LabeledUtterance
		seen    = make(map[string]int)
		lineNo  int
	)
	fail := func(err error) error {
		return &ParseError{File: name, Line: lineNo, Err: err}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := textutil.NormalizeWhitespaces(strings.ReplaceAll(scanner.Text(), "\t", " "))
		if line == "" {
			continue
		}
		if current == nil {
			if line == header {
				continue
			}
			if !strings.HasPrefix(line, `"`) {
				return nil, fail(fmt.Errorf("%w: expected quoted entry name, got %q", ErrSyntax, line))
			}
			key := textutil.UtteranceKey(line)
			if key == "" {
				return nil, fail(fmt.Errorf("%w: empty entry name", ErrSyntax))
			}
			if prev, ok := seen[key]; ok {
				return nil, fail(fmt.Errorf("%q already defined on line %d: %w", key, prev, index.ErrDuplicateKey))
			}
			seen[key] = lineNo
			current = &index.LabeledUtterance{Key: key, Source: name}
			continue
		}

		if line == terminator {
			out = append(out, *current)
			current = nil
			continue
		}

		seg, err := parseSegment(line, opts)
		if err != nil {
			return nil, fail(err)
		}
		current.Segments = append(current.Segments, seg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fail(err)
	}
	if current != nil {
		return nil, fail(fmt.Errorf("%w: entry %q is not terminated", ErrSyntax, current.Key))
	}
	return out, nil
}

func parseSegment(line string, opts Options) (index.Segment, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return index.Segment{}, fmt.Errorf("%w: expected \"start end label\", got %q", ErrSyntax, line)
	}
	start, err := parseTime(fields[0])
	if err != nil {
		return index.Segment{}, err
	}
	end, err := parseTime(fields[1])
	if err != nil {
		return index.Segment{}, err
	}
	if end < start {
		return index.Segment{}, fmt.Errorf("%w: end time %v before start time %v", ErrSyntax, end, start)
	}

	first, err := toFrame(start, opts.TimeToFrame)
	if err != nil {
		return index.Segment{}, err
	}
	last, err := toFrame(end, opts.TimeToFrame)
	if err != nil {
		return index.Segment{}, err
	}
	classID, err := classID(fields[2], opts.States)
	if err != nil {
		return index.Segment{}, err
	}
	return index.Segment{
		FirstFrame: first,
		NumFrames:  last - first,
		ClassID:    classID,
	}, nil
}

func parseTime(s string) (float64, error) {
	t, err := strconv.ParseFloat(s, 64)
	if err != nil || t < 0 || math.IsInf(t, 0) || math.IsNaN(t) {
		return 0, fmt.Errorf("%w: invalid time %q", ErrSyntax, s)
	}
	return t, nil
}

func toFrame(t, timeToFrame float64) (int, error) {
	f := math.Round(t / timeToFrame)
	if f > index.MaxFrames {
		return 0, fmt.Errorf("%w: time %v is past frame %d", ErrSyntax, t, index.MaxFrames)
	}
	return int(f), nil
}

func classID(label string, states *StateList) (int, error) {
	if states != nil {
		id, ok := states.ID(label)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
		}
		return id, nil
	}
	id, err := strconv.Atoi(label)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: label %q is not a class id and no state list is configured", ErrSyntax, label)
	}
	return id, nil
}
