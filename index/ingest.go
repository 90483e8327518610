package index

import (
	"fmt"
	"log/slog"
	"math"
)

// MaxFrames bounds the number of frames in one index.
const MaxFrames = math.MaxInt32

// Segment is a run of frames sharing one class id.
type Segment struct {
	FirstFrame int
	NumFrames  int
	ClassID    int
}

// LabeledUtterance is one utterance as delivered by a label file reader.
type LabeledUtterance struct {
	Key      string
	Source   string
	Segments []Segment
}

// Build validates and flattens utterances, in order, into an Index.
// The first invalid utterance aborts the build; no partial index is returned.
func Build(utterances []LabeledUtterance, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}

	// Every utterance is validated before anything is allocated.
	total := 0
	seen := make(map[string]bool, len(utterances))
	for _, u := range utterances {
		n, err := validateSegments(u.Segments, dimension)
		if err != nil {
			err.Source = u.Source
			err.Key = u.Key
			return nil, err
		}
		if seen[u.Key] {
			return nil, &IngestError{Source: u.Source, Key: u.Key, Segment: -1, Err: ErrDuplicateKey}
		}
		seen[u.Key] = true
		if n > MaxFrames-total {
			return nil, &IngestError{Source: u.Source, Key: u.Key, Segment: -1,
				Err: fmt.Errorf("%w: label set exceeds %d frames", ErrOutOfRange, MaxFrames)}
		}
		total += n
	}

	x := &Index{
		dimension: dimension,
		classIDs:  make([]ClassID, 0, total),
		frames:    make([]Frame, 0, total),
		registry:  newRegistry(),
	}
	for _, u := range utterances {
		x.ingest(u)
	}

	slog.Debug("Label index built", "utterances", x.registry.Len(), "frames", len(x.frames), "dimension", dimension)
	return x, nil
}

// ingest appends an utterance that has already been validated.
func (x *Index) ingest(u LabeledUtterance) {
	offset := len(x.classIDs)
	for _, s := range u.Segments {
		for n := 0; n < s.NumFrames; n++ {
			x.classIDs = append(x.classIDs, ClassID(s.ClassID))
		}
	}
	count := len(x.classIDs) - offset

	x.registry.add(Utterance{Key: u.Key, FrameOffset: offset, FrameCount: count})
	for k := 0; k < count; k++ {
		x.frames = append(x.frames, Frame{
			ID:      len(x.frames),
			ChunkID: 0,
			Key:     Key{Major: u.Key, Minor: k},
			Index:   offset + k,
		})
	}
}

// validateSegments checks a segment list and returns its frame count.
func validateSegments(segments []Segment, dimension int) (int, *IngestError) {
	expected := 0
	for i, s := range segments {
		if s.FirstFrame != expected {
			return 0, &IngestError{Segment: i, Err: fmt.Errorf("%w: segment starts at frame %d, expected %d",
				ErrSequencing, s.FirstFrame, expected)}
		}
		if s.NumFrames < 0 {
			return 0, &IngestError{Segment: i, Err: fmt.Errorf("%w: negative frame count %d",
				ErrSequencing, s.NumFrames)}
		}
		if s.NumFrames > MaxFrames-expected {
			return 0, &IngestError{Segment: i, Err: fmt.Errorf("%w: segment ends past frame %d",
				ErrSequencing, MaxFrames)}
		}
		if s.ClassID < 0 || s.ClassID >= dimension {
			return 0, &IngestError{Segment: i, Err: fmt.Errorf("%w: class id %d, dimension %d",
				ErrClassRange, s.ClassID, dimension)}
		}
		if s.ClassID > MaxClassID {
			return 0, &IngestError{Segment: i, Err: fmt.Errorf("%w: class id %d, max %d",
				ErrPrecision, s.ClassID, MaxClassID)}
		}
		expected += s.NumFrames
	}
	return expected, nil
}
