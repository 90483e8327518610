// Package index flattens per-utterance label segments into a frame-level
// class id table and answers lookups by frame id or by utterance key.
//
// An Index is immutable once Build returns, so all read methods are safe for
// concurrent use without locking.
package index

import (
	"fmt"
	"math"
)

// ClassID is the narrow storage type of per-frame class ids.
type ClassID = uint16

// MaxClassID is the largest class id representable in ClassID.
const MaxClassID = math.MaxUint16

// Key identifies a sequence: Major is the utterance key, Minor the frame
// offset within it.
type Key struct {
	Major string `json:"major" yaml:"major"`
	Minor int    `json:"minor" yaml:"minor"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s[%d]", k.Major, k.Minor)
}

// Sequence is implemented by both sequence granularities: a whole utterance
// and a single frame.
type Sequence interface {
	SequenceKey() Key
	NumberOfSamples() int
	IsValid() bool
}

// Frame describes one frame. It is the sequence unit exposed to consumers.
type Frame struct {
	ID      int // position in the frame table and external sequence id
	ChunkID int
	Key     Key
	Index   int // position in the global class id table
}

func (f Frame) SequenceKey() Key     { return f.Key }
func (f Frame) NumberOfSamples() int { return 1 }
func (f Frame) IsValid() bool        { return true }

// Utterance is a row of the utterance offset table.
type Utterance struct {
	Key         string `json:"key" yaml:"key"`
	FrameOffset int    `json:"frameOffset" yaml:"frameOffset"`
	FrameCount  int    `json:"frameCount" yaml:"frameCount"`
}

func (u Utterance) SequenceKey() Key     { return Key{Major: u.Key} }
func (u Utterance) NumberOfSamples() int { return u.FrameCount }
func (u Utterance) IsValid() bool        { return true }

// Index is the frame index and key registry built from a label set.
type Index struct {
	dimension int
	classIDs  []ClassID
	frames    []Frame
	registry  *Registry
}

// Dimension returns the class dimension the index was validated against.
func (x *Index) Dimension() int { return x.dimension }

// TotalFrames returns the number of frames across all utterances.
func (x *Index) TotalFrames() int { return len(x.frames) }

// FrameAt returns the descriptor of frame id.
func (x *Index) FrameAt(id int) (Frame, error) {
	if id < 0 || id >= len(x.frames) {
		return Frame{}, fmt.Errorf("frame %d of %d: %w", id, len(x.frames), ErrOutOfRange)
	}
	return x.frames[id], nil
}

// ClassIDAt returns the class id of frame id.
func (x *Index) ClassIDAt(id int) (int, error) {
	f, err := x.FrameAt(id)
	if err != nil {
		return 0, err
	}
	return int(x.classIDs[f.Index]), nil
}

// Frames returns the frame descriptor table. Callers must not modify it.
func (x *Index) Frames() []Frame { return x.frames }

// Utterances returns the utterance offset table in ingestion order.
// Callers must not modify it.
func (x *Index) Utterances() []Utterance { return x.registry.rows }

// Registry returns the key registry.
func (x *Index) Registry() *Registry { return x.registry }

// Resolve maps (major, minor) to a frame id.
func (x *Index) Resolve(major string, minor int) (int, error) {
	return x.registry.Resolve(major, minor)
}

// FrameByKey returns the descriptor of the frame addressed by key.
func (x *Index) FrameByKey(key Key) (Frame, error) {
	id, err := x.registry.Resolve(key.Major, key.Minor)
	if err != nil {
		return Frame{}, err
	}
	return x.FrameAt(id)
}

// ClassCounts returns the number of frames labeled with each class id,
// indexed by class id.
func (x *Index) ClassCounts() []int {
	counts := make([]int, x.dimension)
	for _, c := range x.classIDs {
		counts[c]++
	}
	return counts
}
