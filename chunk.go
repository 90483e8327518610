package framelabels

import (
	"fmt"

	"github.com/happyhackingspace/framelabels/index"
	"github.com/happyhackingspace/framelabels/sparse"
)

// All labels live in a single chunk.
// TODO: page chunks from disk once label sets outgrow memory; Chunk must
// keep serving Sequence by frame id.
const chunkID = 0

// ChunkDescription describes a retrievable chunk of sequences.
type ChunkDescription struct {
	ID                int
	NumberOfSequences int
	NumberOfSamples   int
}

// Chunk serves the frames of one chunk. It borrows the deserializer's index
// and must not be used after the deserializer is discarded.
type Chunk struct {
	id     int
	onehot materializer
}

// ChunkDescriptions lists the chunks of the label set.
func (d *Deserializer) ChunkDescriptions() []ChunkDescription {
	n := d.index.TotalFrames()
	return []ChunkDescription{{ID: chunkID, NumberOfSequences: n, NumberOfSamples: n}}
}

// Chunk returns the chunk with the given id. Labels are resident for the
// deserializer's lifetime, so acquiring a chunk never blocks.
func (d *Deserializer) Chunk(id int) (*Chunk, error) {
	if id != chunkID {
		return nil, fmt.Errorf("framelabels: chunk %d: %w", id, index.ErrOutOfRange)
	}
	return &Chunk{id: id, onehot: d.onehot}, nil
}

// ID returns the chunk id.
func (c *Chunk) ID() int { return c.id }

// Sequence returns the samples of frame id, one per stream.
func (c *Chunk) Sequence(id int) ([]sparse.Vector, error) {
	f, err := c.onehot.frames.FrameAt(id)
	if err != nil {
		return nil, fmt.Errorf("framelabels: %w", err)
	}
	if f.ChunkID != c.id {
		return nil, fmt.Errorf("framelabels: frame %d belongs to chunk %d, not %d", id, f.ChunkID, c.id)
	}
	v, err := c.onehot.materialize(id)
	if err != nil {
		return nil, fmt.Errorf("framelabels: %w", err)
	}
	return []sparse.Vector{v}, nil
}

// Release is a no-op: the single chunk stays resident.
func (c *Chunk) Release() {}
