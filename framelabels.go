// Package framelabels turns HTK master label files into a frame-level,
// randomly addressable label stream for training sequence models.
//
// Every frame of every utterance becomes its own sequence. A sequence is
// addressed by frame id or by (utterance key, frame offset), and its sample
// is a one-hot sparse vector over the class dimension.
//
//	d, _ := framelabels.Open(ctx, framelabels.Config{
//	    Dimension:  132,
//	    FrameMode:  true,
//	    LabelFiles: []string{"train.mlf"},
//	})
//	id, _ := d.Resolve("spk1_001", 10)
//	v, _ := d.Materialize(id) // v.Indices[0] is the class id
package framelabels

import (
	"context"
	"errors"
	"fmt"

	"github.com/happyhackingspace/framelabels/index"
	"github.com/happyhackingspace/framelabels/mlf"
	"github.com/happyhackingspace/framelabels/sparse"
)

var (
	ErrUnsupportedMode = errors.New("only frame mode is supported")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Config describes one label stream.
type Config struct {
	Name        string
	Dimension   int
	ElementType sparse.ElementType
	// FrameMode must be true.
	FrameMode  bool
	LabelFiles []string
	// LabelMappingFile is a state list mapping label symbols to class ids.
	LabelMappingFile string
	// WordTableFile is accepted but not used.
	WordTableFile string
	// TimeToFrame is the number of HTK time units per frame (default 10ms).
	TimeToFrame float64
	// Concurrency bounds parallel label file parsing in Open.
	Concurrency int
}

// DefaultConfig returns a Config with the defaults of the label reader.
func DefaultConfig() Config {
	return Config{
		Name:        "labels",
		ElementType: sparse.Float32,
		FrameMode:   true,
		TimeToFrame: mlf.DefaultTimeToFrame,
		Concurrency: 4,
	}
}

func (c Config) validate() error {
	if !c.FrameMode {
		return ErrUnsupportedMode
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, c.Dimension)
	}
	if c.ElementType != sparse.Float32 && c.ElementType != sparse.Float64 {
		return fmt.Errorf("%w: element type %v", ErrInvalidConfig, c.ElementType)
	}
	return nil
}

// Deserializer owns the frame index of a label set and serves its frames as
// sequences of a single chunk.
type Deserializer struct {
	index   *index.Index
	streams []StreamDescription
	onehot  materializer
}

// Open reads the configured label files and builds a Deserializer.
func Open(ctx context.Context, cfg Config) (*Deserializer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("framelabels: %w", err)
	}
	if len(cfg.LabelFiles) == 0 {
		return nil, fmt.Errorf("framelabels: %w: no label files", ErrInvalidConfig)
	}

	opts := mlf.DefaultOptions()
	if cfg.TimeToFrame > 0 {
		opts.TimeToFrame = cfg.TimeToFrame
	}
	if cfg.Concurrency > 0 {
		opts.Concurrency = cfg.Concurrency
	}
	if cfg.LabelMappingFile != "" {
		states, err := mlf.LoadStateList(cfg.LabelMappingFile)
		if err != nil {
			return nil, fmt.Errorf("framelabels: label mapping: %w", err)
		}
		opts.States = states
	}

	utterances, err := mlf.ReadFiles(ctx, cfg.LabelFiles, opts)
	if err != nil {
		return nil, fmt.Errorf("framelabels: %w", err)
	}
	return New(cfg, utterances)
}

// New builds a Deserializer from utterances already read from label files.
// Only Name, Dimension, ElementType and FrameMode of cfg are used.
func New(cfg Config, utterances []index.LabeledUtterance) (*Deserializer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("framelabels: %w", err)
	}
	x, err := index.Build(utterances, cfg.Dimension)
	if err != nil {
		return nil, fmt.Errorf("framelabels: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "labels"
	}
	return &Deserializer{
		index: x,
		streams: []StreamDescription{{
			ID:          0,
			Name:        name,
			Dimension:   cfg.Dimension,
			Storage:     SparseCSC,
			ElementType: cfg.ElementType,
		}},
		onehot: materializer{frames: x, dim: cfg.Dimension, elem: cfg.ElementType},
	}, nil
}

// Index returns the underlying frame index.
func (d *Deserializer) Index() *index.Index { return d.index }

// SequenceDescriptions returns one descriptor per frame, ordered by id.
// Callers must not modify the slice.
func (d *Deserializer) SequenceDescriptions() []index.Frame {
	return d.index.Frames()
}

// Utterances returns the utterance-level descriptors in ingestion order.
func (d *Deserializer) Utterances() []index.Utterance {
	return d.index.Utterances()
}

// StreamDescriptions describes the single label stream.
func (d *Deserializer) StreamDescriptions() []StreamDescription {
	return append([]StreamDescription(nil), d.streams...)
}

// Resolve maps an utterance key and frame offset to a frame id.
func (d *Deserializer) Resolve(major string, minor int) (int, error) {
	id, err := d.index.Resolve(major, minor)
	if err != nil {
		return 0, fmt.Errorf("framelabels: %w", err)
	}
	return id, nil
}

// SequenceByKey returns the frame descriptor addressed by key.
func (d *Deserializer) SequenceByKey(key index.Key) (index.Frame, error) {
	f, err := d.index.FrameByKey(key)
	if err != nil {
		return index.Frame{}, fmt.Errorf("framelabels: %w", err)
	}
	return f, nil
}

// Materialize returns the one-hot label vector of frame id.
func (d *Deserializer) Materialize(id int) (sparse.Vector, error) {
	v, err := d.onehot.materialize(id)
	if err != nil {
		return sparse.Vector{}, fmt.Errorf("framelabels: %w", err)
	}
	return v, nil
}

// Stats summarizes the label set.
type Stats struct {
	Utterances  int
	Frames      int
	ClassCounts []int // frames per class id
}

// Stats returns utterance and frame counts and the class histogram.
func (d *Deserializer) Stats() Stats {
	return Stats{
		Utterances:  d.index.Registry().Len(),
		Frames:      d.index.TotalFrames(),
		ClassCounts: d.index.ClassCounts(),
	}
}
