package framelabels

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/happyhackingspace/framelabels/index"
	"github.com/happyhackingspace/framelabels/sparse"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Dimension = 10
	return cfg
}

func utt1() []index.LabeledUtterance {
	return []index.LabeledUtterance{{Key: "utt1", Segments: []index.Segment{
		{FirstFrame: 0, NumFrames: 2, ClassID: 3},
		{FirstFrame: 2, NumFrames: 1, ClassID: 5},
	}}}
}

func mustNew(t *testing.T, cfg Config, utts []index.LabeledUtterance) *Deserializer {
	t.Helper()
	d, err := New(cfg, utts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestScenario(t *testing.T) {
	d := mustNew(t, testConfig(), utt1())

	if got := d.Utterances()[0].FrameCount; got != 3 {
		t.Fatalf("FrameCount = %d, want 3", got)
	}
	if id, err := d.Resolve("utt1", 0); err != nil || id != 0 {
		t.Errorf("Resolve(utt1, 0) = %d, %v; want 0", id, err)
	}
	if id, err := d.Resolve("utt1", 2); err != nil || id != 2 {
		t.Errorf("Resolve(utt1, 2) = %d, %v; want 2", id, err)
	}

	v, err := d.Materialize(2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Indices, []int{5}) || v.Dim != 10 || v.Value(0) != 1 {
		t.Errorf("Materialize(2) = %+v, want one-hot at 5", v)
	}
}

func TestMaterializeEveryFrame(t *testing.T) {
	for _, et := range []sparse.ElementType{sparse.Float32, sparse.Float64} {
		cfg := testConfig()
		cfg.ElementType = et
		d := mustNew(t, cfg, utt1())

		for _, f := range d.SequenceDescriptions() {
			v, err := d.Materialize(f.ID)
			if err != nil {
				t.Fatal(err)
			}
			classID, _ := d.Index().ClassIDAt(f.ID)
			if v.Nnz() != 1 || v.Indices[0] != classID || v.Value(0) != 1 {
				t.Errorf("%v frame %d: got %+v, want one-hot at %d", et, f.ID, v, classID)
			}
			if v.Type != et {
				t.Errorf("%v frame %d: element type %v", et, f.ID, v.Type)
			}
			again, _ := d.Materialize(f.ID)
			if !v.Equal(again) {
				t.Errorf("%v frame %d: repeated materialize differs", et, f.ID)
			}
		}
	}
}

func TestMaterializeOutOfRange(t *testing.T) {
	d := mustNew(t, testConfig(), utt1())
	if _, err := d.Materialize(3); !errors.Is(err, index.ErrOutOfRange) {
		t.Errorf("Materialize(3) error = %v, want ErrOutOfRange", err)
	}
	if _, err := d.Materialize(0); err != nil {
		t.Errorf("Materialize(0) after failure: %v", err)
	}
}

func TestResolveErrors(t *testing.T) {
	d := mustNew(t, testConfig(), utt1())
	if _, err := d.Resolve("utt1", 3); !errors.Is(err, index.ErrOutOfRange) {
		t.Errorf("Resolve(utt1, 3) error = %v, want ErrOutOfRange", err)
	}
	if _, err := d.Resolve("utt9", 0); !errors.Is(err, index.ErrUnknownKey) {
		t.Errorf("Resolve(utt9, 0) error = %v, want ErrUnknownKey", err)
	}
	f, err := d.SequenceByKey(index.Key{Major: "utt1", Minor: 1})
	if err != nil || f.ID != 1 || f.Index != 1 {
		t.Errorf("SequenceByKey(utt1[1]) = %+v, %v", f, err)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  func() Config
		utts []index.LabeledUtterance
		want error
	}{
		{"utterance mode", func() Config { c := testConfig(); c.FrameMode = false; return c }, utt1(), ErrUnsupportedMode},
		{"zero dimension", func() Config { c := testConfig(); c.Dimension = 0; return c }, utt1(), ErrInvalidConfig},
		{"bad element type", func() Config { c := testConfig(); c.ElementType = 7; return c }, utt1(), ErrInvalidConfig},
		{
			"not starting at zero", testConfig,
			[]index.LabeledUtterance{{Key: "u", Segments: []index.Segment{{FirstFrame: 1, NumFrames: 1}}}},
			index.ErrSequencing,
		},
		{
			"class equals dimension", testConfig,
			[]index.LabeledUtterance{{Key: "u", Segments: []index.Segment{{FirstFrame: 0, NumFrames: 1, ClassID: 10}}}},
			index.ErrClassRange,
		},
	}
	for _, tt := range tests {
		d, err := New(tt.cfg(), tt.utts)
		if d != nil || !errors.Is(err, tt.want) {
			t.Errorf("%s: New = %v, %v; want %v", tt.name, d, err, tt.want)
		}
	}
}

func TestStreamDescriptions(t *testing.T) {
	cfg := testConfig()
	cfg.Name = "senones"
	cfg.ElementType = sparse.Float64
	d := mustNew(t, cfg, utt1())

	want := []StreamDescription{{ID: 0, Name: "senones", Dimension: 10, Storage: SparseCSC, ElementType: sparse.Float64}}
	if got := d.StreamDescriptions(); !reflect.DeepEqual(got, want) {
		t.Errorf("StreamDescriptions = %+v, want %+v", got, want)
	}
	if SparseCSC.String() != "sparse_csc" {
		t.Errorf("SparseCSC.String() = %q", SparseCSC.String())
	}
}

func TestChunk(t *testing.T) {
	d := mustNew(t, testConfig(), utt1())

	want := []ChunkDescription{{ID: 0, NumberOfSequences: 3, NumberOfSamples: 3}}
	if got := d.ChunkDescriptions(); !reflect.DeepEqual(got, want) {
		t.Errorf("ChunkDescriptions = %+v, want %+v", got, want)
	}
	if _, err := d.Chunk(1); err == nil {
		t.Error("expected error for chunk 1")
	}

	c, err := d.Chunk(0)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	samples, err := c.Sequence(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || samples[0].Indices[0] != 3 {
		t.Errorf("Sequence(1) = %+v, want one stream with class 3", samples)
	}
	if _, err := c.Sequence(3); !errors.Is(err, index.ErrOutOfRange) {
		t.Errorf("Sequence(3) error = %v, want ErrOutOfRange", err)
	}
}

func TestStats(t *testing.T) {
	d := mustNew(t, testConfig(), utt1())
	s := d.Stats()
	if s.Utterances != 1 || s.Frames != 3 {
		t.Errorf("Stats = %+v", s)
	}
	if s.ClassCounts[3] != 2 || s.ClassCounts[5] != 1 {
		t.Errorf("ClassCounts = %v", s.ClassCounts)
	}
}

func TestConcurrentMaterialize(t *testing.T) {
	d := mustNew(t, testConfig(), utt1())
	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := 0; id < 3; id++ {
				if _, err := d.Materialize(id); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	mlfPath := filepath.Join(dir, "train.mlf")
	content := "#!MLF!#\n\"*/utt1.lab\"\n0 200000 sil\n200000 300000 ah\n.\n"
	if err := os.WriteFile(mlfPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	statesPath := filepath.Join(dir, "states.list")
	if err := os.WriteFile(statesPath, []byte("sil\nah\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Dimension = 2
	cfg.LabelFiles = []string{mlfPath}
	cfg.LabelMappingFile = statesPath
	d, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if d.Index().TotalFrames() != 3 {
		t.Fatalf("TotalFrames = %d, want 3", d.Index().TotalFrames())
	}
	v, err := d.Materialize(2)
	if err != nil || v.Indices[0] != 1 {
		t.Errorf("Materialize(2) = %+v, %v; want class 1", v, err)
	}

	cfg.Dimension = 1
	if _, err := Open(context.Background(), cfg); !errors.Is(err, index.ErrClassRange) {
		t.Errorf("Open with small dimension error = %v, want ErrClassRange", err)
	}

	cfg.LabelFiles = nil
	if _, err := Open(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Open without files error = %v, want ErrInvalidConfig", err)
	}
}
