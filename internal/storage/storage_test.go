package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("#!MLF!#\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPath(t *testing.T) {
	s := NewStorage("/data")
	tests := []struct {
		in   string
		want string
	}{
		{"train.mlf", "/data/train.mlf"},
		{"/abs/train.mlf", "/abs/train.mlf"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := s.Path(tt.in); got != tt.want {
			t.Errorf("Path(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := NewStorage("").Path("x.mlf"); got != "x.mlf" {
		t.Errorf("Path without folder = %q, want x.mlf", got)
	}
}

func TestLabelFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mlf", "parts/p1.mlf", "parts/p2.mlf", "extra.mlf")
	list := "# label files\nextra.mlf\n\na.mlf\n"
	if err := os.WriteFile(filepath.Join(dir, "mlfs.list"), []byte(list), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStorage(dir)
	got, err := s.LabelFiles([]string{"a.mlf", "parts/*.mlf"}, "mlfs.list")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.mlf"),
		filepath.Join(dir, "parts/p1.mlf"),
		filepath.Join(dir, "parts/p2.mlf"),
		filepath.Join(dir, "extra.mlf"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LabelFiles = %v, want %v", got, want)
	}
}

func TestLabelFilesErrors(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mlf")
	s := NewStorage(dir)

	tests := []struct {
		name     string
		patterns []string
		list     string
	}{
		{"nothing configured", nil, ""},
		{"missing file", []string{"missing.mlf"}, ""},
		{"empty glob", []string{"*.txt"}, ""},
		{"missing list", []string{"a.mlf"}, "missing.list"},
	}
	for _, tt := range tests {
		if _, err := s.LabelFiles(tt.patterns, tt.list); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
