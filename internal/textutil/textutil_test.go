package textutil

import "testing"

func TestNormalizeWhitespaces(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0 100000 sil", "0 100000 sil"},
		{"  0\t\t100000   sil  ", "0 100000 sil"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeWhitespaces(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeWhitespaces(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"*/a.lab"`, "*/a.lab"},
		{`  "x"  `, "x"},
		{`"`, `"`},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Unquote(tt.input); got != tt.want {
			t.Errorf("Unquote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUtteranceKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"*/spk1_001.lab"`, "spk1_001"},
		{`"/data/train/spk1_002.rec"`, "spk1_002"},
		{`"spk1_003"`, "spk1_003"},
		{`"C:\corpus\spk1_004.lab"`, "spk1_004"},
		{`"*/a.b.lab"`, "a.b"},
		{`".hidden"`, ".hidden"},
		{`""`, ""},
	}
	for _, tt := range tests {
		if got := UtteranceKey(tt.input); got != tt.want {
			t.Errorf("UtteranceKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsComment(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"# comment", true},
		{"train.mlf", false},
	}
	for _, tt := range tests {
		if got := IsComment(tt.input); got != tt.want {
			t.Errorf("IsComment(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
