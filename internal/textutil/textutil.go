// Package textutil provides text helpers shared by the label file readers.
package textutil

import (
	"path"
	"regexp"
	"strings"
)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// NormalizeWhitespaces collapses runs of whitespace to a single space and
// trims both ends.
func NormalizeWhitespaces(text string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(text, " "))
}

// Unquote strips one pair of surrounding double quotes, if present.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// UtteranceKey derives an utterance key from an MLF entry name such as
// "*/spk1_001.lab" or "/data/spk1_001.rec": directories, wildcard prefixes
// and the extension are removed.
func UtteranceKey(name string) string {
	name = strings.ReplaceAll(Unquote(name), `\`, "/")
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// IsComment reports whether a list-file line should be skipped.
func IsComment(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || strings.HasPrefix(line, "#")
}
