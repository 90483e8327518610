package mlf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// StateList maps label symbols to class ids by line position.
type StateList struct {
	ids     map[string]int
	symbols []string
}

// LoadStateList reads a state list file, one symbol per line.
func LoadStateList(path string) (*StateList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseStateList(f, path)
}

// ParseStateList reads symbols, one per line; blank lines are ignored and
// the first symbol gets id 0.
func ParseStateList(r io.Reader, name string) (*StateList, error) {
	sl := &StateList{ids: make(map[string]int)}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		sym := strings.TrimSpace(scanner.Text())
		if sym == "" {
			continue
		}
		if _, ok := sl.ids[sym]; ok {
			return nil, &ParseError{File: name, Line: lineNo, Err: fmt.Errorf("%w: duplicate state %q", ErrSyntax, sym)}
		}
		sl.ids[sym] = len(sl.symbols)
		sl.symbols = append(sl.symbols, sym)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{File: name, Line: lineNo, Err: err}
	}
	return sl, nil
}

// ID returns the class id of symbol.
func (sl *StateList) ID(symbol string) (int, bool) {
	id, ok := sl.ids[symbol]
	return id, ok
}

// Symbol returns the symbol of class id, or "" if out of range.
func (sl *StateList) Symbol(id int) string {
	if id < 0 || id >= len(sl.symbols) {
		return ""
	}
	return sl.symbols[id]
}

// Len returns the number of states.
func (sl *StateList) Len() int { return len(sl.symbols) }
