package index

import "fmt"

// Registry maps utterance keys to rows of the utterance offset table.
type Registry struct {
	rowByKey map[string]int
	rows     []Utterance
}

func newRegistry() *Registry {
	return &Registry{rowByKey: make(map[string]int)}
}

func (r *Registry) add(u Utterance) {
	r.rowByKey[u.Key] = len(r.rows)
	r.rows = append(r.rows, u)
}

// Len returns the number of registered utterances.
func (r *Registry) Len() int { return len(r.rows) }

// Lookup returns the offset table row for key.
func (r *Registry) Lookup(key string) (Utterance, bool) {
	row, ok := r.rowByKey[key]
	if !ok {
		return Utterance{}, false
	}
	return r.rows[row], true
}

// Resolve returns the frame id of frame minor of utterance major.
func (r *Registry) Resolve(major string, minor int) (int, error) {
	u, ok := r.Lookup(major)
	if !ok {
		return 0, fmt.Errorf("%q: %w", major, ErrUnknownKey)
	}
	if minor < 0 || minor >= u.FrameCount {
		return 0, fmt.Errorf("%q frame %d of %d: %w", major, minor, u.FrameCount, ErrOutOfRange)
	}
	return u.FrameOffset + minor, nil
}
