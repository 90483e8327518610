package framelabels

import (
	"github.com/happyhackingspace/framelabels/index"
	"github.com/happyhackingspace/framelabels/sparse"
)

// materializer builds label samples on demand. The element type is fixed
// for the lifetime of the deserializer.
type materializer struct {
	frames *index.Index
	dim    int
	elem   sparse.ElementType
}

func (m materializer) materialize(id int) (sparse.Vector, error) {
	classID, err := m.frames.ClassIDAt(id)
	if err != nil {
		return sparse.Vector{}, err
	}
	return sparse.OneHot(classID, m.dim, m.elem), nil
}
