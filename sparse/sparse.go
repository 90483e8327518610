// Package sparse provides the sparse sample vectors produced for label streams.
package sparse

import (
	"fmt"
	"math"
	"strings"
)

// ElementType is the numeric width of vector values.
type ElementType int

const (
	Float32 ElementType = iota
	Float64
)

// ParseElementType accepts the configuration spellings "float" and "double"
// as well as their Go names.
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float", "float32", "single":
		return Float32, nil
	case "double", "float64":
		return Float64, nil
	}
	return 0, fmt.Errorf("unknown element type %q", s)
}

func (t ElementType) String() string {
	switch t {
	case Float32:
		return "float"
	case Float64:
		return "double"
	}
	return fmt.Sprintf("ElementType(%d)", int(t))
}

// Size returns the width of one value in bytes.
func (t ElementType) Size() int {
	if t == Float64 {
		return 8
	}
	return 4
}

// Shared value buffers for one-hot vectors. They hold exactly one element
// and must never be written to.
var (
	oneFloat32 = []float32{1}
	oneFloat64 = []float64{1}
)

// Vector is a sparse vector whose values are stored at a fixed element width.
// Only the buffer matching Type is set.
type Vector struct {
	Indices []int
	Dim     int
	Type    ElementType

	f32 []float32
	f64 []float64
}

// OneHot returns a vector of dimension dim with a single 1 at idx.
// The value buffer is shared between all one-hot vectors of the same type.
func OneHot(idx, dim int, t ElementType) Vector {
	v := Vector{Indices: []int{idx}, Dim: dim, Type: t}
	if t == Float64 {
		v.f64 = oneFloat64
	} else {
		v.f32 = oneFloat32
	}
	return v
}

// Float32s returns the single-precision values, or nil for a double vector.
func (v Vector) Float32s() []float32 { return v.f32 }

// Float64s returns the double-precision values, or nil for a float vector.
func (v Vector) Float64s() []float64 { return v.f64 }

// Value returns the i-th stored value widened to float64.
func (v Vector) Value(i int) float64 {
	if v.Type == Float64 {
		return v.f64[i]
	}
	return float64(v.f32[i])
}

// Nnz returns the number of non-zero entries.
func (v Vector) Nnz() int {
	return len(v.Indices)
}

// Dot computes the dot product with a dense vector.
func (v Vector) Dot(dense []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		if idx < len(dense) {
			sum += v.Value(i) * dense[idx]
		}
	}
	return sum
}

// ToDense converts to a dense float64 slice.
func (v Vector) ToDense() []float64 {
	dense := make([]float64, v.Dim)
	for i, idx := range v.Indices {
		if idx >= 0 && idx < v.Dim {
			dense[idx] = v.Value(i)
		}
	}
	return dense
}

// L2Norm returns the L2 norm of the vector.
func (v Vector) L2Norm() float64 {
	var sum float64
	for i := range v.Indices {
		x := v.Value(i)
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Equal reports whether both vectors have the same type, dimension,
// coordinates and values.
func (v Vector) Equal(o Vector) bool {
	if v.Type != o.Type || v.Dim != o.Dim || len(v.Indices) != len(o.Indices) {
		return false
	}
	for i, idx := range v.Indices {
		if o.Indices[i] != idx || v.Value(i) != o.Value(i) {
			return false
		}
	}
	return true
}
