package framelabels

import (
	"fmt"

	"github.com/happyhackingspace/framelabels/sparse"
)

// StorageType is the layout of a stream's samples.
type StorageType int

const (
	Dense StorageType = iota
	SparseCSC
)

func (s StorageType) String() string {
	switch s {
	case Dense:
		return "dense"
	case SparseCSC:
		return "sparse_csc"
	}
	return fmt.Sprintf("StorageType(%d)", int(s))
}

// StreamDescription is the metadata of an output stream.
type StreamDescription struct {
	ID          int
	Name        string
	Dimension   int
	Storage     StorageType
	ElementType sparse.ElementType
}
