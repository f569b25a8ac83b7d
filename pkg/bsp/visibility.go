package bsp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const visHeaderSize = 8

// Visibility is the decoded potentially visible set table.
type Visibility struct {
	NumClusters  int
	ClusterBytes int

	bits []byte
}

// ParseVisibility reads the visdata lump. An empty lump yields nil, meaning everything is visible.
func ParseVisibility(raw []byte) (*Visibility, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	if len(raw) < visHeaderSize {
		return nil, errors.Wrapf(ErrTruncatedLump, "visdata header needs %d bytes, lump is %d", visHeaderSize, len(raw))
	}

	v := &Visibility{
		NumClusters:  int(int32(binary.LittleEndian.Uint32(raw))),
		ClusterBytes: int(int32(binary.LittleEndian.Uint32(raw[4:]))),
		bits:         raw[visHeaderSize:],
	}

	if v.NumClusters < 0 || v.ClusterBytes < 0 || v.ClusterBytes*8 < v.NumClusters {
		return nil, errors.Wrapf(ErrLayoutMismatch, "visdata: %d clusters in %d byte rows", v.NumClusters, v.ClusterBytes)
	}

	if len(v.bits) < v.NumClusters*v.ClusterBytes {
		return nil, errors.Wrapf(ErrTruncatedLump, "visdata: %d rows of %d bytes, have %d", v.NumClusters, v.ClusterBytes, len(v.bits))
	}

	return v, nil
}

// CanSee reports whether cluster to is potentially visible from cluster from.
// Negative clusters are outside the map and see everything.
func (v *Visibility) CanSee(from, to int) bool {
	if v == nil || from < 0 || to < 0 {
		return true
	}

	if from >= v.NumClusters || to >= v.NumClusters {
		return false
	}

	return v.bits[from*v.ClusterBytes+to>>3]&(1<<(to&7)) != 0
}
