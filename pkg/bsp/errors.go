package bsp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrLayoutMismatch is returned when a byte slice does not match the declared record size.
	ErrLayoutMismatch = errors.New("record layout mismatch")
	// ErrTruncatedLump is returned when a lump runs past the end of the buffer.
	ErrTruncatedLump = errors.New("truncated lump")
	// ErrUnknownLump is returned for lump names without a declared layout.
	ErrUnknownLump = errors.New("unknown lump")
	// ErrInvalidPatchGrid is returned for patch surfaces with malformed control grids.
	ErrInvalidPatchGrid = errors.New("invalid patch grid")
	// ErrForeignFile is returned when the header does not carry the expected magic and version.
	ErrForeignFile = errors.New("foreign or unsupported bsp file")
	// ErrBadReference is returned when a record points outside of the lump it references.
	ErrBadReference = errors.New("bad record reference")
)

// LumpLoadError lists the lumps that could not be decoded by Load.
// The Map returned alongside it still holds every lump that did decode.
type LumpLoadError struct {
	Failed map[string]error
}

func (e LumpLoadError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for name := range e.Failed {
		names = append(names, name)
	}

	sort.Strings(names)

	msgs := make([]string, len(names))
	for i, name := range names {
		msgs[i] = fmt.Sprintf("%s: %v", name, e.Failed[name])
	}

	return fmt.Sprintf("failed lumps: (%s)", strings.Join(msgs, "; "))
}
