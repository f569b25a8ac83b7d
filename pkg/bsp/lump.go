package bsp

import (
	"iter"

	"github.com/pkg/errors"
)

// Lump is a read-only view of count records inside the file buffer.
// Records are decoded on access, so iterating twice yields equal sequences.
type Lump struct {
	layout Layout
	data   []byte
	count  int
}

// Resolve locates count records of the named lump at offset in buf.
func Resolve(buf []byte, name string, offset, count int) (*Lump, error) {
	layout, err := LayoutOf(name)
	if err != nil {
		return nil, err
	}

	if offset < 0 || count < 0 {
		return nil, errors.Wrapf(ErrTruncatedLump, "lump %q: offset %d, count %d", name, offset, count)
	}

	// compare without multiplying past the buffer to stay clear of overflow
	if offset > len(buf) || count > (len(buf)-offset)/layout.Size {
		return nil, errors.Wrapf(ErrTruncatedLump, "lump %q: %d records of %d bytes at %d exceed %d byte buffer",
			name, count, layout.Size, offset, len(buf))
	}

	end := offset + count*layout.Size

	return &Lump{
		layout: layout,
		data:   buf[offset:end:end],
		count:  count,
	}, nil
}

// ResolveNamed resolves a lump through the file's own directory.
func ResolveNamed(buf []byte, dir *Directory, name string) (*Lump, error) {
	offset, count, err := dir.Locate(name)
	if err != nil {
		return nil, err
	}

	return Resolve(buf, name, offset, count)
}

func (l *Lump) Name() string {
	return l.layout.Name
}

func (l *Lump) Layout() Layout {
	return l.layout
}

// Len is the number of records in the lump.
func (l *Lump) Len() int {
	return l.count
}

// Bytes returns the raw bytes of record i.
func (l *Lump) Bytes(i int) []byte {
	start := i * l.layout.Size
	end := start + l.layout.Size

	return l.data[start:end:end]
}

// Raw returns the whole lump.
func (l *Lump) Raw() []byte {
	return l.data
}

// At decodes record i.
func (l *Lump) At(i int) Record {
	return l.layout.decode(l.Bytes(i))
}

// All yields every record in file order.
func (l *Lump) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i := 0; i < l.count; i++ {
			if !yield(i, l.At(i)) {
				return
			}
		}
	}
}

// Records decodes the whole lump into a slice of its concrete record type.
func Records[T Record](l *Lump) ([]T, error) {
	out := make([]T, 0, l.count)

	for i, rec := range l.All() {
		v, ok := rec.(T)
		if !ok {
			return nil, errors.Wrapf(ErrLayoutMismatch, "lump %q record %d is %T", l.Name(), i, rec)
		}

		out = append(out, v)
	}

	return out, nil
}
