package bsp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// Magic is the four-character tag every EF2 bsp starts with.
	Magic = "EF2!"
	// Version is the only format version this package decodes.
	Version = 0x14

	HeaderSize         = 12
	DirectoryEntrySize = 8
	DirectorySize      = NumLumps * DirectoryEntrySize
)

type Header struct {
	Magic    [4]byte
	Version  int32
	Checksum int32 // not verified
}

// ReadHeader decodes and validates the file header.
func ReadHeader(buf []byte) (Header, error) {
	var h Header

	if len(buf) < HeaderSize {
		return h, errors.Wrapf(ErrForeignFile, "file is %d bytes, header needs %d", len(buf), HeaderSize)
	}

	copy(h.Magic[:], buf)
	h.Version = int32(binary.LittleEndian.Uint32(buf[4:]))
	h.Checksum = int32(binary.LittleEndian.Uint32(buf[8:]))

	if string(h.Magic[:]) != Magic {
		return h, errors.Wrapf(ErrForeignFile, "magic %q", h.Magic[:])
	}

	if h.Version != Version {
		return h, errors.Wrapf(ErrForeignFile, "version %d", h.Version)
	}

	return h, nil
}

// DirectoryEntry is the location of one lump in bytes.
type DirectoryEntry struct {
	Offset int32
	Length int32
}

// Directory holds one entry per lump, in LumpNames order.
type Directory [NumLumps]DirectoryEntry

// ReadDirectory decodes the lump directory that follows the header.
func ReadDirectory(buf []byte) (Directory, error) {
	var d Directory

	if len(buf) < HeaderSize+DirectorySize {
		return d, errors.Wrapf(ErrTruncatedLump, "lump directory needs %d bytes, file is %d", HeaderSize+DirectorySize, len(buf))
	}

	for i := range d {
		off := HeaderSize + i*DirectoryEntrySize
		d[i] = DirectoryEntry{
			Offset: int32(binary.LittleEndian.Uint32(buf[off:])),
			Length: int32(binary.LittleEndian.Uint32(buf[off+4:])),
		}
	}

	return d, nil
}

// Entry returns the raw directory entry for a lump.
func (d *Directory) Entry(name string) (DirectoryEntry, error) {
	for i, l := range lumpOrder {
		if l.Name == name {
			return d[i], nil
		}
	}

	return DirectoryEntry{}, errors.Wrapf(ErrUnknownLump, "%q", name)
}

// Locate converts a lump's byte length into a record count.
func (d *Directory) Locate(name string) (offset, count int, err error) {
	layout, err := LayoutOf(name)
	if err != nil {
		return 0, 0, err
	}

	e, err := d.Entry(name)
	if err != nil {
		return 0, 0, err
	}

	if e.Length < 0 || int(e.Length)%layout.Size != 0 {
		return 0, 0, errors.Wrapf(ErrLayoutMismatch, "lump %q: length %d is not a multiple of %d", name, e.Length, layout.Size)
	}

	return int(e.Offset), int(e.Length) / layout.Size, nil
}
