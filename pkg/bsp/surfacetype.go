package bsp

import (
	"strings"

	"github.com/pkg/errors"
)

// SurfaceType classifies a single surface.
type SurfaceType uint8

const (
	SurfaceBad SurfaceType = iota
	SurfacePlanar
	SurfacePatch
	SurfaceTriSoup
	SurfaceFlare
	SurfaceFAKKTerrain
	// SurfaceBrush is never decoded from a raw code, callers assign it to brush-derived geometry.
	SurfaceBrush
)

var surfaceTypeNames = [...]string{
	SurfaceBad:         "bad",
	SurfacePlanar:      "planar",
	SurfacePatch:       "patch",
	SurfaceTriSoup:     "trisoup",
	SurfaceFlare:       "flare",
	SurfaceFAKKTerrain: "fakk_terrain",
	SurfaceBrush:       "brush",
}

func (t SurfaceType) String() string {
	if int(t) < len(surfaceTypeNames) {
		return surfaceTypeNames[t]
	}

	return surfaceTypeNames[SurfaceBad]
}

// Classify maps a raw surface type code to its SurfaceType.
// Unknown codes are SurfaceBad, which callers skip rather than fail on.
func Classify(code int32) SurfaceType {
	if code < 0 || code > int32(SurfaceFAKKTerrain) {
		return SurfaceBad
	}

	return SurfaceType(code)
}

// Code is the raw code Classify maps to t. Brush has no code and reports -1.
func (t SurfaceType) Code() int32 {
	if t > SurfaceFAKKTerrain {
		return -1
	}

	return int32(t)
}

// SurfaceType classifies the surface's raw type code.
func (s Surface) SurfaceType() SurfaceType {
	return Classify(s.Type)
}

// ParseSurfaceType is the inverse of SurfaceType.String.
func ParseSurfaceType(s string) (SurfaceType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range surfaceTypeNames {
		if name == s {
			return SurfaceType(t), nil
		}
	}

	return SurfaceBad, errors.Errorf("unknown surface type %q", s)
}

// SurfaceTypeSet is a filter accepting any number of surface types.
// SurfaceBad carries no bit, the zero set accepts nothing.
type SurfaceTypeSet uint32

// AllSurfaceTypes accepts every type except SurfaceBad.
const AllSurfaceTypes = SurfaceTypeSet(1<<SurfacePlanar | 1<<SurfacePatch | 1<<SurfaceTriSoup |
	1<<SurfaceFlare | 1<<SurfaceFAKKTerrain | 1<<SurfaceBrush)

// Bit is the set holding only t.
func (t SurfaceType) Bit() SurfaceTypeSet {
	if t == SurfaceBad || t > SurfaceBrush {
		return 0
	}

	return 1 << t
}

// SurfaceTypesOf builds a set from individual types.
func SurfaceTypesOf(types ...SurfaceType) SurfaceTypeSet {
	var s SurfaceTypeSet
	for _, t := range types {
		s |= t.Bit()
	}

	return s
}

func (s SurfaceTypeSet) With(t SurfaceType) SurfaceTypeSet {
	return s | t.Bit()
}

func (s SurfaceTypeSet) Without(t SurfaceType) SurfaceTypeSet {
	return s &^ t.Bit()
}

func (s SurfaceTypeSet) Union(o SurfaceTypeSet) SurfaceTypeSet {
	return s | o
}

// Has reports whether the set accepts t. It is always false for SurfaceBad.
func (s SurfaceTypeSet) Has(t SurfaceType) bool {
	b := t.Bit()

	return b != 0 && s&b == b
}

// Types lists the members in declaration order.
func (s SurfaceTypeSet) Types() []SurfaceType {
	var out []SurfaceType

	for t := SurfacePlanar; t <= SurfaceBrush; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}

	return out
}

func (s SurfaceTypeSet) String() string {
	types := s.Types()
	if len(types) == 0 {
		return surfaceTypeNames[SurfaceBad]
	}

	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}

	return strings.Join(names, "|")
}

func (s SurfaceTypeSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a "|" separated list such as "planar|patch".
func (s *SurfaceTypeSet) UnmarshalText(text []byte) error {
	var out SurfaceTypeSet

	for _, part := range strings.Split(string(text), "|") {
		if strings.TrimSpace(part) == "" {
			continue
		}

		t, err := ParseSurfaceType(part)
		if err != nil {
			return err
		}

		out = out.With(t)
	}

	*s = out

	return nil
}
