// Package importer drives the decoding of an EF2 bsp into meshes for a scene builder.
package importer

import (
	"io"
	"path"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/saiko-tech/ef2bsp/pkg/bsp"
	"github.com/saiko-tech/ef2bsp/pkg/bsp/patch"
)

// Preset is a named bundle of import defaults chosen by the user.
type Preset string

const (
	PresetPreview       Preset = "PREVIEW"
	PresetEditing       Preset = "EDITING"
	PresetRendering     Preset = "RENDERING"
	PresetBrushes       Preset = "BRUSHES"
	PresetShadowBrushes Preset = "SHADOW_BRUSHES"
)

var renderableSurfaces = bsp.SurfaceTypesOf(bsp.SurfacePlanar, bsp.SurfacePatch, bsp.SurfaceTriSoup, bsp.SurfaceFAKKTerrain)

// SurfaceTypes is the filter a preset imports with.
func (p Preset) SurfaceTypes() (bsp.SurfaceTypeSet, error) {
	switch p {
	case PresetPreview, PresetEditing, PresetRendering:
		return renderableSurfaces, nil
	case PresetBrushes, PresetShadowBrushes:
		return bsp.SurfaceTypesOf(bsp.SurfaceBrush), nil
	}

	return 0, errors.Errorf("unknown preset %q", string(p))
}

// Settings are the options of one import.
type Settings struct {
	File         string             `yaml:"file"`
	BasePaths    []string           `yaml:"base_paths"`
	ShaderDirs   []string           `yaml:"shader_dirs"`
	Preset       Preset             `yaml:"preset"`
	MinAtlasSize [2]int             `yaml:"min_atlas_size"`
	Subdivisions int                `yaml:"subdivisions"`
	FrontCulling bool               `yaml:"front_culling"`
	SurfaceTypes bsp.SurfaceTypeSet `yaml:"surface_types"`

	mapName string
}

// NewSettings returns the default settings for importing file.
func NewSettings(file string) *Settings {
	return &Settings{
		File:         file,
		ShaderDirs:   []string{"shaders/", "scripts/"},
		Preset:       PresetPreview,
		MinAtlasSize: [2]int{128, 128},
		Subdivisions: 2,
		FrontCulling: true,
		mapName:      GuessMapName(file),
	}
}

// LoadSettings reads YAML settings on top of the defaults for file.
// A file key in the YAML replaces file.
func LoadSettings(r io.Reader, file string) (*Settings, error) {
	s := NewSettings(file)

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to decode settings")
	}

	s.mapName = GuessMapName(s.File)

	return s, nil
}

// MapName is the map name derived from File when the settings were created.
func (s *Settings) MapName() string {
	return s.mapName
}

// ApplyPreset switches to p and adds its surface filter.
func (s *Settings) ApplyPreset(p Preset) error {
	types, err := p.SurfaceTypes()
	if err != nil {
		return err
	}

	s.Preset = p
	s.SurfaceTypes = s.SurfaceTypes.Union(types)

	return nil
}

func (s *Settings) Validate() error {
	if _, err := s.Preset.SurfaceTypes(); err != nil {
		return err
	}

	if s.Subdivisions < 0 || s.Subdivisions > patch.MaxSubdivisions {
		return errors.Errorf("subdivisions %d outside of [0, %d]", s.Subdivisions, patch.MaxSubdivisions)
	}

	for _, n := range s.MinAtlasSize {
		if n <= 0 || n&(n-1) != 0 {
			return errors.Errorf("minimum atlas size %v is not a power of two", s.MinAtlasSize)
		}
	}

	return nil
}

func (s *Settings) clone() Settings {
	c := *s
	c.BasePaths = append([]string(nil), s.BasePaths...)
	c.ShaderDirs = append([]string(nil), s.ShaderDirs...)

	return c
}

// GuessMapName derives a map name from a file path: the part below the last
// "maps" directory, or the base name, without extension.
func GuessMapName(file string) string {
	p := strings.ReplaceAll(file, "\\", "/")

	lower := strings.ToLower(p)
	if i := strings.LastIndex(lower, "/maps/"); i >= 0 {
		p = p[i+len("/maps/"):]
	} else if strings.HasPrefix(lower, "maps/") {
		p = p[len("maps/"):]
	} else {
		p = path.Base(p)
	}

	if p == "." || p == "/" {
		return ""
	}

	return strings.TrimSuffix(p, path.Ext(p))
}
