package importer

import (
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/saiko-tech/ef2bsp/pkg/bsp"
	"github.com/saiko-tech/ef2bsp/pkg/bsp/patch"
)

// Session is one import. It owns a frozen copy of the settings and the diagnostics log.
type Session struct {
	id       uuid.UUID
	settings Settings
	diag     *Diagnostics
}

// NewSession validates settings and takes a copy of them.
// Later changes to settings do not affect the session.
func NewSession(settings *Settings, logger zerolog.Logger) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid import settings")
	}

	id := uuid.Must(uuid.NewV7())
	logger = logger.With().Str("session", id.String()).Str("map", settings.MapName()).Logger()

	return &Session{
		id:       id,
		settings: settings.clone(),
		diag:     NewDiagnostics(logger),
	}, nil
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Settings returns a copy of the session's settings.
func (s *Session) Settings() Settings {
	return s.settings.clone()
}

func (s *Session) Diagnostics() *Diagnostics {
	return s.diag
}

// Mesh is the renderable geometry of one surface.
type Mesh struct {
	patch.Mesh

	Surface  int
	Type     bsp.SurfaceType
	Shader   string
	Lightmap int32
}

// Result is the outcome of an import.
type Result struct {
	Map *bsp.Map
	// Meshes are ordered by surface index. Skipped surfaces have no entry.
	Meshes []*Mesh
	// Skipped counts surfaces that were filtered out or failed.
	Skipped int
}

// Import decodes buf and builds meshes for every surface the settings accept.
// Only a foreign or unreadable header fails the import; everything else is
// logged to the diagnostics and skipped.
func (s *Session) Import(buf []byte) (*Result, error) {
	m, err := bsp.Load(buf)
	if err != nil {
		var lumpErr bsp.LumpLoadError
		if !errors.As(err, &lumpErr) {
			s.diag.Errorf("header", "%v", err)
			return nil, errors.Wrap(err, "failed to load bsp")
		}

		for _, name := range bsp.LumpNames() {
			if lerr, ok := lumpErr.Failed[name]; ok {
				s.diag.Errorf(name, "lump skipped: %v", lerr)
			}
		}
	}

	s.diag.Infof("map", "%d surfaces, %d vertices, %d shaders", len(m.Surfaces), len(m.Vertices), len(m.Shaders))

	if s.settings.SurfaceTypes.Has(bsp.SurfaceBrush) {
		s.diag.Infof("map", "brush surfaces are not stored in the surfaces lump, brush meshes are left to the caller")
	}

	if s.settings.SurfaceTypes.Without(bsp.SurfaceBrush) == 0 {
		s.diag.Warnf("map", "surface filter %s selects no stored surfaces", s.settings.SurfaceTypes)
	}

	meshes := make([]*Mesh, len(m.Surfaces))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, surf := range m.Surfaces {
		unit := fmt.Sprintf("surface %d", i)
		typ := surf.SurfaceType()

		switch {
		case typ == bsp.SurfaceBad:
			s.diag.Warnf(unit, "unsupported surface type code %d", surf.Type)
			continue
		case !s.settings.SurfaceTypes.Has(typ):
			s.diag.Infof(unit, "%s surface filtered out", typ)
			continue
		case typ == bsp.SurfaceFlare:
			s.diag.Infof(unit, "flare surfaces carry no geometry")
			continue
		}

		g.Go(func() error {
			mesh, err := s.buildMesh(m, surf)
			if err != nil {
				s.diag.Errorf(unit, "%s surface skipped: %v", typ, err)
				return nil
			}

			meshes[i] = &Mesh{
				Mesh:     *mesh,
				Surface:  i,
				Type:     typ,
				Shader:   m.ShaderName(surf.Shader),
				Lightmap: surf.LightmapIndex,
			}

			return nil
		})
	}

	// tasks log their failures and always return nil
	g.Wait()

	res := &Result{Map: m}

	for _, mesh := range meshes {
		if mesh == nil {
			res.Skipped++
			continue
		}

		res.Meshes = append(res.Meshes, mesh)
	}

	s.diag.Infof("map", "built %d meshes, skipped %d surfaces", len(res.Meshes), res.Skipped)

	return res, nil
}

func (s *Session) buildMesh(m *bsp.Map, surf bsp.Surface) (*patch.Mesh, error) {
	winding := patch.WindingFor(surf.Inverted != 0, s.settings.FrontCulling)

	if surf.SurfaceType() == bsp.SurfacePatch {
		grid, err := patch.ControlGrid(surf, m.Vertices)
		if err != nil {
			return nil, err
		}

		return patch.Tessellate(grid, s.settings.Subdivisions, winding)
	}

	indexes, err := m.SurfaceIndexes(surf)
	if err != nil {
		return nil, err
	}

	return patch.Triangles(surf, m.Vertices, indexes, winding)
}
