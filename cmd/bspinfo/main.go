// Command bspinfo decodes an EF2 bsp file and prints a summary of its lumps and surfaces.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/saiko-tech/ef2bsp/pkg/bsp"
	"github.com/saiko-tech/ef2bsp/pkg/bsp/importer"
	"github.com/saiko-tech/ef2bsp/pkg/bsp/trace"
)

func main() {
	var (
		configPath   string
		preset       string
		subdivisions int
		types        string
		verbose      bool
		from, to     string
	)

	flag.StringVar(&configPath, "config", "", "YAML import settings")
	flag.StringVar(&preset, "preset", "", "import preset (PREVIEW, EDITING, RENDERING, BRUSHES, SHADOW_BRUSHES)")
	flag.IntVar(&subdivisions, "subdivisions", -1, "patch subdivision steps, overrides the settings")
	flag.StringVar(&types, "types", "", "surface types to import, e.g. planar|patch")
	flag.BoolVar(&verbose, "v", false, "log every diagnostics entry")
	flag.StringVar(&from, "from", "", "trace a ray from this point, e.g. 0,0,64")
	flag.StringVar(&to, "to", "", "trace a ray to this point")
	flag.Parse()

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bspinfo [flags] <file.bsp>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	settings, err := loadSettings(configPath, flag.Arg(0))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load settings")
	}

	if preset != "" {
		if err := settings.ApplyPreset(importer.Preset(preset)); err != nil {
			logger.Fatal().Err(err).Msg("invalid preset")
		}
	}

	if subdivisions >= 0 {
		settings.Subdivisions = subdivisions
	}

	if types != "" {
		if err := settings.SurfaceTypes.UnmarshalText([]byte(types)); err != nil {
			logger.Fatal().Err(err).Msg("invalid surface types")
		}
	}

	var segment *ray
	if from != "" || to != "" {
		segment, err = parseRay(from, to)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid ray")
		}
	}

	if err := run(settings, segment, logger); err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}
}

func loadSettings(configPath, file string) (*importer.Settings, error) {
	if configPath == "" {
		s := importer.NewSettings(file)
		// the default filter imports nothing
		s.SurfaceTypes = bsp.AllSurfaceTypes

		return s, nil
	}

	f, err := os.Open(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open settings")
	}

	defer f.Close()

	return importer.LoadSettings(f, file)
}

type ray struct {
	from, to mgl32.Vec3
}

func parseVec(s string) (mgl32.Vec3, error) {
	var v mgl32.Vec3

	if _, err := fmt.Sscanf(s, "%f,%f,%f", &v[0], &v[1], &v[2]); err != nil {
		return v, errors.Wrapf(err, "point %q", s)
	}

	return v, nil
}

func parseRay(from, to string) (*ray, error) {
	a, err := parseVec(from)
	if err != nil {
		return nil, err
	}

	b, err := parseVec(to)
	if err != nil {
		return nil, err
	}

	return &ray{from: a, to: b}, nil
}

func run(settings *importer.Settings, segment *ray, logger zerolog.Logger) error {
	buf, err := os.ReadFile(settings.File)
	if err != nil {
		return errors.Wrap(err, "failed to read bsp")
	}

	session, err := importer.NewSession(settings, logger)
	if err != nil {
		return err
	}

	res, err := session.Import(buf)
	if err != nil {
		return err
	}

	printSummary(session, res)

	if segment == nil {
		return nil
	}

	tracer, err := trace.New(res.Map, trace.ContentsSolid)
	if err != nil {
		return errors.Wrap(err, "failed to index brushes")
	}

	var patches []int

	for _, mesh := range res.Meshes {
		if mesh.Type == bsp.SurfacePatch {
			tracer.AddMeshes(&mesh.Mesh)
			patches = append(patches, mesh.Surface)
		}
	}

	tr := tracer.TraceRay(segment.from, segment.to)

	surface := -1
	if tr.Mesh >= 0 {
		surface = patches[tr.Mesh]
	}

	fmt.Printf("\ntrace %v -> %v: visible=%t fraction=%.4f end=%v brush=%d surface=%d\n",
		segment.from, segment.to, tracer.IsVisible(segment.from, segment.to), tr.Fraction, tr.EndPos, tr.Brush, surface)

	return nil
}

func printSummary(session *importer.Session, res *importer.Result) {
	m := res.Map

	fmt.Printf("=== %s ===\n", session.Settings().MapName())
	fmt.Printf("session=%s version=%d checksum=%d\n\n", session.ID(), m.Header.Version, m.Header.Checksum)

	fmt.Println("lumps:")

	for _, name := range bsp.LumpNames() {
		entry, _ := m.Directory.Entry(name)
		layout, _ := bsp.LayoutOf(name)
		fmt.Printf("  %-18s %9d bytes %8d records\n", name, entry.Length, int(entry.Length)/layout.Size)
	}

	counts := make(map[bsp.SurfaceType]int)
	for _, s := range m.Surfaces {
		counts[s.SurfaceType()]++
	}

	fmt.Println("\nsurfaces:")

	for _, typ := range []bsp.SurfaceType{
		bsp.SurfacePlanar, bsp.SurfacePatch, bsp.SurfaceTriSoup, bsp.SurfaceFlare, bsp.SurfaceFAKKTerrain, bsp.SurfaceBad,
	} {
		fmt.Printf("  %-14s %d\n", typ, counts[typ])
	}

	var triangles, vertices int
	for _, mesh := range res.Meshes {
		triangles += len(mesh.Indices) / 3
		vertices += len(mesh.Vertices)
	}

	fmt.Printf("\nmeshes=%d skipped=%d vertices=%d triangles=%d\n", len(res.Meshes), res.Skipped, vertices, triangles)

	if ws, ok := bsp.Worldspawn(m.Entities); ok {
		fmt.Printf("worldspawn message=%q\n", ws["message"])
	}

	if m.Visibility != nil {
		fmt.Printf("clusters=%d\n", m.Visibility.NumClusters)
	}

	diag := session.Diagnostics()
	fmt.Printf("warnings=%d errors=%d\n", diag.Count(zerolog.WarnLevel)-diag.Count(zerolog.ErrorLevel), diag.Count(zerolog.ErrorLevel))
}
