package osmtransit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

// Format of an OSM extract
type Format int

const (
	FormatPBF Format = iota
	FormatXML
)

func (f Format) String() string {
	if f == FormatXML {
		return "xml"
	}
	return "pbf"
}

// DefaultRouteModes are the values of the route tag treated as public transport
var DefaultRouteModes = []string{
	"bus", "coach", "trolleybus", "share_taxi",
	"tram", "light_rail", "subway", "monorail", "train",
	"funicular", "ferry",
}

// Options tune the extraction
type Options struct {
	// Parallelism is the number of PBF decoding goroutines; 0 means GOMAXPROCS.
	Parallelism int
	// RouteModes filters route relations on their route tag; empty means DefaultRouteModes.
	RouteModes []string
	// SkipLines and SkipRoutes leave the corresponding slice of Objects nil.
	SkipLines  bool
	SkipRoutes bool
}

// FormatFromPath guesses the extract format from its file name
func FormatFromPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".pbf"):
		return FormatPBF, nil
	case strings.HasSuffix(name, ".osm"), strings.HasSuffix(name, ".xml"):
		return FormatXML, nil
	default:
		return FormatPBF, fmt.Errorf("unknown osm extract format for %q", path)
	}
}

// ParseFile opens and parses an OSM extract
func ParseFile(ctx context.Context, path string, opts Options) (*Objects, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(ctx, f, format, opts)
}

// Parse extracts transit lines and routes. The reader is rewound between passes.
func Parse(ctx context.Context, r io.ReadSeeker, format Format, opts Options) (*Objects, error) {
	p := newParser(format, opts)

	if err := p.scan(ctx, r, osm.TypeRelation, p.addRelation); err != nil {
		return nil, fmt.Errorf("failed to read osm relations: %w", err)
	}
	if len(p.wantWays) > 0 {
		if err := p.scan(ctx, r, osm.TypeWay, p.addWay); err != nil {
			return nil, fmt.Errorf("failed to read osm ways: %w", err)
		}
	}
	if len(p.wantNodes) > 0 {
		if err := p.scan(ctx, r, osm.TypeNode, p.addNode); err != nil {
			return nil, fmt.Errorf("failed to read osm nodes: %w", err)
		}
	}
	return p.objects(), nil
}

type parser struct {
	format Format
	procs  int
	modes  map[string]bool
	opts   Options

	masters []*osm.Relation
	routes  []*osm.Relation

	// wantWays and wantNodes are read by the decoder goroutines; they are
	// only written during the previous pass.
	wantWays  map[osm.WayID]struct{}
	wantNodes map[osm.NodeID]struct{}

	wayNodes map[osm.WayID][]osm.NodeID
	coords   map[osm.NodeID]orb.Point
}

func newParser(format Format, opts Options) *parser {
	procs := opts.Parallelism
	if procs <= 0 {
		procs = runtime.GOMAXPROCS(0)
	}
	modes := opts.RouteModes
	if len(modes) == 0 {
		modes = DefaultRouteModes
	}
	set := make(map[string]bool, len(modes))
	for _, m := range modes {
		set[m] = true
	}
	return &parser{
		format:    format,
		procs:     procs,
		modes:     set,
		opts:      opts,
		wantWays:  map[osm.WayID]struct{}{},
		wantNodes: map[osm.NodeID]struct{}{},
		wayNodes:  map[osm.WayID][]osm.NodeID{},
		coords:    map[osm.NodeID]orb.Point{},
	}
}

func (p *parser) newScanner(ctx context.Context, r io.Reader, only osm.Type) osm.Scanner {
	if p.format == FormatXML {
		return osmxml.New(ctx, r)
	}
	s := osmpbf.New(ctx, r, p.procs)
	s.SkipNodes = only != osm.TypeNode
	s.SkipWays = only != osm.TypeWay
	s.SkipRelations = only != osm.TypeRelation
	s.FilterWay = func(w *osm.Way) bool {
		_, ok := p.wantWays[w.ID]
		return ok
	}
	s.FilterNode = func(n *osm.Node) bool {
		_, ok := p.wantNodes[n.ID]
		return ok
	}
	return s
}

func (p *parser) scan(ctx context.Context, r io.ReadSeeker, only osm.Type, fn func(osm.Object)) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	scanner := p.newScanner(ctx, r, only)
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != only {
			continue
		}
		fn(o)
	}
	err := scanner.Err()
	if cerr := scanner.Close(); err == nil {
		err = cerr
	}
	return err
}

func (p *parser) addRelation(o osm.Object) {
	rel := o.(*osm.Relation)
	switch rel.Tags.Find("type") {
	case "route_master":
		if !p.opts.SkipLines {
			p.masters = append(p.masters, rel)
		}
	case "route":
		if !p.modes[rel.Tags.Find("route")] {
			return
		}
		p.routes = append(p.routes, rel)
		for _, m := range rel.Members {
			if m.Type == osm.TypeWay && isPathRole(m.Role) {
				p.wantWays[osm.WayID(m.Ref)] = struct{}{}
			}
		}
	}
}

func (p *parser) addWay(o osm.Object) {
	w := o.(*osm.Way)
	if _, ok := p.wantWays[w.ID]; !ok {
		return
	}
	ids := w.Nodes.NodeIDs()
	p.wayNodes[w.ID] = ids
	for _, id := range ids {
		p.wantNodes[id] = struct{}{}
	}
}

func (p *parser) addNode(o osm.Object) {
	n := o.(*osm.Node)
	if _, ok := p.wantNodes[n.ID]; !ok {
		return
	}
	p.coords[n.ID] = orb.Point{n.Lon, n.Lat}
}

// isPathRole tells whether a way member is part of the travelled path
func isPathRole(role string) bool {
	return !strings.HasPrefix(role, "platform") && !strings.HasPrefix(role, "stop")
}

func (p *parser) routeShape(rel *osm.Relation) orb.MultiLineString {
	var shape orb.MultiLineString
	for _, m := range rel.Members {
		if m.Type != osm.TypeWay || !isPathRole(m.Role) {
			continue
		}
		var ls orb.LineString
		for _, id := range p.wayNodes[osm.WayID(m.Ref)] {
			if pt, ok := p.coords[id]; ok {
				ls = append(ls, pt)
			}
		}
		if len(ls) > 0 {
			shape = append(shape, ls)
		}
	}
	return shape
}

func (p *parser) objects() *Objects {
	shapes := make(map[osm.RelationID]orb.MultiLineString, len(p.routes))
	routes := make([]Route, 0, len(p.routes))
	for _, rel := range p.routes {
		shape := p.routeShape(rel)
		shapes[rel.ID] = shape
		routes = append(routes, Route{
			ID:    objectID(rel.ID),
			Name:  rel.Tags.Find("name"),
			Ref:   rel.Tags.Find("ref"),
			Mode:  rel.Tags.Find("route"),
			Shape: shape,
		})
	}

	out := &Objects{}
	if !p.opts.SkipRoutes {
		out.Routes = routes
	}
	if p.opts.SkipLines {
		return out
	}

	out.Lines = make([]Line, 0, len(p.masters))
	for _, rel := range p.masters {
		line := Line{
			ID:   objectID(rel.ID),
			Name: rel.Tags.Find("name"),
			Ref:  rel.Tags.Find("ref"),
		}
		for _, m := range rel.Members {
			if m.Type != osm.TypeRelation {
				continue
			}
			shape, ok := shapes[osm.RelationID(m.Ref)]
			if !ok {
				continue
			}
			line.RouteIDs = append(line.RouteIDs, objectID(osm.RelationID(m.Ref)))
			line.Shape = append(line.Shape, shape...)
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

func objectID(id osm.RelationID) string {
	return fmt.Sprintf("relation:%d", id)
}
