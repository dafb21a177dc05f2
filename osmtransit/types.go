package osmtransit

import "github.com/paulmach/orb"

// Object is the part of an OSM transit object the correlation needs
type Object interface {
	GetID() string
	GetShape() orb.MultiLineString
}

// Line is an OSM route_master relation
type Line struct {
	ID       string
	Name     string
	Ref      string
	RouteIDs []string
	Shape    orb.MultiLineString
}

func (l Line) GetID() string { return l.ID }

func (l Line) GetShape() orb.MultiLineString { return l.Shape }

// Route is an OSM route relation
type Route struct {
	ID    string
	Name  string
	Ref   string
	Mode  string // value of the route tag: bus, tram, ...
	Shape orb.MultiLineString
}

func (r Route) GetID() string { return r.ID }

func (r Route) GetShape() orb.MultiLineString { return r.Shape }

// Objects is the result of an extraction.
// A nil slice means the kind was not extracted at all, as opposed to an
// extraction that found nothing.
type Objects struct {
	Lines  []Line
	Routes []Route
}
