package model

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// ErrGeometryAlreadySet is returned when an object already references a geometry
var ErrGeometryAlreadySet = errors.New("geometry already exists")

// Code is one object_codes.txt entry: an identifier of the object in another system
type Code struct {
	Type  string
	Value string
}

// Codes keeps the file order; the same Type may appear several times
type Codes []Code

// Find returns the value of the first code of the given type
func (c Codes) Find(codeType string) (string, bool) {
	for _, code := range c {
		if code.Type == codeType {
			return code.Value, true
		}
	}
	return "", false
}

// Coded objects carry object codes
type Coded interface {
	GetCodes() Codes
}

// Line is a commercial line (lines.txt)
type Line struct {
	ID         string
	Name       string
	GeometryID string            // "" when unset
	Codes      Codes             // from object_codes.txt
	Fields     map[string]string // raw columns as read
}

func (l Line) GetID() string { return l.ID }
func (l Line) GetCodes() Codes { return l.Codes }
func (l Line) GetGeometryID() string { return l.GeometryID }

// SetGeometryID records the geometry of the line. It can be set only once.
func (l *Line) SetGeometryID(geometryID string) error {
	if l.GeometryID != "" {
		return fmt.Errorf("%w for line %q", ErrGeometryAlreadySet, l.ID)
	}
	l.GeometryID = geometryID
	return nil
}

// Route is one direction of a line (routes.txt)
type Route struct {
	ID         string
	LineID     string
	Name       string
	GeometryID string
	Codes      Codes
	Fields     map[string]string
}

func (r Route) GetID() string { return r.ID }
func (r Route) GetCodes() Codes { return r.Codes }
func (r Route) GetGeometryID() string { return r.GeometryID }

// SetGeometryID records the geometry of the route. It can be set only once.
func (r *Route) SetGeometryID(geometryID string) error {
	if r.GeometryID != "" {
		return fmt.Errorf("%w for route %q", ErrGeometryAlreadySet, r.ID)
	}
	r.GeometryID = geometryID
	return nil
}

// Geometry is a named shape (geometries.txt)
type Geometry struct {
	ID    string
	Shape orb.Geometry
}

func (g Geometry) GetID() string { return g.ID }

// Collections is the whole dataset handled by this tool
type Collections struct {
	Lines      *Collection[Line]
	Routes     *Collection[Route]
	Geometries *Collection[Geometry]
}

// NewCollections returns empty collections
func NewCollections() *Collections {
	return &Collections{
		Lines:      MustNewCollection[Line](nil),
		Routes:     MustNewCollection[Route](nil),
		Geometries: MustNewCollection[Geometry](nil),
	}
}
