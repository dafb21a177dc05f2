package shapes

import (
	"errors"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/model"
)

var (
	// ErrInvalidPath is returned when the extract path is not valid UTF-8
	ErrInvalidPath = errors.New("osm pbf path is not valid")

	// ErrMissingOsmCollection is returned when the extract holds no objects of a kind at all
	ErrMissingOsmCollection = errors.New("missing osm collection")

	// ErrUnresolvedReference is returned when an object code points to an unknown OSM object
	ErrUnresolvedReference = errors.New("unresolved osm reference")

	// ErrDuplicateGeometryAssignment is returned when an object already has a geometry
	ErrDuplicateGeometryAssignment = model.ErrGeometryAlreadySet
)
