package shapes

import (
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/model"
	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/osmtransit"
)

// transitObject is a line or a route as seen by the correlation
type transitObject interface {
	model.Object
	model.Coded
}

// geometryHolder is a pointer to a transit object whose geometry can be set once
type geometryHolder[N any] interface {
	*N
	SetGeometryID(geometryID string) error
}

// PopulateShapes links the objects of one kind to the OSM objects named by
// their codes. Every new geometry is appended to geometries.
//
// The input collection is not modified: the enriched objects are returned in
// a new collection, in the same order. Processing stops at the first hard
// failure.
func PopulateShapes[N transitObject, PN geometryHolder[N], O osmtransit.Object](
	geometries *[]model.Geometry,
	objects *model.Collection[N],
	osmByID map[string]O,
	kind Kind,
	warnings *WarningAggregator,
) (*model.Collection[N], error) {
	if warnings == nil {
		warnings = NewWarningAggregator(nil)
	}
	codeType := kind.CodeType()
	items := objects.Values()

	generated := 0
	for i := range items {
		id := items[i].GetID()
		codes := items[i].GetCodes()
		osmID, ok := codes.Find(codeType)
		if !ok {
			continue
		}
		if countCodes(codes, codeType) > 1 {
			warnings.Add(WarningMultipleCodes, id)
		}
		// numbering keeps a gap for objects skipped below
		generated++

		osmObject, ok := osmByID[osmID]
		if !ok {
			return nil, fmt.Errorf("relation %s not found in osm: %w", osmID, ErrUnresolvedReference)
		}
		shape := osmObject.GetShape()
		if isEmpty(shape) {
			warnings.Report(WarningEmptyShape, id,
				fmt.Sprintf("no geometry found in osm for %q <-> %q", id, osmObject.GetID()),
				zap.String("kind", string(kind)),
				zap.String("object_id", id),
				zap.String("osm_id", osmID),
			)
			continue
		}

		geometryID := kind.GeometryID(generated)
		if err := PN(&items[i]).SetGeometryID(geometryID); err != nil {
			return nil, err
		}
		*geometries = append(*geometries, model.Geometry{
			ID:    geometryID,
			Shape: shape.Clone(),
		})
	}
	return model.NewCollection(items)
}

func countCodes(codes model.Codes, codeType string) int {
	n := 0
	for _, c := range codes {
		if c.Type == codeType {
			n++
		}
	}
	return n
}

// isEmpty tells whether a shape has no point at all
func isEmpty(shape orb.MultiLineString) bool {
	for _, ls := range shape {
		if len(ls) > 0 {
			return false
		}
	}
	return true
}
