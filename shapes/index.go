package shapes

import (
	"fmt"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/osmtransit"
)

// IndexByID maps OSM objects by id. A nil slice means the kind is missing from
// the extract and is an error; duplicate ids keep the last object.
func IndexByID[O osmtransit.Object](objects []O, label string) (map[string]O, error) {
	if objects == nil {
		return nil, fmt.Errorf("no %s found in osm: %w", label, ErrMissingOsmCollection)
	}
	byID := make(map[string]O, len(objects))
	for _, o := range objects {
		byID[o.GetID()] = o
	}
	return byID, nil
}
