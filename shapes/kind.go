package shapes

import "fmt"

// Kind of transit object being correlated
type Kind string

const (
	KindLine  Kind = "line"
	KindRoute Kind = "route"
)

// CodeType is the object code holding the OSM id, e.g. osm_line_id
func (k Kind) CodeType() string {
	return "osm_" + string(k) + "_id"
}

// GeometryID is the n-th generated geometry id, e.g. geo:line:osm:3
func (k Kind) GeometryID(n int) string {
	return fmt.Sprintf("geo:%s:osm:%d", k, n)
}
