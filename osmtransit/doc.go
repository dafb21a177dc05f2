/*
Package osmtransit extracts public transport objects from an OpenStreetMap extract.

Two kinds of objects are produced:

  - Lines, from relations tagged type=route_master. The shape of a line is
    the concatenation of the shapes of its member routes.
  - Routes, from relations tagged type=route whose route tag is one of the
    configured modes. The shape of a route holds one polyline per way member;
    platform and stop members are ignored.

Identifiers follow the "relation:<osm id>" convention, which is what transit
datasets store in their osm_line_id and osm_route_id object codes.

# Basic Usage

	objects, err := osmtransit.ParseFile(ctx, "city.osm.pbf", osmtransit.Options{})
	if err != nil {
	    log.Fatal(err)
	}
	for _, l := range objects.Lines {
	    fmt.Println(l.ID, len(l.Shape))
	}

Both .osm.pbf and .osm (XML) extracts are supported. The extract is read
three times (relations, then ways, then nodes) so that only the ways and
nodes referenced by transit relations are kept in memory.

# Caching

Parsing a country-sized extract takes minutes. SerializeObjectsToFile and
DeserializeObjectsFromFile store the extracted objects with gob so that
repeated runs on the same extract can skip parsing. Each cache records its
Source (extract path, size, modification time, route modes); LoadCache
refuses a cache written for another Source with ErrStaleCache.
*/
package osmtransit
