/*
Package shapes attaches OpenStreetMap shapes to the lines and routes of a
transit dataset.

A line or route asks for a shape by carrying an object code whose type is
osm_line_id (resp. osm_route_id) and whose value is the id of an OSM
route_master (resp. route) relation:

	object_type,object_id,object_system,object_code
	line,L1,osm_line_id,relation:4568
	route,R1,osm_route_id,relation:1234

For each such object, a geometry named geo:<kind>:osm:<n> is created, where
n counts the objects of that kind carrying the code, and the object's
geometry_id is set to it.

# Usage

	err := shapes.FromOSM(ctx, "city.osm.pbf", collections, shapes.Options{Logger: logger})

FromOSM commits all-or-nothing: on error the collections are left exactly
as they were.

# Errors

Hard failures wrap one of ErrInvalidPath, ErrMissingOsmCollection,
ErrUnresolvedReference, ErrDuplicateGeometryAssignment or
model.ErrIdentifierConflict. OSM objects with an empty shape only produce a
warning.
*/
package shapes
