package ntfs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/model"
)

const (
	linesFile       = "lines.txt"
	routesFile      = "routes.txt"
	objectCodesFile = "object_codes.txt"
	geometriesFile  = "geometries.txt"
)

// Dataset is an NTFS directory loaded in memory
type Dataset struct {
	Dir         string
	Collections *model.Collections
	headers     map[string][]string // file name -> header as read
}

type table struct {
	header []string
	rows   []map[string]string
}

// Read loads lines, routes, object codes and geometries from an NTFS directory
func Read(dir string) (*Dataset, error) {
	ds := &Dataset{Dir: dir, headers: map[string][]string{}}

	lines, err := ds.readTable(linesFile, true)
	if err != nil {
		return nil, err
	}
	routes, err := ds.readTable(routesFile, true)
	if err != nil {
		return nil, err
	}
	codes, err := ds.readTable(objectCodesFile, false)
	if err != nil {
		return nil, err
	}
	geometries, err := ds.readTable(geometriesFile, false)
	if err != nil {
		return nil, err
	}

	byObject := groupCodes(codes)

	lineObjects := make([]model.Line, 0, len(lines.rows))
	for _, row := range lines.rows {
		id := row["line_id"]
		lineObjects = append(lineObjects, model.Line{
			ID:         id,
			Name:       row["line_name"],
			GeometryID: row["geometry_id"],
			Codes:      byObject["line"][id],
			Fields:     row,
		})
	}
	routeObjects := make([]model.Route, 0, len(routes.rows))
	for _, row := range routes.rows {
		id := row["route_id"]
		routeObjects = append(routeObjects, model.Route{
			ID:         id,
			LineID:     row["line_id"],
			Name:       row["route_name"],
			GeometryID: row["geometry_id"],
			Codes:      byObject["route"][id],
			Fields:     row,
		})
	}
	geometryObjects := make([]model.Geometry, 0, len(geometries.rows))
	for _, row := range geometries.rows {
		shape, err := wkt.Unmarshal(row["geometry_wkt"])
		if err != nil {
			return nil, fmt.Errorf("invalid wkt for geometry %q: %w", row["geometry_id"], err)
		}
		geometryObjects = append(geometryObjects, model.Geometry{ID: row["geometry_id"], Shape: shape})
	}

	c := &model.Collections{}
	if c.Lines, err = model.NewCollection(lineObjects); err != nil {
		return nil, fmt.Errorf("%s: %w", linesFile, err)
	}
	if c.Routes, err = model.NewCollection(routeObjects); err != nil {
		return nil, fmt.Errorf("%s: %w", routesFile, err)
	}
	if c.Geometries, err = model.NewCollection(geometryObjects); err != nil {
		return nil, fmt.Errorf("%s: %w", geometriesFile, err)
	}
	ds.Collections = c
	return ds, nil
}

// groupCodes indexes object_codes.txt rows: object_type -> object_id -> codes
func groupCodes(t table) map[string]map[string]model.Codes {
	out := map[string]map[string]model.Codes{}
	for _, row := range t.rows {
		objectType := row["object_type"]
		if out[objectType] == nil {
			out[objectType] = map[string]model.Codes{}
		}
		out[objectType][row["object_id"]] = append(out[objectType][row["object_id"]], model.Code{
			Type:  row["object_system"],
			Value: row["object_code"],
		})
	}
	return out
}

func (ds *Dataset) readTable(name string, required bool) (table, error) {
	f, err := os.Open(filepath.Join(ds.Dir, name))
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return table{}, nil
		}
		return table{}, err
	}
	defer f.Close()

	t, err := consumeCSV(f)
	if err != nil {
		return table{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	ds.headers[name] = t.header
	return t, nil
}

func consumeCSV(r io.Reader) (table, error) {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return table{}, err
	}
	if len(rec) == 0 {
		return table{}, nil
	}
	head := rec[0]
	head[0] = strings.TrimPrefix(head[0], "\ufeff")
	for i := range head {
		head[i] = strings.TrimSpace(head[i])
	}
	t := table{header: head, rows: make([]map[string]string, 0, len(rec)-1)}
	for _, row := range rec[1:] {
		m := make(map[string]string, len(head))
		for i, h := range head {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		t.rows = append(t.rows, m)
	}
	return t, nil
}
