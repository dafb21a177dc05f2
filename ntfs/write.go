package ntfs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/encoding/wkt"
)

// Write saves the dataset to dir. Files other than lines.txt, routes.txt and
// geometries.txt are copied from the input directory.
func Write(ds *Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := ds.copyUntouched(dir); err != nil {
		return err
	}

	lines := ds.Collections.Lines.Values()
	lineRows := make([]map[string]string, 0, len(lines))
	for _, l := range lines {
		lineRows = append(lineRows, withGeometry(l.Fields, "line_id", l.ID, l.GeometryID))
	}
	if err := writeTable(filepath.Join(dir, linesFile), ds.header(linesFile, "line_id"), lineRows); err != nil {
		return err
	}

	routes := ds.Collections.Routes.Values()
	routeRows := make([]map[string]string, 0, len(routes))
	for _, r := range routes {
		routeRows = append(routeRows, withGeometry(r.Fields, "route_id", r.ID, r.GeometryID))
	}
	if err := writeTable(filepath.Join(dir, routesFile), ds.header(routesFile, "route_id"), routeRows); err != nil {
		return err
	}

	geometries := ds.Collections.Geometries.Values()
	geometryRows := make([]map[string]string, 0, len(geometries))
	for _, g := range geometries {
		geometryRows = append(geometryRows, map[string]string{
			"geometry_id":  g.ID,
			"geometry_wkt": wkt.MarshalString(g.Shape),
		})
	}
	return writeTable(filepath.Join(dir, geometriesFile), []string{"geometry_id", "geometry_wkt"}, geometryRows)
}

// header returns the header as read, with geometry_id appended when missing
func (ds *Dataset) header(name, idColumn string) []string {
	read := ds.headers[name]
	if len(read) == 0 {
		read = []string{idColumn}
	}
	out := append([]string(nil), read...)
	for _, h := range out {
		if h == "geometry_id" {
			return out
		}
	}
	return append(out, "geometry_id")
}

func withGeometry(fields map[string]string, idColumn, id, geometryID string) map[string]string {
	row := make(map[string]string, len(fields)+2)
	for k, v := range fields {
		row[k] = v
	}
	row[idColumn] = id
	row["geometry_id"] = geometryID
	return row
}

func writeTable(path string, header []string, rows []map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, h := range header {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func (ds *Dataset) copyUntouched(dir string) error {
	if ds.Dir == "" {
		return nil
	}
	same, err := sameDir(ds.Dir, dir)
	if err != nil || same {
		return err
	}
	entries, err := os.ReadDir(ds.Dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch e.Name() {
		case linesFile, routesFile, geometriesFile:
			continue
		}
		if err := copyFile(filepath.Join(ds.Dir, e.Name()), filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func sameDir(a, b string) (bool, error) {
	sa, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(sa, sb), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
