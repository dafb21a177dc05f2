package osmtransit

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

// cacheVersion is bumped whenever the layout of Objects or Source changes
const cacheVersion = 2

// ErrStaleCache is returned when a cache was written for another extract or other options
var ErrStaleCache = errors.New("osm cache does not match the extract")

// Source identifies the extract and the options a set of objects comes from
type Source struct {
	Path       string // absolute
	Size       int64
	ModTime    int64 // unix nanoseconds
	RouteModes []string
	SkipLines  bool
	SkipRoutes bool
}

// NewSource describes the extract at path parsed with opts
func NewSource(path string, opts Options) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Source{}, err
	}
	modes := opts.RouteModes
	if len(modes) == 0 {
		modes = DefaultRouteModes
	}
	modes = slices.Compact(slices.Sorted(slices.Values(modes)))
	return Source{
		Path:       abs,
		Size:       info.Size(),
		ModTime:    info.ModTime().UnixNano(),
		RouteModes: modes,
		SkipLines:  opts.SkipLines,
		SkipRoutes: opts.SkipRoutes,
	}, nil
}

// Equal tells whether both sources produce the same objects
func (s Source) Equal(o Source) bool {
	return s.Path == o.Path &&
		s.Size == o.Size &&
		s.ModTime == o.ModTime &&
		slices.Equal(s.RouteModes, o.RouteModes) &&
		s.SkipLines == o.SkipLines &&
		s.SkipRoutes == o.SkipRoutes
}

// cacheEntry keeps absent and empty kinds apart; gob drops empty slices.
type cacheEntry struct {
	Version   int
	Source    Source
	HasLines  bool
	HasRoutes bool
	Lines     []Line
	Routes    []Route
}

// SerializeObjects encodes extracted objects and their source with gob.
//
// Example:
//
//	source, _ := osmtransit.NewSource("city.osm.pbf", opts)
//	objects, _ := osmtransit.ParseFile(ctx, "city.osm.pbf", opts)
//	data, err := osmtransit.SerializeObjects(objects, source)
//	if err != nil {
//	    // handle error
//	}
//	os.WriteFile("/path/to/cache/city.gob", data, 0644)
func SerializeObjects(objects *Objects, source Source) ([]byte, error) {
	var buf bytes.Buffer
	if err := SerializeObjectsToWriter(objects, source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeObjects decodes objects previously encoded with SerializeObjects
func DeserializeObjects(data []byte) (*Objects, Source, error) {
	return DeserializeObjectsFromReader(bytes.NewReader(data))
}

// SerializeObjectsToFile writes extracted objects to a cache file
func SerializeObjectsToFile(objects *Objects, source Source, filepath string) error {
	data, err := SerializeObjects(objects, source)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// DeserializeObjectsFromFile reads extracted objects from a cache file.
// A missing file, a corrupted file and a file written by another version
// all return an error.
func DeserializeObjectsFromFile(filepath string) (*Objects, Source, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, Source{}, fmt.Errorf("failed to read cache file: %w", err)
	}
	return DeserializeObjects(data)
}

// LoadCache reads a cache file and checks it was written for source.
// Callers fall back to parsing the extract on any error.
func LoadCache(filepath string, source Source) (*Objects, error) {
	objects, cached, err := DeserializeObjectsFromFile(filepath)
	if err != nil {
		return nil, err
	}
	if !cached.Equal(source) {
		return nil, fmt.Errorf("%w: written for %s", ErrStaleCache, cached.Path)
	}
	return objects, nil
}

// SerializeObjectsToWriter writes extracted objects to w using gob encoding
func SerializeObjectsToWriter(objects *Objects, source Source, w io.Writer) error {
	entry := cacheEntry{
		Version:   cacheVersion,
		Source:    source,
		HasLines:  objects.Lines != nil,
		HasRoutes: objects.Routes != nil,
		Lines:     objects.Lines,
		Routes:    objects.Routes,
	}
	if err := gob.NewEncoder(w).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode osm objects: %w", err)
	}
	return nil
}

// DeserializeObjectsFromReader reads extracted objects from r using gob encoding
func DeserializeObjectsFromReader(r io.Reader) (*Objects, Source, error) {
	var entry cacheEntry
	if err := gob.NewDecoder(r).Decode(&entry); err != nil {
		return nil, Source{}, fmt.Errorf("failed to decode osm objects: %w", err)
	}
	if entry.Version != cacheVersion {
		return nil, Source{}, fmt.Errorf("osm cache version %d, want %d", entry.Version, cacheVersion)
	}
	out := &Objects{}
	if entry.HasLines {
		out.Lines = entry.Lines
		if out.Lines == nil {
			out.Lines = []Line{}
		}
	}
	if entry.HasRoutes {
		out.Routes = entry.Routes
		if out.Routes == nil {
			out.Routes = []Route{}
		}
	}
	return out, entry.Source, nil
}
