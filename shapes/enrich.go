package shapes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/paulmach/orb/geo"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/model"
	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/osmtransit"
)

// Options configure FromOSM
type Options struct {
	// Logger receives progress and warnings; nil discards them.
	Logger *zap.Logger
	// Extract is passed to the OSM extraction.
	Extract osmtransit.Options
	// CachePath, when set, stores the extracted OSM objects between runs.
	CachePath string
}

// FromOSM reads an OSM extract and attaches its shapes to collections
func FromOSM(ctx context.Context, path string, collections *model.Collections, opts Options) error {
	if !utf8.ValidString(path) {
		return ErrInvalidPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	objects, err := loadObjects(ctx, path, opts, logger)
	if err != nil {
		return err
	}
	return Enrich(collections, objects, logger)
}

func loadObjects(ctx context.Context, path string, opts Options, logger *zap.Logger) (*osmtransit.Objects, error) {
	var source osmtransit.Source
	if opts.CachePath != "" {
		var err error
		if source, err = osmtransit.NewSource(path, opts.Extract); err == nil {
			objects, err := osmtransit.LoadCache(opts.CachePath, source)
			if err == nil {
				logger.Info("loaded osm objects from cache", zap.String("cache", opts.CachePath))
				return objects, nil
			}
			if !errors.Is(err, os.ErrNotExist) {
				logger.Warn("ignoring osm cache", zap.String("cache", opts.CachePath), zap.Error(err))
			}
		}
	}

	start := time.Now()
	objects, err := osmtransit.ParseFile(ctx, path, opts.Extract)
	if err != nil {
		return nil, fmt.Errorf("failed to parse osm extract %s: %w", path, err)
	}
	logger.Info("parsed osm extract",
		zap.String("path", path),
		zap.Int("lines", len(objects.Lines)),
		zap.Int("routes", len(objects.Routes)),
		zap.Duration("took", time.Since(start)),
	)

	if opts.CachePath != "" && source.Path != "" {
		if err := osmtransit.SerializeObjectsToFile(objects, source, opts.CachePath); err != nil {
			logger.Warn("failed to write osm cache", zap.String("cache", opts.CachePath), zap.Error(err))
		}
	}
	return objects, nil
}

// Enrich correlates lines then routes with the OSM objects and commits the
// result. On error, collections are left unchanged.
func Enrich(collections *model.Collections, objects *osmtransit.Objects, logger *zap.Logger) (err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if objects == nil {
		return fmt.Errorf("no osm objects: %w", ErrMissingOsmCollection)
	}
	ensureCollections(collections)

	linesByID, err := IndexByID(objects.Lines, "lines")
	if err != nil {
		return err
	}
	routesByID, err := IndexByID(objects.Routes, "routes")
	if err != nil {
		return err
	}

	geometries := collections.Geometries.Take()
	detached := len(geometries)
	defer func() {
		if err != nil {
			// the detached geometries were valid, restoring them cannot fail
			_ = collections.Geometries.Replace(geometries[:detached:detached])
		}
	}()

	lineWarnings := NewWarningAggregator(logger)
	lines, err := PopulateShapes(&geometries, collections.Lines, linesByID, KindLine, lineWarnings)
	if err != nil {
		return err
	}
	lineWarnings.LogAll(KindLine)
	createdLines := len(geometries) - detached

	routeWarnings := NewWarningAggregator(logger)
	routes, err := PopulateShapes(&geometries, collections.Routes, routesByID, KindRoute, routeWarnings)
	if err != nil {
		return err
	}
	routeWarnings.LogAll(KindRoute)
	createdRoutes := len(geometries) - detached - createdLines

	committed, err := commitGeometries(geometries)
	if err != nil {
		return err
	}

	collections.Lines = lines
	collections.Routes = routes
	collections.Geometries = committed

	logger.Info("attached osm shapes",
		zap.Int("line_geometries", createdLines),
		zap.Int("route_geometries", createdRoutes),
		zap.Float64("length_km", lengthKM(geometries[detached:])),
	)
	return nil
}

// commitGeometries re-validates the pre-existing and generated geometries
// together; pre-existing ones come from user data.
func commitGeometries(geometries []model.Geometry) (*model.Collection[model.Geometry], error) {
	c, err := model.NewCollection(geometries)
	if err != nil {
		return nil, fmt.Errorf("invalid geometries: %w", err)
	}
	return c, nil
}

func ensureCollections(c *model.Collections) {
	if c.Lines == nil {
		c.Lines = model.MustNewCollection[model.Line](nil)
	}
	if c.Routes == nil {
		c.Routes = model.MustNewCollection[model.Route](nil)
	}
	if c.Geometries == nil {
		c.Geometries = model.MustNewCollection[model.Geometry](nil)
	}
}

func lengthKM(geometries []model.Geometry) float64 {
	total := 0.0
	for _, g := range geometries {
		total += geo.LengthHaversine(g.Shape)
	}
	return total / 1000
}
