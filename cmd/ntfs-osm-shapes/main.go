package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/config"
	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/internal"
	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/ntfs"
	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/shapes"
)

type flags struct {
	configPath  string
	input       string
	output      string
	extract     string
	cachePath   string
	logLevel    string
	logFormat   string
	parallelism int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(logOut io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "ntfs-osm-shapes",
		Short: "Attach OpenStreetMap shapes to the lines and routes of an NTFS dataset",
		Long: `Reads an NTFS dataset and an OpenStreetMap extract (.osm.pbf or .osm).
Lines and routes carrying an osm_line_id / osm_route_id object code get a
geometry built from the matching OSM relation, and the dataset is written to
the output directory.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, logOut)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "config file (default: ./config.yml if present)")
	fl.StringVarP(&f.input, "input", "i", "", "input NTFS directory")
	fl.StringVarP(&f.output, "output", "o", "", "output NTFS directory")
	fl.StringVar(&f.extract, "osm", "", "OpenStreetMap extract (.osm.pbf or .osm)")
	fl.StringVar(&f.cachePath, "cache", "", "file caching the objects extracted from the OSM extract")
	fl.StringVar(&f.logLevel, "log-level", "", "debug|info|warn|error")
	fl.StringVar(&f.logFormat, "log-format", "", "console|json")
	fl.IntVarP(&f.parallelism, "parallelism", "j", 0, "PBF decoding goroutines")
	return cmd
}

// resolve merges command-line flags over the loaded configuration
func resolve(f flags) (config.AppConfig, error) {
	if err := config.LoadAppConfig(f.configPath); err != nil {
		return config.AppConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Config
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Dataset.Input, f.input)
	override(&cfg.Dataset.Output, f.output)
	override(&cfg.OSM.Extract, f.extract)
	override(&cfg.OSM.CachePath, f.cachePath)
	override(&cfg.Logging.Level, f.logLevel)
	override(&cfg.Logging.Format, f.logFormat)
	if f.parallelism > 0 {
		cfg.OSM.Parallelism = f.parallelism
	}

	var missing []error
	if cfg.Dataset.Input == "" {
		missing = append(missing, errors.New("input directory is required"))
	}
	if cfg.Dataset.Output == "" {
		missing = append(missing, errors.New("output directory is required"))
	}
	if cfg.OSM.Extract == "" {
		missing = append(missing, errors.New("osm extract is required"))
	}
	return cfg, errors.Join(missing...)
}

func run(ctx context.Context, f flags, logOut io.Writer) error {
	cfg, err := resolve(f)
	if err != nil {
		return err
	}
	logger, err := internal.NewLogger(logOut, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	defer func() { _ = logger.Sync() }()

	ds, err := ntfs.Read(cfg.Dataset.Input)
	if err != nil {
		logger.Error("failed to read dataset", zap.String("input", cfg.Dataset.Input), zap.Error(err))
		return err
	}
	logger.Info("dataset loaded",
		zap.String("input", cfg.Dataset.Input),
		zap.Int("lines", ds.Collections.Lines.Len()),
		zap.Int("routes", ds.Collections.Routes.Len()),
		zap.Int("geometries", ds.Collections.Geometries.Len()),
	)

	err = shapes.FromOSM(ctx, cfg.OSM.Extract, ds.Collections, shapes.Options{
		Logger:    logger,
		Extract:   cfg.OSM.ExtractOptions(),
		CachePath: cfg.OSM.CachePath,
	})
	if err != nil {
		logger.Error("failed to attach osm shapes", zap.String("osm", cfg.OSM.Extract), zap.Error(err))
		return err
	}

	if err := ntfs.Write(ds, cfg.Dataset.Output); err != nil {
		logger.Error("failed to write dataset", zap.String("output", cfg.Dataset.Output), zap.Error(err))
		return err
	}
	logger.Info("dataset written",
		zap.String("output", cfg.Dataset.Output),
		zap.Int("geometries", ds.Collections.Geometries.Len()),
	)
	return nil
}
