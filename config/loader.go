package config

import (
	"errors"
	"io/fs"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/osmtransit"
)

// Config is the global application configuration
var Config AppConfig

// defaultPaths are searched when no explicit path is given
var defaultPaths = []string{"config.yml", "./config/config.yml"}

// LoadAppConfig loads and validates the application configuration.
// An explicit path must exist; without one, the default locations are tried
// and defaults are used when none exists.
func LoadAppConfig(path string) error {
	var data []byte
	var err error
	if path != "" {
		if data, err = os.ReadFile(path); err != nil {
			return err
		}
	} else {
		for _, p := range defaultPaths {
			data, err = os.ReadFile(p)
			if err == nil {
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
	}

	var cfg AppConfig
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return err
		}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	applyDefaults(&cfg)
	Config = cfg
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.OSM.Parallelism == 0 {
		cfg.OSM.Parallelism = runtime.GOMAXPROCS(0)
	}
	if len(cfg.OSM.RouteModes) == 0 {
		cfg.OSM.RouteModes = append([]string(nil), osmtransit.DefaultRouteModes...)
	}
}

// ExtractOptions converts the OSM section to extraction options
func (c OSMConfig) ExtractOptions() osmtransit.Options {
	return osmtransit.Options{
		Parallelism: c.Parallelism,
		RouteModes:  c.RouteModes,
	}
}
