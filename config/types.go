package config

// LoggingConfig contains logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// OSMConfig contains OSM extract configuration
type OSMConfig struct {
	Extract     string   `yaml:"extract" validate:"omitempty"`
	Parallelism int      `yaml:"parallelism" validate:"gte=0"`
	RouteModes  []string `yaml:"routeModes" validate:"omitempty,dive,required"`
	CachePath   string   `yaml:"cachePath" validate:"omitempty"`
}

// DatasetConfig contains NTFS input/output directories
type DatasetConfig struct {
	Input  string `yaml:"input" validate:"omitempty"`
	Output string `yaml:"output" validate:"omitempty"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	OSM     OSMConfig     `yaml:"osm"`
	Dataset DatasetConfig `yaml:"dataset"`
}
