// Package config handles meshtool configuration loading.
package config

// Config holds all meshtool settings.
type Config struct {
	Meshes  MeshConfig    `yaml:"meshes"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig holds mesh archive lookup settings.
type MeshConfig struct {
	// SearchPaths are directories tried, in order, when an archive is
	// given as a bare filename.
	SearchPaths []string `yaml:"search_paths"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Meshes: MeshConfig{
			SearchPaths: []string{"."},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
