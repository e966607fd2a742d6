package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// fileConfig is the optional project-level configuration spec's AMBIENT
// STACK describes: an `lsc.yaml` in the working directory supplying
// defaults that CLI flags always override.
type fileConfig struct {
	CC       string `yaml:"cc"`
	Backend  string `yaml:"backend"`
	Passes   int    `yaml:"passes"`
	CacheDir string `yaml:"cache_dir"`
	MaxSpeed bool   `yaml:"max_speed"`
	Target   string `yaml:"target"`
	Sysroot  string `yaml:"sysroot"`
	Linker   string `yaml:"linker"`
}

// loadConfigFile reads lsc.yaml from the working directory, if present.
// A missing file is not an error; a malformed one is.
func loadConfigFile() (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile("lsc.yaml")
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
