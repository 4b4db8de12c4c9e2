package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/larkery/tank-model/tank"
)

// LoadTankConfig reads a tank configuration YAML file over the defaults.
// An empty path returns the defaults unchanged; a file only needs to name
// the fields it overrides. Unreadable or malformed files are fatal: the
// daemon must not silently run a differently shaped tank than configured.
func LoadTankConfig(path string) tank.Config {
	cfg := tank.DefaultConfig()
	if path == "" {
		return cfg
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("unable to read tank config: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Fatalf("unable to parse tank config %s: %v", path, err)
	}
	logrus.Infof("Loaded tank configuration from %s", path)
	return cfg
}
