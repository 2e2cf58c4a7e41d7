package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/strager/coffee/codegen"
)

const (
	configEnv  = "COFFEE_CONFIG"
	configFile = "coffee.yaml"
)

// Config holds the settings read from coffee.yaml. Command-line flags
// override them.
type Config struct {
	Module   string `yaml:"module"`
	Passes   string `yaml:"passes"`
	Optimize bool   `yaml:"optimize"`
	History  string `yaml:"history"`
}

func defaultConfig() Config {
	return Config{
		Module:   "coffee",
		Passes:   codegen.DefaultPasses,
		Optimize: true,
		History:  ".coffee_history",
	}
}

// loadConfig reads the file named by $COFFEE_CONFIG, or coffee.yaml in the
// working directory. A missing coffee.yaml means defaults; a missing
// $COFFEE_CONFIG file is an error.
func loadConfig() (Config, error) {
	path, explicit := os.LookupEnv(configEnv)
	if !explicit {
		path = configFile
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg, err := decodeConfig(file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader) (Config, error) {
	cfg := defaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) codegenOptions() []codegen.Option {
	return []codegen.Option{codegen.WithModuleName(c.Module), codegen.WithPasses(c.Passes)}
}
