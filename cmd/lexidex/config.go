package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gcbaptista/lexidex/config"
)

// fileConfig is the TOML shape of the CLI's static configuration: server
// settings plus the index definitions to provision on startup if they
// don't already exist on disk.
type fileConfig struct {
	Server  serverConfig   `toml:"server"`
	Indexes []indexDefConf `toml:"index"`
}

type serverConfig struct {
	Port    string `toml:"port"`
	DataDir string `toml:"data_dir"`
	Workers int    `toml:"workers"`
}

// indexDefConf is the TOML-representable subset of config.Options: the
// injectable ExtractField/Tokenize/ProcessTerm hooks are Go closures and
// have no file representation, so indexes needing custom hooks must be
// created through the library directly rather than the config file.
type indexDefConf struct {
	Name        string   `toml:"name"`
	Fields      []string `toml:"fields"`
	IDField     string   `toml:"id_field"`
	StoreFields []string `toml:"store_fields"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Server: serverConfig{
			Port:    "8080",
			DataDir: "./lexidex_data",
			Workers: 4,
		},
	}
}

func loadFileConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (d indexDefConf) toOptions() config.Options {
	return config.Options{
		Name:        d.Name,
		Fields:      d.Fields,
		IDField:     d.IDField,
		StoreFields: d.StoreFields,
	}
}
