package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML file of settings and layers the environment on top.
// Keys are the environment variable names in any case, e.g. "page_size: 200".
// ${VAR} references in the file are expanded before parsing.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw map[string]string
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}

	file := make(map[string]string, len(raw))
	for k, v := range raw {
		file[strings.ToUpper(k)] = v
	}

	return load(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}), nil
}
