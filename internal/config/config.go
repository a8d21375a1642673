// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package config loads png2webp's optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/nigeltao/png2webp/lib/convert"

	"gopkg.in/yaml.v3"
)

// DefaultDir is the directory converted when none is given.
const DefaultDir = "public/images"

var ErrBadConfig = errors.New("config: bad config")

// Config is the configuration file's contents. Fields absent from the file
// keep their Default values.
type Config struct {
	Dir     string `yaml:"dir"`
	Quality int    `yaml:"quality"`
	Method  int    `yaml:"method"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Dir:     DefaultDir,
		Quality: convert.DefaultQuality,
		Method:  convert.DefaultMethod,
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field is in range.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: dir is required", ErrBadConfig)
	}
	if (c.Quality < 0) || (c.Quality > 100) {
		return fmt.Errorf("%w: quality %d is outside [0, 100]", ErrBadConfig, c.Quality)
	}
	if (c.Method < 0) || (c.Method > convert.MaxMethod) {
		return fmt.Errorf("%w: method %d is outside [0, %d]", ErrBadConfig, c.Method, convert.MaxMethod)
	}
	return nil
}

// Options returns the conversion options that c describes.
func (c *Config) Options() *convert.Options {
	return &convert.Options{
		Quality: c.Quality,
		Method:  c.Method,
	}
}
