// Copyright 2026 The Png2webp Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(tt *testing.T, content string) string {
	tt.Helper()
	path := filepath.Join(tt.TempDir(), "png2webp.yaml")
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		tt.Fatalf("os.WriteFile: %v", err)
	}
	return path
}

func TestDefault(tt *testing.T) {
	cfg := Default()
	if (cfg.Dir != "public/images") || (cfg.Quality != 85) || (cfg.Method != 6) {
		tt.Errorf("got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		tt.Errorf("Validate: %v", err)
	}
}

func TestLoad(tt *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    Config
	}{
		{"full", "dir: assets\nquality: 70\nmethod: 4\n", Config{"assets", 70, 4}},
		{"partial", "quality: 90\n", Config{"public/images", 90, 6}},
		{"empty", "", Config{"public/images", 85, 6}},
		{"zero-quality", "quality: 0\n", Config{"public/images", 0, 6}},
	}

	for _, tc := range testCases {
		cfg, err := Load(writeConfig(tt, tc.content))
		if err != nil {
			tt.Errorf("tc=%q: Load: %v", tc.name, err)
			continue
		}
		if *cfg != tc.want {
			tt.Errorf("tc=%q: got %+v, want %+v", tc.name, *cfg, tc.want)
		}
	}
}

func TestLoadRejectsBadConfig(tt *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"quality-too-high", "quality: 101\n"},
		{"quality-negative", "quality: -5\n"},
		{"method-too-high", "method: 7\n"},
		{"empty-dir", "dir: \"\"\n"},
	}

	for _, tc := range testCases {
		_, err := Load(writeConfig(tt, tc.content))
		if !errors.Is(err, ErrBadConfig) {
			tt.Errorf("tc=%q: got %v, want ErrBadConfig", tc.name, err)
		}
	}

	if _, err := Load(writeConfig(tt, "quality: [1, 2\n")); err == nil {
		tt.Errorf("malformed YAML: got nil error")
	}
	if _, err := Load(filepath.Join(tt.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		tt.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}
}

func TestOptions(tt *testing.T) {
	o := (&Config{Dir: "d", Quality: 42, Method: 3}).Options()
	if (o.Quality != 42) || (o.Method != 3) {
		tt.Errorf("got %+v", o)
	}
}
