// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate checks the struct tags after load.
var validate = validator.New()

// Load reads the config at path, creating it with defaults on first run.
func Load(path string) (EvidenceConfig, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefault(path); err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse the config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills zero values left by a partial file.
func applyDefaults(cfg *EvidenceConfig) {
	def := DefaultConfig()
	if cfg.Tokenizer.Fallback == "" {
		cfg.Tokenizer.Fallback = def.Tokenizer.Fallback
	}
	if cfg.Batching.Window == 0 {
		cfg.Batching.Window = def.Batching.Window
	}
	if cfg.Batching.Separator == "" {
		cfg.Batching.Separator = def.Batching.Separator
	}
	if cfg.Verification.ContextTokens == 0 {
		cfg.Verification.ContextTokens = def.Verification.ContextTokens
	}
	if cfg.Verification.MinMatchRatio == 0 {
		cfg.Verification.MinMatchRatio = def.Verification.MinMatchRatio
	}
	if cfg.Verification.NotFoundFloor == 0 {
		cfg.Verification.NotFoundFloor = def.Verification.NotFoundFloor
	}
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
