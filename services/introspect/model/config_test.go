// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_ValidateDefaults verifies zero values pick up defaults.
func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultConfig(), cfg)
}

// TestConfig_ValidatePartial verifies set fields survive defaulting.
func TestConfig_ValidatePartial(t *testing.T) {
	cfg := Config{Layers: 2, Neurons: 64}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.Layers)
	assert.Equal(t, 64, cfg.Neurons)
	assert.Equal(t, DefaultVocab, cfg.Vocab)
	assert.Equal(t, int64(DefaultSeed), cfg.Seed)
}

// TestConfig_ValidateNegative verifies negative dimensions are rejected.
func TestConfig_ValidateNegative(t *testing.T) {
	cfg := Config{Layers: -1}
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

// TestLoadConfig verifies YAML loading with defaulting for omitted fields.
func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	data := []byte("vocab: 5\nlayers: 4\nneurons: 128\nseed: 7\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Vocab)
	assert.Equal(t, 4, cfg.Layers)
	assert.Equal(t, 128, cfg.Neurons)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, DefaultSeqLen, cfg.SeqLen, "omitted field should default")
}

// TestLoadConfig_Errors covers missing files and malformed YAML.
func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vocab: [not a number"), 0o644))
	_, err = LoadConfig(path)
	require.Error(t, err)

	path = filepath.Join(t.TempDir(), "negative.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layers: -3\n"), 0o644))
	_, err = LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
