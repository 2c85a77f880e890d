// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default model dimensions, matching the reference deployment.
const (
	DefaultVocab   = 5
	DefaultSeqLen  = 100
	DefaultHeads   = 4
	DefaultNeurons = 2048
	DefaultLatent  = 64
	DefaultLayers  = 12
	DefaultSeed    = 1
)

// Config describes the model architecture and determinism seed.
type Config struct {
	// Vocab is the vocabulary size (one logit per symbol).
	Vocab int `yaml:"vocab" json:"vocabulary_size"`

	// SeqLen is the nominal sequence length the model was sized for.
	SeqLen int `yaml:"seq_len" json:"sequence_length"`

	// Heads is the attention head count.
	Heads int `yaml:"heads" json:"num_heads"`

	// Neurons is the neuron count per layer.
	Neurons int `yaml:"neurons" json:"num_neurons"`

	// Latent is the latent dimension.
	Latent int `yaml:"latent" json:"latent_dim"`

	// Layers is the layer count.
	Layers int `yaml:"layers" json:"num_layers"`

	// Seed fixes the synthetic model's parameters. Same seed, same model.
	Seed int64 `yaml:"seed" json:"-"`
}

// DefaultConfig returns the reference deployment dimensions.
func DefaultConfig() Config {
	return Config{
		Vocab:   DefaultVocab,
		SeqLen:  DefaultSeqLen,
		Heads:   DefaultHeads,
		Neurons: DefaultNeurons,
		Latent:  DefaultLatent,
		Layers:  DefaultLayers,
		Seed:    DefaultSeed,
	}
}

// Validate checks the configuration and applies defaults for zero values.
func (c *Config) Validate() error {
	if c.Vocab == 0 {
		c.Vocab = DefaultVocab
	}
	if c.SeqLen == 0 {
		c.SeqLen = DefaultSeqLen
	}
	if c.Heads == 0 {
		c.Heads = DefaultHeads
	}
	if c.Neurons == 0 {
		c.Neurons = DefaultNeurons
	}
	if c.Latent == 0 {
		c.Latent = DefaultLatent
	}
	if c.Layers == 0 {
		c.Layers = DefaultLayers
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Vocab < 0 || c.SeqLen < 0 || c.Heads < 0 || c.Neurons < 0 || c.Latent < 0 || c.Layers < 0 {
		return fmt.Errorf("negative dimension: %w", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a YAML model configuration from path.
//
// Missing fields fall back to defaults via Validate.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read model config: %w", err)
	}
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse model config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
