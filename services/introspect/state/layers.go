// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package state

import "fmt"

// LayerStats carries per-layer summary statistics for both activation streams.
type LayerStats struct {
	Layer int `json:"layer"`

	PrimaryMean     float64 `json:"primary_mean"`
	PrimaryStd      float64 `json:"primary_std"`
	PrimaryMax      float64 `json:"primary_max"`
	PrimaryMin      float64 `json:"primary_min"`
	PrimarySparsity float64 `json:"primary_sparsity"`

	SecondaryMean     float64 `json:"secondary_mean"`
	SecondaryStd      float64 `json:"secondary_std"`
	SecondaryMax      float64 `json:"secondary_max"`
	SecondaryMin      float64 `json:"secondary_min"`
	SecondarySparsity float64 `json:"secondary_sparsity"`
}

// LayerStatistics computes mean/std/min/max and nonzero fraction per layer
// for the primary stream and, when supplied, the secondary stream.
//
// The secondary stream must have the same layer count as the primary; its
// fields stay zero when it is absent. Empty primary input yields an empty
// slice and nil error.
func LayerStatistics(primary, secondary [][][]float64) ([]LayerStats, error) {
	if len(primary) == 0 {
		return []LayerStats{}, nil
	}
	if _, _, err := streamShape(primary); err != nil {
		return nil, err
	}
	if secondary != nil {
		if len(secondary) != len(primary) {
			return nil, fmt.Errorf("secondary stream has %d layers, want %d: %w",
				len(secondary), len(primary), ErrShapeMismatch)
		}
		if _, _, err := streamShape(secondary); err != nil {
			return nil, err
		}
	}

	stats := make([]LayerStats, len(primary))
	for l := range primary {
		s := LayerStats{Layer: l}
		s.PrimaryMean, s.PrimaryStd, s.PrimaryMin, s.PrimaryMax, s.PrimarySparsity = matrixStats(primary[l])
		if secondary != nil {
			s.SecondaryMean, s.SecondaryStd, s.SecondaryMin, s.SecondaryMax, s.SecondarySparsity = matrixStats(secondary[l])
		}
		stats[l] = s
	}
	return stats, nil
}

// matrixStats flattens one layer matrix and summarizes it.
func matrixStats(matrix [][]float64) (m, sd, lo, hi, sparsity float64) {
	size := 0
	for _, row := range matrix {
		size += len(row)
	}
	flat := make([]float64, 0, size)
	nonzero := 0
	for _, row := range matrix {
		for _, v := range row {
			flat = append(flat, v)
			if v != 0 {
				nonzero++
			}
		}
	}
	if len(flat) == 0 {
		return 0, 0, 0, 0, 0
	}
	lo, hi = minMax(flat)
	return mean(flat), stddev(flat), lo, hi, float64(nonzero) / float64(len(flat))
}
