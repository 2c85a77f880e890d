// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package model defines the sequence-model collaborator contract and an
// in-process synthetic implementation.
//
// The analytics and solver packages treat the model as a black box behind
// the Collaborator interface: given a token sequence it yields logits,
// per-layer activation tensors (two streams), attention tensors, and a
// learned connectivity matrix. The forward computation itself is out of
// scope here.
//
// Synthetic is a deterministic stand-in for an untrained checkpoint: the
// service can run every analysis and scored solve without hardware or a
// trained model, the way the original deployment served a randomly
// initialized network when no checkpoint was present.
//
// Handle owns model lifecycle explicitly: collaborators are built once on
// first use and reused across calls, replacing any notion of an implicit
// global model cache.
package model
