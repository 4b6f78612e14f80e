// Package rng provides deterministic random number generation for synthesizing
// stress-test diagrams.
//
// # Overview
//
// The RNG type ensures reproducible stress scenarios by deriving stage-specific
// seeds from a master seed. This allows each generation stage (item placement,
// tree shape, connection wiring) to have independent random sequences while the
// overall scenario stays reproducible from one seed.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: top-level seed for the whole stress scenario
//   - stageName: generation stage identifier (e.g., "tree_shape")
//   - configHash: hash of the scenario parameters
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism)
//  2. Different stages get independent random sequences (isolation)
//  3. Parameter changes result in different sequences (sensitivity)
//
// # Usage
//
// Create an RNG for each generation stage:
//
//	configHash := sha256.Sum256([]byte(paramsJSON))
//	treeRNG := rng.NewRNG(masterSeed, "tree_shape", configHash[:])
//	wireRNG := rng.NewRNG(masterSeed, "connections", configHash[:])
//
// Use the RNG for all random decisions in that stage:
//
//	itemCount := treeRNG.IntRange(10, 500)
//	width := treeRNG.Float64Range(40, 200)
//	if wireRNG.Bool() {
//	    // connect to a sibling instead of the parent
//	}
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Each goroutine should use its own RNG
// instance. Create stage-specific RNGs before spawning goroutines and pass
// them explicitly.
//
// # Performance
//
// The underlying math/rand.Rand is highly efficient:
//   - Uint64(): ~2ns per call
//   - Intn():   ~3ns per call
//   - Float64(): ~2ns per call
//
// Creating a new RNG costs ~8µs due to SHA-256 computation.
// Reuse RNG instances within a stage for best performance.
package rng
