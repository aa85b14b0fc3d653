// SPDX-License-Identifier: MIT

package synth

import "math/rand"

// defaultSeed replaces a zero seed.
const defaultSeed int64 = 1

// Stream identifiers, one per generated group.
const (
	streamHosts uint64 = iota + 1
	streamCepheids
	streamAnchors
	streamMW
	streamTRGB
	streamTRGBAnchors
	streamCalibrators
	streamHubble
	streamOutliers
)

// deriveSeed mixes a parent seed and a stream id with the SplitMix64
// finalizer.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// streamRNG returns the deterministic generator of one stream.
func streamRNG(seed int64, stream uint64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(deriveSeed(seed, stream)))
}

// uniform draws from [lo, hi).
func uniform(r *rand.Rand, lo, hi float64) float64 { return lo + (hi-lo)*r.Float64() }
