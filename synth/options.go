// SPDX-License-Identifier: MIT

package synth

import "math"

// Option customizes Generate. Constructors panic on meaningless input.
type Option func(*genConfig)

type genConfig struct {
	seed            int64
	hosts           int
	cepheidsPerHost int
	anchorCepheids  int
	mwCepheids      int
	trgbHosts       int
	hubbleSNe       int
	noise           float64
	outliers        int
	h0              float64
	q0, j0          float64
}

const (
	defaultHosts           = 8
	defaultCepheidsPerHost = 20
	defaultAnchorCepheids  = 40
	defaultMWCepheids      = 30
	defaultTRGBHosts       = 4
	defaultHubbleSNe       = 120
	defaultH0              = 73.0
)

func newConfig(opts []Option) genConfig {
	c := genConfig{
		seed:            defaultSeed,
		hosts:           defaultHosts,
		cepheidsPerHost: defaultCepheidsPerHost,
		anchorCepheids:  defaultAnchorCepheids,
		mwCepheids:      defaultMWCepheids,
		trgbHosts:       defaultTRGBHosts,
		hubbleSNe:       defaultHubbleSNe,
		noise:           1,
		h0:              defaultH0,
		q0:              -0.55,
		j0:              1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.trgbHosts > c.hosts {
		c.trgbHosts = c.hosts
	}
	return c
}

// WithSeed fixes the random seed. Zero means the default seed.
func WithSeed(seed int64) Option {
	return func(c *genConfig) { c.seed = seed }
}

// WithHosts sets the number of SN-host galaxies with Cepheids. Panics if n < 1.
func WithHosts(n int) Option {
	if n < 1 {
		panic("synth: WithHosts(n<1)")
	}
	return func(c *genConfig) { c.hosts = n }
}

// WithCepheidsPerHost sets the Cepheid count of every host. Panics if n < 1.
func WithCepheidsPerHost(n int) Option {
	if n < 1 {
		panic("synth: WithCepheidsPerHost(n<1)")
	}
	return func(c *genConfig) { c.cepheidsPerHost = n }
}

// WithAnchorCepheids sets the number of anchor Cepheids. Panics if n < 2.
func WithAnchorCepheids(n int) Option {
	if n < 2 {
		panic("synth: WithAnchorCepheids(n<2)")
	}
	return func(c *genConfig) { c.anchorCepheids = n }
}

// WithMWCepheids sets the number of Milky Way Cepheids. Panics if n < 0.
func WithMWCepheids(n int) Option {
	if n < 0 {
		panic("synth: WithMWCepheids(n<0)")
	}
	return func(c *genConfig) { c.mwCepheids = n }
}

// WithTRGBHosts sets how many hosts also carry a TRGB distance. Panics if n < 0.
func WithTRGBHosts(n int) Option {
	if n < 0 {
		panic("synth: WithTRGBHosts(n<0)")
	}
	return func(c *genConfig) { c.trgbHosts = n }
}

// WithHubbleSNe sets the size of the Hubble-flow sample. Panics if n < 1.
func WithHubbleSNe(n int) Option {
	if n < 1 {
		panic("synth: WithHubbleSNe(n<1)")
	}
	return func(c *genConfig) { c.hubbleSNe = n }
}

// WithNoise scales every measurement error; 0 gives noiseless data.
// Panics if scale < 0.
func WithNoise(scale float64) Option {
	if scale < 0 || math.IsNaN(scale) {
		panic("synth: WithNoise(scale<0)")
	}
	return func(c *genConfig) { c.noise = scale }
}

// WithOutliers shifts n host Cepheids by OutlierShift magnitudes.
// Panics if n < 0.
func WithOutliers(n int) Option {
	if n < 0 {
		panic("synth: WithOutliers(n<0)")
	}
	return func(c *genConfig) { c.outliers = n }
}

// WithH0 sets the true Hubble constant in km/s/Mpc. Panics if h0 <= 0.
func WithH0(h0 float64) Option {
	if !(h0 > 0) {
		panic("synth: WithH0(h0<=0)")
	}
	return func(c *genConfig) { c.h0 = h0 }
}

// WithCosmology sets the deceleration q0 and jerk j0 of the Hubble sample.
func WithCosmology(q0, j0 float64) Option {
	return func(c *genConfig) { c.q0, c.j0 = q0, j0 }
}
