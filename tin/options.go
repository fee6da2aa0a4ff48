package tin

import "go.uber.org/zap"

// Option configures a Tin during construction.
type Option func(*config)

type config struct {
	logger          *zap.Logger
	preAllocateHint int
	walkSeed        uint32
}

func defaultConfig() config {
	return config{
		logger:   zap.NewNop(),
		walkSeed: 1,
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPreAllocation pre-reserves pool pages for the expected vertex count.
func WithPreAllocation(vertexCount int) Option {
	return func(c *config) {
		if vertexCount > 0 {
			c.preAllocateHint = vertexCount
		}
	}
}

// WithWalkSeed overrides the point-location PRNG seed. The default seed of
// 1 gives reproducible walks; Clear resets to the configured seed.
func WithWalkSeed(seed uint32) Option {
	return func(c *config) {
		if seed != 0 {
			c.walkSeed = seed
		}
	}
}
