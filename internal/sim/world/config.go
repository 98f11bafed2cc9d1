package world

type Config struct {
	Seed int64

	// TileDegrees is the coordinate-to-geographic scale: one lattice step
	// spans this many degrees of latitude/longitude.
	TileDegrees float64

	// NeighborhoodRadius bounds the rendered square; InteractRadius bounds
	// the clickable square. Both are Chebyshev radii.
	NeighborhoodRadius int
	InteractRadius     int

	// SpawnPermille is the probability (per mille) that a cell naturally
	// holds a token.
	SpawnPermille int

	// WinThreshold raises the victory signal when a held or crafted token
	// reaches it. Play continues afterwards.
	WinThreshold Content
}

func (c *Config) applyDefaults() {
	if c.Seed == 0 {
		c.Seed = 1337
	}
	if c.TileDegrees <= 0 {
		c.TileDegrees = 1e-4
	}
	if c.NeighborhoodRadius <= 0 {
		c.NeighborhoodRadius = 8
	}
	if c.InteractRadius <= 0 {
		c.InteractRadius = 3
	}
	if c.SpawnPermille <= 0 {
		c.SpawnPermille = 100
	}
	if c.WinThreshold <= 0 {
		c.WinThreshold = 64
	}
}
