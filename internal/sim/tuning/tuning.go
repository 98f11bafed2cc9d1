package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the startup configuration. It is read once; nothing here is
// hot-reloadable.
type Tuning struct {
	Seed int64 `yaml:"seed"`

	TileDegrees        float64 `yaml:"tile_degrees"`
	NeighborhoodRadius int     `yaml:"neighborhood_radius"`
	InteractRadius     int     `yaml:"interact_radius"`
	SpawnPermille      int     `yaml:"spawn_permille"`
	WinThreshold       int     `yaml:"win_threshold"`
}

func Defaults() Tuning {
	return Tuning{
		Seed:               1337,
		TileDegrees:        1e-4,
		NeighborhoodRadius: 8,
		InteractRadius:     3,
		SpawnPermille:      100,
		WinThreshold:       64,
	}
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
