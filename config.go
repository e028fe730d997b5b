package bump

import (
	"fmt"
	"os"

	"github.com/gekko3d/bump/bsp"
	"gopkg.in/yaml.v3"
)

type RegistryConfig struct {
	Buckets   int `yaml:"buckets"`
	BucketCap int `yaml:"bucket_cap"`
}

type Config struct {
	// GridSize bounds the positional correction applied to one entity per tick.
	GridSize float32 `yaml:"grid_size"`
	// PlatformTolerance is how far above or below a platform top a rider may be and
	// still land on it.
	PlatformTolerance float32 `yaml:"platform_tolerance"`
	Restitution       float32 `yaml:"restitution"`
	Friction          float32 `yaml:"friction"`
	// PressureStrength is the fraction of an overlap pushed apart per tick.
	PressureStrength float32 `yaml:"pressure_strength"`
	// PressureSentinel is the |tmin| at which a swept result is treated as a
	// resting overlap.
	PressureSentinel float32 `yaml:"pressure_sentinel"`
	// DefaultMass replaces non-positive masses.
	DefaultMass float32 `yaml:"default_mass"`

	TicksPerSecond int `yaml:"ticks_per_second"`
	// PruneEvery is the index prune cadence in ticks. Zero means once per second.
	PruneEvery int `yaml:"prune_every"`
	// DamageInvulnerability is how many ticks a damaged character ignores damage.
	DamageInvulnerability int `yaml:"damage_invulnerability"`

	MaxCharacters int `yaml:"max_characters"`
	MaxParticles  int `yaml:"max_particles"`
	MaxTiles      int `yaml:"max_tiles"`

	Index    bsp.Config     `yaml:"index"`
	Registry RegistryConfig `yaml:"registry"`

	// Strict panics on logic errors instead of counting and skipping them.
	Strict bool `yaml:"strict"`
	Debug  bool `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		GridSize:              1,
		PlatformTolerance:     0.25,
		Restitution:           0.2,
		Friction:              0.1,
		PressureStrength:      0.5,
		PressureSentinel:      1e6,
		DefaultMass:           1,
		TicksPerSecond:        50,
		DamageInvulnerability: 25,
		MaxCharacters:         512,
		MaxParticles:          1024,
		MaxTiles:              1024,
		Index:                 bsp.DefaultConfig(),
		Registry: RegistryConfig{
			Buckets:   1024,
			BucketCap: 16,
		},
	}
}

// pruneInterval returns the prune cadence in ticks.
func (c Config) pruneInterval() uint64 {
	if c.PruneEvery > 0 {
		return uint64(c.PruneEvery)
	}
	return uint64(c.TicksPerSecond)
}

func (c Config) Validate() error {
	switch {
	case c.GridSize <= 0:
		return fmt.Errorf("%w: grid size %v", ErrInvalidConfig, c.GridSize)
	case c.PlatformTolerance < 0:
		return fmt.Errorf("%w: platform tolerance %v", ErrInvalidConfig, c.PlatformTolerance)
	case c.Restitution < 0 || c.Restitution > 1:
		return fmt.Errorf("%w: restitution %v outside [0,1]", ErrInvalidConfig, c.Restitution)
	case c.Friction < 0 || c.Friction > 1:
		return fmt.Errorf("%w: friction %v outside [0,1]", ErrInvalidConfig, c.Friction)
	case c.PressureStrength < 0 || c.PressureStrength > 1:
		return fmt.Errorf("%w: pressure strength %v outside [0,1]", ErrInvalidConfig, c.PressureStrength)
	case c.PressureSentinel <= 1:
		return fmt.Errorf("%w: pressure sentinel %v", ErrInvalidConfig, c.PressureSentinel)
	case c.DefaultMass <= 0:
		return fmt.Errorf("%w: default mass %v", ErrInvalidConfig, c.DefaultMass)
	case c.TicksPerSecond <= 0:
		return fmt.Errorf("%w: ticks per second %d", ErrInvalidConfig, c.TicksPerSecond)
	case c.PruneEvery < 0 || c.DamageInvulnerability < 0:
		return fmt.Errorf("%w: negative tick count", ErrInvalidConfig)
	case c.MaxCharacters <= 0 || c.MaxParticles < 0 || c.MaxTiles < 0:
		return fmt.Errorf("%w: entity caps %d/%d/%d", ErrInvalidConfig, c.MaxCharacters, c.MaxParticles, c.MaxTiles)
	case c.Registry.Buckets <= 0 || c.Registry.BucketCap <= 0:
		return fmt.Errorf("%w: registry %d buckets of %d", ErrInvalidConfig, c.Registry.Buckets, c.Registry.BucketCap)
	case c.Registry.Buckets*c.Registry.BucketCap < c.MaxCharacters:
		return fmt.Errorf("%w: registry holds %d pairs, fewer than %d characters",
			ErrInvalidConfig, c.Registry.Buckets*c.Registry.BucketCap, c.MaxCharacters)
	}
	if err := c.Index.Validate(); err != nil {
		return fmt.Errorf("%w: index: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ParseConfig overlays YAML onto DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}
