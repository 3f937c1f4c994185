package runconfig

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects which sampler a run drives, mirroring spec.md §6's
// recognized CLI options.
type Mode string

const (
	// ModeRandom drives random_sampling(num_samples, bias).
	ModeRandom Mode = "random"
	// ModeOneWise drives one_wise_sampling (no parameters).
	ModeOneWise Mode = "one_wise"
	// ModeTWise drives t_wise_sampling(t) with the multiset encoding.
	ModeTWise Mode = "t_wise"
	// ModeTWiseInstanceSet drives t_wise_sampling_instance_set(t).
	ModeTWiseInstanceSet Mode = "t_wise_instance_set"
)

// validModes lists every Mode Validate accepts.
var validModes = []Mode{ModeRandom, ModeOneWise, ModeTWise, ModeTWiseInstanceSet}

// SamplingConfig is the YAML-backed configuration for one sampling run.
// It does not describe the CFM itself (that comes from an importer, out
// of this package's scope) — only how to sample it.
type SamplingConfig struct {
	// Seed is the master seed for deterministic sampling. Zero means
	// "generate one" is the caller's responsibility; this package never
	// invents a seed, unlike the teacher's dungeon.Config.generateSeed,
	// since reproducibility matters more than convenience for a sampling
	// toolbox (see DESIGN.md).
	Seed uint64 `yaml:"seed" json:"seed"`

	// Mode selects the sampler to run.
	Mode Mode `yaml:"mode" json:"mode"`

	// NumSamples is the number of configurations random_sampling should
	// draw. Required (>=1) when Mode is ModeRandom; ignored otherwise.
	NumSamples int `yaml:"num_samples,omitempty" json:"num_samples,omitempty"`

	// Bias selects the random sampler's draw strategy: 0 is uniform,
	// >=1 is power-law weighting toward each cardinality's upper bound
	// (§4.3). Only meaningful when Mode is ModeRandom.
	Bias uint32 `yaml:"bias,omitempty" json:"bias,omitempty"`

	// T is the interaction size for t-wise sampling. Required (>=1) when
	// Mode is ModeTWise or ModeTWiseInstanceSet; ignored otherwise.
	T int `yaml:"t,omitempty" json:"t,omitempty"`
}

// Load reads and validates a YAML SamplingConfig file.
func Load(path string) (*SamplingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a YAML SamplingConfig from a byte slice.
func LoadFromBytes(data []byte) (*SamplingConfig, error) {
	var cfg SamplingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing run config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating run config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration names a recognized mode and
// carries whatever parameters that mode requires (§6).
func (c *SamplingConfig) Validate() error {
	valid := false
	for _, m := range validModes {
		if c.Mode == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("mode must be one of %v, got %q", validModes, c.Mode)
	}

	switch c.Mode {
	case ModeRandom:
		if c.NumSamples < 1 {
			return fmt.Errorf("num_samples must be >= 1 for mode %q, got %d", c.Mode, c.NumSamples)
		}
	case ModeTWise, ModeTWiseInstanceSet:
		if c.T < 1 {
			return fmt.Errorf("t must be >= 1 for mode %q, got %d", c.Mode, c.T)
		}
	}
	return nil
}

// ToYAML serializes the config back to YAML bytes.
func (c *SamplingConfig) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic hash of the configuration, used by
// callers to derive per-stage RNG seeds the way pkg/rng.NewRNG expects
// (configHash argument), mirroring the teacher's dungeon.Config.Hash.
func (c *SamplingConfig) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}
