package bcs

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// MaxContainerDepth is the default nesting limit, and the ceiling for
	// the *WithLimit entry points.
	MaxContainerDepth = 500
	// MaxSequenceLength is the default limit on sequence, map, string and
	// byte-sequence lengths.
	MaxSequenceLength = 1<<31 - 1
)

// IntegerSet selects the fixed-width integer kinds a schema may use.
type IntegerSet uint16

const (
	U8 IntegerSet = 1 << iota
	U16
	U32
	U64
	U128
	U256
	I8
	I16
	I32
	I64
	I128

	// DefaultIntegers enables every width up to 128 bits.
	DefaultIntegers = U8 | U16 | U32 | U64 | U128 | I8 | I16 | I32 | I64 | I128
	// AllIntegers also enables u256.
	AllIntegers = DefaultIntegers | U256
)

var integerNames = []struct {
	bit  IntegerSet
	name string
}{
	{U8, "u8"}, {U16, "u16"}, {U32, "u32"}, {U64, "u64"}, {U128, "u128"}, {U256, "u256"},
	{I8, "i8"}, {I16, "i16"}, {I32, "i32"}, {I64, "i64"}, {I128, "i128"},
}

// Has reports whether every kind in k is enabled.
func (s IntegerSet) Has(k IntegerSet) bool {
	return s&k == k
}

// String lists the enabled kinds, e.g. "u8,u64,i32".
func (s IntegerSet) String() string {
	var names []string
	for _, n := range integerNames {
		if s.Has(n.bit) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseIntegerSet parses names such as "u8" or "i128".
func ParseIntegerSet(names []string) (IntegerSet, error) {
	var s IntegerSet
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		found := false
		for _, n := range integerNames {
			if n.name == name {
				s |= n.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("bcs: unknown integer kind %q", raw)
		}
	}
	return s, nil
}

func integerName(k IntegerSet) string {
	for _, n := range integerNames {
		if n.bit == k {
			return n.name
		}
	}
	return "integer"
}

// Config holds the limits of one engine. There is no package-level
// configuration; every Codec carries its own.
type Config struct {
	// MaxContainerDepth bounds the number of simultaneously open
	// sequences, maps, structs, enum payloads and present options.
	MaxContainerDepth int
	// MaxSequenceLength bounds every length prefix.
	MaxSequenceLength int
	// Integers is the set of fixed-width integer kinds accepted.
	Integers IntegerSet
	// Logger receives debug records for rejected input. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns depth 500, length 2^31-1 and every integer width up
// to 128 bits.
func DefaultConfig() Config {
	return Config{
		MaxContainerDepth: MaxContainerDepth,
		MaxSequenceLength: MaxSequenceLength,
		Integers:          DefaultIntegers,
	}
}

// Validate checks the limits are usable.
func (c Config) Validate() error {
	if c.MaxContainerDepth < 0 {
		return fmt.Errorf("bcs: max container depth must not be negative, got %d", c.MaxContainerDepth)
	}
	if c.MaxSequenceLength < 0 {
		return fmt.Errorf("bcs: max sequence length must not be negative, got %d", c.MaxSequenceLength)
	}
	// Decoded lengths must fit in int on every target.
	if uint64(c.MaxSequenceLength) > math.MaxInt32 {
		return fmt.Errorf("bcs: max sequence length %d exceeds %d", c.MaxSequenceLength, math.MaxInt32)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// fileConfig is the on-disk form read by LoadConfig.
type fileConfig struct {
	MaxContainerDepth *int     `yaml:"max_container_depth" toml:"max_container_depth"`
	MaxSequenceLength *int     `yaml:"max_sequence_length" toml:"max_sequence_length"`
	Integers          []string `yaml:"integers" toml:"integers"`
}

// LoadConfig reads limits from a YAML (.yaml, .yml) or TOML (.toml) file.
// Fields missing from the file keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("bcs: reading config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("bcs: parsing config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return cfg, fmt.Errorf("bcs: parsing config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("bcs: unsupported config format %q", filepath.Ext(path))
	}

	if fc.MaxContainerDepth != nil {
		cfg.MaxContainerDepth = *fc.MaxContainerDepth
	}
	if fc.MaxSequenceLength != nil {
		cfg.MaxSequenceLength = *fc.MaxSequenceLength
	}
	if fc.Integers != nil {
		set, err := ParseIntegerSet(fc.Integers)
		if err != nil {
			return cfg, fmt.Errorf("bcs: config %s: %w", path, err)
		}
		cfg.Integers = set
	}
	return cfg, cfg.Validate()
}
