package ppm

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOrder      = 4
	DefaultBufferSize = 1024
)

// Config holds the parameters shared by a compressor and its decompressor.
type Config struct {
	Order      int  `json:"order" toml:"order" yaml:"order"`                   // maximum context order
	BufferSize int  `json:"buffer_size" toml:"buffer_size" yaml:"buffer_size"` // bytes copied per step
	Verbose    bool `json:"verbose" toml:"verbose" yaml:"verbose"`
}

func DefaultConfig() Config {
	return Config{Order: DefaultOrder, BufferSize: DefaultBufferSize}
}

func (cfg Config) Validate() error {
	if cfg.Order < 0 {
		return errors.Wrapf(ErrNegativeOrder, "%d", cfg.Order)
	}
	if cfg.BufferSize <= 0 {
		return errors.Errorf("buffer size %d", cfg.BufferSize)
	}
	return nil
}

func (cfg Config) String() string {
	b, err := json.Marshal(cfg)
	if err != nil {
		return err.Error()
	}
	return string(b)
}

// LoadConfig reads a configuration file on top of DefaultConfig.
// The format is chosen by the extension: .toml, .yaml, .yml or .json.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "")
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// ParseConfig decodes data in the format named by ext.
func ParseConfig(data []byte, ext string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(err, "")
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(err, "")
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(err, "")
		}
	default:
		return Config{}, errors.Errorf("unknown config format %q", ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "")
	}
	return cfg, nil
}
