// Package config loads the YAML configuration shared by the CLI and the
// blob store.
//
// Example file:
//
//	store: ./objects.db
//	log:
//	  level: debug
//	  development: true
//	render:
//	  delimiter: ", "
//	  max_items: 100
//	  max_chars: 40
//	cache:
//	  blobs: 64
//	filters:
//	  - name: shuffle
//	  - name: deflate
//	    params: [6]
//	  - name: fletcher32
package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-hdfobject/internal/filter"
)

type Log struct {
	Level       zapcore.Level `yaml:"level"`
	Development bool          `yaml:"development"`
}

type Render struct {
	Delimiter string `yaml:"delimiter"`
	MaxItems  int    `yaml:"max_items"`
	MaxChars  int    `yaml:"max_chars"`
}

type Cache struct {
	// Blobs is the number of decoded blobs kept in memory.
	Blobs int `yaml:"blobs"`
}

type Config struct {
	Store   string        `yaml:"store"`
	Log     Log           `yaml:"log"`
	Render  Render        `yaml:"render"`
	Cache   Cache         `yaml:"cache"`
	Filters []filter.Spec `yaml:"filters"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store: "objects.db",
		Log:   Log{Level: zapcore.InfoLevel},
		Render: Render{
			Delimiter: ", ",
			MaxItems:  100,
		},
		Cache: Cache{Blobs: 32},
		Filters: []filter.Spec{
			{Name: filter.NameShuffle},
			{Name: filter.NameDeflate, Params: []uint32{6}},
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := conf.Parse(b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conf, nil
}

// Parse decodes YAML over conf and validates the result.
func (c *Config) Parse(b []byte) error {
	if err := yaml.Unmarshal(b, c); err != nil {
		return err
	}
	return c.Validate()
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	if c.Store == "" {
		err = multierr.Append(err, fmt.Errorf("store path must be set"))
	}
	if c.Render.MaxItems < 0 {
		err = multierr.Append(err, fmt.Errorf("render.max_items must not be negative"))
	}
	if c.Render.MaxChars < 0 {
		err = multierr.Append(err, fmt.Errorf("render.max_chars must not be negative"))
	}
	if c.Cache.Blobs <= 0 {
		err = multierr.Append(err, fmt.Errorf("cache.blobs must be greater than zero"))
	}
	for i, f := range c.Filters {
		if !filter.Known(f.Name) {
			err = multierr.Append(err, fmt.Errorf("filters[%d]: %w: %q (known: %v)", i, filter.ErrUnknownFilter, f.Name, filter.Names()))
		}
	}
	return err
}
