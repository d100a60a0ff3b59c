// Package config loads necklace.toml run configurations.
//
// A configuration carries the group set to sequence, the run options and the
// storage backends:
//
//	[run]
//	trials = 100000
//	seed = 42
//	anchor = "C1"
//
//	[cache]
//	backend = "file"
//
//	[[groups]]
//	name = "A"
//	items = ["A1", "A2", "A3", "A4"]
//
// Missing sections fall back to [Default]. CLI flags override loaded values.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/necklace/pkg/errors"
	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/trial"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "necklace.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Run    Run          `toml:"run"`
	Cache  Cache        `toml:"cache"`
	Store  Store        `toml:"store"`
	Server Server       `toml:"server"`
	Groups []GroupEntry `toml:"groups"`
}

// Run mirrors [trial.Options].
type Run struct {
	Trials  int    `toml:"trials"`
	Workers int    `toml:"workers"`
	Seed    uint64 `toml:"seed"`
	Anchor  string `toml:"anchor"`
	Top     int    `toml:"top"`
}

// Cache selects and configures the report cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Store configures the MongoDB report archive. An empty URI disables it.
type Store struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures `necklace serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// GroupEntry is one [[groups]] table.
type GroupEntry struct {
	Name  string   `toml:"name"`
	Items []string `toml:"items"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration: the six-group study set
// (A×4, B×3, C×1, D×4, E×1, F×1) anchored at its single C item, cached on disk.
func Default() *Config {
	return &Config{
		Run: Run{
			Trials: trial.DefaultTrials,
			Seed:   trial.DefaultSeed,
			Anchor: "C1",
			Top:    trial.DefaultTopN,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{24 * time.Hour},
		},
		Store: Store{
			Database:   "necklace",
			Collection: "reports",
		},
		Server: Server{Addr: ":8080"},
		Groups: []GroupEntry{
			{Name: "A", Items: []string{"A1", "A2", "A3", "A4"}},
			{Name: "B", Items: []string{"B1", "B2", "B3"}},
			{Name: "C", Items: []string{"C1"}},
			{Name: "D", Items: []string{"D1", "D2", "D3", "D4"}},
			{Name: "E", Items: []string{"E1"}},
			{Name: "F", Items: []string{"F1"}},
		},
	}
}

// Load reads a configuration file on top of [Default].
func Load(path string) (*Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	return Parse(data)
}

// LoadOptional loads path if it exists and returns [Default] otherwise.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes TOML on top of [Default]. Unknown keys are rejected so that
// typos do not silently fall back to defaults. A file that lists groups
// replaces the default groups entirely and drops the default anchor unless
// [run] sets one.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Groups = nil

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if len(cfg.Groups) == 0 {
		cfg.Groups = Default().Groups
	} else if !md.IsDefined("run", "anchor") {
		cfg.Run.Anchor = ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names, URLs and the group set.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Store.MongoURI != "" {
		if err := errors.ValidateURL(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.mongo_uri")
		}
	}
	gs, err := c.GroupSet()
	if err != nil {
		return err
	}
	opts := c.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return opts.CheckAnchor(gs)
}

// GroupSet builds the validated group set described by [[groups]].
func (c *Config) GroupSet() (*groups.GroupSet, error) {
	gs := make([]groups.Group, len(c.Groups))
	for i, g := range c.Groups {
		gs[i] = groups.NewGroup(g.Name, g.Items...)
	}
	return groups.New(gs...)
}

// SetGroups replaces [[groups]] with the groups of gs.
func (c *Config) SetGroups(gs *groups.GroupSet) {
	c.Groups = make([]GroupEntry, gs.Len())
	for i, g := range gs.Groups() {
		c.Groups[i] = GroupEntry{Name: g.Name, Items: g.Labels()}
	}
}

// Options converts [run] into trial options.
func (c *Config) Options() trial.Options {
	return trial.Options{
		Trials:  c.Run.Trials,
		Workers: c.Run.Workers,
		Seed:    c.Run.Seed,
		Anchor:  c.Run.Anchor,
		TopN:    c.Run.Top,
	}
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
