// Package config defines the configuration a debt roadmap is computed from and
// loads it from YAML through viper.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"github.com/iwvelando/debt-roadmap/pkg/datetime"
	"github.com/iwvelando/debt-roadmap/pkg/optimization"
	"github.com/iwvelando/debt-roadmap/pkg/snapshotio"
	"github.com/iwvelando/debt-roadmap/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected for the anchor and target dates.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for debt-roadmap.
type Configuration struct {
	// Anchor pins month 0 of every projection ("2006-01"); blank means now.
	Anchor string `yaml:"anchor,omitempty" mapstructure:"anchor"`
	// HouseholdFile loads the snapshot from a separate YAML, JSON or TOML
	// file, resolved relative to the configuration file.
	HouseholdFile string              `yaml:"householdFile,omitempty" mapstructure:"householdFile"`
	Household     household.Snapshot  `yaml:"household,omitempty" mapstructure:"household"`
	Simulation    payoff.Options      `yaml:"simulation,omitempty" mapstructure:"simulation"`
	Target        optimization.Target `yaml:"target,omitempty" mapstructure:"target"`
	Logging       LoggingConfig       `yaml:"logging,omitempty" mapstructure:"logging"`
	Output        OutputConfig        `yaml:"output,omitempty" mapstructure:"output"`
	Store         StoreConfig         `yaml:"store,omitempty" mapstructure:"store"`
	Cache         CacheConfig         `yaml:"cache,omitempty" mapstructure:"cache"`
	Sync          SyncConfig          `yaml:"sync,omitempty" mapstructure:"sync"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, table
}

// StoreConfig selects where the household snapshot is persisted.
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty" mapstructure:"driver"` // sqlite, memory
	Path   string `yaml:"path,omitempty" mapstructure:"path"`
}

// CacheConfig selects where computed schedules are memoized.
type CacheConfig struct {
	Driver   string        `yaml:"driver,omitempty" mapstructure:"driver"` // none, memory, redis
	Address  string        `yaml:"address,omitempty" mapstructure:"address"`
	Password string        `yaml:"password,omitempty" mapstructure:"password"`
	DB       int           `yaml:"db,omitempty" mapstructure:"db"`
	TTL      time.Duration `yaml:"ttl,omitempty" mapstructure:"ttl"`
}

// SyncConfig points at a remote household API.
type SyncConfig struct {
	Endpoint string        `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	APIKey   string        `yaml:"apiKey,omitempty" mapstructure:"apiKey"`
	Timeout  time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	RetryMax int           `yaml:"retryMax,omitempty" mapstructure:"retryMax"`
}

func setDefaults(v *viper.Viper) {
	defaults := payoff.DefaultOptions()
	v.SetDefault("simulation.maxMonths", defaults.MaxMonths)
	v.SetDefault("simulation.respectLuxuryBudget", defaults.RespectLuxuryBudget)
	v.SetDefault("simulation.respectSubscriptions", defaults.RespectSubscriptions)
	v.SetDefault("simulation.avoidPenaltyOverpay", defaults.AvoidPenaltyOverpay)
	v.SetDefault("simulation.respectSavingsBuffer", defaults.RespectSavingsBuffer)
	v.SetDefault("target.tolerance", constants.SolverTolerance)
	v.SetDefault("target.maxIterations", constants.SolverMaxIterations)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", constants.DefaultStorePath)
	v.SetDefault("cache.driver", "none")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("sync.timeout", 30*time.Second)
	v.SetDefault("sync.retryMax", 3)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	configuration, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := configuration.loadHouseholdFile(filepath.Dir(configPath)); err != nil {
		return nil, err
	}
	return configuration, nil
}

// LoadConfigurationFromReader loads a YAML configuration from r. A
// householdFile reference is resolved relative to the working directory.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	configuration, err := ParseConfiguration(r)
	if err != nil {
		return nil, err
	}
	if err := configuration.loadHouseholdFile("."); err != nil {
		return nil, err
	}
	return configuration, nil
}

// ParseConfiguration decodes a YAML configuration from r without touching the
// filesystem. A householdFile reference is left unresolved in HouseholdFile.
func ParseConfiguration(r io.Reader) (*Configuration, error) {
	v := newViper()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &configuration, nil
}

func (c *Configuration) loadHouseholdFile(baseDir string) error {
	if c.HouseholdFile == "" {
		return nil
	}
	path := c.HouseholdFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	snapshot, err := snapshotio.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to load household file: %w", err)
	}
	c.Household = snapshot
	return nil
}

// AnchorTime returns the configured anchor month, or the current time when
// none is set.
func (c *Configuration) AnchorTime() (time.Time, error) {
	anchor, err := datetime.ParseAnchor(c.Anchor)
	if err != nil {
		return time.Time{}, err
	}
	if anchor.IsZero() {
		return time.Now(), nil
	}
	return anchor, nil
}

// Validate checks the household, simulation options, anchor and output format.
func (c *Configuration) Validate() error {
	if _, err := datetime.ParseAnchor(c.Anchor); err != nil {
		return err
	}
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if err := validation.ValidateOptions(c.Simulation); err != nil {
		return err
	}
	return validation.ValidateSnapshot(c.Household)
}

// ValidateConfiguration returns warnings about choices that are valid but
// likely unintended.
func (c *Configuration) ValidateConfiguration() []string {
	return validation.SnapshotWarnings(c.Household, c.Simulation)
}
