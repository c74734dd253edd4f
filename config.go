package bodies

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/viper"
)

// ConfigEnv names the environment variable holding the directory of conf.toml.
const ConfigEnv = "GRAVBODY_CONFIG"

// BodyConfig declares one body of the catalog.
type BodyConfig struct {
	Name string `mapstructure:"name"`
	// Kind is known, timeseries or base.
	Kind string `mapstructure:"kind"`
	// Mu and Radius are required for timeseries and base bodies. For known bodies,
	// non-zero values override the provider constants.
	Mu             float64 `mapstructure:"mu"`
	Radius         float64 `mapstructure:"radius"`
	TrajectoryFile string  `mapstructure:"trajectory_file"`
	// Lazy defers the trajectory load to the first query.
	Lazy bool `mapstructure:"lazy"`
}

// Config is the configuration of a body catalog.
type Config struct {
	TrajectoryDir string
	VSOP87Dir     string
	Log           LogConfig
	Bodies        []BodyConfig
}

// LoadConfig reads the TOML configuration file at path. A relative trajectory directory
// is relative to the directory of that file. Every key may be overridden by the
// environment, e.g. GRAVBODY_GENERAL_TRAJECTORY_DIR.
func LoadConfig(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	return readConfig(v)
}

// LoadConfigFromEnv reads conf.toml from the directory named by GRAVBODY_CONFIG.
func LoadConfigFromEnv() (Config, error) {
	confPath := os.Getenv(ConfigEnv)
	if confPath == "" {
		return Config{}, fmt.Errorf("environment variable `%s` is missing or empty", ConfigEnv)
	}
	v := newViper()
	v.SetConfigName("conf")
	v.SetConfigType("toml")
	v.AddConfigPath(confPath)
	return readConfig(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GRAVBODY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "logfmt")
	return v
}

func readConfig(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	conf := Config{
		TrajectoryDir: v.GetString("general.trajectory_dir"),
		VSOP87Dir:     v.GetString("VSOP87.directory"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	if err := v.UnmarshalKey("bodies", &conf.Bodies); err != nil {
		return Config{}, fmt.Errorf("reading bodies: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" && conf.TrajectoryDir != "" && !filepath.IsAbs(conf.TrajectoryDir) {
		conf.TrajectoryDir = filepath.Join(filepath.Dir(used), conf.TrajectoryDir)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Validate checks every body declaration.
func (c Config) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("body #%d: empty name: %w", i, ErrInvalidParameter))
			continue
		}
		if seen[strings.ToLower(b.Name)] {
			errs = append(errs, fmt.Errorf("body %s: declared twice: %w", b.Name, ErrInvalidParameter))
		}
		seen[strings.ToLower(b.Name)] = true
		kind, err := parseKind(b.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("body %s: %w", b.Name, err))
			continue
		}
		if err := checkConstants(b.Name, b.Mu, b.Radius); err != nil {
			errs = append(errs, err)
		}
		if kind == TimeSeriesKind && b.TrajectoryFile == "" {
			errs = append(errs, fmt.Errorf("body %s: no trajectory_file: %w", b.Name, ErrInvalidParameter))
		}
	}
	return errors.Join(errs...)
}

func parseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "known":
		return KnownKind, nil
	case "timeseries", "time-series":
		return TimeSeriesKind, nil
	case "base", "":
		return BaseKind, nil
	default:
		return BaseKind, fmt.Errorf("unknown body kind %q: %w", s, ErrInvalidParameter)
	}
}

// BuildBodies builds the bodies declared in the configuration, in order. Known bodies are
// resolved with res, time-series bodies are loaded with loader.
func BuildBodies(conf Config, res Resolver, loader *TrajectoryLoader, logger kitlog.Logger) ([]*CelestialBody, error) {
	if logger == nil {
		logger = NopLogger()
	}
	logger = kitlog.With(logger, "subsys", "config")
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	bodies := make([]*CelestialBody, 0, len(conf.Bodies))
	for _, bc := range conf.Bodies {
		b, err := buildBody(bc, res, loader)
		if err != nil {
			level.Error(logger).Log("body", bc.Name, "err", err)
			return nil, err
		}
		level.Info(logger).Log("body", b.Name, "kind", b.Kind(), "GM", b.GM(), "radius", b.Radius(), "source", b.Source())
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func buildBody(bc BodyConfig, res Resolver, loader *TrajectoryLoader) (*CelestialBody, error) {
	kind, _ := parseKind(bc.Kind)
	switch kind {
	case KnownKind:
		b, err := NewKnownBody(bc.Name, res)
		if err != nil {
			return nil, err
		}
		if bc.Mu > 0 {
			if err := b.SetGM(bc.Mu); err != nil {
				return nil, err
			}
		}
		if bc.Radius > 0 {
			if err := b.SetRadius(bc.Radius); err != nil {
				return nil, err
			}
		}
		return b, nil
	case TimeSeriesKind:
		if loader == nil {
			return nil, fmt.Errorf("%s: no trajectory loader: %w", bc.Name, ErrInvalidParameter)
		}
		if bc.Lazy {
			return NewTimeSeriesBody(bc.Name, bc.Mu, bc.Radius, loader.Lazy(bc.TrajectoryFile))
		}
		ts, err := loader.Load(bc.TrajectoryFile)
		if err != nil {
			return nil, err
		}
		return NewTimeSeriesBody(bc.Name, bc.Mu, bc.Radius, ts)
	default:
		return NewBody(bc.Name, bc.Mu, bc.Radius)
	}
}

// Find returns the body with the provided name, ignoring case.
func Find(bodies []*CelestialBody, name string) (*CelestialBody, error) {
	for _, b := range bodies {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("undefined body '%s'", name)
}
