package config

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/stager/pkg/errors"
	"github.com/arthur-debert/stager/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix prefixes every environment variable stager reads.
const EnvPrefix = "STAGER_"

// envVarPrefix marks template variables passed through the environment,
// as in STAGER_VAR_version=1.2.
const envVarPrefix = "var_"

// Backends accepted by Config.Backend.
const (
	BackendFilesystem = "filesystem"
	BackendSynthfs    = "synthfs"
)

// Config is the application configuration.
type Config struct {
	StageFile string            `koanf:"stage_file"`
	Root      string            `koanf:"root"`
	DryRun    bool              `koanf:"dry_run"`
	Backend   string            `koanf:"backend"`
	Rollback  bool              `koanf:"rollback"`
	Variables map[string]string `koanf:"variables"`
}

// ConfigFileNames are the files Load looks for, in order. The first one found
// is used.
var ConfigFileNames = []string{"stager.toml", "stager.yaml", "stager.yml"}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Default returns the embedded defaults, ignoring the environment.
func Default() *Config {
	cfg, err := load("", false, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load builds the configuration from the embedded defaults, the first config
// file found in dir, STAGER_ environment variables and overrides, each layer
// winning over the previous ones. An empty dir skips the file layer.
func Load(dir string, overrides map[string]interface{}) (*Config, error) {
	return load(dir, true, overrides)
}

func load(dir string, useEnv bool, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if dir != "" {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			var parser koanf.Parser = toml.Parser()
			if filepath.Ext(name) != ".toml" {
				parser = kyaml.Parser()
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, errors.Wrapf(err, errors.ErrInvalidConfiguration,
					"failed to load config from %s", path).WithDetail("path", path)
			}
			logger := logging.GetLogger("config")
			logger.Debug().Str("path", path).Msg("Loaded config file")
			break
		}
	}

	// 3. Environment
	if useEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	// 4. Overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidConfiguration, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps STAGER_DRY_RUN to dry_run and STAGER_VAR_name to
// variables.name.
func envKey(s string) string {
	key := strings.TrimPrefix(s, EnvPrefix)
	if strings.HasPrefix(strings.ToLower(key), envVarPrefix) {
		return "variables." + key[len(envVarPrefix):]
	}
	return strings.ToLower(key)
}

// Validate checks the values that have a fixed set of choices and reports
// every problem found.
func (c *Config) Validate() error {
	if c.Variables == nil {
		c.Variables = map[string]string{}
	}
	return errors.Collect(
		func() error {
			switch c.Backend {
			case BackendFilesystem, BackendSynthfs:
				return nil
			}
			return errors.Newf(errors.ErrInvalidConfiguration,
				"unknown backend %q (expected %q or %q)", c.Backend, BackendFilesystem, BackendSynthfs).
				WithDetail("backend", c.Backend)
		},
		func() error {
			if c.Rollback && c.Backend != BackendSynthfs {
				return errors.Newf(errors.ErrInvalidConfiguration,
					"rollback requires the %q backend", BackendSynthfs)
			}
			return nil
		},
		func() error {
			if _, ok := c.Variables[""]; ok {
				return errors.New(errors.ErrInvalidConfiguration, "variable names must not be empty")
			}
			return nil
		},
	)
}
