package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. DEFAULTAPPS_SELECTION.
const EnvPrefix = "DEFAULTAPPS"

// SystemConfigDir is searched for defaultapps.yaml before the user config dir.
const SystemConfigDir = "/Library/Application Support/defaultapps"

var lineRegex = regexp.MustCompile(`line (\d+)`)

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// Path is an explicit config file. When empty the standard locations are
	// searched and a missing file is not an error.
	Path string
	// Flags maps config keys to the command line flags that override them.
	// Only flags the user actually set take effect.
	Flags map[string]*pflag.Flag
	// Overrides are applied last, e.g. positional management parameters.
	// Empty values are ignored.
	Overrides map[string]string
}

// Load reads and validates the configuration. Precedence, lowest first:
// defaults, config file, DEFAULTAPPS_* environment, flags, overrides.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.NewParseError(opts.Path, extractLine(err), err)
		}
	} else {
		v.SetConfigName("defaultapps")
		v.AddConfigPath(SystemConfigDir)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "defaultapps"))
		}
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, apperrors.NewParseError(v.ConfigFileUsed(), extractLine(err), err)
			}
		}
	}

	for key, flag := range opts.Flags {
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	for key, value := range opts.Overrides {
		if strings.TrimSpace(value) == "" {
			continue
		}
		v.Set(key, strings.TrimSpace(value))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewParseError(sourceName(v), 0, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.NewParseError("defaults", 0, err)
	}
	return cfg, nil
}

// WriteYAML writes cfg as YAML, e.g. to show the effective configuration.
func WriteYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// ParseYAML decodes and validates a config document without viper's
// environment handling. Missing keys are not defaulted.
func ParseYAML(source string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.NewParseError(source, extractLine(err), err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func sourceName(v *viper.Viper) string {
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	return "configuration"
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := lineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	line, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0
	}
	return line
}
