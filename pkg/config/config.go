package config

import (
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/types"
)

const envPrefix = "OVERLINK_"

// Overlay holds the reconciliation settings.
type Overlay struct {
	// BaseDir is the directory the overlay is deployed onto.
	BaseDir string `koanf:"base_dir" toml:"base_dir"`
	// OverlayDir is the directory holding the overlay content.
	OverlayDir string `koanf:"overlay_dir" toml:"overlay_dir"`
	// RelativeLinks selects relative over absolute symlink targets.
	RelativeLinks bool `koanf:"relative_links" toml:"relative_links"`
	// Conflict is the policy for paths occupied by unrelated content.
	Conflict string `koanf:"conflict" toml:"conflict"`
	// WarnConflict emits a warning per conflict under keep and replace.
	WarnConflict bool `koanf:"warn_conflict" toml:"warn_conflict"`
	// BackupDir receives replaced content before removal when set.
	BackupDir string `koanf:"backup_dir" toml:"backup_dir"`
	// Collapse folds fully-overlaid directories into one symlink.
	Collapse bool `koanf:"collapse" toml:"collapse"`
}

// Journal holds the run journal settings.
type Journal struct {
	// Path of the journal file. Empty disables journaling.
	Path string `koanf:"path" toml:"path"`
}

// Config is the resolved overlink configuration.
type Config struct {
	Overlay Overlay `koanf:"overlay" toml:"overlay"`
	Journal Journal `koanf:"journal" toml:"journal"`
}

// ConflictPolicy parses the configured conflict policy.
func (c *Config) ConflictPolicy() (types.ConflictPolicy, error) {
	return types.ParseConflictPolicy(c.Overlay.Conflict)
}

// Load resolves the configuration. configPath may be empty, in which
// case only defaults and environment variables apply; a non-empty path
// must exist unless it is the well-known default location.
func Load(configPath string, requireFile bool) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load built-in defaults")
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"cannot parse config file %s", configPath)
			}
		} else if requireFile {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"cannot read config file %s", configPath)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "cannot load environment variables")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot unmarshal configuration")
	}

	if _, err := cfg.ConflictPolicy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransform maps OVERLINK_OVERLAY_BASE_DIR to overlay.base_dir.
// Only the first underscore separates the section from the key; the
// keys themselves contain underscores.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// EffectiveContent renders the resolved configuration as TOML.
func EffectiveContent(cfg *Config) (string, error) {
	data, err := gotoml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "cannot marshal configuration")
	}
	return string(data), nil
}
