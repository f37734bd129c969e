// Package genconfig implements the gen-config command: emit the
// default or resolved configuration, optionally writing it to disk.
package genconfig

import (
	"os"
	"path/filepath"

	"github.com/overlink/overlink/pkg/config"
	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/logging"
	"github.com/overlink/overlink/pkg/paths"
	"github.com/overlink/overlink/pkg/types"
)

// GenConfigOptions holds options for the gen-config command
type GenConfigOptions struct {
	// Effective renders the resolved configuration instead of the
	// commented defaults
	Effective bool
	// ConfigPath is an explicit config file consulted for Effective
	ConfigPath string
	// Write saves the content to Path instead of only returning it
	Write bool
	// Path is the output file; empty means the default config location
	Path string
}

// GenConfig outputs or writes the configuration
func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	var content string
	if opts.Effective {
		configPath := opts.ConfigPath
		explicit := configPath != ""
		if !explicit {
			configPath = paths.ConfigFile()
		}
		cfg, err := config.Load(configPath, explicit)
		if err != nil {
			return nil, err
		}
		content, err = config.EffectiveContent(cfg)
		if err != nil {
			return nil, err
		}
	} else {
		content = config.GenerateConfigContent()
	}

	result := &types.GenConfigResult{
		ConfigContent: content,
		FilesWritten:  []string{},
	}

	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	targetPath := opts.Path
	if targetPath == "" {
		targetPath = paths.ConfigFile()
	}

	dir := filepath.Dir(targetPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, errors.Wrapf(err, errors.ErrDirCreate,
			"cannot create directory %s", dir)
	}

	// Never clobber an existing config.
	if _, err := os.Stat(targetPath); err == nil {
		logger.Warn().Str("path", targetPath).Msg("Config file already exists, skipping")
		return result, nil
	}

	if err := os.WriteFile(targetPath, []byte(content), 0o644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite,
			"cannot write config to %s", targetPath)
	}

	logger.Info().Str("path", targetPath).Msg("Written config file")
	result.FilesWritten = append(result.FilesWritten, targetPath)
	return result, nil
}
