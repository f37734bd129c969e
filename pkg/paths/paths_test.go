package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlink/overlink/pkg/paths"
)

func TestConfigFile(t *testing.T) {
	path := paths.ConfigFile()
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join("overlink", "overlink.toml"),
		filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}

func TestLogFileLivesInStateDir(t *testing.T) {
	assert.Equal(t, filepath.Join(paths.StateDir(), "overlink.log"), paths.LogFile())
	assert.Equal(t, "overlink", filepath.Base(paths.StateDir()))
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, dir)

	assert.Equal(t, dir, paths.ConfigDir())
	assert.Equal(t, filepath.Join(dir, "overlink.toml"), paths.ConfigFile())
}

func TestStateDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(paths.EnvStateDir, dir)

	assert.Equal(t, dir, paths.StateDir())
	assert.Equal(t, filepath.Join(dir, "overlink.log"), paths.LogFile())
}

func TestOverrideExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv(paths.EnvConfigDir, "~/overlink-config")
	assert.Equal(t, filepath.Join(home, "overlink-config"), paths.ConfigDir())

	// A ~user path is left alone.
	t.Setenv(paths.EnvConfigDir, "~somebody/config")
	assert.Equal(t, "~somebody/config", paths.ConfigDir())
}
