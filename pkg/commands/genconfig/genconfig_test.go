package genconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlink/overlink/pkg/commands/genconfig"
)

func TestGenConfigDefaults(t *testing.T) {
	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{})
	require.NoError(t, err)

	assert.Contains(t, result.ConfigContent, "[overlay]")
	assert.Contains(t, result.ConfigContent, `# conflict = "error"`)
	assert.Empty(t, result.FilesWritten)
}

func TestGenConfigWrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "conf", "overlink.toml")

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{Write: true, Path: target})
	require.NoError(t, err)
	assert.Equal(t, []string{target}, result.FilesWritten)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, result.ConfigContent, string(data))
}

func TestGenConfigWriteNeverClobbers(t *testing.T) {
	target := filepath.Join(t.TempDir(), "overlink.toml")
	require.NoError(t, os.WriteFile(target, []byte("mine"), 0644))

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{Write: true, Path: target})
	require.NoError(t, err)
	assert.Empty(t, result.FilesWritten)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestGenConfigEffective(t *testing.T) {
	t.Setenv("OVERLINK_OVERLAY_BASE_DIR", "/env/base")

	result, err := genconfig.GenConfig(genconfig.GenConfigOptions{Effective: true})
	require.NoError(t, err)

	assert.Contains(t, result.ConfigContent, "base_dir = '/env/base'")
	assert.Contains(t, result.ConfigContent, "relative_links = true")
}
