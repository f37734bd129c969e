package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helpFS() fstest.MapFS {
	return fstest.MapFS{
		"dry-run.txt":     {Data: []byte("Information about dry-run mode")},
		"architecture.md": {Data: []byte("# Architecture\n\nSystem architecture details")},
		"config.txxt":     {Data: []byte("Configuration Guide\n==================")},
		"ignore.json":     {Data: []byte("This should be ignored")},
	}
}

func TestTopicManagerScanTopics(t *testing.T) {
	t.Run("default extensions", func(t *testing.T) {
		tm := New(helpFS())
		require.NoError(t, tm.scanTopics())

		tests := []struct {
			name    string
			exists  bool
			content string
		}{
			{"dry-run", true, "Information about dry-run mode"},
			{"architecture", true, "# Architecture\n\nSystem architecture details"},
			{"config", false, ""}, // .txxt not in defaults
			{"ignore", false, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				topic, exists := tm.GetTopic(tt.name)
				assert.Equal(t, tt.exists, exists)
				if exists {
					assert.Equal(t, tt.content, topic.Content)
				}
			})
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(helpFS(), Options{
			Extensions: []string{".txt", ".md", ".txxt"},
		})
		require.NoError(t, tm.scanTopics())

		topic, exists := tm.GetTopic("config")
		require.True(t, exists)
		assert.Equal(t, "Configuration Guide\n==================", topic.Content)
	})

	t.Run("nested directories", func(t *testing.T) {
		tm := New(fstest.MapFS{
			"guides/overlays.md": {Data: []byte("nested topic")},
		})
		require.NoError(t, tm.scanTopics())

		topic, exists := tm.GetTopic("overlays")
		require.True(t, exists)
		assert.Equal(t, "nested topic", topic.Content)
	})
}

func TestTopicManagerGetTopicFlagStyle(t *testing.T) {
	fsys := fstest.MapFS{
		"option-dry-run.txt": {Data: []byte("Dry run help")},
		"architecture.txt":   {Data: []byte("Architecture help")},
	}
	tm := New(fsys)
	require.NoError(t, tm.scanTopics())

	// Flag spellings resolve through the option- prefix
	topic, ok := tm.GetTopic("--dry-run")
	require.True(t, ok)
	assert.Equal(t, "Dry run help", topic.Content)

	topic, ok = tm.GetTopic("dry-run")
	require.True(t, ok)
	assert.Equal(t, "Dry run help", topic.Content)

	topic, ok = tm.GetTopic("architecture")
	require.True(t, ok)
	assert.Equal(t, "Architecture help", topic.Content)

	_, ok = tm.GetTopic("missing")
	assert.False(t, ok)
}

func TestTopicManagerNilFS(t *testing.T) {
	tm := New(nil)
	require.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())
}

func TestInitialize(t *testing.T) {
	fsys := fstest.MapFS{
		"overlays.md":         {Data: []byte("# Overlays\n\nHow trees are merged")},
		"option-conflict.txt": {Data: []byte("Conflict policy help")},
	}

	newRoot := func() (*cobra.Command, *bytes.Buffer) {
		root := &cobra.Command{Use: "overlink"}
		root.AddCommand(&cobra.Command{
			Use: "apply",
			Run: func(*cobra.Command, []string) {},
		})

		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		return root, &out
	}

	t.Run("renders a topic", func(t *testing.T) {
		root, out := newRoot()
		require.NoError(t, Initialize(root, fsys))

		root.SetArgs([]string{"help", "overlays"})
		require.NoError(t, root.Execute())

		assert.Contains(t, out.String(), "How trees are merged")
	})

	t.Run("lists topics with the app name in the hint", func(t *testing.T) {
		root, out := newRoot()
		require.NoError(t, Initialize(root, fsys))

		root.SetArgs([]string{"help", "topics"})
		require.NoError(t, root.Execute())

		assert.Contains(t, out.String(), "overlays")
		assert.Contains(t, out.String(), "--conflict")
		assert.Contains(t, out.String(), "overlink help <topic>")
	})

	t.Run("falls back to cobra help for commands", func(t *testing.T) {
		root, out := newRoot()
		require.NoError(t, Initialize(root, fsys))

		root.SetArgs([]string{"help", "apply"})
		require.NoError(t, root.Execute())

		assert.Contains(t, out.String(), "apply")
	})
}
