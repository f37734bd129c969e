package overlink

import (
	"embed"
	"io/fs"
)

//go:embed topics
var topicsRoot embed.FS

// topicsFS exposes the embedded help topics rooted at their directory.
func topicsFS() fs.FS {
	sub, err := fs.Sub(topicsRoot, "topics")
	if err != nil {
		return nil
	}
	return sub
}
