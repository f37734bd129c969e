package tree

import (
	"path/filepath"

	"github.com/overlink/overlink/pkg/errors"
	"github.com/overlink/overlink/pkg/pathinfo"
)

// TranslatePath rebases path from oldBase onto newBase. The path must lie
// on or under oldBase.
func TranslatePath(path, oldBase, newBase string) (string, error) {
	if !pathinfo.IsInside(path, oldBase) {
		return "", errors.Newf(errors.ErrPathOutside,
			"path %s is not inside %s", path, oldBase)
	}
	rel, err := filepath.Rel(filepath.Clean(oldBase), filepath.Clean(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPathOutside,
			"cannot rebase %s from %s", path, oldBase)
	}
	return filepath.Join(newBase, rel), nil
}

// Translate produces the mapped tree: a structural copy of t with every
// path rebased from oldBase onto newBase and the pre-translation path kept
// in Original. The copy starts with fresh facts; the input tree is left
// untouched.
func Translate(t *Node, oldBase, newBase string) (*Node, error) {
	path, err := TranslatePath(t.Path, oldBase, newBase)
	if err != nil {
		return nil, err
	}
	mapped := &Node{
		Path:     path,
		IsDir:    t.IsDir,
		Depth:    t.Depth,
		Original: t.Path,
	}
	for _, c := range t.Children {
		mc, err := Translate(c, oldBase, newBase)
		if err != nil {
			return nil, err
		}
		mapped.Children = append(mapped.Children, mc)
	}
	return mapped, nil
}
