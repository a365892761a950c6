package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/boardworks/panelize/pkg/errors"
	"github.com/boardworks/panelize/pkg/merge"
)

// layoutFile is the on-disk panel description, an alternative to spelling
// out every input and placement on the command line. TOML:
//
//	[[boards]]
//	file = "power.brd"
//
//	[[boards]]
//	file = "logic.brd"
//	x = "50mm"
//	y = "0mm"
//	rotation = 90
//
// The equivalent YAML layout uses a top-level "boards" list.
type layoutFile struct {
	Boards []layoutBoard `toml:"boards" yaml:"boards"`
}

// layoutBoard is one input board entry in a layout file. Offsets carry the
// same mandatory unit suffix as the command-line flags.
type layoutBoard struct {
	File     string `toml:"file" yaml:"file"`
	X        string `toml:"x" yaml:"x"`
	Y        string `toml:"y" yaml:"y"`
	Rotation int    `toml:"rotation" yaml:"rotation"`
}

// loadLayout reads a TOML or YAML layout file (chosen by extension) and
// resolves it into input specs. Relative board paths are resolved against
// the layout file's directory.
func loadLayout(path string) ([]inputSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "read layout file %s", path)
	}

	var layout layoutFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &layout)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &layout)
	default:
		return nil, errors.New(errors.ErrCodeInvalidLayout,
			"layout file %s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "parse layout file %s", path)
	}

	if len(layout.Boards) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "layout file %s lists no boards", path)
	}

	dir := filepath.Dir(path)
	specs := make([]inputSpec, 0, len(layout.Boards))
	for i, b := range layout.Boards {
		if b.File == "" {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"layout file %s: board %d has no file", path, i+1)
		}
		spec := inputSpec{File: b.File}
		if !filepath.IsAbs(spec.File) {
			spec.File = filepath.Join(dir, spec.File)
		}

		var place merge.Placement
		if b.X != "" {
			if place.OffsetX, err = ParseOffset(b.X); err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "layout board %s", b.File)
			}
		}
		if b.Y != "" {
			if place.OffsetY, err = ParseOffset(b.Y); err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "layout board %s", b.File)
			}
		}
		if err := errors.ValidateRotation(b.Rotation); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "layout board %s", b.File)
		}
		place.Rotation = b.Rotation

		spec.Placement = place
		specs = append(specs, spec)
	}
	return specs, nil
}
