package configs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
	"github.com/reusee/dynval/logs"
)

type Module struct {
	dscope.Module
}

//go:embed schema.cue
var Schema string

var filenames = []string{
	"dynval.cue",
	".dynval.cue",
}

// searchDirs lists directories in precedence order.
func searchDirs() (ret []string) {
	if dir, err := os.Getwd(); err == nil {
		ret = append(ret, dir)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		ret = append(ret, dir)
	}
	ret = append(ret, "/etc")
	return
}

func discover(dirs []string) (paths []string) {
	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return
}

func (Module) Loader(
	logger logs.Logger,
) Loader {
	paths := discover(searchDirs())
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return NewLoader(paths, Schema)
}
