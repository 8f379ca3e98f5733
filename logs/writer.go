package logs

import (
	"io"
	"os"

	"github.com/reusee/dynval/cmds"
)

type Writer io.Writer

var logFile = cmds.Var[string]("-log-file")

// Writer is the terminal sink: stderr, or the file named by -log-file.
func (Module) Writer() Writer {
	if *logFile == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(*logFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return os.Stderr
	}
	return f
}
