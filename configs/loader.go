package configs

import (
	"iter"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/reusee/dynval/codecs"
	"github.com/reusee/dynval/values"
)

// Loader reads CUE files lazily, in order. Earlier files take precedence in First.
type Loader struct {
	paths    []string
	getRoots func() ([]root, error)
}

type root struct {
	value cue.Value
	path  string
}

func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{
		paths:    filePaths,
		getRoots: sync.OnceValues(loadRoots(filePaths, schemaSrc)),
	}
}

func loadRoots(filePaths []string, schemaSrc string) func() ([]root, error) {
	return func() (ret []root, err error) {
		ctx := cuecontext.New()

		var schema cue.Value
		if schemaSrc != "" {
			schema = ctx.CompileString(
				"close({"+schemaSrc+"})",
				cue.Filename("schema.cue"),
			)
			if err := schema.Err(); err != nil {
				return nil, wrap(err)
			}
		}

		for _, filePath := range filePaths {
			content, err := os.ReadFile(filePath)
			if err != nil {
				return nil, wrap(err)
			}
			value := ctx.CompileBytes(content, cue.Filename(filePath))
			if err := value.Err(); err != nil {
				return nil, wrap(err)
			}
			if schema.Exists() {
				if err := schema.Unify(value).Validate(); err != nil {
					return nil, wrap(err)
				}
			}
			ret = append(ret, root{
				value: value,
				path:  filePath,
			})
		}

		return
	}
}

// Paths returns the files this loader reads.
func (l Loader) Paths() []string {
	return l.paths
}

func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		roots, err := l.getRoots()
		if err != nil {
			yield(nil, err)
			return
		}
		cuePath := cue.ParsePath(path)
		for _, r := range roots {
			value := r.value.LookupPath(cuePath)
			if value.Err() != nil || !value.Exists() {
				continue
			}
			if !yield(&value, nil) {
				return
			}
		}
	}
}

func (l Loader) first(path string) (*cue.Value, error) {
	for value, err := range l.IterCueValues(path) {
		if err != nil {
			return nil, err
		}
		return value, nil
	}
	return nil, ErrValueNotFound
}

func (l Loader) AssignFirst(path string, target any) error {
	value, err := l.first(path)
	if err != nil {
		return err
	}
	if err := value.Decode(target); err != nil {
		return wrap(err)
	}
	return nil
}

// Value decodes the first subtree found at path. The returned handle is owned by the caller.
func (l Loader) Value(path string) (values.Value, error) {
	value, err := l.first(path)
	if err != nil {
		return values.Value{}, err
	}
	return codecs.FromCUE(*value)
}
