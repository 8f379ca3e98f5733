package configs

import (
	"errors"
	"iter"
)

// First decodes the first value at path, or returns the zero T when no file
// defines it. Decoding failures panic.
func First[T any](loader Loader, path string) (ret T) {
	err := loader.AssignFirst(path, &ret)
	if errors.Is(err, ErrValueNotFound) {
		return
	}
	if err != nil {
		panic(err)
	}
	return
}

// All decodes the value at path from every file that defines it, in loader order.
func All[T any](loader Loader, path string) iter.Seq[T] {
	return func(yield func(T) bool) {
		for value, err := range loader.IterCueValues(path) {
			if err != nil {
				panic(err)
			}
			var v T
			if err := value.Decode(&v); err != nil {
				panic(wrap(err))
			}
			if !yield(v) {
				return
			}
		}
	}
}
