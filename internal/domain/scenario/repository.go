package scenario

import (
	"context"
	"errors"
)

// ErrNotFound indicates a scenario definition was not found.
var ErrNotFound = errors.New("scenario not found")

// Named is a definition loaded from storage along with where it came from.
type Named struct {
	Name       string
	Definition Definition
	SourceFile string
}

// Repository is the port for loading scenario definitions from storage.
type Repository interface {
	// LoadAll loads every definition under the configured directory,
	// in file walk order and, within a file, in document order.
	LoadAll(ctx context.Context) ([]Named, error)

	// LoadByName loads a single definition.
	// Returns ErrNotFound if no definition with the given name exists.
	LoadByName(ctx context.Context, name string) (Named, error)
}
