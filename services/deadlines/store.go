package deadlines

import (
	"context"

	"dueboard/lib/deadline"
)

// Store is the durable document store behind the engine. Implementations
// are atomic at whole-document granularity; there are no partial-document
// transactions. A Load on an empty store returns the default collection,
// never an error.
type Store interface {
	Load(ctx context.Context) (deadline.Collection, error)
	Save(ctx context.Context, col deadline.Collection) error
	Close() error
}
