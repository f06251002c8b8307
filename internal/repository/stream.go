package repository

import (
	"context"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
)

// Emission is one value of a reactive query. Err is set when the re-query
// failed; the stream stays open and the next change is tried again.
type Emission[T any] struct {
	Value T
	Err   error
}

type changeSource interface {
	Changes(tables ...db.Table) (<-chan struct{}, func())
}

// watch runs load once on start and again after every change to tables,
// until ctx is done. The returned channel is closed when the stream ends.
func watch[T any](ctx context.Context, src changeSource, tables []db.Table, load func(context.Context) (T, error)) <-chan Emission[T] {
	out := make(chan Emission[T])

	// Subscribe before the first load so a commit racing it is not lost.
	changed, unsubscribe := src.Changes(tables...)

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			value, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Emission[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
