package pocodb

import (
	"context"
)

// StructPostProcessor is an interface that can be passed as an option to StoredProcedure, Command or Query
//
// Each materialized row is passed to every StructPostProcessor, in order, before it is yielded
type StructPostProcessor[T any] interface {
	PostProcess(ctx context.Context, row *T) error
}

// StructPostProcessorFunc is a func adapter for StructPostProcessor
type StructPostProcessorFunc[T any] func(ctx context.Context, row *T) error

func (f StructPostProcessorFunc[T]) PostProcess(ctx context.Context, row *T) error {
	return f(ctx, row)
}
