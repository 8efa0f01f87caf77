package pocodb

import (
	"context"
	"iter"
)

// Cursor is the lazy, forward-only, single-pass sequence of mapped rows returned by
// StoredProcedure, Command and Query
//
// The connection, command and result cursor stay open until the rows are exhausted, an error
// occurs or Close is called. A Cursor is not safe for concurrent use
type Cursor[T any] struct {
	ctx             context.Context
	res             *resources
	mapper          *rowMapper[T]
	postProcessors  []StructPostProcessor[T]
	limiter         Limiter
	errorTranslator ErrorTranslator
	current         T
	count           int
	err             error
	done            bool
}

// Next advances to the next row, materializing it
//
// returns false when there are no more rows or an error occurred (see Err) - in both cases the
// cursor has already been closed
func (c *Cursor[T]) Next() bool {
	if c.done {
		return false
	}
	var zero T
	c.current = zero
	if c.limiter.LimitReached(c.count + 1) {
		c.finish(nil)
		return false
	}
	if !c.res.rows.Next() {
		var err error
		if rerr := c.res.rows.Err(); rerr != nil {
			err = newError(IterationError, "next", rerr)
		}
		c.finish(err)
		return false
	}
	item, err := c.mapper.materialize(c.res.rows)
	if err != nil {
		c.finish(newError(RowMaterializationError, "map", err))
		return false
	}
	for _, pp := range c.postProcessors {
		if err = pp.PostProcess(c.ctx, &item); err != nil {
			c.finish(err)
			return false
		}
	}
	c.count++
	c.current = item
	return true
}

// Row returns the row materialized by the last successful call to Next
func (c *Cursor[T]) Row() T {
	return c.current
}

// Err returns the error, if any, that ended the iteration
func (c *Cursor[T]) Err() error {
	return c.err
}

// Count returns the number of rows yielded so far
func (c *Cursor[T]) Count() int {
	return c.count
}

// Close releases the connection, command and result cursor
//
// It is safe to call Close more than once, and after the rows are exhausted
func (c *Cursor[T]) Close() error {
	return translateError(c.release(), c.errorTranslator)
}

func (c *Cursor[T]) release() error {
	if c.done {
		return nil
	}
	c.done = true
	c.res.logger.Debug().Int("rows", c.count).Msg("cursor closed")
	return c.res.close()
}

func (c *Cursor[T]) finish(err error) {
	closeErr := c.release()
	if err == nil {
		err = closeErr
	}
	c.err = translateError(err, c.errorTranslator)
}

// All returns an iterator over the remaining rows that can be ranged over
//
// Any error ending the iteration is yielded last, with a zero row. Breaking out of the range closes the cursor
func (c *Cursor[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer func() {
			_ = c.Close()
		}()
		for c.Next() {
			if !yield(c.current, nil) {
				return
			}
		}
		if c.err != nil {
			var zero T
			yield(zero, c.err)
		}
	}
}

// Rows reads all remaining rows into a slice
func (c *Cursor[T]) Rows() ([]T, error) {
	result := make([]T, 0)
	for c.Next() {
		result = append(result, c.current)
	}
	if c.err != nil {
		return nil, c.err
	}
	return result, nil
}
