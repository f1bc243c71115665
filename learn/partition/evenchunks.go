// Package partition splits an ordered collection into near-equal contiguous
// chunks for cross-validation.
package partition

import (
	"github.com/teranos/psam/errors"
)

// EvenChunks yields n contiguous chunks of a slice whose sizes differ by at
// most one. The first len%n chunks carry the extra element. It is a one-shot,
// forward-only sequence; chunks alias the input slice.
type EvenChunks[T any] struct {
	blocksize int
	rem       int
	rest      []T
}

// NChunks prepares to split seq into n chunks. It fails with
// errors.ErrChunkCount unless 1 <= n <= len(seq), since any other count would
// require an empty chunk.
func NChunks[T any](seq []T, n int) (*EvenChunks[T], error) {
	if n < 1 || n > len(seq) {
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrChunkCount, "%d chunks over %d items", n, len(seq)),
			"chunk count must be between 1 and %d", len(seq))
	}
	blocksize := len(seq) / n
	rem := len(seq) - blocksize*n
	if rem > 0 {
		blocksize++
	}
	return &EvenChunks[T]{
		blocksize: blocksize,
		rem:       rem,
		rest:      seq,
	}, nil
}

// Next returns the next chunk, or false once the input is exhausted.
func (c *EvenChunks[T]) Next() ([]T, bool) {
	if len(c.rest) == 0 {
		return nil, false
	}
	size := c.blocksize
	if c.rem > 0 {
		c.rem--
		if c.rem == 0 {
			// Remaining chunks take the smaller size.
			c.blocksize--
		}
	}
	if size > len(c.rest) {
		// Unreachable when constructed through NChunks.
		size = len(c.rest)
	}
	chunk := c.rest[:size:size]
	c.rest = c.rest[size:]
	return chunk, true
}

// All drains the sequence.
func (c *EvenChunks[T]) All() [][]T {
	var chunks [][]T
	for {
		chunk, ok := c.Next()
		if !ok {
			return chunks
		}
		chunks = append(chunks, chunk)
	}
}

// Split is shorthand for NChunks followed by All.
func Split[T any](seq []T, n int) ([][]T, error) {
	chunks, err := NChunks(seq, n)
	if err != nil {
		return nil, err
	}
	return chunks.All(), nil
}
