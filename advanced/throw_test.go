package advanced

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePanicRecover(t *testing.T) {
	testFn := func(shouldThrow bool, shouldPanic bool) (err error) {
		defer func() {
			recoveredErr := HandlePanicRecover(recover())
			if recoveredErr != nil {
				err = recoveredErr
			}
		}()

		if shouldThrow {
			queue := NewQueue[int, string](func(a, b int) bool { return a < b })
			queue.Remove("kaboom", 1)
		}

		if shouldPanic {
			panic("true panic")
		}

		return nil
	}

	t.Run("with throw", func(t *testing.T) {
		err := testFn(true, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.EqualError(t, err, "queue entry kaboom with priority 1: not found")

		var invariantErr InvariantError
		assert.True(t, errors.As(err, &invariantErr))
	})

	t.Run("with real panic", func(t *testing.T) {
		assert.Panics(t, func() {
			testFn(false, true)
		})
	})

	t.Run("no error", func(t *testing.T) {
		err := testFn(false, false)
		assert.NoError(t, err)
	})
}

func TestTreeThroughAliases(t *testing.T) {
	tree := NewTree[int, string](func(a, b int) int { return a - b })
	tree.Put(2, "two")
	tree.Put(1, "one")
	tree.Put(3, "three")

	c := tree.Cursor(2)
	assert.Equal(t, "one", c.Prev().Value())
	assert.Equal(t, "three", c.Next().Value())
	assert.Equal(t, 1, c.Rank())
}
