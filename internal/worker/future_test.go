package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFuture_CompleteOnce(t *testing.T) {
	f := newFuture()
	f.complete("first", nil)
	f.complete("second", errors.New("ignored"))

	result, err := f.Result()
	assert.NoError(t, err)
	assert.Equal(t, "first", result)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done channel not closed after completion")
	}
}

func TestFuture_WaitTimeout(t *testing.T) {
	f := newFuture()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The result still arrives after the waiter gave up.
	f.complete(42, nil)
	result, err := f.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 42, result)
}
