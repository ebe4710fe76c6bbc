package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cscportal/api/internal/mocks"
)

func TestVisitor_ConcurrentIncrements(t *testing.T) {
	visitors := NewVisitorService(&mocks.Counter{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := visitors.Increment(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := visitors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = visitors.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestVisitor_Failure(t *testing.T) {
	counter := &mocks.Counter{}
	counter.FailOn("Increment", errors.New("redis down"))

	_, err := NewVisitorService(counter).Increment(context.Background())
	assert.Error(t, err)
}
