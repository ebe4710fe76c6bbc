package mocks

import (
	"context"
	"sync/atomic"
)

type Counter struct {
	Failures
	n atomic.Int64
}

func (c *Counter) Increment(ctx context.Context) (int64, error) {
	if err := c.check("Increment"); err != nil {
		return 0, err
	}
	return c.n.Add(1), nil
}

func (c *Counter) Read(ctx context.Context) (int64, error) {
	if err := c.check("Read"); err != nil {
		return 0, err
	}
	return c.n.Load(), nil
}

func (c *Counter) Reset(ctx context.Context) (int64, error) {
	if err := c.check("Reset"); err != nil {
		return 0, err
	}
	c.n.Store(0)
	return 0, nil
}
