package client

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Refresher makes sure at most one token refresh is outstanding. Every caller
// that arrives while a refresh is in flight waits for, and shares, its result.
// One Refresher is shared by reference among all call sites of a client.
type Refresher struct {
	group   singleflight.Group
	pending atomic.Bool
	flights atomic.Int64
}

func NewRefresher() *Refresher {
	return &Refresher{}
}

// Do runs fn unless a run is already in flight, in which case it joins that
// run. fn gets a context detached from the caller's cancellation: a caller
// giving up must not fail the refresh for everybody else sharing it.
func (r *Refresher) Do(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	detached := context.WithoutCancel(ctx)

	ch := r.group.DoChan(refreshKey, func() (any, error) {
		r.pending.Store(true)
		defer r.pending.Store(false)
		r.flights.Add(1)

		return fn(detached)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		token, _ := res.Val.(string)
		return token, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Pending reports whether a refresh is armed right now.
func (r *Refresher) Pending() bool {
	return r.pending.Load()
}

// Flights counts refresh runs started over the refresher's lifetime.
func (r *Refresher) Flights() int64 {
	return r.flights.Load()
}
