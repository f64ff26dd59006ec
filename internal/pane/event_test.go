package pane

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_RaiseInSubscriptionOrder(t *testing.T) {
	var e Event
	var got []int
	e.Subscribe(func() { got = append(got, 1) })
	e.Subscribe(func() { got = append(got, 2) })
	e.Subscribe(func() { got = append(got, 3) })

	e.Raise()

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestEvent_RevokeIsIdempotent(t *testing.T) {
	var e Event
	calls := 0
	sub := e.Subscribe(func() { calls++ })
	other := e.Subscribe(func() {})

	sub.Revoke()
	sub.Revoke()
	e.Raise()

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, e.Len())

	other.Revoke()
	assert.Equal(t, 0, e.Len())

	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Revoke)
}

func TestSubscription_ZeroRevoke(t *testing.T) {
	assert.NotPanics(t, func() {
		(&Subscription{}).Revoke()
		(*Subscription)(nil).Revoke()
	})
}

func TestEvent_RevokeDuringRaise(t *testing.T) {
	var e Event
	var second *Subscription
	calls := 0
	e.Subscribe(func() { second.Revoke() })
	second = e.Subscribe(func() { calls++ })

	// Handlers are snapshotted before the first one runs.
	e.Raise()
	assert.Equal(t, 1, calls)

	e.Raise()
	assert.Equal(t, 1, calls)
}

func TestEvent_RaiseFromOtherGoroutines(t *testing.T) {
	var e Event
	var mu sync.Mutex
	calls := 0
	e.Subscribe(func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Raise()
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, calls)
}
