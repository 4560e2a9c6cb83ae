// Package awaiter coalesces concurrent callers asking for the same key
// into a single in-flight computation, publishing one outcome to every
// waiter. It coalesces concurrent callers the way a class-level
// TaskAwaiter/EventWithValue pair: where that implementation parks
// waiters on a threading.Event and manually tracks a map of in-flight
// keys (and, in its earliest revision, never actually clears that map
// once a computation completes), this wraps go4.org/syncutil/
// singleflight.Group, which already gives the same "one compute, many
// waiters, entry cleared on completion" contract for free. See
// DESIGN.md for why the task adopts this "remove on publish" behavior.
package awaiter

import "go4.org/syncutil/singleflight"

// TaskAwaiter coalesces calls to Do sharing the same key: the first
// caller for a key runs fn; any caller arriving while that call is
// still in flight blocks and receives the same (value, error) the first
// caller's fn produced, without running fn itself.
type TaskAwaiter[V any] struct {
	group singleflight.Group
}

// Do runs fn for key if no call for key is currently in flight,
// otherwise waits for the in-flight call and returns its result.
func (a *TaskAwaiter[V]) Do(key string, fn func() (V, error)) (V, error) {
	v, err := a.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
