package realm

import (
	"context"
	"sync"
)

// heldKey marks a context whose call chain holds the realm-wide lock of a
// non-parallel realm, so nested lookups on that realm do not relock it.
type heldKey struct {
	realm *Realm
}

// visitKey marks a (realm, name) lookup in flight on the call chain; it is
// only recorded for realms with the cycle guard enabled.
type visitKey struct {
	realm *Realm
	name  string
}

func (r *Realm) holdsLock(ctx context.Context) bool {
	return ctx.Value(heldKey{r}) != nil
}

// enter prepares a top-level lookup of name.  It returns the context to
// resolve with and a release function, or ok == false if the cycle guard
// rejects the lookup.  Only class lookups (lock == true) take the realm-wide
// lock of a non-parallel realm; resource lookups never lock.
func (r *Realm) enter(ctx context.Context, name string, lock bool) (context.Context, func(), bool) {
	if r.cycleGuard {
		key := visitKey{r, name}
		if ctx.Value(key) != nil {
			r.logger.Debug().Str("name", name).Msg("cycle detected")
			return ctx, nil, false
		}
		ctx = context.WithValue(ctx, key, true)
	}
	if !lock || r.parallel || r.holdsLock(ctx) {
		return ctx, func() {}, true
	}
	r.loadMu.Lock()
	return context.WithValue(ctx, heldKey{r}, true), r.loadMu.Unlock, true
}

// lockName acquires the lock that serializes self lookups of name.  For
// parallel realms this is a per-name lock; otherwise the realm-wide lock,
// unless the call chain already holds it.
func (r *Realm) lockName(ctx context.Context, name string) func() {
	if !r.parallel {
		if r.holdsLock(ctx) {
			return func() {}
		}
		r.loadMu.Lock()
		return r.loadMu.Unlock
	}
	v, _ := r.locks.LoadOrStore(name, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
