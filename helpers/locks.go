package helpers

import "sync"

// Cart read-modify-write operations for one user must not interleave, or two
// concurrent adds can both read the old line and lose an increment. Every
// cart mutator and the checkout hold this lock for the whole transaction.
var cartLocks sync.Map // userID -> *sync.Mutex

// LockUserCart serializes cart operations for a user. The returned func
// releases the lock.
func LockUserCart(userID uint) (unlock func()) {
	v, _ := cartLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
