package ports

import "context"

// Locker serializes work on a key across callers
type Locker interface {
	// Lock blocks until the key is held or ctx ends; call the returned func to release it
	Lock(ctx context.Context, key string) (func(), error)
}
