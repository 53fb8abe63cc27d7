package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Connection retry defaults for the mongo backend.
const (
	pingAttempts = 3
	pingDelay    = 500 * time.Millisecond
)

// retry calls fn up to attempts times, doubling delay after each failure.
// Only errors for which transient reports true are retried; anything else
// is returned at once. Cancelling ctx ends the wait with ctx.Err().
func retry(ctx context.Context, attempts int, delay time.Duration, transient func(error) bool, fn func() error) error {
	attempts = max(attempts, 1)
	var last error
	for i := range attempts {
		last = fn()
		if last == nil || !transient(last) {
			return last
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return last
}

// transientMongo reports whether err is a network error or timeout worth
// retrying, e.g. a server that is still starting.
func transientMongo(err error) bool {
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}
