package ledger

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the exponential backoff around a single remote call.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

func (that RetryPolicy) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()

	if that.InitialInterval > 0 {
		b.InitialInterval = that.InitialInterval
	}

	if that.MaxInterval > 0 {
		b.MaxInterval = that.MaxInterval
	}

	if that.MaxElapsedTime > 0 {
		b.MaxElapsedTime = that.MaxElapsedTime
	}

	b.Reset()

	return backoff.WithContext(b, ctx)
}

// do runs fn until it succeeds, fails permanently or the policy gives up.
// notify is called before every retry.
func (that RetryPolicy) do(ctx context.Context, fn func() error, notify func(err error, wait time.Duration)) error {
	operation := func() error {
		err := fn()
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}

		return err
	}

	return backoff.RetryNotify(operation, that.newBackOff(ctx), notify)
}
