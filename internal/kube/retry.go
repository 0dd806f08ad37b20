package kube

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

const maxListTries = 4

var (
	nowFunc = time.Now

	newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 250 * time.Millisecond
		b.MaxInterval = 2 * time.Second
		return b
	}
)

// retryable reports whether an API error is worth another attempt.
func retryable(err error) bool {
	return apierrors.IsServerTimeout(err) ||
		apierrors.IsTimeout(err) ||
		apierrors.IsTooManyRequests(err) ||
		apierrors.IsServiceUnavailable(err) ||
		apierrors.IsInternalError(err)
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or
// runs out of attempts. The returned error is the last one fn produced.
func withRetry[T any](ctx context.Context, what string, fn func(context.Context) (T, error)) (T, error) {
	log := logr.FromContextOrDiscard(ctx)

	return backoff.Retry(ctx, func() (T, error) {
		out, err := fn(ctx)
		if err != nil && !retryable(err) {
			return out, backoff.Permanent(err)
		}
		return out, err
	},
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxTries(maxListTries),
		backoff.WithNotify(func(err error, d time.Duration) {
			log.V(1).Info("retrying request", "resource", what, "error", err.Error(), "after", d)
		}),
	)
}
