// Package httputil provides HTTP helpers shared by the backend client.
//
// # Retry
//
// [Retry] wraps an operation with bounded retries for transient failures.
// Only errors wrapped in [RetryableError] are retried; everything else is
// returned on the first failure. A [Policy] with a single attempt (the
// default for dn-house, which surfaces every failure to the visitor
// immediately) turns Retry into a plain call:
//
//	err := httputil.Retry(ctx, httputil.Policy{Attempts: 3, Delay: time.Second}, func() error {
//	    return doRequest()
//	})
//
// Transport errors and 5xx responses should be wrapped with [Retryable];
// 4xx responses should not.
package httputil
