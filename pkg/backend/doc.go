// Package backend is the client for the dn-house persistence API.
//
// The API stores guestbook entries and photo records. Two facades share one
// [Client]:
//
//   - [Guestbook]: list, get, create, update and delete entries
//   - [Photos]: list, get, upload, update, delete and refresh-url
//
// # Errors
//
// Every failed call (transport error or non-2xx status) returns an
// [errors.Error] whose Message is the fixed text for that endpoint, such as
// "Failed to fetch photos". Response bodies of failed calls are not parsed.
// Show the message with [errors.UserMessage]. The code tells callers what
// happened: NOT_FOUND for 404, TIMEOUT for deadlines, NETWORK_ERROR for the
// rest, and INVALID_ID when an ID is rejected before any request is sent.
//
// # Retries
//
// By default each call is made once. [WithRetry] enables bounded retries
// for GET requests that failed in transport or with a 5xx status; writes are
// never retried.
//
// Basic usage:
//
//	c, err := backend.NewClient("https://dn-house-backend.vercel.app")
//	entries, err := c.Guestbook().List(ctx)
package backend
