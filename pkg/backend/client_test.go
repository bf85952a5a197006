package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/denoseu/dn-house/pkg/errors"
	"github.com/denoseu/dn-house/pkg/httputil"
	"github.com/denoseu/dn-house/pkg/observability"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, opts...)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"default", "", DefaultBaseURL, false},
		{"trailing slash", "http://localhost:3000/", "http://localhost:3000", false},
		{"with prefix", "https://example.com/v1", "https://example.com/v1", false},
		{"no scheme", "example.com", "", true},
		{"ftp", "ftp://example.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("error code = %s", errors.GetCode(err))
				}
				return
			}
			if c.BaseURL() != tt.want {
				t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), tt.want)
			}
		})
	}
}

func TestClientOptions(t *testing.T) {
	var gotHeader, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Client")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"entries": []}`))
	}, WithHeaders(map[string]string{"X-Client": "dnhouse"}), WithTimeout(time.Second))

	if _, err := c.Guestbook().List(context.Background()); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if gotHeader != "dnhouse" || gotAccept != "application/json" {
		t.Errorf("headers = %q, %q", gotHeader, gotAccept)
	}
	if c.http.Timeout != time.Second {
		t.Errorf("timeout = %v", c.http.Timeout)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		wantCode errors.Code
	}{
		{http.StatusNotFound, errors.ErrCodeNotFound},
		{http.StatusBadRequest, errors.ErrCodeNetwork},
		{http.StatusInternalServerError, errors.ErrCodeNetwork},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"detailed backend message"}`, tt.status)
			})
			_, err := c.Photos().List(context.Background())
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.wantCode)
			}
			if got := errors.UserMessage(err, ""); got != MsgListPhotos {
				t.Errorf("message = %q, want %q", got, MsgListPhotos)
			}
			if StatusCode(err) != tt.status {
				t.Errorf("StatusCode() = %d", StatusCode(err))
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := NewClient(url)
	_, err := c.Guestbook().List(context.Background())
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("code = %s, want NETWORK_ERROR", errors.GetCode(err))
	}
	if errors.UserMessage(err, "") != MsgListEntries {
		t.Errorf("message = %q", errors.UserMessage(err, ""))
	}
}

func TestTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Photos().List(ctx)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("code = %s, want TIMEOUT (%v)", errors.GetCode(err), err)
	}
}

func TestRetryOnlyGets(t *testing.T) {
	var gets, posts atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if gets.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"photos": []}`))
			return
		}
		posts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetry(httputil.Policy{Attempts: 3, Delay: time.Millisecond}))

	if _, err := c.Photos().List(context.Background()); err != nil {
		t.Fatalf("List() error after retries: %v", err)
	}
	if gets.Load() != 3 {
		t.Errorf("GET attempts = %d, want 3", gets.Load())
	}

	if _, err := c.Guestbook().Create(context.Background(), EntryInput{Message: "hi"}); err == nil {
		t.Fatal("Create() should fail")
	}
	if posts.Load() != 1 {
		t.Errorf("POST attempts = %d, want 1", posts.Load())
	}
}

func TestNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	c.Photos().List(context.Background())
	if calls.Load() != 1 {
		t.Errorf("attempts = %d, want 1", calls.Load())
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	requests []string
	statuses []int
}

func (h *recordingHooks) OnRequest(_ context.Context, method, _, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"entries": []}`))
	})
	c.Guestbook().List(context.Background())

	if len(hooks.requests) != 1 || hooks.requests[0] != "GET /api/guestbook" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.statuses) != 1 || hooks.statuses[0] != 200 {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestHTTPHooksPathUnderBasePath(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	var served string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = r.URL.Path
		w.Write([]byte(`{"photos": []}`))
	}))
	t.Cleanup(srv.Close)

	for _, base := range []string{srv.URL + "/v1", srv.URL + "/v1/"} {
		hooks.requests = nil
		c, err := NewClient(base)
		if err != nil {
			t.Fatalf("NewClient(%q) error: %v", base, err)
		}
		if _, err := c.Photos().List(context.Background()); err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if served != "/v1/api/photos" {
			t.Errorf("%s: server saw %q", base, served)
		}
		if len(hooks.requests) != 1 || hooks.requests[0] != "GET /v1/api/photos" {
			t.Errorf("%s: requests = %v", base, hooks.requests)
		}
	}
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"entries", `{"entries":[{"_id":"1"},{"_id":"2"}]}`, 2},
		{"null", `{"entries":null}`, 0},
		{"missing", `{}`, 0},
		{"object", `{"entries":{"_id":"1"}}`, 0},
		{"string", `{"entries":"nope"}`, 0},
		{"bare array", `[{"_id":"1"}]`, 1},
		{"empty body", ``, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeList[Entry]([]byte(tt.data), "entries")
			if err != nil {
				t.Fatalf("decodeList() error: %v", err)
			}
			if got == nil || len(got) != tt.want {
				t.Errorf("decodeList() = %v, want %d entries", got, tt.want)
			}
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	bare, err := decodeRecord[Entry]([]byte(`{"_id":"a","from":"d"}`), "entry")
	if err != nil || bare.ID != "a" || bare.From != "d" {
		t.Errorf("bare = %+v, %v", bare, err)
	}
	wrapped, err := decodeRecord[Entry]([]byte(`{"entry":{"_id":"b"}}`), "entry")
	if err != nil || wrapped.ID != "b" {
		t.Errorf("wrapped = %+v, %v", wrapped, err)
	}
	empty, err := decodeRecord[Entry](nil, "entry")
	if err != nil || empty != (Entry{}) {
		t.Errorf("empty = %+v, %v", empty, err)
	}
	if _, err := decodeRecord[Entry]([]byte(`[`), "entry"); err == nil {
		t.Error("malformed body should fail")
	}
}
