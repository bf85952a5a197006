package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/pages"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// fakeBackend is an in-memory guestbook and photo API.
type fakeBackend struct {
	mu       sync.Mutex
	entries  []backend.Entry
	photos   []backend.Photo
	requests []string
	form     map[string]string
	gotFile  bool
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/guestbook", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		fb.reply(w, map[string]any{"entries": fb.entries})
	})
	mux.HandleFunc("POST /api/guestbook", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		var in backend.EntryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fb.mu.Lock()
		e := backend.Entry{ID: fmt.Sprintf("e%d", len(fb.entries)+1), From: in.From, Subject: in.Subject, Message: in.Message}
		fb.entries = append(fb.entries, e)
		fb.mu.Unlock()
		fb.reply(w, map[string]any{"entry": e})
	})
	mux.HandleFunc("GET /api/guestbook/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		if i := fb.entry(r.PathValue("id")); i >= 0 {
			fb.reply(w, map[string]any{"entry": fb.entries[i]})
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("PUT /api/guestbook/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		i := fb.entry(r.PathValue("id"))
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		var in backend.EntryInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fb.mu.Lock()
		fb.entries[i] = backend.Entry{ID: fb.entries[i].ID, From: in.From, Subject: in.Subject, Message: in.Message}
		e := fb.entries[i]
		fb.mu.Unlock()
		fb.reply(w, map[string]any{"entry": e})
	})
	mux.HandleFunc("DELETE /api/guestbook/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		fb.reply(w, map[string]any{"message": "Entry deleted successfully"})
	})

	mux.HandleFunc("GET /api/photos", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		fb.reply(w, map[string]any{"photos": fb.photos})
	})
	mux.HandleFunc("GET /api/photos/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		if i := fb.photo(r.PathValue("id")); i >= 0 {
			fb.reply(w, map[string]any{"photo": fb.photos[i]})
			return
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("POST /api/photos/upload", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		if !fb.readForm(w, r) {
			return
		}
		fb.mu.Lock()
		p := backend.Photo{
			ID:      fmt.Sprintf("p%d", len(fb.photos)+1),
			URL:     "https://storage.example/p.png",
			Caption: fb.form["caption"],
			Type:    canvas.Kind(fb.form["type"]),
		}
		fb.photos = append(fb.photos, p)
		fb.mu.Unlock()
		fb.reply(w, map[string]any{"photo": p})
	})
	mux.HandleFunc("PUT /api/photos/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		i := fb.photo(r.PathValue("id"))
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		if !fb.readForm(w, r) {
			return
		}
		fb.mu.Lock()
		fb.photos[i].Caption = fb.form["caption"]
		fb.photos[i].Type = canvas.Kind(fb.form["type"])
		p := fb.photos[i]
		fb.mu.Unlock()
		fb.reply(w, map[string]any{"photo": p})
	})
	mux.HandleFunc("DELETE /api/photos/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		fb.reply(w, map[string]any{"message": "Photo deleted successfully"})
	})
	mux.HandleFunc("POST /api/photos/{id}/refresh-url", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		i := fb.photo(r.PathValue("id"))
		if i < 0 {
			http.NotFound(w, r)
			return
		}
		fb.mu.Lock()
		fb.photos[i].URL = "https://storage.example/fresh.png"
		p := fb.photos[i]
		fb.mu.Unlock()
		fb.reply(w, map[string]any{"photo": p})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) record(r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.requests = append(fb.requests, r.Method+" "+r.URL.Path)
}

func (fb *fakeBackend) reply(w http.ResponseWriter, v any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (fb *fakeBackend) readForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	_, _, err := r.FormFile("file")
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.gotFile = err == nil
	fb.form = map[string]string{"caption": r.FormValue("caption"), "type": r.FormValue("type")}
	return true
}

func (fb *fakeBackend) entry(id string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i, e := range fb.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (fb *fakeBackend) photo(id string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i, p := range fb.photos {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (fb *fakeBackend) calls() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.requests...)
}

// newBackendCLI returns a CLI whose api.base_url points at a fake backend.
func newBackendCLI(t *testing.T) (*CLI, *fakeBackend) {
	t.Helper()
	c := newTestCLI(t)
	fb, srv := newFakeBackend(t)
	t.Setenv("DNHOUSE_API_BASE_URL", srv.URL)
	return c, fb
}

func TestGuestbookSign(t *testing.T) {
	c, fb := newBackendCLI(t)

	if _, err := run(t, c, "guestbook", "sign", "--from", " Georgie ", "--subject", "Hi", "-m", "Lovely site!"); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(fb.entries) != 1 {
		t.Fatalf("backend has %d entries, want 1", len(fb.entries))
	}
	if e := fb.entries[0]; e.From != "Georgie" || e.Subject != "Hi" || e.Message != "Lovely site!" {
		t.Errorf("stored entry = %+v", e)
	}
}

func TestGuestbookSignRequiresMessage(t *testing.T) {
	c, fb := newBackendCLI(t)

	_, err := run(t, c, "guestbook", "sign", "--from", "Georgie", "-m", "   ")
	if err == nil || !strings.Contains(err.Error(), pages.MsgLetterMissing) {
		t.Fatalf("sign error = %v, want %q", err, pages.MsgLetterMissing)
	}
	if calls := fb.calls(); len(calls) != 0 {
		t.Errorf("empty letter reached the backend: %v", calls)
	}
}

func TestGuestbookEditKeepsUnsetFields(t *testing.T) {
	c, fb := newBackendCLI(t)
	fb.entries = []backend.Entry{{ID: "e1", From: "Georgie", Subject: "Hi", Message: "Lovely site!"}}

	if _, err := run(t, c, "guestbook", "edit", "e1", "--subject", "Hello"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	want := backend.Entry{ID: "e1", From: "Georgie", Subject: "Hello", Message: "Lovely site!"}
	if fb.entries[0] != want {
		t.Errorf("entry = %+v, want %+v", fb.entries[0], want)
	}
}

func TestGuestbookListGetDelete(t *testing.T) {
	c, fb := newBackendCLI(t)
	fb.entries = []backend.Entry{{ID: "e1", Message: "hi"}}

	for _, args := range [][]string{
		{"guestbook", "list"},
		{"gb", "get", "e1"},
		{"guestbook", "delete", "e1"},
	} {
		if _, err := run(t, c, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	want := []string{"GET /api/guestbook", "GET /api/guestbook/e1", "DELETE /api/guestbook/e1"}
	if got := fb.calls(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestGuestbookGetMissing(t *testing.T) {
	c, _ := newBackendCLI(t)
	if _, err := run(t, c, "guestbook", "get", "nope"); err == nil {
		t.Error("get of a missing entry succeeded")
	}
}

func writeImage(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPhotosUpload(t *testing.T) {
	c, fb := newBackendCLI(t)
	img := writeImage(t, "beach.png", pngHeader)

	if _, err := run(t, c, "photos", "upload", img, "--caption", "Bali", "-t", "polaroid"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !fb.gotFile {
		t.Error("backend received no file part")
	}
	if fb.form["caption"] != "Bali" || fb.form["type"] != "polaroid" {
		t.Errorf("form = %v", fb.form)
	}
}

func TestPhotosUploadRejects(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		args    []string
		wantErr string
	}{
		{"not an image", []byte("just some text"), nil, pages.MsgNotImage},
		{"unknown type", pngHeader, []string{"-t", "poster"}, "Unknown photo type."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fb := newBackendCLI(t)
			img := writeImage(t, "file", tt.data)

			args := append([]string{"photos", "upload", img}, tt.args...)
			_, err := run(t, c, args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("upload error = %v, want %q", err, tt.wantErr)
			}
			if calls := fb.calls(); len(calls) != 0 {
				t.Errorf("rejected upload reached the backend: %v", calls)
			}
		})
	}
}

func TestPhotosUpdateKeepsUnsetFields(t *testing.T) {
	c, fb := newBackendCLI(t)
	fb.photos = []backend.Photo{{ID: "p1", Caption: "Bali", Type: canvas.KindPolaroid}}

	if _, err := run(t, c, "photos", "update", "p1", "--caption", "Ubud"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if p := fb.photos[0]; p.Caption != "Ubud" || p.Type != canvas.KindPolaroid {
		t.Errorf("photo = %+v", p)
	}
	if fb.gotFile {
		t.Error("update without --image sent a file")
	}
}

func TestPhotosRefreshURLAndDelete(t *testing.T) {
	c, fb := newBackendCLI(t)
	fb.photos = []backend.Photo{{ID: "p1", URL: "https://storage.example/old.png", Type: canvas.KindPostcard}}

	if _, err := run(t, c, "photos", "refresh-url", "p1"); err != nil {
		t.Fatalf("refresh-url: %v", err)
	}
	if fb.photos[0].URL != "https://storage.example/fresh.png" {
		t.Errorf("url = %q", fb.photos[0].URL)
	}
	if _, err := run(t, c, "photos", "delete", "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, c, "photos", "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
}

type layoutFile struct {
	Source string `json:"source"`
	Cards  []struct {
		ID string `json:"id"`
	} `json:"cards"`
}

func readLayout(t *testing.T, path string) layoutFile {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out layoutFile
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return out
}

func TestLayoutDemo(t *testing.T) {
	c := newTestCLI(t)
	base := filepath.Join(t.TempDir(), "out", "menu")

	if _, err := run(t, c, "layout", "-n", "8", "-f", "svg, json", "-o", base); err != nil {
		t.Fatalf("layout: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output starts with %q", svg[:min(len(svg), 20)])
	}
	layout := readLayout(t, base+".json")
	if len(layout.Cards) == 0 || len(layout.Cards) > 8 {
		t.Errorf("layout has %d cards, want 1..8", len(layout.Cards))
	}
}

func TestLayoutBackend(t *testing.T) {
	c, fb := newBackendCLI(t)
	fb.photos = []backend.Photo{
		{ID: "p1", URL: "https://storage.example/1.png", Type: canvas.KindPostcard},
		{ID: "p2", URL: "https://storage.example/2.png", Type: canvas.KindPolaroid},
	}
	base := filepath.Join(t.TempDir(), "menu")

	if _, err := run(t, c, "layout", "-s", "backend", "-f", "json", "-o", base, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	layout := readLayout(t, base+".json")
	ids := map[string]bool{}
	for _, card := range layout.Cards {
		ids[card.ID] = true
	}
	if !ids["p1"] || !ids["p2"] {
		t.Errorf("layout cards = %v, want p1 and p2", ids)
	}
}

func TestPhotoChangesRefreshCachedLayout(t *testing.T) {
	c, fb := newBackendCLI(t)
	fb.photos = []backend.Photo{{ID: "p1", URL: "https://storage.example/1.png", Type: canvas.KindPostcard}}
	base := filepath.Join(t.TempDir(), "menu")

	layoutIDs := func() map[string]bool {
		t.Helper()
		if _, err := run(t, c, "layout", "-s", "backend", "-f", "json", "-o", base); err != nil {
			t.Fatalf("layout: %v", err)
		}
		ids := map[string]bool{}
		for _, card := range readLayout(t, base+".json").Cards {
			ids[card.ID] = true
		}
		return ids
	}

	if ids := layoutIDs(); len(ids) != 1 || !ids["p1"] {
		t.Fatalf("first layout cards = %v, want p1", ids)
	}
	if _, err := run(t, c, "photos", "upload", writeImage(t, "new.png", pngHeader)); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if ids := layoutIDs(); len(ids) != 2 || !ids["p2"] {
		t.Errorf("layout after upload cards = %v, want p1 and p2", ids)
	}
}

func TestLayoutRejectsFormat(t *testing.T) {
	c := newTestCLI(t)
	if _, err := run(t, c, "layout", "-f", "gif", "-o", filepath.Join(t.TempDir(), "m")); err == nil {
		t.Error("layout accepted an unknown format")
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "menu")
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, []string{"json", "png", "svg"}, base)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{base + ".json", base + ".svg"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestConfigInitShowPath(t *testing.T) {
	c := newTestCLI(t)
	want := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "dn-house", "config.yaml")

	out, err := run(t, c, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}

	if _, err := run(t, c, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := run(t, c, "config", "init"); err == nil {
		t.Error("second init without --force succeeded")
	}
	if _, err := run(t, c, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = run(t, c, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"base_url:", "addr:", "source: demo"} {
		if !strings.Contains(out, key) {
			t.Errorf("config show missing %q:\n%s", key, out)
		}
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	c, _ := newBackendCLI(t)
	if _, err := run(t, c, "config", "path"); err != nil {
		t.Fatal(err)
	}
	c.Config.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.runServe(ctx, true) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
