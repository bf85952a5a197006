package pages

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/errors"
)

var pngData = []byte("\x89PNG\r\n\x1a\n0000")

type fakeGuestbook struct {
	entries []backend.Entry
	created []backend.EntryInput
	err     error
	calls   int
}

func (f *fakeGuestbook) Create(_ context.Context, in backend.EntryInput) (backend.Entry, error) {
	f.calls++
	if f.err != nil {
		return backend.Entry{}, f.err
	}
	f.created = append(f.created, in)
	return backend.Entry{ID: "new", From: in.From, Subject: in.Subject, Message: in.Message}, nil
}

func (f *fakeGuestbook) List(context.Context) ([]backend.Entry, error) {
	f.calls++
	return f.entries, f.err
}

type fakePhotos struct {
	uploads []backend.PhotoUpload
	err     error
}

func (f *fakePhotos) Upload(_ context.Context, in backend.PhotoUpload) (backend.Photo, error) {
	f.uploads = append(f.uploads, in)
	if f.err != nil {
		return backend.Photo{}, f.err
	}
	return backend.Photo{ID: "p1", Caption: in.Caption, Type: in.Type}, nil
}

func TestLetterSend(t *testing.T) {
	store := &fakeGuestbook{}
	l := NewLetter(store)
	l.From, l.Subject, l.Message = "  Sam ", "hi", "congrats you two"

	if err := l.Send(context.Background()); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if l.Status != (Status{Kind: StatusSuccess, Text: MsgLetterSent}) {
		t.Errorf("Status = %+v", l.Status)
	}
	if l.From != "" || l.Subject != "" || l.Message != "" {
		t.Error("fields should be cleared after a successful send")
	}
	if len(store.created) != 1 || store.created[0].From != "Sam" {
		t.Errorf("created = %+v", store.created)
	}
	if l.Sending {
		t.Error("Sending should be false after Send returns")
	}
}

func TestLetterSendFailureKeepsFields(t *testing.T) {
	store := &fakeGuestbook{err: errors.New(errors.ErrCodeNetwork, backend.MsgCreateEntry)}
	l := NewLetter(store)
	l.Message = "hello"

	if err := l.Send(context.Background()); err == nil {
		t.Fatal("Send() should fail")
	}
	if l.Status != (Status{Kind: StatusError, Text: MsgLetterFailed}) {
		t.Errorf("Status = %+v", l.Status)
	}
	if l.Message != "hello" {
		t.Error("fields should be kept after a failed send")
	}
}

func TestLetterEmptyMessage(t *testing.T) {
	store := &fakeGuestbook{}
	l := NewLetter(store)
	l.Message = "   \n"

	err := l.Send(context.Background())
	if !errors.IsValidation(err) {
		t.Errorf("Send() error = %v, want validation error", err)
	}
	if store.calls != 0 {
		t.Error("empty message should not reach the backend")
	}
	if l.Status.Text != MsgLetterMissing {
		t.Errorf("Status = %+v", l.Status)
	}
}

func TestLetterReset(t *testing.T) {
	l := NewLetter(&fakeGuestbook{})
	l.From, l.Subject, l.Message = "a", "b", "c"
	l.Reset()
	if l.From != "" || l.Subject != "" || l.Message != "" {
		t.Errorf("Reset left %+v", l)
	}
}

func TestUploadWithoutFile(t *testing.T) {
	store := &fakePhotos{}
	u := NewUpload(store)
	u.SetCaption("no photo")

	err := u.Submit(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidFile) {
		t.Errorf("Submit() error = %v", err)
	}
	if u.Status != (Status{Kind: StatusError, Text: "Please select an image file."}) {
		t.Errorf("Status = %+v", u.Status)
	}
	if len(store.uploads) != 0 {
		t.Error("no network call expected without a file")
	}
}

func TestUploadSelectFile(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		data        []byte
		want        bool
	}{
		{"png declared", "image/png", pngData, true},
		{"png sniffed", "", pngData, true},
		{"text", "text/plain", []byte("hello"), false},
		{"text sniffed", "", []byte("hello"), false},
		{"empty", "image/png", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUpload(&fakePhotos{})
			if got := u.SelectFile("f", tt.contentType, tt.data); got != tt.want {
				t.Fatalf("SelectFile() = %v, want %v", got, tt.want)
			}
			if tt.want {
				if u.File() == nil || !strings.HasPrefix(u.File().ContentType, "image/") {
					t.Errorf("File() = %+v", u.File())
				}
				return
			}
			if u.File() != nil || u.Status.Text != MsgNotImage {
				t.Errorf("rejected file: File() = %v, Status = %+v", u.File(), u.Status)
			}
		})
	}
}

func TestUploadSelectFileClearsError(t *testing.T) {
	u := NewUpload(&fakePhotos{})
	u.SelectFile("notes.txt", "text/plain", []byte("x"))
	u.SelectFile("a.png", "image/png", pngData)
	if u.Status != (Status{}) {
		t.Errorf("Status = %+v, want cleared", u.Status)
	}
}

func TestUploadSubmit(t *testing.T) {
	store := &fakePhotos{}
	u := NewUpload(store)
	u.SelectFile("bali.png", "image/png", pngData)
	u.SetCaption("bali")
	if err := u.SetType("polaroid"); err != nil {
		t.Fatal(err)
	}

	if err := u.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if u.Status.Text != MsgUploaded || u.Status.Kind != StatusSuccess {
		t.Errorf("Status = %+v", u.Status)
	}
	if len(store.uploads) != 1 || store.uploads[0].Type != canvas.KindPolaroid || store.uploads[0].Caption != "bali" {
		t.Errorf("uploads = %+v", store.uploads)
	}
	if u.File() != nil || u.Caption != "" || u.Type != canvas.KindPostcard {
		t.Error("form should reset after upload, type back to postcard")
	}
}

func TestUploadSubmitFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", errors.New(errors.ErrCodeNetwork, backend.MsgUploadPhoto), backend.MsgUploadPhoto},
		{"plain error", stderrors.New("boom"), MsgUploadFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUpload(&fakePhotos{err: tt.err})
			u.SelectFile("a.png", "image/png", pngData)
			u.SetCaption("keep me")

			if err := u.Submit(context.Background()); err == nil {
				t.Fatal("Submit() should fail")
			}
			if u.Status.Text != tt.want || !u.Status.IsError() {
				t.Errorf("Status = %+v, want %q", u.Status, tt.want)
			}
			if u.File() == nil || u.Caption != "keep me" {
				t.Error("failed upload should keep the form")
			}
		})
	}
}

func TestUploadCaptionLimit(t *testing.T) {
	u := NewUpload(&fakePhotos{})
	u.SetCaption(strings.Repeat("é", 250))
	if n := len([]rune(u.Caption)); n != MaxCaptionLength {
		t.Errorf("caption length = %d, want %d", n, MaxCaptionLength)
	}
}

func TestUploadSetType(t *testing.T) {
	u := NewUpload(&fakePhotos{})
	if err := u.SetType("sticker"); !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("SetType(sticker) error = %v", err)
	}
	if u.Type != canvas.KindPostcard {
		t.Errorf("Type changed to %q", u.Type)
	}
	u.SetType("polaroid")
	u.SetType("")
	if u.Type != canvas.KindPostcard {
		t.Errorf("empty type should select postcard, got %q", u.Type)
	}
}

func TestUploadRemoveFile(t *testing.T) {
	u := NewUpload(&fakePhotos{})
	u.SelectFile("a.png", "image/png", pngData)
	u.RemoveFile()
	if u.File() != nil {
		t.Error("RemoveFile should clear the selection")
	}
}

func TestGuestbookLoadNullEntries(t *testing.T) {
	g := NewGuestbook(&fakeGuestbook{entries: nil})
	if err := g.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if g.Entries == nil || len(g.Entries) != 0 || g.Status != (Status{}) {
		t.Errorf("Entries = %#v, Status = %+v", g.Entries, g.Status)
	}
}

func TestGuestbookLoadFailureKeepsEntries(t *testing.T) {
	store := &fakeGuestbook{entries: []backend.Entry{{ID: "1", Message: "hi"}}}
	g := NewGuestbook(store)
	if err := g.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	store.err = errors.New(errors.ErrCodeNetwork, backend.MsgListEntries)
	if err := g.Load(context.Background()); err == nil {
		t.Fatal("Load() should fail")
	}
	if len(g.Entries) != 1 {
		t.Errorf("Entries = %v, want previous entries kept", g.Entries)
	}
	if g.Status.Text != "Failed to fetch guestbook entries" {
		t.Errorf("Status = %+v", g.Status)
	}
}
