// Package pages holds the state behind each page of the site.
//
// Every page owns its own model: the letter form, the photo upload form, the
// guestbook listing and the photo menu. Models are created per visit (per
// HTTP request on the server, per program run in the terminal viewer) and
// never share state. Backend access goes through small interfaces satisfied
// by [backend.Guestbook] and [backend.Photos], so models are tested with
// in-memory fakes.
//
// Failed calls never leave a model unusable: the model records a [Status]
// with the user-facing message and keeps its previous data.
package pages

import (
	"context"

	"github.com/denoseu/dn-house/pkg/backend"
)

// StatusKind classifies the feedback line shown under a form.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusSuccess
	StatusError
)

// Status is the inline feedback of a page.
type Status struct {
	Kind StatusKind
	Text string
}

// IsError reports whether s is an error message.
func (s Status) IsError() bool { return s.Kind == StatusError }

func success(text string) Status { return Status{Kind: StatusSuccess, Text: text} }
func failure(text string) Status { return Status{Kind: StatusError, Text: text} }

// EntryCreator creates guestbook entries.
type EntryCreator interface {
	Create(ctx context.Context, in backend.EntryInput) (backend.Entry, error)
}

// EntryLister lists guestbook entries.
type EntryLister interface {
	List(ctx context.Context) ([]backend.Entry, error)
}

// PhotoUploader stores new photos.
type PhotoUploader interface {
	Upload(ctx context.Context, in backend.PhotoUpload) (backend.Photo, error)
}
