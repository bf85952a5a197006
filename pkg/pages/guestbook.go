package pages

import (
	"context"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/errors"
)

// Guestbook lists the entries left by visitors.
type Guestbook struct {
	Entries []backend.Entry
	Status  Status
	Loading bool

	store EntryLister
}

// NewGuestbook returns an empty listing backed by store.
func NewGuestbook(store EntryLister) *Guestbook {
	return &Guestbook{Entries: []backend.Entry{}, store: store}
}

// Load replaces the entries. On failure the previous entries stay.
func (g *Guestbook) Load(ctx context.Context) error {
	g.Loading = true
	defer func() { g.Loading = false }()

	entries, err := g.store.List(ctx)
	if err != nil {
		g.Status = failure(errors.UserMessage(err, backend.MsgListEntries))
		return err
	}
	if entries == nil {
		entries = []backend.Entry{}
	}
	g.Entries = entries
	g.Status = Status{}
	return nil
}
