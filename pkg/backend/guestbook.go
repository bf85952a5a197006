package backend

import (
	"context"
	"encoding/json"
	"net/http"
)

// User-facing failure messages of the guestbook endpoints.
const (
	MsgListEntries = "Failed to fetch guestbook entries"
	MsgGetEntry    = "Failed to fetch guestbook entry"
	MsgCreateEntry = "Failed to create guestbook entry"
	MsgUpdateEntry = "Failed to update guestbook entry"
	MsgDeleteEntry = "Failed to delete guestbook entry"
)

const guestbookPath = "/api/guestbook"

// Guestbook wraps the /api/guestbook endpoints.
type Guestbook struct {
	c *Client
}

// List returns all entries. A null or malformed entries field is an empty
// list, not an error.
func (g *Guestbook) List(ctx context.Context) ([]Entry, error) {
	data, err := g.c.do(ctx, request{method: http.MethodGet, path: guestbookPath, failure: MsgListEntries})
	if err != nil {
		return nil, err
	}
	entries, err := decodeList[Entry](data, "entries")
	if err != nil {
		return nil, decodeFailure(err, MsgListEntries)
	}
	return entries, nil
}

// Get returns the entry with id.
func (g *Guestbook) Get(ctx context.Context, id string) (Entry, error) {
	if err := checkID(id, MsgGetEntry); err != nil {
		return Entry{}, err
	}
	return g.record(ctx, request{method: http.MethodGet, path: guestbookPath + "/" + id, failure: MsgGetEntry})
}

// Create signs the guestbook.
func (g *Guestbook) Create(ctx context.Context, in EntryInput) (Entry, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return Entry{}, decodeFailure(err, MsgCreateEntry)
	}
	return g.record(ctx, request{
		method:      http.MethodPost,
		path:        guestbookPath,
		body:        body,
		contentType: "application/json",
		failure:     MsgCreateEntry,
	})
}

// Update replaces the fields of entry id.
func (g *Guestbook) Update(ctx context.Context, id string, in EntryInput) (Entry, error) {
	if err := checkID(id, MsgUpdateEntry); err != nil {
		return Entry{}, err
	}
	body, err := json.Marshal(in)
	if err != nil {
		return Entry{}, decodeFailure(err, MsgUpdateEntry)
	}
	return g.record(ctx, request{
		method:      http.MethodPut,
		path:        guestbookPath + "/" + id,
		body:        body,
		contentType: "application/json",
		failure:     MsgUpdateEntry,
	})
}

// Delete removes entry id.
func (g *Guestbook) Delete(ctx context.Context, id string) (Result, error) {
	if err := checkID(id, MsgDeleteEntry); err != nil {
		return Result{}, err
	}
	data, err := g.c.do(ctx, request{method: http.MethodDelete, path: guestbookPath + "/" + id, failure: MsgDeleteEntry})
	if err != nil {
		return Result{}, err
	}
	res, err := decodeRecord[Result](data, "")
	if err != nil {
		return Result{}, decodeFailure(err, MsgDeleteEntry)
	}
	return res, nil
}

func (g *Guestbook) record(ctx context.Context, req request) (Entry, error) {
	data, err := g.c.do(ctx, req)
	if err != nil {
		return Entry{}, err
	}
	e, err := decodeRecord[Entry](data, "entry")
	if err != nil {
		return Entry{}, decodeFailure(err, req.failure)
	}
	return e, nil
}
