package backend

import "github.com/denoseu/dn-house/pkg/canvas"

// Entry is a guestbook entry.
type Entry struct {
	ID      string `json:"_id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// EntryInput is the body of create and update calls.
type EntryInput struct {
	From    string `json:"from"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Photo is a stored photo record.
type Photo struct {
	ID      string      `json:"_id"`
	URL     string      `json:"url"`
	Caption string      `json:"caption"`
	Type    canvas.Kind `json:"type"`
}

// Result is the acknowledgement returned by delete calls.
type Result struct {
	Message string `json:"message"`
}
