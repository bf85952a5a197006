package pages

import (
	"context"
	"strings"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/errors"
)

// Letter page messages.
const (
	MsgLetterSent    = "Letter sent!"
	MsgLetterFailed  = "Failed to send letter. Please try again."
	MsgLetterMissing = "Please write a message."
)

// Letter is the "write us a letter" form. A sent letter becomes a guestbook
// entry.
type Letter struct {
	From    string
	Subject string
	Message string

	Status  Status
	Sending bool

	store EntryCreator
}

// NewLetter returns an empty letter form backed by store.
func NewLetter(store EntryCreator) *Letter {
	return &Letter{store: store}
}

// Reset clears the fields. The status line is left alone so a success
// message survives the reset that follows a send.
func (l *Letter) Reset() {
	l.From, l.Subject, l.Message = "", "", ""
}

// Send submits the letter. An empty message is rejected without a network
// call. On success the fields are cleared; on failure they are kept so the
// visitor can try again.
func (l *Letter) Send(ctx context.Context) error {
	l.Status = Status{}
	if strings.TrimSpace(l.Message) == "" {
		l.Status = failure(MsgLetterMissing)
		return errors.New(errors.ErrCodeInvalidInput, MsgLetterMissing)
	}

	l.Sending = true
	defer func() { l.Sending = false }()

	_, err := l.store.Create(ctx, backend.EntryInput{
		From:    strings.TrimSpace(l.From),
		Subject: strings.TrimSpace(l.Subject),
		Message: l.Message,
	})
	if err != nil {
		l.Status = failure(MsgLetterFailed)
		return err
	}
	l.Status = success(MsgLetterSent)
	l.Reset()
	return nil
}
