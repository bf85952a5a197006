package pages

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/errors"
)

// Upload page messages.
const (
	MsgNotImage       = "Only image files are allowed."
	MsgNoFile         = "Please select an image file."
	MsgUploaded       = "Photo uploaded successfully!"
	MsgUploadFallback = "Upload failed."
)

// MaxCaptionLength is the caption limit in characters.
const MaxCaptionLength = 200

// File is an image picked for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload is the photo upload form.
type Upload struct {
	Caption string
	Type    canvas.Kind

	Status    Status
	Uploading bool

	file  *File
	store PhotoUploader
}

// NewUpload returns an empty upload form backed by store.
func NewUpload(store PhotoUploader) *Upload {
	return &Upload{Type: canvas.DefaultKind, store: store}
}

// File returns the selected file, or nil.
func (u *Upload) File() *File { return u.file }

// SelectFile picks the image to upload. When contentType is empty it is
// sniffed from data. Anything that is not an image clears the selection and
// reports [MsgNotImage].
func (u *Upload) SelectFile(name, contentType string, data []byte) bool {
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") || len(data) == 0 {
		u.file = nil
		u.Status = failure(MsgNotImage)
		return false
	}
	u.file = &File{Name: name, ContentType: contentType, Data: data}
	if u.Status.IsError() {
		u.Status = Status{}
	}
	return true
}

// RemoveFile clears the selected file.
func (u *Upload) RemoveFile() { u.file = nil }

// SetCaption sets the caption, cut to [MaxCaptionLength] characters.
func (u *Upload) SetCaption(s string) {
	if utf8.RuneCountInString(s) > MaxCaptionLength {
		s = string([]rune(s)[:MaxCaptionLength])
	}
	u.Caption = s
}

// SetType picks postcard or polaroid. An empty string selects the default.
func (u *Upload) SetType(s string) error {
	k, err := canvas.ParseKind(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidKind, err, "Unknown photo type.")
	}
	u.Type = k
	return nil
}

// Submit uploads the selected file. Without a file it reports [MsgNoFile]
// and makes no call. On success the form resets, type back to postcard.
func (u *Upload) Submit(ctx context.Context) error {
	u.Status = Status{}
	if u.file == nil {
		u.Status = failure(MsgNoFile)
		return errors.New(errors.ErrCodeInvalidFile, MsgNoFile)
	}

	u.Uploading = true
	defer func() { u.Uploading = false }()

	_, err := u.store.Upload(ctx, backend.PhotoUpload{
		Filename:    u.file.Name,
		ContentType: u.file.ContentType,
		Data:        u.file.Data,
		Caption:     u.Caption,
		Type:        u.Type,
	})
	if err != nil {
		u.Status = failure(errors.UserMessage(err, MsgUploadFallback))
		return err
	}
	u.Status = success(MsgUploaded)
	u.file = nil
	u.Caption = ""
	u.Type = canvas.DefaultKind
	return nil
}
