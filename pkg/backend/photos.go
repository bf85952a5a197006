package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/errors"
)

// User-facing failure messages of the photo endpoints.
const (
	MsgListPhotos  = "Failed to fetch photos"
	MsgGetPhoto    = "Failed to fetch photo"
	MsgUploadPhoto = "Failed to upload photo"
	MsgUpdatePhoto = "Failed to update photo"
	MsgDeletePhoto = "Failed to delete photo"
	MsgRefreshURL  = "Failed to refresh photo URL"
)

const photosPath = "/api/photos"

// PhotoUpload is the multipart form sent by Upload and Update.
type PhotoUpload struct {
	// Filename and ContentType describe the image. Data is required for
	// Upload and optional for Update.
	Filename    string
	ContentType string
	Data        []byte

	Caption string

	// Type defaults to postcard.
	Type canvas.Kind

	// Progress, when set, receives the request body as it is sent.
	Progress io.Writer
}

// Photos wraps the /api/photos endpoints.
type Photos struct {
	c *Client
}

// List returns all photo records. A null or malformed photos field is an
// empty list, not an error.
func (p *Photos) List(ctx context.Context) ([]Photo, error) {
	data, err := p.c.do(ctx, request{method: http.MethodGet, path: photosPath, failure: MsgListPhotos})
	if err != nil {
		return nil, err
	}
	photos, err := decodeList[Photo](data, "photos")
	if err != nil {
		return nil, decodeFailure(err, MsgListPhotos)
	}
	return photos, nil
}

// Get returns the photo record with id.
func (p *Photos) Get(ctx context.Context, id string) (Photo, error) {
	if err := checkID(id, MsgGetPhoto); err != nil {
		return Photo{}, err
	}
	return p.record(ctx, request{method: http.MethodGet, path: photosPath + "/" + id, failure: MsgGetPhoto})
}

// Upload stores a new photo.
func (p *Photos) Upload(ctx context.Context, in PhotoUpload) (Photo, error) {
	if len(in.Data) == 0 {
		return Photo{}, errors.New(errors.ErrCodeInvalidFile, "Please select an image file.")
	}
	body, contentType, err := in.encode()
	if err != nil {
		return Photo{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", MsgUploadPhoto)
	}
	return p.record(ctx, request{
		method:      http.MethodPost,
		path:        photosPath + "/upload",
		body:        body,
		contentType: contentType,
		progress:    in.Progress,
		failure:     MsgUploadPhoto,
	})
}

// Update changes the caption and type of photo id, and replaces the image
// when in.Data is set.
func (p *Photos) Update(ctx context.Context, id string, in PhotoUpload) (Photo, error) {
	if err := checkID(id, MsgUpdatePhoto); err != nil {
		return Photo{}, err
	}
	body, contentType, err := in.encode()
	if err != nil {
		return Photo{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", MsgUpdatePhoto)
	}
	return p.record(ctx, request{
		method:      http.MethodPut,
		path:        photosPath + "/update/" + id,
		body:        body,
		contentType: contentType,
		progress:    in.Progress,
		failure:     MsgUpdatePhoto,
	})
}

// Delete removes photo id.
func (p *Photos) Delete(ctx context.Context, id string) (Result, error) {
	if err := checkID(id, MsgDeletePhoto); err != nil {
		return Result{}, err
	}
	data, err := p.c.do(ctx, request{method: http.MethodDelete, path: photosPath + "/" + id, failure: MsgDeletePhoto})
	if err != nil {
		return Result{}, err
	}
	res, err := decodeRecord[Result](data, "")
	if err != nil {
		return Result{}, decodeFailure(err, MsgDeletePhoto)
	}
	return res, nil
}

// RefreshURL asks the backend to re-sign the storage URL of photo id.
func (p *Photos) RefreshURL(ctx context.Context, id string) (Photo, error) {
	if err := checkID(id, MsgRefreshURL); err != nil {
		return Photo{}, err
	}
	return p.record(ctx, request{method: http.MethodPost, path: photosPath + "/" + id + "/refresh-url", failure: MsgRefreshURL})
}

func (p *Photos) record(ctx context.Context, req request) (Photo, error) {
	data, err := p.c.do(ctx, req)
	if err != nil {
		return Photo{}, err
	}
	ph, err := decodeRecord[Photo](data, "photo")
	if err != nil {
		return Photo{}, decodeFailure(err, req.failure)
	}
	return ph, nil
}

// encode builds the multipart body: file (when present), caption, type.
func (in PhotoUpload) encode() ([]byte, string, error) {
	kind := in.Type
	if kind == "" {
		kind = canvas.DefaultKind
	}
	if !kind.Valid() {
		return nil, "", fmt.Errorf("unknown photo type %q", kind)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if len(in.Data) > 0 {
		name := filepath.Base(in.Filename)
		if name == "." || name == "/" {
			name = "photo"
		}
		ct := in.ContentType
		if ct == "" {
			ct = http.DetectContentType(in.Data)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(in.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.WriteField("caption", in.Caption); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("type", string(kind)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
