package server

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/denoseu/dn-house/pkg/backend"
	"github.com/denoseu/dn-house/pkg/canvas"
	"github.com/denoseu/dn-house/pkg/errors"
	"github.com/denoseu/dn-house/pkg/pages"
	"github.com/denoseu/dn-house/pkg/pipeline"
)

// maxUploadBytes caps the multipart body of an upload.
const maxUploadBytes = 20 << 20

// pageData is the template context shared by all pages. Each page fills only
// its own field.
type pageData struct {
	Title  string
	Active string
	Nav    []navLink

	Home      template.HTML
	Letter    *pages.Letter
	Guestbook *pages.Guestbook
	Upload    *pages.Upload
	Menu      *menuView

	MaxCaption int
	Kinds      []canvas.Kind
}

type menuView struct {
	SVG    template.HTML
	Placed int
	Seed   uint64
	Next   uint64
	Status pages.Status
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.page(w, http.StatusOK, "home", &pageData{Title: "Home", Active: "/", Home: s.tmpl.home})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.page(w, http.StatusNotFound, "notfound", &pageData{Title: "Not found"})
}

func (s *Server) handleLetterForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, http.StatusOK, "letter", &pageData{Title: "Letter", Active: "/letter", Letter: pages.NewLetter(s.guestbook)})
}

func (s *Server) handleLetterSend(w http.ResponseWriter, r *http.Request) {
	letter := pages.NewLetter(s.guestbook)
	letter.From = r.PostFormValue("from")
	letter.Subject = r.PostFormValue("subject")
	letter.Message = r.PostFormValue("message")

	err := letter.Send(r.Context())
	s.page(w, s.statusFor(r, err), "letter", &pageData{Title: "Letter", Active: "/letter", Letter: letter})
}

func (s *Server) handleGuestbook(w http.ResponseWriter, r *http.Request) {
	gb := pages.NewGuestbook(s.guestbook)
	err := gb.Load(r.Context())
	s.page(w, s.statusFor(r, err), "guestbook", &pageData{Title: "Guestbook", Active: "/guestbook", Guestbook: gb})
}

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, http.StatusOK, "upload", s.uploadData(pages.NewUpload(s.photos)))
}

func (s *Server) handleUploadSubmit(w http.ResponseWriter, r *http.Request) {
	up := pages.NewUpload(s.photos)
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		up.Status = pages.Status{Kind: pages.StatusError, Text: "Could not read the upload."}
		s.page(w, http.StatusBadRequest, "upload", s.uploadData(up))
		return
	}

	up.SetCaption(r.FormValue("caption"))
	if err := up.SetType(r.FormValue("type")); err != nil {
		up.Status = pages.Status{Kind: pages.StatusError, Text: errors.UserMessage(err, pages.MsgUploadFallback)}
		s.page(w, http.StatusUnprocessableEntity, "upload", s.uploadData(up))
		return
	}

	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		ct := header.Header.Get("Content-Type")
		if ct == "application/octet-stream" {
			ct = ""
		}
		if !up.SelectFile(header.Filename, ct, data) {
			s.page(w, http.StatusUnprocessableEntity, "upload", s.uploadData(up))
			return
		}
	case err != http.ErrMissingFile:
		s.serverError(w, r, err)
		return
	}

	err = up.Submit(r.Context())
	if err == nil {
		_ = s.runner.InvalidatePhotos(r.Context())
	}
	s.page(w, s.statusFor(r, err), "upload", s.uploadData(up))
}

func (s *Server) uploadData(up *pages.Upload) *pageData {
	return &pageData{
		Title:      "Upload",
		Active:     "/upload",
		Upload:     up,
		MaxCaption: pages.MaxCaptionLength,
		Kinds:      canvas.Kinds,
	}
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.menuOptions(w, r)
	if !ok {
		return
	}

	menu := pages.NewMenu(s.runner.MenuLoader(opts))
	defer menu.Close()
	err := menu.Load(r.Context())

	view := &menuView{Seed: opts.Seed, Next: opts.Seed + 1, Status: menu.Status()}
	c := menu.Canvas()
	if err == nil {
		artifacts, rerr := pipeline.Render(r.Context(), c, opts)
		if rerr != nil {
			s.serverError(w, r, rerr)
			return
		}
		view.SVG = template.HTML(artifacts[pipeline.FormatSVG])
		view.Placed = len(c.Cards)
	}
	s.page(w, s.statusFor(r, err), "menu", &pageData{Title: "Menu", Active: "/menu", Menu: view})
}

func (s *Server) handleMenuLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.menuOptions(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	c, err := s.runner.Canvas(r.Context(), opts)
	if err != nil {
		s.logFailure(r, err)
		writeJSON(w, statusCode(err), map[string]string{"error": errors.UserMessage(err, backend.MsgListPhotos)})
		return
	}
	artifacts, err := pipeline.Render(r.Context(), c, opts)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[pipeline.FormatJSON])
}

// menuOptions copies the configured menu options, applying ?seed=.
func (s *Server) menuOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	opts := s.cfg.Menu
	opts.Logger = s.logger
	opts.Formats = []string{pipeline.FormatSVG}
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil || seed == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seed must be a positive integer"})
			return opts, false
		}
		opts.Seed = seed
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.serverError(w, r, err)
		return opts, false
	}
	return opts, true
}

// page renders a full page. Rendering goes to a buffer first so a template
// error still produces a clean 500.
func (s *Server) page(w http.ResponseWriter, code int, name string, data *pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.render(&buf, name, data); err != nil {
		s.logger.Error("render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// statusFor maps the outcome of a page action to an HTTP status and logs
// backend failures. The page itself always carries the user-facing message.
func (s *Server) statusFor(r *http.Request, err error) int {
	if err == nil {
		return http.StatusOK
	}
	s.logFailure(r, err)
	return statusCode(err)
}

func statusCode(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) logFailure(r *http.Request, err error) {
	if errors.IsValidation(err) {
		s.logger.Debug("rejected input", "path", r.URL.Path, "error", err)
		return
	}
	s.logger.Warn("backend call failed", "path", r.URL.Path, "error", err)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
