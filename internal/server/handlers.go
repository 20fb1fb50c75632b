package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/photogrid/photogrid/pkg/album"
	"github.com/photogrid/photogrid/pkg/errors"
	"github.com/photogrid/photogrid/pkg/grid"
	"github.com/photogrid/photogrid/pkg/pipeline"
	"github.com/photogrid/photogrid/pkg/render"
)

// maxBodyBytes bounds request bodies; a pack request with thousands of
// photos is still well under this.
const maxBodyBytes = 1 << 20

// =============================================================================
// Response Helpers
// =============================================================================

// errorBody is the wire shape of every error response.
type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), errorBody{
		Type:    "error",
		Message: errors.UserMessage(err),
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidItem,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidManifest,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeAlbumNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Packing
// =============================================================================

// packRequest is the /v1/pack request body. Each item carries either an
// explicit aspect ratio or natural dimensions. Smoothing runs unless the
// request sets smooth to false.
type packRequest struct {
	Items []struct {
		Ratio  float64 `json:"ratio,omitempty"`
		Width  int     `json:"width,omitempty"`
		Height int     `json:"height,omitempty"`
	} `json:"items"`
	ContainerWidth   float64 `json:"container_width"`
	Columns          int     `json:"columns"`
	RowHeight        float64 `json:"row_height,omitempty"`
	Tolerance        float64 `json:"tolerance,omitempty"`
	PreferHorizontal bool    `json:"prefer_horizontal,omitempty"`
	Smooth           *bool   `json:"smooth,omitempty"`
	Title            string  `json:"title,omitempty"`
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse pack request"))
		return
	}
	if req.Items == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "items are required"))
		return
	}

	items := make([]grid.Item, len(req.Items))
	for i, it := range req.Items {
		ratio := it.Ratio
		if ratio == 0 && it.Width > 0 {
			ratio = float64(it.Height) / float64(it.Width)
		}
		items[i] = grid.Item{Index: i, Ratio: ratio}
	}

	opts := pipeline.Options{
		ContainerWidth:   req.ContainerWidth,
		Columns:          req.Columns,
		RowHeight:        req.RowHeight,
		Tolerance:        req.Tolerance,
		PreferHorizontal: req.PreferHorizontal,
		NoSmooth:         req.Smooth != nil && !*req.Smooth,
		Title:            req.Title,
		Logger:           s.logger,
	}

	cfg := opts.GridConfig()
	if cfg.PreferHorizontal {
		items = grid.ByOrientation(items, true)
	}
	res, err := grid.Pack(items, req.ContainerWidth, req.Columns, cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !opts.NoSmooth {
		rowHeight := cfg.RowHeight
		if rowHeight == 0 {
			rowHeight = grid.DefaultRowHeight
		}
		tolerance := cfg.RowHeightTolerance
		if tolerance == 0 {
			tolerance = grid.DefaultRowHeightTolerance
		}
		grid.Smooth(res.Rows, rowHeight, tolerance)
		res.Restat()
	}

	doc := render.NewDocument(res, req.ContainerWidth, req.Columns)
	doc.Title = req.Title
	s.writeJSON(w, http.StatusOK, doc)
}

// =============================================================================
// Albums
// =============================================================================

// requireStore guards album endpoints when no store is configured.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Type:    "error",
			Message: "album storage is not configured",
		})
		return false
	}
	return true
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	albums, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"albums": albums})
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var a album.Album
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&a); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse album"))
		return
	}
	if len(a.Photos) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "album has no photos"))
		return
	}
	// Reject albums the packer could never lay out.
	if _, err := a.Items(); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), &a); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &a)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	a, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// layoutOptions reads the pack parameters shared by the layout and gallery
// endpoints from the query string. Smoothing runs unless smooth=false.
func (s *Server) layoutOptions(r *http.Request) pipeline.Options {
	q := r.URL.Query()
	opts := pipeline.Options{
		ContainerWidth:   queryFloat(q.Get("width")),
		Columns:          queryInt(q.Get("columns")),
		RowHeight:        queryFloat(q.Get("row_height")),
		Tolerance:        queryFloat(q.Get("tolerance")),
		PreferHorizontal: q.Get("prefer_horizontal") == "true",
		NoSmooth:         q.Get("smooth") == "false",
		Logger:           s.logger,
	}
	return opts
}

func (s *Server) handleAlbumLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	a, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc, err := s.runner.Pack(r.Context(), a, s.layoutOptions(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc.Title = a.Title
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleAlbumGallery(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	a, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.layoutOptions(r)
	opts.BaseURL = r.URL.Query().Get("base_url")
	doc, err := s.runner.Pack(r.Context(), a, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc.Title = a.Title

	htmlOpts := []render.HTMLOption{render.WithAlbum(a)}
	if opts.BaseURL != "" {
		htmlOpts = append(htmlOpts, render.WithBaseURL(opts.BaseURL))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(render.RenderHTML(doc, htmlOpts...)); err != nil {
		s.logger.Error("write gallery", "error", err)
	}
}

func queryFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func queryInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
