package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/datalens-app/datalens/internal/core"
	"github.com/datalens-app/datalens/internal/dataset"
	"github.com/datalens-app/datalens/internal/logging"
	"github.com/go-chi/chi/v5"
)

const defaultPageSize = 50

// multipartMemory caps how much of an upload is parsed in memory before
// spilling to temp files; MaxBytesReader enforces the actual size limit.
const multipartMemory = 10 << 20

// handleCatalog returns the list of available transforms.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"transforms": s.service.Catalog(),
	})
}

// handleUpload accepts a multipart CSV upload and creates a new session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d byte upload limit", s.cfg.Upload.MaxFileSize))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "request must include a 'file' form field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	result, err := s.service.Upload(r.Context(), header.Filename, data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("session created",
		"session_id", result.SessionID,
		"file", result.FileName,
		"rows", result.Rows,
	)

	writeJSON(w, http.StatusCreated, result)
}

// tablePage is a windowed view over the working dataset.
type tablePage struct {
	SessionID string       `json:"session_id"`
	Rows      int          `json:"rows"`
	Offset    int          `json:"offset"`
	Limit     int          `json:"limit"`
	Columns   []columnInfo `json:"columns"`
	Data      [][]any      `json:"data"`
}

type columnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// handleTablePage returns a page of rows from the session's dataset.
func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	tbl, err := s.service.Table(sessionID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", defaultPageSize)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	writeJSON(w, http.StatusOK, buildTablePage(sessionID, tbl, offset, limit))
}

func buildTablePage(sessionID string, tbl *dataset.Table, offset, limit int) tablePage {
	page := tablePage{
		SessionID: sessionID,
		Rows:      tbl.NumRows(),
		Offset:    offset,
		Limit:     limit,
		Columns:   make([]columnInfo, 0, tbl.NumCols()),
		Data:      [][]any{},
	}
	for _, col := range tbl.Columns() {
		page.Columns = append(page.Columns, columnInfo{
			Name: col.Name,
			Type: col.Type.String(),
		})
	}

	end := offset + limit
	if end > tbl.NumRows() {
		end = tbl.NumRows()
	}
	for i := offset; i < end; i++ {
		row := make([]any, 0, tbl.NumCols())
		for _, col := range tbl.Columns() {
			row = append(row, col.Value(i))
		}
		page.Data = append(page.Data, row)
	}
	return page
}

// handleSummary returns per-column statistics for the session's dataset.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	summary, err := s.service.Summary(sessionID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleExport streams the current dataset back as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	data, name, err := s.service.Export(sessionID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleTransform applies one transform to the session's dataset.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req core.ActionRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	params, err := req.Params()
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.service.Dispatch(r.Context(), sessionID, params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDropSession discards a session and its dataset.
func (s *Server) handleDropSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	s.service.Drop(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
