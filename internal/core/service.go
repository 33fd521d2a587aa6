package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/datalens-app/datalens/internal/dataset"
	"github.com/datalens-app/datalens/internal/logging"
	"github.com/datalens-app/datalens/internal/session"
	"github.com/datalens-app/datalens/internal/transform"
)

// Service provides the core business logic: upload, transform dispatch, and
// read-only views over the session's working dataset.
type Service struct {
	store  *session.Store
	limits Limits
}

// Limits caps the shape of uploaded datasets. A zero value means unlimited.
type Limits struct {
	MaxRows    int
	MaxColumns int
}

// NewService creates a new Service backed by the given session store.
func NewService(store *session.Store, limits Limits) *Service {
	return &Service{store: store, limits: limits}
}

// UploadResult describes a freshly created session.
type UploadResult struct {
	SessionID string `json:"sessionId"`
	FileName  string `json:"fileName"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
}

// Result describes one committed transform: the success message and the
// shape of the table after the commit.
type Result struct {
	SessionID string `json:"sessionId"`
	Op        string `json:"op"`
	Message   string `json:"message"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
}

// Upload parses raw CSV bytes into the initial table snapshot and opens a
// new session holding it. Malformed CSV is rejected with a parse error and
// no session is created.
func (s *Service) Upload(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	log := logging.FromContext(ctx)

	tbl, err := dataset.FromCSV(data)
	if err != nil {
		return nil, &transform.ParseError{Message: err.Error()}
	}
	if s.limits.MaxRows > 0 && tbl.NumRows() > s.limits.MaxRows {
		return nil, &transform.ValidationError{Field: "file", Message: fmt.Sprintf("dataset has %d rows, the limit is %d", tbl.NumRows(), s.limits.MaxRows)}
	}
	if s.limits.MaxColumns > 0 && tbl.NumCols() > s.limits.MaxColumns {
		return nil, &transform.ValidationError{Field: "file", Message: fmt.Sprintf("dataset has %d columns, the limit is %d", tbl.NumCols(), s.limits.MaxColumns)}
	}

	snapshot, err := dataset.Encode(tbl)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	id, err := s.store.Create(snapshot, fileName)
	if err != nil {
		return nil, err
	}

	log.Info("dataset uploaded",
		"session_id", id,
		"file", fileName,
		"rows", tbl.NumRows(),
		"columns", tbl.NumCols(),
	)

	return &UploadResult{
		SessionID: id,
		FileName:  fileName,
		Rows:      tbl.NumRows(),
		Columns:   tbl.NumCols(),
	}, nil
}

// Dispatch runs exactly one transform against the session's current
// snapshot. On success the snapshot is replaced wholesale and a Result with
// a success message is returned; on any failure the snapshot is untouched
// and the error describes the problem. Parameters are validated before the
// snapshot is read.
func (s *Service) Dispatch(ctx context.Context, sessionID string, p transform.Params) (*Result, error) {
	log := logging.FromContext(ctx)

	def, ok := transform.Get(p.Op())
	if !ok {
		return nil, &transform.ValidationError{Field: "op", Message: fmt.Sprintf("unknown operation %q", p.Op())}
	}
	if err := def.Validate(p); err != nil {
		return nil, err
	}

	var res Result
	err := s.store.Update(sessionID, func(snapshot []byte) ([]byte, error) {
		tbl, err := dataset.Decode(snapshot)
		if err != nil {
			return nil, err
		}

		next, msg, err := def.Apply(tbl, p)
		if err != nil {
			return nil, err
		}

		out, err := dataset.Encode(next)
		if err != nil {
			return nil, err
		}

		res = Result{
			SessionID: sessionID,
			Op:        def.Name,
			Message:   msg,
			Rows:      next.NumRows(),
			Columns:   next.NumCols(),
		}
		return out, nil
	})
	if err != nil {
		log.Warn("transform rejected", "session_id", sessionID, "op", def.Name, "error", err)
		return nil, err
	}

	log.Info("transform applied",
		"session_id", sessionID,
		"op", def.Name,
		"rows", res.Rows,
		"columns", res.Columns,
	)
	return &res, nil
}

// Table returns a decoded copy of the session's current table.
func (s *Service) Table(sessionID string) (*dataset.Table, error) {
	snapshot, err := s.store.Snapshot(sessionID)
	if err != nil {
		return nil, err
	}
	return dataset.Decode(snapshot)
}

// Summary computes the read-only dataset overview for reporters.
func (s *Service) Summary(sessionID string) (*dataset.Summary, error) {
	tbl, err := s.Table(sessionID)
	if err != nil {
		return nil, err
	}
	sum := dataset.Summarize(tbl)
	return &sum, nil
}

// Export renders the session's current table as CSV and suggests a download
// file name derived from the upload.
func (s *Service) Export(sessionID string) ([]byte, string, error) {
	tbl, err := s.Table(sessionID)
	if err != nil {
		return nil, "", err
	}

	data, err := tbl.ToCSV()
	if err != nil {
		return nil, "", err
	}

	name, err := s.store.FileName(sessionID)
	if err != nil || name == "" {
		name = "dataset.csv"
	}
	return data, exportName(name), nil
}

// Drop discards a session and its snapshot.
func (s *Service) Drop(sessionID string) {
	s.store.Delete(sessionID)
}

// CatalogEntry describes one registered operation for the trigger surface.
type CatalogEntry struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Catalog lists all registered operations, sorted by name.
func (s *Service) Catalog() []CatalogEntry {
	defs := transform.All()
	entries := make([]CatalogEntry, len(defs))
	for i, def := range defs {
		entries[i] = CatalogEntry{Name: def.Name, Summary: def.Summary}
	}
	return entries
}

// exportName derives the download name for a cleaned dataset.
func exportName(uploaded string) string {
	base := strings.TrimSuffix(uploaded, ".csv")
	if base == "" {
		base = "dataset"
	}
	return base + "_cleaned.csv"
}
