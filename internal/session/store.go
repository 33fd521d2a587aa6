// Package session holds the working dataset for each user session: exactly
// one serialized table snapshot per session, replaced atomically on every
// successful transform and never partially updated. Snapshots are stored
// lz4-compressed; sessions idle past their TTL are swept.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// entry is one session's slot. Its mutex serializes actions on the session:
// each read-transform-write cycle completes before the next begins.
type entry struct {
	mu       sync.Mutex
	snapshot []byte // lz4-compressed codec bytes
	rawSize  int
	fileName string
	created  time.Time
	lastUsed time.Time
}

// Store maps session IDs to their current snapshot.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
}

// NewStore creates a session store. Sessions idle longer than ttl are
// removed by the sweeper; a non-positive ttl disables sweeping.
func NewStore(ttl time.Duration, sweepInterval time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
	}
	if ttl > 0 && sweepInterval > 0 {
		go s.sweep(sweepInterval)
	}
	return s
}

// sweep removes idle sessions periodically. lastUsed is guarded by the
// entry lock, so the check and the delete both happen under it; an action
// already holding the entry lock refreshes lastUsed before the sweeper can
// read it, which keeps a mid-flight update from being discarded.
func (s *Store) sweep(interval time.Duration) {
	for {
		time.Sleep(interval)
		cutoff := time.Now().Add(-s.ttl)

		s.mu.RLock()
		candidates := make(map[string]*entry, len(s.sessions))
		for id, e := range s.sessions {
			candidates[id] = e
		}
		s.mu.RUnlock()

		for id, e := range candidates {
			e.mu.Lock()
			if e.lastUsed.Before(cutoff) {
				s.mu.Lock()
				if s.sessions[id] == e {
					delete(s.sessions, id)
				}
				s.mu.Unlock()
			}
			e.mu.Unlock()
		}
	}
}

// Create stores an initial snapshot and returns the new session ID.
func (s *Store) Create(snapshot []byte, fileName string) (string, error) {
	compressed, err := compress(snapshot)
	if err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}

	id := uuid.New().String()
	now := time.Now()

	s.mu.Lock()
	s.sessions[id] = &entry{
		snapshot: compressed,
		rawSize:  len(snapshot),
		fileName: fileName,
		created:  now,
		lastUsed: now,
	}
	s.mu.Unlock()

	return id, nil
}

// Snapshot returns a decompressed copy of the session's current snapshot.
func (s *Store) Snapshot(id string) ([]byte, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = time.Now()
	return decompress(e.snapshot, e.rawSize)
}

// Update runs fn against the session's current snapshot while holding the
// session lock, serializing actions per session. If fn returns a new
// snapshot it replaces the old one wholesale; if fn returns an error the
// stored snapshot is untouched.
func (s *Store) Update(id string, fn func(snapshot []byte) ([]byte, error)) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = time.Now()

	current, err := decompress(e.snapshot, e.rawSize)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	compressed, err := compress(next)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	e.snapshot = compressed
	e.rawSize = len(next)
	return nil
}

// FileName returns the original upload file name for a session.
func (s *Store) FileName(id string) (string, error) {
	e, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fileName, nil
}

// Delete discards a session. Deleting an unknown session is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// compress lz4-frames the snapshot bytes.
func compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompress reverses compress. rawSize pre-sizes the output buffer.
func decompress(src []byte, rawSize int) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(src))
	out := bytes.NewBuffer(make([]byte, 0, rawSize))
	if _, err := io.Copy(out, zr); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
