package archive

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned for lookups of unknown record IDs.
var ErrRecordNotFound = errors.New("meeting record not found")

// Session owns the ordered in-memory collection of meeting records for one
// user session. It is process-scoped with no durability across restarts;
// independent sessions get independent stores, so nothing leaks between
// them.
type Session struct {
	mu      sync.RWMutex
	records []*Record
	byID    map[string]*Record

	// injectable for deterministic tests
	now   func() time.Time
	newID func() string
}

// NewSession creates an empty session store.
func NewSession() *Session {
	return &Session{
		byID:  make(map[string]*Record),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Archive assigns an identifier and timestamp, appends the record in
// insertion order and returns it.
func (s *Session) Archive(in Input) (*Record, error) {
	if in.Transcript == nil {
		return nil, fmt.Errorf("archive: transcript is required")
	}
	if in.Analysis == nil {
		return nil, fmt.Errorf("archive: analysis is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Meeting " + now.Format("2006-01-02 15:04")
	}

	rec := &Record{
		ID:         s.newID(),
		Title:      title,
		CreatedAt:  now,
		Audio:      in.Audio,
		Format:     in.Format,
		Transcript: in.Transcript,
		Analysis:   in.Analysis,
	}

	s.records = append(s.records, rec)
	s.byID[rec.ID] = rec
	return rec, nil
}

// Get returns the record with the given ID.
func (s *Session) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return rec, nil
}

// Delete removes a record from the session.
func (s *Session) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	delete(s.byID, id)
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

// Search matches the query case-insensitively against title, summary, full
// transcript text and topics. Results come back most-recent-first; an empty
// query returns the whole collection in that order.
func (s *Session) Search(query string) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]*Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if query == "" || matches(rec, query) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec *Record, query string) bool {
	if strings.Contains(strings.ToLower(rec.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Analysis.Summary), query) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Transcript.Text), query) {
		return true
	}
	for _, topic := range rec.Analysis.Topics {
		if strings.Contains(strings.ToLower(topic), query) {
			return true
		}
	}
	return false
}

// Stats reports collection totals for the session.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Count: len(s.records)}
	for i, rec := range s.records {
		st.TotalDuration += rec.Audio.Duration
		if i == 0 || rec.CreatedAt.Before(st.Oldest) {
			st.Oldest = rec.CreatedAt
		}
		if rec.CreatedAt.After(st.Newest) {
			st.Newest = rec.CreatedAt
		}
	}
	return st
}

// Clear drops every record. Used at session teardown.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.byID = make(map[string]*Record)
}
