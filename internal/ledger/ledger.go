// Package ledger tracks which post links have already been published,
// so each feed request can emit only what is new since the last run.
package ledger

import (
	"context"
	"time"
)

// Store persists a single ledger snapshot under a fixed key.
// Implementations provide atomic get/put on that one record; there is
// no multi-key transaction and concurrent read-modify-write races are
// accepted (last write wins).
type Store interface {
	// Load reads the current snapshot; a missing record yields an
	// empty snapshot, not an error
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes the snapshot back
	Save(ctx context.Context, snap *Snapshot) error

	// Reset clears the ledger to empty
	Reset(ctx context.Context) error
}

// Snapshot is the in-memory working copy of the ledger: the published
// links in insertion order plus the time of the last update.
type Snapshot struct {
	links      []string
	index      map[string]bool
	lastUpdate time.Time
}

// NewSnapshot builds a snapshot from persisted links. Duplicates are
// dropped, first occurrence wins.
func NewSnapshot(links []string, lastUpdate time.Time) *Snapshot {
	s := &Snapshot{
		index:      make(map[string]bool, len(links)),
		lastUpdate: lastUpdate,
	}
	for _, l := range links {
		s.Add(l)
	}
	return s
}

// Has reports whether the link was already published
func (s *Snapshot) Has(link string) bool {
	return s.index[link]
}

// Add appends a link unless it is already tracked
func (s *Snapshot) Add(link string) {
	if link == "" || s.index[link] {
		return
	}
	s.links = append(s.links, link)
	s.index[link] = true
}

// Truncate evicts the oldest entries so at most max remain. Oldest is
// defined by insertion order, not post timestamp.
func (s *Snapshot) Truncate(max int) {
	if max <= 0 || len(s.links) <= max {
		return
	}
	evicted := s.links[:len(s.links)-max]
	for _, l := range evicted {
		delete(s.index, l)
	}
	s.links = append([]string(nil), s.links[len(s.links)-max:]...)
}

// Links returns the tracked links in insertion order
func (s *Snapshot) Links() []string {
	out := make([]string, len(s.links))
	copy(out, s.links)
	return out
}

// Len returns the number of tracked links
func (s *Snapshot) Len() int {
	return len(s.links)
}

// LastUpdate returns when the ledger was last written
func (s *Snapshot) LastUpdate() time.Time {
	return s.lastUpdate
}

// Touch stamps the snapshot with a new update time
func (s *Snapshot) Touch(t time.Time) {
	s.lastUpdate = t
}

// record is the persisted JSON shape of a snapshot
type record struct {
	Links      []string `json:"links"`
	LastUpdate int64    `json:"lastUpdate"`
}

func toRecord(s *Snapshot) record {
	links := s.Links()
	if links == nil {
		links = []string{}
	}
	// A never-touched snapshot persists as 0, not year-one millis
	var last int64
	if !s.lastUpdate.IsZero() {
		last = s.lastUpdate.UnixMilli()
	}
	return record{
		Links:      links,
		LastUpdate: last,
	}
}

func fromRecord(r record) *Snapshot {
	var last time.Time
	if r.LastUpdate != 0 {
		last = time.UnixMilli(r.LastUpdate)
	}
	return NewSnapshot(r.Links, last)
}
