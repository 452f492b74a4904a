package catalog

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound is returned when a menu entry id is not in the catalog.
var ErrEntryNotFound = errors.New("menu entry not found")

// Service is the read-only menu lookup used by the cart and the HTTP API.
type Service interface {
	// List returns the entries in menu order, optionally restricted to one category.
	List(category Category) []Entry

	// Get returns the entry with the given id.
	Get(id string) (Entry, error)
}

type service struct {
	entries []Entry
	byID    map[string]int
}

// NewService builds a catalog over a fixed set of entries. Ids must be unique.
func NewService(entries []Entry) (Service, error) {
	s := &service{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("menu entry %q has no id", e.Name)
		}
		if e.UnitPrice < 0 {
			return nil, fmt.Errorf("menu entry %s: unit price must not be negative", e.ID)
		}
		if _, dup := s.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate menu entry id: %s", e.ID)
		}
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// MustDefault returns the catalog of DefaultEntries.
func MustDefault() Service {
	s, err := NewService(DefaultEntries)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *service) List(category Category) []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *service) Get(id string) (Entry, error) {
	i, ok := s.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return s.entries[i], nil
}
