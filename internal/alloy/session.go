package alloy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateName is returned when a component name is already used.
	ErrDuplicateName = errors.New("component name already used")

	// ErrRangeNotFound is returned for an unknown range id.
	ErrRangeNotFound = errors.New("component range not found")
)

// Session is the editable list of component ranges for one planning
// session. It is not safe for concurrent use.
type Session struct {
	ranges []Range
	nextID int64
}

// NewSession returns an empty Session.
func NewSession() *Session {
	return &Session{nextID: 1}
}

// Add appends a new component range.
func (s *Session) Add(name string, minPercent, maxPercent float64) (Range, error) {
	r, err := NewRange(s.nextID, name, minPercent, maxPercent)
	if err != nil {
		return Range{}, err
	}
	if s.nameTaken(r.Name, 0) {
		return Range{}, fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
	}
	s.nextID++
	s.ranges = append(s.ranges, r)
	return r, nil
}

// Update replaces the name and percents of an existing range, keeping its
// position.
func (s *Session) Update(id int64, name string, minPercent, maxPercent float64) (Range, error) {
	idx := s.index(id)
	if idx < 0 {
		return Range{}, fmt.Errorf("%w: %d", ErrRangeNotFound, id)
	}
	r, err := NewRange(id, name, minPercent, maxPercent)
	if err != nil {
		return Range{}, err
	}
	if s.nameTaken(r.Name, id) {
		return Range{}, fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
	}
	s.ranges[idx] = r
	return r, nil
}

// Remove deletes a range.
func (s *Session) Remove(id int64) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrRangeNotFound, id)
	}
	s.ranges = append(s.ranges[:idx], s.ranges[idx+1:]...)
	return nil
}

// Ranges returns a copy of the active ranges in insertion order.
func (s *Session) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Bounds validates the active ranges.
func (s *Session) Bounds() Bounds {
	return ValidateRanges(s.ranges)
}

func (s *Session) index(id int64) int {
	for i, r := range s.ranges {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) nameTaken(name string, except int64) bool {
	for _, r := range s.ranges {
		if r.ID != except && strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}
