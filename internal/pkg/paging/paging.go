// Package paging is the shared pagination and sort vocabulary for the
// windowed list queries. It is storage-agnostic: it turns (per_page, page)
// into (limit, offset) and a SortBy value into an ORDER BY expression, and
// nothing else. Callers validate before querying; LimitOffset assumes
// pre-validated input and has no fallback.
package paging

import (
	"errors"
	"fmt"
)

// Pagination bounds. per_page outside [MinPerPage, MaxPerPage] or page < 1
// is a validation error, never a silent clamp.
const (
	MinPerPage     = 1
	MaxPerPage     = 100
	DefaultPerPage = 25
	DefaultPage    = 1
)

var (
	ErrPerPageOutOfRange = errors.New("per_page out of range")
	ErrPageOutOfRange    = errors.New("page out of range")
)

// Params is a 1-based pagination window.
type Params struct {
	PerPage int
	Page    int
}

// Validate checks the window bounds.
func (p Params) Validate() error {
	if p.PerPage < MinPerPage || p.PerPage > MaxPerPage {
		return fmt.Errorf("%w: %d (must be in [%d, %d])", ErrPerPageOutOfRange, p.PerPage, MinPerPage, MaxPerPage)
	}
	if p.Page < 1 {
		return fmt.Errorf("%w: %d (must be >= 1)", ErrPageOutOfRange, p.Page)
	}
	return nil
}

// LimitOffset converts the window into LIMIT/OFFSET values.
func (p Params) LimitOffset() (limit, offset int) {
	return p.PerPage, p.PerPage * (p.Page - 1)
}

// SortBy enumerates the sort vocabulary. The typed and mixed-kind query
// paths support the identical set with identical semantics.
type SortBy int

const (
	SortCreatedAtDesc SortBy = iota
	SortCreatedAtAsc
	// The updated-at sorts only make sense for mutable rows; collections of
	// immutable rows reject them at the service layer.
	SortUpdatedAtDesc
	SortUpdatedAtAsc
	// SortRandom is a true random ordering per call; random pages are not
	// disjoint across calls.
	SortRandom
)

// ParseSortBy maps the wire value to a SortBy. The empty string selects the
// default (created-at descending).
func ParseSortBy(s string) (SortBy, error) {
	switch s {
	case "", "created-at-desc":
		return SortCreatedAtDesc, nil
	case "created-at-asc":
		return SortCreatedAtAsc, nil
	case "updated-at-desc":
		return SortUpdatedAtDesc, nil
	case "updated-at-asc":
		return SortUpdatedAtAsc, nil
	case "random":
		return SortRandom, nil
	default:
		return 0, fmt.Errorf("unknown sort: %q", s)
	}
}

// IsRandom reports whether the sort requests database-native random ordering.
func (s SortBy) IsRandom() bool {
	return s == SortRandom
}

// IsUpdatedAt reports whether the sort keys on the updated-at column.
func (s SortBy) IsUpdatedAt() bool {
	return s == SortUpdatedAtDesc || s == SortUpdatedAtAsc
}

// OrderBy returns the ORDER BY expression for the given created-at column.
// The updated-at sorts key on the sibling column named by convention, so
// callers whose rows have no updated_at must reject them first.
func (s SortBy) OrderBy(createdAtColumn string) string {
	switch s {
	case SortCreatedAtAsc:
		return createdAtColumn + " ASC"
	case SortUpdatedAtDesc:
		return "updated_at DESC"
	case SortUpdatedAtAsc:
		return "updated_at ASC"
	case SortRandom:
		return "RANDOM()"
	default:
		return createdAtColumn + " DESC"
	}
}

func (s SortBy) String() string {
	switch s {
	case SortCreatedAtAsc:
		return "created-at-asc"
	case SortUpdatedAtDesc:
		return "updated-at-desc"
	case SortUpdatedAtAsc:
		return "updated-at-asc"
	case SortRandom:
		return "random"
	default:
		return "created-at-desc"
	}
}
