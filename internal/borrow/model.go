package borrow

import (
	"database/sql"
	"time"
)

// Status is the borrow record lifecycle state.
type Status int

const (
	StatusBorrowed  Status = 0
	StatusReturned  Status = 1
	StatusCancelled Status = 2
)

// legalTransitions is the lifecycle intent: RETURNED and CANCELLED are
// terminal. Return enforces it; Update intentionally does not beyond the
// BORROWED->RETURNED release case.
var legalTransitions = map[Status][]Status{
	StatusBorrowed: {StatusReturned, StatusCancelled},
}

func (s Status) Valid() bool {
	return s == StatusBorrowed || s == StatusReturned || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range legalTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	switch s {
	case StatusBorrowed:
		return "borrowed"
	case StatusReturned:
		return "returned"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Record is one row of borrow_records.
type Record struct {
	ID         int64
	UserID     int64
	MaterialID int64
	Quantity   int
	Status     Status
	BorrowedAt time.Time
	DueAt      sql.NullTime
	ReturnedAt sql.NullTime
	Remark     sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter narrows a listing; fields combine with AND, exact match.
type Filter struct {
	UserID     *int64
	MaterialID *int64
	Status     *Status
}

// Page is a 1-based page request.
type Page struct {
	Page int
	Size int
}

// Clamp resets out-of-range values: page < 1 becomes 1, size outside
// [1, max] becomes def.
func (p Page) Clamp(def, max int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 || p.Size > max {
		p.Size = def
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Size
}
