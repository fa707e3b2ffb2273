package borrow

import (
	"encoding/json"
	"strings"
)

// Field-level validation happens in the service so that malformed values
// are rejected before any gateway call, matching the error taxonomy.

type CreateRequest struct {
	UserID     int64   `json:"userId"`
	MaterialID int64   `json:"materialId"`
	Quantity   *int    `json:"quantity,omitempty"`
	DueAt      *string `json:"dueAt,omitempty"`
	Remark     *string `json:"remark,omitempty"`
}

type UpdateRequest struct {
	Status     *int    `json:"status,omitempty"`
	ReturnedAt *string `json:"returnedAt,omitempty"`
	DueAt      *string `json:"dueAt,omitempty"`
	Remark     *string `json:"remark,omitempty"`
}

type ReturnRequest struct {
	ReturnedAt *string `json:"returnedAt,omitempty"`
	Remark     *string `json:"remark,omitempty"`
}

// RecordResponse is the wire shape of one borrow record. User and
// Material carry the peer services' payloads verbatim and appear only
// when enrichment was requested and succeeded.
type RecordResponse struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"userId"`
	MaterialID int64   `json:"materialId"`
	Quantity   int     `json:"quantity"`
	Status     int     `json:"status"`
	StatusText string  `json:"statusText"`
	BorrowedAt string  `json:"borrowedAt"`
	DueAt      *string `json:"dueAt"`
	ReturnedAt *string `json:"returnedAt"`
	Remark     *string `json:"remark"`

	User     json.RawMessage `json:"user,omitempty"`
	Material json.RawMessage `json:"material,omitempty"`
}

type ListResponse struct {
	Items    []RecordResponse `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int64            `json:"total"`
}

// Include selects the optional enrichment joins of Get and List.
type Include struct {
	User     bool
	Material bool
}

// ParseInclude reads the include query parameter, e.g. "user,material".
func ParseInclude(s string) Include {
	s = strings.ToLower(s)
	return Include{
		User:     strings.Contains(s, "user"),
		Material: strings.Contains(s, "material"),
	}
}
