package borrow

import (
	"context"
	"database/sql"
	"time"

	"github.com/lauvAri/soa-lab1/internal/gateway"
)

// ===== collaborator interfaces =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RecordStore owns borrow record persistence; the service is its only
// writer.
type RecordStore interface {
	Insert(ctx context.Context, r *Record) error
	Get(ctx context.Context, id int64) (*Record, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, p Page) ([]Record, int64, error)
}

// UserDirectory is the outbound view of the user service.
type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (*gateway.User, error)
	Exists(ctx context.Context, id int64) bool
}

// MaterialInventory is the outbound view of the material service.
type MaterialInventory interface {
	GetMaterial(ctx context.Context, id int64) (*gateway.Material, error)
	CheckAvailable(ctx context.Context, id int64) (bool, *gateway.Material)
	MarkBorrowed(ctx context.Context, id int64) error
	MarkAvailable(ctx context.Context, id int64) error
}

// PageLimits bounds listing page sizes.
type PageLimits struct {
	Default int
	Max     int
}

// ===== service =====

// Service drives the borrow lifecycle: cross-service validation, the
// local state transition, and compensation on partial failure. All
// gateway and store calls of one operation run strictly sequentially.
type Service struct {
	store     RecordStore
	users     UserDirectory
	materials MaterialInventory
	clock     Clock
	pages     PageLimits
}

func NewService(store RecordStore, users UserDirectory, materials MaterialInventory, pages PageLimits) *Service {
	if pages.Default <= 0 {
		pages.Default = 10
	}
	if pages.Max <= 0 {
		pages.Max = 100
	}
	return &Service{
		store:     store,
		users:     users,
		materials: materials,
		clock:     realClock{},
		pages:     pages,
	}
}

// Create validates the request shape, checks both peer services, inserts
// the record and marks the material borrowed. The inventory write happens
// after the local commit; on its failure the just-inserted row is deleted
// again (local compensation, not a distributed rollback).
func (s *Service) Create(ctx context.Context, req CreateRequest) (*RecordResponse, error) {
	if req.UserID <= 0 {
		return nil, NewInvalidArgumentError("userId is required and must be a positive integer")
	}
	if req.MaterialID <= 0 {
		return nil, NewInvalidArgumentError("materialId is required and must be a positive integer")
	}
	quantity := 1
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, NewInvalidArgumentError("quantity must be a positive integer")
		}
		quantity = *req.Quantity
	}
	var dueAt sql.NullTime
	if req.DueAt != nil && *req.DueAt != "" {
		t, err := parseTimestamp(*req.DueAt)
		if err != nil {
			return nil, NewInvalidArgumentError("dueAt must be an ISO 8601 date-time")
		}
		dueAt = sql.NullTime{Time: t, Valid: true}
	}
	remark := ""
	if req.Remark != nil {
		remark = *req.Remark
	}

	if !s.users.Exists(ctx, req.UserID) {
		return nil, NewNotFoundError("user not found")
	}
	available, material := s.materials.CheckAvailable(ctx, req.MaterialID)
	if material == nil {
		return nil, NewNotFoundError("material not found")
	}
	if !available {
		return nil, NewConflictError("material not available for borrowing")
	}

	now := s.clock.Now().UTC()
	rec := &Record{
		UserID:     req.UserID,
		MaterialID: req.MaterialID,
		Quantity:   quantity,
		Status:     StatusBorrowed,
		BorrowedAt: now,
		DueAt:      dueAt,
		Remark:     sql.NullString{String: remark, Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := runSaga(ctx, []sagaStep{
		{
			name: "insert borrow record",
			run: func(ctx context.Context) error {
				return s.store.Insert(ctx, rec)
			},
			compensate: func(ctx context.Context) error {
				return s.store.Delete(ctx, rec.ID)
			},
		},
		{
			name: "mark material borrowed",
			run: func(ctx context.Context) error {
				if err := s.materials.MarkBorrowed(ctx, rec.MaterialID); err != nil {
					return NewRemoteError("material", err)
				}
				return nil
			},
		},
	})
	if err != nil {
		return nil, err
	}

	resp := buildRecordResponse(rec)
	return &resp, nil
}

// Get fetches one record, optionally enriched with peer data.
func (s *Service) Get(ctx context.Context, id int64, inc Include) (*RecordResponse, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := buildRecordResponse(rec)
	s.enrich(ctx, &resp, inc)
	return &resp, nil
}

// List returns one page of records matching the filter, most recent
// first.
func (s *Service) List(ctx context.Context, f Filter, p Page, inc Include) (*ListResponse, error) {
	p = p.Clamp(s.pages.Default, s.pages.Max)

	records, total, err := s.store.List(ctx, f, p)
	if err != nil {
		return nil, err
	}

	items := make([]RecordResponse, 0, len(records))
	for i := range records {
		resp := buildRecordResponse(&records[i])
		s.enrich(ctx, &resp, inc)
		items = append(items, resp)
	}

	return &ListResponse{
		Items:    items,
		Page:     p.Page,
		PageSize: p.Size,
		Total:    total,
	}, nil
}

// Update applies a partial update. All supplied fields are parsed and
// validated before any side effect, so a later parse failure cannot leave
// the record half-updated. Only the BORROWED->RETURNED transition has
// extra behavior (returnedAt + inventory release); any other status value
// in {0,1,2} is applied as-is, matching the historical permissive
// behavior of this operation.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*RecordResponse, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var newStatus *Status
	if req.Status != nil {
		st := Status(*req.Status)
		if !st.Valid() {
			return nil, NewInvalidArgumentError("status must be 0, 1 or 2")
		}
		newStatus = &st
	}
	var returnedAt *time.Time
	if req.ReturnedAt != nil && *req.ReturnedAt != "" {
		t, err := parseTimestamp(*req.ReturnedAt)
		if err != nil {
			return nil, NewInvalidArgumentError("returnedAt must be an ISO 8601 date-time")
		}
		returnedAt = &t
	}
	var dueAt *time.Time
	if req.DueAt != nil && *req.DueAt != "" {
		t, err := parseTimestamp(*req.DueAt)
		if err != nil {
			return nil, NewInvalidArgumentError("dueAt must be an ISO 8601 date-time")
		}
		dueAt = &t
	}

	releasing := newStatus != nil && rec.Status == StatusBorrowed && *newStatus == StatusReturned

	if newStatus != nil {
		if releasing {
			at := s.clock.Now().UTC()
			if returnedAt != nil {
				at = *returnedAt
			}
			rec.ReturnedAt = sql.NullTime{Time: at, Valid: true}
		}
		rec.Status = *newStatus
	}
	if dueAt != nil {
		rec.DueAt = sql.NullTime{Time: *dueAt, Valid: true}
	}
	if req.Remark != nil {
		rec.Remark = sql.NullString{String: *req.Remark, Valid: true}
	}
	rec.UpdatedAt = s.clock.Now().UTC()

	var steps []sagaStep
	if releasing {
		steps = append(steps, sagaStep{
			name: "mark material available",
			run: func(ctx context.Context) error {
				if err := s.materials.MarkAvailable(ctx, rec.MaterialID); err != nil {
					return NewRemoteError("material", err)
				}
				return nil
			},
		})
	}
	steps = append(steps, sagaStep{
		name: "persist borrow record",
		run: func(ctx context.Context) error {
			return s.store.Update(ctx, rec)
		},
	})
	if err := runSaga(ctx, steps); err != nil {
		return nil, err
	}

	resp := buildRecordResponse(rec)
	return &resp, nil
}

// Return is the dedicated shortcut for the common case. Unlike Create,
// the local row is persisted only after the inventory release succeeded;
// an inventory failure here commits nothing locally.
func (s *Service) Return(ctx context.Context, id int64, req ReturnRequest) (*RecordResponse, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != StatusBorrowed {
		return nil, NewConflictError("borrow record is not in a returnable state")
	}

	at := s.clock.Now().UTC()
	if req.ReturnedAt != nil && *req.ReturnedAt != "" {
		t, err := parseTimestamp(*req.ReturnedAt)
		if err != nil {
			return nil, NewInvalidArgumentError("returnedAt must be an ISO 8601 date-time")
		}
		at = t
	}

	rec.ReturnedAt = sql.NullTime{Time: at, Valid: true}
	if req.Remark != nil {
		rec.Remark = sql.NullString{String: *req.Remark, Valid: true}
	}
	rec.Status = StatusReturned
	rec.UpdatedAt = s.clock.Now().UTC()

	err = runSaga(ctx, []sagaStep{
		{
			name: "mark material available",
			run: func(ctx context.Context) error {
				if err := s.materials.MarkAvailable(ctx, rec.MaterialID); err != nil {
					return NewRemoteError("material", err)
				}
				return nil
			},
		},
		{
			name: "persist borrow record",
			run: func(ctx context.Context) error {
				return s.store.Update(ctx, rec)
			},
		},
	})
	if err != nil {
		return nil, err
	}

	resp := buildRecordResponse(rec)
	return &resp, nil
}

// Delete removes a record. A still-borrowed record releases its material
// first; if that release fails the row stays.
func (s *Service) Delete(ctx context.Context, id int64) error {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	var steps []sagaStep
	if rec.Status == StatusBorrowed {
		steps = append(steps, sagaStep{
			name: "mark material available",
			run: func(ctx context.Context) error {
				if err := s.materials.MarkAvailable(ctx, rec.MaterialID); err != nil {
					return NewRemoteError("material", err)
				}
				return nil
			},
		})
	}
	steps = append(steps, sagaStep{
		name: "delete borrow record",
		run: func(ctx context.Context) error {
			return s.store.Delete(ctx, rec.ID)
		},
	})
	return runSaga(ctx, steps)
}

// enrich attaches peer data best-effort: a lookup failure never blocks
// the base record.
func (s *Service) enrich(ctx context.Context, resp *RecordResponse, inc Include) {
	if inc.User {
		if u, err := s.users.GetUser(ctx, resp.UserID); err == nil && u != nil {
			resp.User = u.Raw
		}
	}
	if inc.Material {
		if m, err := s.materials.GetMaterial(ctx, resp.MaterialID); err == nil && m != nil {
			resp.Material = m.Raw
		}
	}
}

// ===== helpers =====

func buildRecordResponse(r *Record) RecordResponse {
	resp := RecordResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		MaterialID: r.MaterialID,
		Quantity:   r.Quantity,
		Status:     int(r.Status),
		StatusText: r.Status.String(),
		BorrowedAt: formatTimestamp(r.BorrowedAt),
	}
	if r.DueAt.Valid {
		v := formatTimestamp(r.DueAt.Time)
		resp.DueAt = &v
	}
	if r.ReturnedAt.Valid {
		v := formatTimestamp(r.ReturnedAt.Time)
		resp.ReturnedAt = &v
	}
	if r.Remark.Valid {
		v := r.Remark.String
		resp.Remark = &v
	}
	return resp
}

// parseTimestamp accepts RFC 3339 and the zone-less second-precision
// variant; zone-less input is taken as UTC.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
