package borrow

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lauvAri/soa-lab1/internal/platform/response"
)

// BorrowService is what the HTTP layer needs from the orchestrator.
type BorrowService interface {
	Create(ctx context.Context, req CreateRequest) (*RecordResponse, error)
	Get(ctx context.Context, id int64, inc Include) (*RecordResponse, error)
	List(ctx context.Context, f Filter, p Page, inc Include) (*ListResponse, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*RecordResponse, error)
	Return(ctx context.Context, id int64, req ReturnRequest) (*RecordResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct{ svc BorrowService }

func RegisterRoutes(r gin.IRoutes, svc BorrowService) {
	h := &Handler{svc: svc}

	r.POST("/borrows", h.Create)
	r.GET("/borrows", h.List)
	r.GET("/borrows/:id", h.Get)
	r.PUT("/borrows/:id", h.Update)
	r.POST("/borrows/:id/return", h.Return)
	r.DELETE("/borrows/:id", h.Delete)
}

// ---------- handlers ----------

// POST /borrows
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "request body must be valid JSON")
		return
	}

	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, "borrow record created", res)
}

// GET /borrows
func (h *Handler) List(c *gin.Context) {
	f := Filter{}
	if v := c.Query("userId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.UserID = &id
		}
	}
	if v := c.Query("materialId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.MaterialID = &id
		}
	}
	if v := c.Query("status"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			st := Status(n)
			if !st.Valid() {
				response.BadRequest(c, "status must be 0, 1 or 2")
				return
			}
			f.Status = &st
		}
	}
	p := Page{
		Page: parseIntDefault(c.Query("page"), 1),
		Size: parseIntDefault(c.Query("pageSize"), 0),
	}
	inc := ParseInclude(c.Query("include"))

	res, err := h.svc.List(c.Request.Context(), f, p, inc)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, "success", res)
}

// GET /borrows/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.svc.Get(c.Request.Context(), id, ParseInclude(c.Query("include")))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, "success", res)
}

// PUT /borrows/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "request body must be valid JSON")
		return
	}
	res, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, "borrow record updated", res)
}

// POST /borrows/:id/return
func (h *Handler) Return(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	// Empty bodies are fine here
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "request body must be valid JSON")
		return
	}
	res, err := h.svc.Return(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, "borrow record returned", res)
}

// DELETE /borrows/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, "borrow record deleted", nil)
}

// ---------- helpers ----------

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func writeError(c *gin.Context, err error) {
	msg := err.Error()
	var de *DomainError
	if errors.As(err, &de) {
		msg = de.Message
	}
	response.Error(c, ToHTTPStatus(err), msg)
}
