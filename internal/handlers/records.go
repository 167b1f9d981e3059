package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avereen/studylog/internal/middleware"
	"github.com/avereen/studylog/internal/services"
	"github.com/avereen/studylog/pkg/errors"
	"github.com/avereen/studylog/pkg/response"
)

// RecordHandler exposes study record CRUD, scoped to the authenticated account.
type RecordHandler struct {
	records *services.RecordService
}

func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

type createRecordRequest struct {
	Subject string  `json:"subject"`
	Hours   float64 `json:"hours"`
}

// GET /api/records
func (h *RecordHandler) List(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	list, err := h.records.List(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"records":     list.Records,
		"total_hours": list.TotalHours,
	})
}

// POST /api/records
func (h *RecordHandler) Create(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	record, err := h.records.Create(c.Request.Context(), accountID, services.CreateRecordInput{
		Subject: req.Subject,
		Hours:   req.Hours,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, record)
}

// DELETE /api/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.records.Delete(c.Request.Context(), accountID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
