package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/domain/models"
	"github.com/mamadbah2/campus/internal/service/batches"
)

// BatchService is the batch management surface exposed over HTTP.
type BatchService interface {
	List(ctx context.Context) ([]models.BatchDefinition, error)
	Get(ctx context.Context, id string) (models.BatchDefinition, error)
	Create(ctx context.Context, def models.BatchDefinition) (models.BatchDefinition, error)
	Update(ctx context.Context, id string, def models.BatchDefinition) (models.BatchDefinition, error)
	Delete(ctx context.Context, id string) error
	Members(ctx context.Context, id string) (batches.Membership, error)
	AvailableNames(ctx context.Context, prefix string, scope models.BatchDefinition) ([]string, error)
}

// BatchesHandler serves batch definitions and their membership.
type BatchesHandler struct {
	svc    BatchService
	logger *zap.Logger
}

// NewBatchesHandler constructs the HTTP handler adapter.
func NewBatchesHandler(svc BatchService, logger *zap.Logger) *BatchesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchesHandler{svc: svc, logger: logger}
}

// List returns every batch.
func (h *BatchesHandler) List(c *gin.Context) {
	defs, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if defs == nil {
		defs = []models.BatchDefinition{}
	}
	success(c, http.StatusOK, defs)
}

// Get returns one batch.
func (h *BatchesHandler) Get(c *gin.Context) {
	def, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, def)
}

// Create stores a new batch.
func (h *BatchesHandler) Create(c *gin.Context) {
	var def models.BatchDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		h.logger.Debug("invalid batch payload", zap.Error(err))
		failure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(c.Request.Context(), def)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusCreated, created)
}

// Update replaces the batch :id.
func (h *BatchesHandler) Update(c *gin.Context) {
	var def models.BatchDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		h.logger.Debug("invalid batch payload", zap.Error(err))
		failure(c, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), def)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, updated)
}

// Delete removes the batch :id.
func (h *BatchesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Members resolves the students of the batch :id.
func (h *BatchesHandler) Members(c *gin.Context) {
	membership, err := h.svc.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, membership)
}

// Names lists the batch names still free in the division given by the query.
func (h *BatchesHandler) Names(c *gin.Context) {
	scope := models.BatchDefinition{
		Year:       c.Query("year"),
		Sem:        c.Query("sem"),
		Div:        c.Query("div"),
		Department: c.Query("department"),
	}

	names, err := h.svc.AvailableNames(c.Request.Context(), c.Query("prefix"), scope)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, names)
}
