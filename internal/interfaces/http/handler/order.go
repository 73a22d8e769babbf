package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/buildmart/storefront/internal/application/order"
)

// OrderHandler serves the order draft workflow endpoints
type OrderHandler struct {
	BaseHandler
	workflow *orderapp.WorkflowService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(workflow *orderapp.WorkflowService) *OrderHandler {
	return &OrderHandler{workflow: workflow}
}

// RegisterRoutes registers order workflow routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drafts := rg.Group("/orders/drafts")
	{
		drafts.POST("", h.Open)
		drafts.GET("/:id", h.Get)
		drafts.PATCH("/:id", h.Update)
		drafts.POST("/:id/submit", h.Submit)
		drafts.DELETE("/:id", h.Cancel)
	}
}

// OpenDraftRequest starts an order draft for one product
type OpenDraftRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
}

// Open creates a draft for the requested product
func (h *OrderHandler) Open(c *gin.Context) {
	var req OpenDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A valid product_id is required")
		return
	}

	draft, err := h.workflow.Open(c.Request.Context(), req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, draft)
}

// Get returns the current draft state
func (h *OrderHandler) Get(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	draft, err := h.workflow.Get(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, draft)
}

// Update applies field edits to the draft
func (h *OrderHandler) Update(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req orderapp.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid draft update payload")
		return
	}

	draft, err := h.workflow.Update(sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, draft)
}

// Submit validates the draft and sends it upstream
func (h *OrderHandler) Submit(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	result, err := h.workflow.Submit(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Cancel discards the draft
func (h *OrderHandler) Cancel(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	if err := h.workflow.Cancel(sessionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *OrderHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid draft session ID")
		return uuid.Nil, false
	}
	return sessionID, true
}
