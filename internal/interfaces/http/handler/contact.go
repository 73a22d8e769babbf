package handler

import (
	"github.com/gin-gonic/gin"

	contactapp "github.com/buildmart/storefront/internal/application/contact"
)

// ContactHandler serves the contact form endpoint
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.Service
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactapp.Service) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// RegisterRoutes registers contact routes
func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.Submit)
}

// Submit accepts a contact form request
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactapp.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid contact payload")
		return
	}

	if err := h.contactService.Submit(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"received": true})
}
