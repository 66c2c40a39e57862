package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/setorcuan/backend/internal/application/catalog"
)

// CatalogHandler serves the price table and drop-off locations
type CatalogHandler struct {
	BaseHandler
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

// ListRecyclables handles GET /recyclables
func (h *CatalogHandler) ListRecyclables(c *gin.Context) {
	items, err := h.catalog.ListRecyclables(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListLocations handles GET /locations
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	items, err := h.catalog.ListLocations(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpsertPrice handles PUT /admin/recyclables
func (h *CatalogHandler) UpsertPrice(c *gin.Context) {
	var req catalog.UpsertPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.catalog.UpsertPrice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
