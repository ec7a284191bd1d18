package handlers

import (
	"net/http"

	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/provider"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	registry *provider.Registry
}

func NewProviderHandler(registry *provider.Registry) *ProviderHandler {
	return &ProviderHandler{registry: registry}
}

// ListProviders godoc
// @Summary      List registered AI providers
// @Tags         providers
// @Produce      json
// @Success      200 {array} provider.Metadata
// @Router       /api/v1/providers [get]
func (h *ProviderHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.List())
}

// GetDefault godoc
// @Summary      Resolve a provider id
// @Description  Unknown ids resolve to the default provider rather than failing
// @Tags         providers
// @Produce      json
// @Param        id query string false "Provider ID"
// @Success      200 {object} provider.Metadata
// @Router       /api/v1/providers/resolve [get]
func (h *ProviderHandler) GetDefault(c *gin.Context) {
	_, meta := h.registry.Get(c.Query("id"))
	c.JSON(http.StatusOK, meta)
}
