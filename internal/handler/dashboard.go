package handler

import (
	"net/http"

	"rumbo/internal/apierror"
	"rumbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// BranchSummary godoc
// @Summary Resumen de tesorería por sucursal
// @Tags    dashboard
// @Produce json
// @Security BearerAuth
// @Param   id path string true "UUID de sucursal"
// @Success 200 {object} service.BranchSummary
// @Router  /v1/dashboard/sucursales/{id} [get]
func (h *DashboardHandler) BranchSummary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	summary, err := h.svc.BranchSummary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
