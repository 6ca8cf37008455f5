package handler

import (
	"net/http"

	"rumbo/internal/apierror"
	"rumbo/internal/dto"
	"rumbo/internal/repository"
	"rumbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlertHandler struct{ svc service.AlertService }

func NewAlertHandler(svc service.AlertService) *AlertHandler {
	return &AlertHandler{svc: svc}
}

// List godoc
// @Summary Listar alertas
// @Tags    alertas
// @Produce json
// @Security BearerAuth
// @Param   branch_id  query string false "UUID de sucursal"
// @Param   unresolved query bool   false "Solo sin resolver"
// @Success 200 {object} map[string]interface{}
// @Router  /v1/alertas [get]
func (h *AlertHandler) List(c *gin.Context) {
	var filter dto.AlertFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	repoFilter := repository.AlertFilter{
		UnresolvedOnly: filter.Unresolved,
		Page:           filter.Page,
		Limit:          filter.Limit,
	}
	if filter.BranchID != "" {
		id, err := uuid.Parse(filter.BranchID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("branch_id inválido"))
			return
		}
		repoFilter.BranchID = &id
	}

	alerts, total, err := h.svc.List(c.Request.Context(), repoFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar alertas"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": alerts, "total": total, "page": repoFilter.Page, "limit": repoFilter.Limit,
	})
}

func (h *AlertHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AlertHandler) Resolve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Resolve(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
