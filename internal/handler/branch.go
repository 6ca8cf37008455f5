package handler

import (
	"net/http"

	"rumbo/internal/apierror"
	"rumbo/internal/dto"
	"rumbo/internal/model"
	"rumbo/internal/repository"

	"github.com/gin-gonic/gin"
)

// BranchHandler serves the branch catalog. Thin enough to sit on the
// repository directly; authorization limits are read-mostly configuration.
type BranchHandler struct{ repo repository.BranchRepository }

func NewBranchHandler(repo repository.BranchRepository) *BranchHandler {
	return &BranchHandler{repo: repo}
}

func (h *BranchHandler) List(c *gin.Context) {
	bs, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sucursales"))
		return
	}
	c.JSON(http.StatusOK, bs)
}

// Create registers a branch with its authorization limits. Director only.
func (h *BranchHandler) Create(c *gin.Context) {
	var req dto.CreateBranchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.DirectorLimit.LessThan(req.ManagerLimit) {
		c.JSON(http.StatusBadRequest, apierror.New("el límite de director no puede ser menor al de gerente"))
		return
	}

	b := &model.Branch{
		Code:          req.Code,
		Name:          req.Name,
		ManagerLimit:  req.ManagerLimit,
		DirectorLimit: req.DirectorLimit,
		Active:        true,
	}
	if err := h.repo.Create(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo crear la sucursal"))
		return
	}
	c.JSON(http.StatusCreated, b)
}
