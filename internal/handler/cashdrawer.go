package handler

import (
	"net/http"

	"rumbo/internal/apierror"
	"rumbo/internal/dto"
	"rumbo/internal/middleware"
	"rumbo/internal/model"
	"rumbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CashDrawerHandler struct{ svc service.CashDrawerService }

func NewCashDrawerHandler(svc service.CashDrawerService) *CashDrawerHandler {
	return &CashDrawerHandler{svc: svc}
}

// Close godoc
// @Summary      Cierre de caja
// @Description  Cuenta la caja contra sus movimientos. Desvíos mayores a 50 alertan al gerente.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CloseDrawerRequest true "Conteo físico"
// @Success      201  {object} model.CashClosure
// @Failure      400  {object} apierror.APIError
// @Router       /v1/caja/cierre [post]
func (h *CashDrawerHandler) Close(c *gin.Context) {
	var req dto.CloseDrawerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	branchID, _ := uuid.Parse(req.BranchID)
	denoms := make([]model.DenominationCount, len(req.Denominations))
	for i, d := range req.Denominations {
		denoms[i] = model.DenominationCount{Denomination: d.Denomination, Count: d.Count}
	}

	closure, err := h.svc.Close(c.Request.Context(), middleware.ActorID(c), service.CloseDrawerInput{
		BranchID:      branchID,
		Drawer:        req.Drawer,
		CountedAmount: req.CountedAmount,
		Denominations: denoms,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, closure)
}

// RegisterMovement registers a manual drawer adjustment (fondo inicial, retiro
// a bóveda, gastos menores). Cash payments write movements on their own.
func (h *CashDrawerHandler) RegisterMovement(c *gin.Context) {
	var req dto.RegisterMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}

	branchID, _ := uuid.Parse(req.BranchID)
	mov, err := h.svc.RegisterMovement(c.Request.Context(), middleware.ActorID(c), service.RegisterMovementInput{
		BranchID: branchID,
		Drawer:   req.Drawer,
		Kind:     model.DrawerMovementKind(req.Kind),
		Amount:   req.Amount,
		Concept:  req.Concept,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mov)
}

func (h *CashDrawerHandler) ListClosures(c *gin.Context) {
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("branch_id inválido"))
		return
	}
	cs, err := h.svc.ListClosures(c.Request.Context(), branchID, 30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cierres"))
		return
	}
	c.JSON(http.StatusOK, cs)
}
