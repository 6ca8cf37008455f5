package handler

import (
	"net/http"
	"time"

	"rumbo/internal/apierror"
	"rumbo/internal/dto"
	"rumbo/internal/middleware"
	"rumbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RefundHandler struct{ svc service.RefundService }

func NewRefundHandler(svc service.RefundService) *RefundHandler {
	return &RefundHandler{svc: svc}
}

// Quote godoc
// @Summary      Cotizar reembolso
// @Description  Aplica la política de cancelación sin crear nada.
// @Tags         reembolsos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RefundQuoteRequest true "Días y monto"
// @Success      200  {object} dto.RefundQuoteResponse
// @Router       /v1/reembolsos/cotizar [post]
func (h *RefundHandler) Quote(c *gin.Context) {
	var req dto.RefundQuoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	quote := service.CalculateRefund(req.DaysToDeparture, req.PaidAmount)
	c.JSON(http.StatusOK, dto.RefundQuoteResponse{
		Percentage:     quote.Percentage,
		RefundAmount:   quote.RefundAmount,
		RetainedAmount: quote.RetainedAmount,
		Policy:         quote.Policy,
	})
}

// Create godoc
// @Summary      Crear reembolso
// @Description  Abre un caso de reembolso en pendiente_autorizacion y alerta al gerente de la sucursal.
// @Tags         reembolsos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateRefundRequest true "Detalle de la cancelación"
// @Success      201  {object} model.Refund
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reembolsos [post]
func (h *RefundHandler) Create(c *gin.Context) {
	var req dto.CreateRefundRequest
	if !bindAndValidate(c, &req) {
		return
	}

	branchID, _ := uuid.Parse(req.BranchID)
	departure, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("departure_date inválida"))
		return
	}

	rf, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), service.CreateRefundInput{
		TripRef:       req.TripRef,
		CustomerRef:   req.CustomerRef,
		BranchID:      branchID,
		PaidAmount:    req.PaidAmount,
		DepartureDate: departure,
		Reason:        req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rf)
}

func (h *RefundHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rf, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rf)
}

func (h *RefundHandler) ListByBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("branch_id inválido"))
		return
	}
	rfs, err := h.svc.ListByBranch(c.Request.Context(), branchID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar reembolsos"))
		return
	}
	c.JSON(http.StatusOK, rfs)
}
