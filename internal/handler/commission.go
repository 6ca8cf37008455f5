package handler

import (
	"net/http"

	"rumbo/internal/dto"
	"rumbo/internal/middleware"
	"rumbo/internal/model"
	"rumbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommissionHandler struct{ svc service.CommissionService }

func NewCommissionHandler(svc service.CommissionService) *CommissionHandler {
	return &CommissionHandler{svc: svc}
}

// Create godoc
// @Summary      Generar comisiones de una venta
// @Description  Crea una comisión por beneficiario: vendedor 5%, guía 3%, sucursal vendedora 12% si difiere de la operadora.
// @Tags         comisiones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCommissionsRequest true "Detalle de la venta"
// @Success      201  {array}  model.Commission
// @Failure      400  {object} apierror.APIError
// @Router       /v1/comisiones [post]
func (h *CommissionHandler) Create(c *gin.Context) {
	var req dto.CreateCommissionsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	seller, _ := uuid.Parse(req.SellerBranchID)
	operating, _ := uuid.Parse(req.OperatingBranch)

	cs, err := h.svc.CreateCommissions(c.Request.Context(), middleware.ActorID(c), service.CreateCommissionsInput{
		TripRef:         req.TripRef,
		SaleAmount:      req.SaleAmount,
		SellerBranchID:  seller,
		OperatingBranch: operating,
		SalespersonRef:  req.SalespersonRef,
		GuideRef:        req.GuideRef,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cs)
}

func (h *CommissionHandler) ListByTrip(c *gin.Context) {
	cs, err := h.svc.ListByTripRef(c.Request.Context(), c.Param("trip_ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	if cs == nil {
		cs = []model.Commission{}
	}
	c.JSON(http.StatusOK, cs)
}
