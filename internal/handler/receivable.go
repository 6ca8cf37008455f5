package handler

import (
	"net/http"
	"time"

	"rumbo/internal/apierror"
	"rumbo/internal/dto"
	"rumbo/internal/middleware"
	"rumbo/internal/model"
	"rumbo/internal/repository"
	"rumbo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReceivableHandler struct {
	svc    service.ReceivableService
	ledger service.LedgerService
}

func NewReceivableHandler(svc service.ReceivableService, ledger service.LedgerService) *ReceivableHandler {
	return &ReceivableHandler{svc: svc, ledger: ledger}
}

// Create godoc
// @Summary      Crear cuenta por cobrar
// @Description  Abre una CXC con folio propio y asienta el cargo contra ingresos.
// @Tags         cxc
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateReceivableRequest true "Detalle de la cuenta"
// @Success      201  {object} model.Receivable
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cxc [post]
func (h *ReceivableHandler) Create(c *gin.Context) {
	var req dto.CreateReceivableRequest
	if !bindAndValidate(c, &req) {
		return
	}

	branchID, _ := uuid.Parse(req.BranchID)
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("due_date inválida"))
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), service.CreateReceivableInput{
		BranchID:     branchID,
		Counterparty: req.Counterparty,
		TripRef:      req.TripRef,
		Total:        req.Total,
		DueDate:      dueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// RegisterPayment godoc
// @Summary      Registrar cobro
// @Description  Aplica un cobro a la CXC: bloquea la fila, valida sobrepago y duplicados, asienta el movimiento.
// @Tags         cxc
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la cuenta"
// @Param        body body dto.RegisterPaymentRequest true "Detalle del cobro"
// @Success      201  {object} model.PaymentReceived
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cxc/{id}/pagos [post]
func (h *ReceivableHandler) RegisterPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.RegisterPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	payment, err := h.svc.RegisterPayment(c.Request.Context(), middleware.ActorID(c), service.RegisterPaymentInput{
		ReceivableID: id,
		Amount:       req.Amount,
		BankFee:      req.BankFee,
		Method:       model.PaymentMethod(req.Method),
		Reference:    req.Reference,
		Drawer:       req.Drawer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *ReceivableHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ReceivableHandler) List(c *gin.Context) {
	var filter dto.ReceivableFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	repoFilter := repository.ReceivableFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.BranchID != "" {
		id, err := uuid.Parse(filter.BranchID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("branch_id inválido"))
			return
		}
		repoFilter.BranchID = &id
	}

	recs, total, err := h.svc.List(c.Request.Context(), repoFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cuentas por cobrar"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": recs, "total": total, "page": repoFilter.Page, "limit": repoFilter.Limit,
	})
}

// Ledger godoc
// @Summary Asientos contables de un folio
// @Tags    contabilidad
// @Produce json
// @Security BearerAuth
// @Param   folio path string true "Folio del documento"
// @Success 200 {array} model.LedgerEntry
// @Router  /v1/contabilidad/{folio} [get]
func (h *ReceivableHandler) Ledger(c *gin.Context) {
	entries, err := h.ledger.EntriesByFolio(c.Request.Context(), c.Param("folio"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
