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

type PayableHandler struct{ svc service.PayableService }

func NewPayableHandler(svc service.PayableService) *PayableHandler {
	return &PayableHandler{svc: svc}
}

// Create godoc
// @Summary      Crear cuenta por pagar
// @Description  Abre una CXP. Montos desde el límite de gerente de la sucursal quedan en pendiente_revision.
// @Tags         cxp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePayableRequest true "Detalle de la cuenta"
// @Success      201  {object} model.Payable
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cxp [post]
func (h *PayableHandler) Create(c *gin.Context) {
	var req dto.CreatePayableRequest
	if !bindAndValidate(c, &req) {
		return
	}

	branchID, _ := uuid.Parse(req.BranchID)
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("due_date inválida"))
		return
	}

	in := service.CreatePayableInput{
		BranchID:     branchID,
		Counterparty: req.Counterparty,
		Concept:      req.Concept,
		Total:        req.Total,
		DueDate:      dueDate,
	}
	if req.DestBranchID != nil {
		dest, err := uuid.Parse(*req.DestBranchID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("dest_branch_id inválido"))
			return
		}
		in.DestBranchID = &dest
	}

	p, err := h.svc.Create(c.Request.Context(), middleware.ActorID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Authorize godoc
// @Summary      Autorizar cuenta por pagar
// @Description  Pasa la CXP por la puerta de autorización según rol y límites de la sucursal.
// @Tags         cxp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la cuenta"
// @Param        body body dto.AuthorizePayableRequest true "Comentario opcional"
// @Success      200  {object} model.Payable
// @Failure      403  {object} apierror.APIError
// @Router       /v1/cxp/{id}/autorizar [post]
func (h *PayableHandler) Authorize(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AuthorizePayableRequest
	if !bindAndValidate(c, &req) {
		return
	}

	actor := middleware.ActorID(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
		return
	}

	p, err := h.svc.Authorize(c.Request.Context(), id, *actor, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ExecutePayment godoc
// @Summary      Ejecutar pago
// @Description  Desembolsa contra una CXP autorizada (o pendiente si no requería autorización).
// @Tags         cxp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la cuenta"
// @Param        body body dto.ExecutePaymentRequest true "Detalle del pago"
// @Success      201  {object} model.PaymentMade
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cxp/{id}/pagos [post]
func (h *PayableHandler) ExecutePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ExecutePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	payment, err := h.svc.ExecutePayment(c.Request.Context(), middleware.ActorID(c), service.ExecutePaymentInput{
		PayableID: id,
		Amount:    req.Amount,
		Method:    model.PaymentMethod(req.Method),
		Reference: req.Reference,
		Drawer:    req.Drawer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *PayableHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PayableHandler) List(c *gin.Context) {
	var filter dto.PayableFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	repoFilter := repository.PayableFilter{
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

	ps, total, err := h.svc.List(c.Request.Context(), repoFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cuentas por pagar"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": ps, "total": total, "page": repoFilter.Page, "limit": repoFilter.Limit,
	})
}
