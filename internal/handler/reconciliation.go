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

type ReconciliationHandler struct{ svc service.ReconciliationService }

func NewReconciliationHandler(svc service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc}
}

// Perform godoc
// @Summary      Conciliar un día
// @Description  Cruza los cobros y pagos del día contra el estado de cuenta externo. Una corrida por (sucursal, fecha).
// @Tags         conciliacion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PerformReconciliationRequest true "Estado de cuenta"
// @Success      201  {object} model.ReconciliationRecord
// @Failure      409  {object} apierror.APIError
// @Router       /v1/conciliaciones [post]
func (h *ReconciliationHandler) Perform(c *gin.Context) {
	var req dto.PerformReconciliationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	branchID, _ := uuid.Parse(req.BranchID)
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("date inválida"))
		return
	}

	stmt := service.Statement{
		Inflows:  make([]service.StatementItem, len(req.Inflows)),
		Outflows: make([]service.StatementItem, len(req.Outflows)),
	}
	for i, it := range req.Inflows {
		stmt.Inflows[i] = service.StatementItem{Amount: it.Amount, Reference: it.Reference}
	}
	for i, it := range req.Outflows {
		stmt.Outflows[i] = service.StatementItem{Amount: it.Amount, Reference: it.Reference}
	}

	rec, err := h.svc.Perform(c.Request.Context(), middleware.ActorID(c), service.PerformReconciliationInput{
		BranchID:  branchID,
		Date:      date,
		Statement: stmt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *ReconciliationHandler) Get(c *gin.Context) {
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

// Delete allows a day to be re-reconciled after a corrected statement arrives.
func (h *ReconciliationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.ActorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReconciliationHandler) ListByBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("branch_id inválido"))
		return
	}
	recs, err := h.svc.ListByBranch(c.Request.Context(), branchID, 30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar conciliaciones"))
		return
	}
	c.JSON(http.StatusOK, recs)
}
