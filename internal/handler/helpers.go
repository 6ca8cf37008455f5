package handler

import (
	"net/http"
	"reflect"

	"rumbo/internal/apierror"
	"rumbo/internal/finerr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a finance error kind to an HTTP status. Unknown errors are
// 500s with a generic body; the detail never leaks infrastructure internals.
func respondError(c *gin.Context, err error) {
	kind := finerr.KindOf(err)

	var status int
	switch kind {
	case finerr.KindValidation:
		status = http.StatusBadRequest
	case finerr.KindNotFound:
		status = http.StatusNotFound
	case finerr.KindStateConflict, finerr.KindOverpayment, finerr.KindDuplicatePayment:
		status = http.StatusConflict
	case finerr.KindAuthorizationLimit:
		status = http.StatusForbidden
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
		_ = c.Error(err)
		return
	}
	c.JSON(status, apierror.NewKind(kind.String(), err.Error()))
}

// parseID parses a :id path parameter, writing the 400 response on failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}
