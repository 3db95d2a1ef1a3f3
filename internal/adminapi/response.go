package adminapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/routerops/radman/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

func init() {
	// Money, rates and counters must cross the wire as JSON numbers
	// with their exact stored value.
	decimal.MarshalJSONWithoutQuotes = true
}

type errorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

type pagedBody struct {
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, errorBody{Code: code, Message: message, Detail: detail})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedBody{Data: data, Total: total, Page: page, PageSize: pageSize})
}

// failDomain translates a typed domain failure into the matching HTTP
// response; the message is surfaced verbatim.
func failDomain(c echo.Context, err error) error {
	switch e := err.(type) {
	case *domain.NotFoundError:
		return fail(c, http.StatusNotFound, "NOT_FOUND", e.Message, nil)
	case *domain.ReferenceNotFoundError:
		return fail(c, http.StatusNotFound, "REFERENCE_NOT_FOUND", e.Message, nil)
	case *domain.ConflictError:
		return fail(c, http.StatusConflict, "CONFLICT", e.Message, nil)
	case *domain.ValidationError:
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", e.Message, nil)
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("perPage"))
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

func handleValidationError(c echo.Context, err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", errs.Error())
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request parameters", err.Error())
}

// Validator adapts go-playground/validator to echo's Validate hook.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
