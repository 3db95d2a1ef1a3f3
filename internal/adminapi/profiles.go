package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/routerops/radman/internal/accounts"
	"github.com/routerops/radman/pkg/optional"
	"github.com/shopspring/decimal"
)

type profilePayload struct {
	Name           string           `json:"name" validate:"required,min=1,max=200"`
	UpRate         int              `json:"up_rate" validate:"gte=0"`
	DownRate       int              `json:"down_rate" validate:"gte=0"`
	SessionTimeout *int             `json:"session_timeout" validate:"omitempty,gte=0"`
	IdleTimeout    *int             `json:"idle_timeout" validate:"omitempty,gte=0"`
	QuotaMb        *int64           `json:"quota_mb" validate:"omitempty,gte=0"`
	Price          *decimal.Decimal `json:"price"`
	Remark         *string          `json:"remark" validate:"omitempty,max=500"`
}

type profileUpdatePayload struct {
	Name           optional.Field[string]          `json:"name"`
	UpRate         optional.Field[int]             `json:"up_rate"`
	DownRate       optional.Field[int]             `json:"down_rate"`
	SessionTimeout optional.Field[int]             `json:"session_timeout"`
	IdleTimeout    optional.Field[int]             `json:"idle_timeout"`
	QuotaMb        optional.Field[int64]           `json:"quota_mb"`
	Price          optional.Field[decimal.Decimal] `json:"price"`
	Remark         optional.Field[string]          `json:"remark"`
}

// ProfileHandler exposes bandwidth profile CRUD over HTTP.
type ProfileHandler struct {
	service *accounts.AccountService
}

func NewProfileHandler(service *accounts.AccountService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Register(g *echo.Group) {
	g.GET("/profiles", h.list)
	g.POST("/profiles", h.create)
	g.PUT("/profiles/:id", h.update)
	g.DELETE("/profiles/:id", h.delete)
}

func (h *ProfileHandler) list(c echo.Context) error {
	rows, err := h.service.ListProfiles(c.Request().Context())
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, rows)
}

func (h *ProfileHandler) create(c echo.Context) error {
	var payload profilePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	profile, err := h.service.CreateProfile(c.Request().Context(), accounts.CreateProfileInput{
		Name:           payload.Name,
		UpRate:         payload.UpRate,
		DownRate:       payload.DownRate,
		SessionTimeout: payload.SessionTimeout,
		IdleTimeout:    payload.IdleTimeout,
		QuotaMb:        payload.QuotaMb,
		Price:          payload.Price,
		Remark:         payload.Remark,
	})
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, profile)
}

func (h *ProfileHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid profile ID", nil)
	}

	var payload profileUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile parameters", nil)
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), id, accounts.UpdateProfileInput{
		Name:           payload.Name,
		UpRate:         payload.UpRate,
		DownRate:       payload.DownRate,
		SessionTimeout: payload.SessionTimeout,
		IdleTimeout:    payload.IdleTimeout,
		QuotaMb:        payload.QuotaMb,
		Price:          payload.Price,
		Remark:         payload.Remark,
	})
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, profile)
}

func (h *ProfileHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid profile ID", nil)
	}
	if err := h.service.DeleteProfile(c.Request().Context(), id); err != nil {
		return failDomain(c, err)
	}
	return ok(c, map[string]interface{}{"success": true})
}
