package adminapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/routerops/radman/internal/accounts"
	"github.com/routerops/radman/pkg/optional"
	"github.com/spf13/cast"
)

type userPayload struct {
	Username  string      `json:"username" validate:"required,min=1,max=128"`
	Password  string      `json:"password" validate:"required,min=1,max=128"`
	ProfileId json.Number `json:"profile_id" validate:"required"`
	Realname  *string     `json:"realname" validate:"omitempty,max=200"`
	Email     *string     `json:"email" validate:"omitempty,email"`
	Mobile    *string     `json:"mobile" validate:"omitempty,max=64"`
	Address   *string     `json:"address" validate:"omitempty,max=500"`
	ExpireAt  *time.Time  `json:"expire_at"`
}

type userUpdatePayload struct {
	Password  optional.Field[string]      `json:"password"`
	ProfileId optional.Field[json.Number] `json:"profile_id"`
	Realname  optional.Field[string]      `json:"realname"`
	Email     optional.Field[string]      `json:"email"`
	Mobile    optional.Field[string]      `json:"mobile"`
	Address   optional.Field[string]      `json:"address"`
	Status    optional.Field[string]      `json:"status"`
	ExpireAt  optional.Field[time.Time]   `json:"expire_at"`
}

// UserHandler exposes subscriber account CRUD over HTTP.
type UserHandler struct {
	service *accounts.AccountService
}

func NewUserHandler(service *accounts.AccountService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(g *echo.Group) {
	g.GET("/users", h.list)
	g.POST("/users", h.create)
	g.PUT("/users/:id", h.update)
	g.DELETE("/users/:id", h.delete)
}

func (h *UserHandler) list(c echo.Context) error {
	page, pageSize := parsePagination(c)
	rows, total, err := h.service.PageAccounts(c.Request().Context(), page, pageSize)
	if err != nil {
		return failDomain(c, err)
	}
	return paged(c, rows, total, page, pageSize)
}

func (h *UserHandler) create(c echo.Context) error {
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	user, err := h.service.CreateAccount(c.Request().Context(), accounts.CreateAccountInput{
		Username:  payload.Username,
		Secret:    payload.Password,
		ProfileId: cast.ToInt64(payload.ProfileId.String()),
		Realname:  payload.Realname,
		Email:     payload.Email,
		Mobile:    payload.Mobile,
		Address:   payload.Address,
		ExpireAt:  payload.ExpireAt,
	})
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, user)
}

func (h *UserHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}

	var payload userUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user parameters", nil)
	}

	in := accounts.UpdateAccountInput{
		Secret:   payload.Password,
		Realname: payload.Realname,
		Email:    payload.Email,
		Mobile:   payload.Mobile,
		Address:  payload.Address,
		Status:   payload.Status,
		ExpireAt: payload.ExpireAt,
	}
	// The profile reference crosses the wire as a string-encoded id.
	if payload.ProfileId.Present() {
		if payload.ProfileId.IsNull() {
			in.ProfileId = optional.Null[int64]()
		} else {
			raw, _ := payload.ProfileId.Value()
			in.ProfileId = optional.Of(cast.ToInt64(raw.String()))
		}
	}

	user, err := h.service.UpdateAccount(c.Request().Context(), id, in)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, user)
}

func (h *UserHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	if err := h.service.DeleteAccount(c.Request().Context(), id); err != nil {
		return failDomain(c, err)
	}
	return ok(c, map[string]interface{}{"success": true})
}
