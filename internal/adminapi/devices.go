package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/routerops/radman/internal/devices"
	"github.com/routerops/radman/pkg/optional"
)

type devicePayload struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Ipaddr   string `json:"ipaddr" validate:"required,min=1,max=128"`
	Username string `json:"username" validate:"omitempty,max=128"`
	Password string `json:"password" validate:"omitempty,max=128"`
	ApiPort  int    `json:"api_port" validate:"omitempty,gte=0,lte=65535"`
	// Accepted for interface compatibility and ignored: a device
	// always registers offline.
	Status string `json:"status"`
}

type deviceUpdatePayload struct {
	Name     optional.Field[string] `json:"name"`
	Ipaddr   optional.Field[string] `json:"ipaddr"`
	Username optional.Field[string] `json:"username"`
	Password optional.Field[string] `json:"password"`
	ApiPort  optional.Field[int]    `json:"api_port"`
	Status   optional.Field[string] `json:"status"`
}

// DeviceHandler exposes the device registry over HTTP.
type DeviceHandler struct {
	registry *devices.Registry
}

func NewDeviceHandler(registry *devices.Registry) *DeviceHandler {
	return &DeviceHandler{registry: registry}
}

func (h *DeviceHandler) Register(g *echo.Group) {
	g.GET("/devices", h.list)
	g.POST("/devices", h.create)
	g.PUT("/devices/:id", h.update)
	g.POST("/devices/:id/refresh", h.refreshStatus)
	g.GET("/devices/:id/system-metrics", h.listSystemMetrics)
	g.GET("/devices/:id/interface-metrics", h.listInterfaceMetrics)
	g.GET("/devices/:id/online-users", h.listOnlineUsers)
}

func (h *DeviceHandler) list(c echo.Context) error {
	rows, err := h.registry.List(c.Request().Context())
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, rows)
}

func (h *DeviceHandler) create(c echo.Context) error {
	var payload devicePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse device parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	device, err := h.registry.Register(c.Request().Context(), devices.RegisterDeviceInput{
		Name:     payload.Name,
		Ipaddr:   payload.Ipaddr,
		Username: payload.Username,
		Password: payload.Password,
		ApiPort:  payload.ApiPort,
	})
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, device)
}

func (h *DeviceHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid device ID", nil)
	}

	var payload deviceUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse device parameters", nil)
	}

	device, err := h.registry.Update(c.Request().Context(), id, devices.UpdateDeviceInput{
		Name:     payload.Name,
		Ipaddr:   payload.Ipaddr,
		Username: payload.Username,
		Password: payload.Password,
		ApiPort:  payload.ApiPort,
		Status:   payload.Status,
	})
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, device)
}

func (h *DeviceHandler) refreshStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid device ID", nil)
	}
	device, err := h.registry.RefreshStatus(c.Request().Context(), id)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, device)
}

func (h *DeviceHandler) listSystemMetrics(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid device ID", nil)
	}
	rows, err := h.registry.ListSystemMetrics(c.Request().Context(), id)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, rows)
}

func (h *DeviceHandler) listInterfaceMetrics(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid device ID", nil)
	}
	rows, err := h.registry.ListInterfaceMetrics(c.Request().Context(), id)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, rows)
}

func (h *DeviceHandler) listOnlineUsers(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid device ID", nil)
	}
	rows, err := h.registry.ListOnlineUsers(c.Request().Context(), id)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, rows)
}
