package adminapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/routerops/radman/internal/domain"
	"github.com/routerops/radman/pkg/common"
	"github.com/routerops/radman/pkg/crypt"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler issues bearer tokens for system operators.
type AuthHandler struct {
	db     *gorm.DB
	secret string
}

func NewAuthHandler(db *gorm.DB, secret string) *AuthHandler {
	return &AuthHandler{db: db, secret: secret}
}

func (h *AuthHandler) Register(e *echo.Echo) {
	e.POST("/auth/login", h.login)
}

func (h *AuthHandler) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var opr domain.SysOpr
	err := h.db.WithContext(c.Request().Context()).
		Where("username = ?", payload.Username).
		First(&opr).Error
	if err != nil || opr.Status != common.ENABLED || !crypt.VerifySecret(payload.Password, opr.Password) {
		zap.L().Warn("operator login rejected", zap.String("username", payload.Username))
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
	}

	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub":   opr.Username,
		"level": opr.Level,
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign token", nil)
	}

	h.db.Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())

	return ok(c, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
		"level":      opr.Level,
	})
}
