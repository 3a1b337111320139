package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/utils"
)

// AuthHandler issues operator access tokens.  There is a single operator
// account configured through ADMIN_USER and ADMIN_PASSWORD_HASH.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	Subject string    `json:"subject"`
	Role    string    `json:"role"`
	Access  tokenPart `json:"access"`
}

// Login: verify the operator credentials and return an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.Cfg.AdminUser)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passOK := utils.VerifyPassword(h.Cfg.AdminPasswordHash, req.Password)
	if !userOK || !passOK {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, h.Cfg.AdminUser, utils.RoleAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		Subject: h.Cfg.AdminUser,
		Role:    utils.RoleAdmin,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me returns the identity carried by the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	sub, _ := c.Get(middleware.CtxSubject).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	return c.JSON(http.StatusOK, echo.Map{"subject": sub, "role": role})
}
