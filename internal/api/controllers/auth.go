package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"eduport/internal/api/validator"
	"eduport/internal/models"
	"eduport/internal/utils"
)

// AuthController issues bearer tokens to back-office accounts. Session
// lifecycle beyond issue/verify is not this service's concern.
type AuthController struct {
	db *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Login verifies email/password and returns a signed token.
func (ac *AuthController) Login(ctx echo.Context) error {
	var req validator.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if ac.db == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication backend unavailable")
	}

	var admin models.AdminUser
	err := ac.db.Where("email = ?", req.Email).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !admin.CheckPassword(req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateJWT(admin)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign token")
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  admin,
	})
}

// Me returns the authenticated account.
func (ac *AuthController) Me(ctx echo.Context) error {
	id, _ := ctx.Get("adminID").(string)
	if id == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var admin models.AdminUser
	if err := ac.db.Where("id = ?", id).First(&admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "account not found")
	}
	return ctx.JSON(http.StatusOK, admin)
}
