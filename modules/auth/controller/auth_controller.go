package controller

import (
	"strings"

	"stayops/core/constants"
	"stayops/core/controller"
	"stayops/core/errors"
	"stayops/core/utils"
	"stayops/modules/auth/dto"
	"stayops/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// AuthController handles operator authentication
type AuthController struct {
	controller.BaseController
	Service service.AuthServiceInterface
}

func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		Service:        svc,
	}
}

// Login handles POST /auth/login
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	resp, appErr := c.Service.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Login successful")
}

// Logout handles POST /auth/logout
func (c *AuthController) Logout(ctx echo.Context) error {
	header := ctx.Request().Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return c.BadRequest(errors.ErrInvalidTokenFormat, "Invalid authorization header")
	}

	if appErr := c.Service.Logout(ctx.Request().Context(), parts[1]); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Logged out")
}

// Me handles GET /auth/me
func (c *AuthController) Me(ctx echo.Context) error {
	claims, ok := ctx.Get(constants.ContextTokenData).(*utils.TokenClaims)
	if !ok {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "missing token claims", nil))
	}

	user, appErr := c.Service.Me(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, user, "Success")
}
