package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"squadup/internal/usecase"
	"squadup/pkg/errors"
	"squadup/pkg/response"
)

const (
	// ContextUserID holds the caller's user id.
	ContextUserID = "uid"
	// ContextPrincipal holds the usecase.Principal built from the token.
	ContextPrincipal = "principal"
)

type AuthMiddleware struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthMiddleware(authUseCase *usecase.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		principal, err := m.authUseCase.Authenticate(c.Request().Context(), parts[1])
		if err != nil {
			return response.Error(c, err)
		}

		c.Set(ContextUserID, principal.UserID)
		c.Set(ContextPrincipal, principal)
		return next(c)
	}
}

// Principal returns the authenticated caller stored by Authenticate.
func Principal(c echo.Context) (usecase.Principal, bool) {
	principal, ok := c.Get(ContextPrincipal).(usecase.Principal)
	return principal, ok && principal.UserID != ""
}
