package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/weroambags/weroambags-backend-go/models"
	"github.com/weroambags/weroambags-backend-go/utils"
)

// UserLoader fetches the acting user for the guard.
type UserLoader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Auth guards routes behind a bearer token.
type Auth struct {
	Users  UserLoader
	Secret string
}

// ContextUserKey is where Protect stores the authenticated user.
const ContextUserKey = "user"

// Protect rejects requests without a valid bearer token and attaches the
// decoded user to the context. A missing header is a 403; a bad or expired
// token is a 401.
func (a *Auth) Protect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.NewAppError(http.StatusForbidden, "Forbidden access!!!")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return utils.NewAppError(http.StatusUnauthorized, "Invalid authorization header format")
		}

		claims, err := utils.ValidateJWT(parts[1], a.Secret)
		if err != nil {
			return utils.NewAppError(http.StatusUnauthorized, "Invalid or expired token")
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return utils.NewAppError(http.StatusUnauthorized, "Invalid user ID")
		}

		user, err := a.Users.FindByID(c.Request().Context(), userID)
		if err != nil {
			return utils.NewAppError(http.StatusUnauthorized, "User no longer exists")
		}

		c.Set(ContextUserKey, user)
		return next(c)
	}
}

// RestrictTo rejects authenticated users whose role is not in the allowed
// set.
func RestrictTo(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextUserKey).(*models.User)
			if !ok {
				return utils.NewAppError(http.StatusForbidden, "You do not have permission to perform this action.")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return utils.NewAppError(http.StatusForbidden, "You do not have permission to perform this action.")
		}
	}
}

// CurrentUser pulls the authenticated user out of the context.
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(ContextUserKey).(*models.User)
	return user, ok
}
