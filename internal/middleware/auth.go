package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"campus-preorder/internal/model"
)

// DemoUserID is the student every request acts as when no signing secret is
// configured in development.
const DemoUserID = "demo-user-001"

const (
	ctxUserID = "user_id"
	ctxRole   = "user_role"
)

// Claims are issued by the hosted auth provider. The role claim is optional.
type Claims struct {
	Role string `json:"user_role,omitempty"`
	jwt.RegisteredClaims
}

type RoleResolver interface {
	Role(ctx context.Context, userID string) (model.Role, error)
}

type AuthConfig struct {
	Secret            string
	RoleLookupTimeout time.Duration
	Development       bool
}

// AuthMiddleware verifies the bearer token and stores the caller's id and role
// on the echo context.
func AuthMiddleware(cfg AuthConfig, roles RoleResolver, log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Secret == "" {
				if !cfg.Development {
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication is not configured")
				}
				c.Set(ctxUserID, DemoUserID)
				c.Set(ctxRole, model.RoleStudent)
				return next(c)
			}

			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims := &Claims{}
			_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(cfg.Secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			role := model.Role(claims.Role)
			if role == "" {
				role = lookupRole(c.Request().Context(), cfg.RoleLookupTimeout, roles, claims.Subject, log)
			}

			c.Set(ctxUserID, claims.Subject)
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}

// lookupRole falls back to the student role when the profile lookup fails or
// does not answer within timeout.
func lookupRole(ctx context.Context, timeout time.Duration, roles RoleResolver, userID string, log *slog.Logger) model.Role {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	role, err := roles.Role(ctx, userID)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, context.DeadlineExceeded) {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "role lookup failed, using student",
			slog.String("action", "auth"),
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return model.RoleStudent
	}
	return role
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !slices.Contains(roles, Role(c)) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}

func Role(c echo.Context) model.Role {
	role, _ := c.Get(ctxRole).(model.Role)
	return role
}

// WithUser is used by handler tests to act as a given user.
func WithUser(c echo.Context, userID string, role model.Role) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}
