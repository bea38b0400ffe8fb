package http

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const claimsContextKey = "auth_claims"

type Claims struct {
	UserID uuid.UUID
	Role   string
}

// TokenAuthMiddleware authenticates requests with an HS256 bearer token. The
// subject claim carries the user id, the optional role claim grants admin
// endpoints.
func TokenAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return respondUnauthorized(c, "missing authorization header")
			}

			rawToken, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found {
				return respondUnauthorized(c, "authorization header must be a bearer token")
			}

			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return respondUnauthorized(c, "invalid token")
			}

			mapClaims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return respondUnauthorized(c, "invalid token claims")
			}

			subject, err := mapClaims.GetSubject()
			if err != nil || subject == "" {
				return respondUnauthorized(c, "token subject is required")
			}

			userID, err := uuid.Parse(subject)
			if err != nil {
				return respondUnauthorized(c, "token subject must be a user id")
			}

			role, _ := mapClaims["role"].(string)

			c.Set(claimsContextKey, Claims{UserID: userID, Role: role})

			return next(c)
		}
	}
}

func claimsFromContext(c echo.Context) (Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(Claims)
	return claims, ok
}
