package middleware // middleware provides reusable HTTP middleware functions

import (
    "context"
    "net/http"
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// SessionResolver resolves an opaque session token to a user ID.
// Absence is signalled with ok=false, not with an error.
type SessionResolver interface {
    CurrentUser(ctx context.Context, rawToken string) (uint64, bool, error)
}

// Auth returns an Echo middleware that authenticates a request either
// by a Bearer JWT access token (signed with secret) or, failing that,
// by an opaque session token in the X-Session-Token header resolved
// through the store. On success the user ID is stored in the context
// under "user_id" as a uint64; handlers read it via c.Get("user_id").
func Auth(secret string, sessions SessionResolver) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
                raw := strings.TrimPrefix(auth, "Bearer ")
                if uid, ok := parseAccessToken(secret, raw); ok {
                    c.Set("user_id", uid)
                    return next(c)
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            if tok := strings.TrimSpace(c.Request().Header.Get("X-Session-Token")); tok != "" && sessions != nil {
                uid, ok, err := sessions.CurrentUser(c.Request().Context(), tok)
                if err != nil {
                    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
                }
                if ok {
                    c.Set("user_id", uid)
                    return next(c)
                }
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
            }
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing credentials"})
        }
    }
}

// parseAccessToken validates an HS256 JWT and extracts the subject
// claim as a user ID. Numeric claims arrive as float64; some encoders
// produce numeric strings, so both are accepted.
func parseAccessToken(secret, raw string) (uint64, bool) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return 0, false
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, false
    }
    switch sub := claims["sub"].(type) {
    case float64:
        return uint64(sub), true
    case string:
        if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
            return n, true
        }
    }
    return 0, false
}
