package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID placed in the context
// by the auth middleware. The middleware stores a uint64, but numeric
// JWT claims can surface as float64 or string depending on the parser
// path, so all three are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case uint64:
		if v != 0 {
			return v, nil
		}
	case float64:
		if v > 0 {
			return uint64(v), nil
		}
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n != 0 {
			return n, nil
		}
	}
	return 0, errors.New("no authenticated user in context")
}
