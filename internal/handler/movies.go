package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moviebook/moviebook/internal/catalog"
)

// MovieHandler exposes the public browse endpoints backed by the
// external metadata provider. These routes need no authentication;
// guests browse before registering.
type MovieHandler struct {
	Catalog *catalog.Client
}

func NewMovieHandler(c *catalog.Client) *MovieHandler {
	return &MovieHandler{Catalog: c}
}

// Recent handles GET /v1/movies/recent. The payload includes the flat
// list plus the same movies bucketed by genre for the browse page.
func (h *MovieHandler) Recent(c echo.Context) error {
	movies, err := h.Catalog.Recent(c.Request().Context())
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "movie catalog unavailable right now, please try again later"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "browse failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movies":   movies,
		"by_genre": catalog.GroupByGenre(movies),
	})
}

// Details handles GET /v1/movies/:id.
func (h *MovieHandler) Details(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	movie, err := h.Catalog.Details(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "movie details unavailable right now, please try again later"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Search handles GET /v1/search/movies?q=.
func (h *MovieHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}
	movies, err := h.Catalog.Search(c.Request().Context(), q)
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "search unavailable right now, please try again later"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"results": movies})
}
