package router

import (
	"net/http"
	"strconv"

	"github.com/candemir/news-lens/internal/storage/es"
	"github.com/labstack/echo/v4"
)

type SearchRouter struct {
	e        *echo.Echo
	searcher *es.Searcher
}

func NewSearchRouter(e *echo.Echo, searcher *es.Searcher) *SearchRouter {
	return &SearchRouter{
		e:        e,
		searcher: searcher,
	}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/api/search", r.searchHandler)
}

// searchHandler godoc
// @Summary Full-text search over enriched news
// @Tags search
// @Produce json
// @Param query query string true "Search terms"
// @Param category query string false "Restrict to one category"
// @Param size query int false "Maximum hits" default(10)
// @Success 200 {object} es.SearchResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/search [get]
func (r *SearchRouter) searchHandler(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	size := 10
	if rawSize := c.QueryParam("size"); rawSize != "" {
		parsed, err := strconv.Atoi(rawSize)
		if err == nil && parsed >= 1 {
			size = parsed
		}
	}

	result, err := r.searcher.Search(c.Request().Context(), query, c.QueryParam("category"), size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
