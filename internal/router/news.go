package router

import (
	"net/http"

	"github.com/candemir/news-lens/internal/domain"
	"github.com/candemir/news-lens/internal/service"
	"github.com/labstack/echo/v4"
)

type NewsRouter struct {
	e   *echo.Echo
	svc *service.NewsService
}

func NewNewsRouter(e *echo.Echo, svc *service.NewsService) *NewsRouter {
	return &NewsRouter{
		e:   e,
		svc: svc,
	}
}

func (r *NewsRouter) Bind() {
	r.e.GET("/api/news", r.getNewsHandler)
	r.e.GET("/api/news/categories", r.getCategoriesHandler)
	r.e.GET("/api/news/:category", r.getCategoryNewsHandler)
	r.e.POST("/api/news/ask", r.askNewsHandler)
	r.e.GET("/api/admin/news", r.listAllNewsHandler)
}

type newsResponse struct {
	Articles []domain.NewsRecord `json:"articles"`
}

type askRequest struct {
	News  string `json:"news"`
	Query string `json:"query"`
}

type askResponse struct {
	Content string `json:"content"`
}

// getNewsHandler godoc
// @Summary Get the global enriched feed
// @Description Returns the latest enriched headlines, refreshing from the news API when the store is empty
// @Tags news
// @Produce json
// @Success 200 {object} newsResponse
// @Failure 500 {object} map[string]string
// @Router /api/news [get]
func (r *NewsRouter) getNewsHandler(c echo.Context) error {
	records, err := r.svc.GetNews(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newsResponse{Articles: records})
}

// getCategoryNewsHandler godoc
// @Summary Get enriched news for one category
// @Description Serves cached records when a fresh batch exists, otherwise runs a new enrichment cycle
// @Tags news
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} newsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/news/{category} [get]
func (r *NewsRouter) getCategoryNewsHandler(c echo.Context) error {
	records, err := r.svc.GetCategoryNews(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newsResponse{Articles: records})
}

// getCategoriesHandler godoc
// @Summary List the known categories
// @Tags news
// @Produce json
// @Success 200 {array} domain.CategoryInfo
// @Router /api/news/categories [get]
func (r *NewsRouter) getCategoriesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Categories)
}

// askNewsHandler godoc
// @Summary Ask a question about provided news
// @Description Synthesizes an AI answer from caller-supplied article summaries
// @Tags news
// @Accept json
// @Produce json
// @Param request body askRequest true "News context and question"
// @Success 200 {object} askResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/news/ask [post]
func (r *NewsRouter) askNewsHandler(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	answer, err := r.svc.AskNews(c.Request().Context(), req.News, req.Query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, askResponse{Content: answer})
}

// listAllNewsHandler godoc
// @Summary List every stored record
// @Description Admin listing of all enriched records with their related coverage, newest first
// @Tags admin
// @Produce json
// @Success 200 {object} newsResponse
// @Failure 500 {object} map[string]string
// @Router /api/admin/news [get]
func (r *NewsRouter) listAllNewsHandler(c echo.Context) error {
	records, err := r.svc.ListAllNews(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newsResponse{Articles: records})
}
