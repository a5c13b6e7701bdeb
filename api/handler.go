package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vehicle-dashboard/charts"
	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
	"vehicle-dashboard/utils"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Handler serves the dataset, its filters and the dashboard charts.
type Handler struct {
	dataset  *services.Dataset
	insights *services.InsightService
	renderer *charts.Renderer
	logger   *utils.Logger
}

func NewHandler(dataset *services.Dataset, insights *services.InsightService, renderer *charts.Renderer, logger *utils.Logger) *Handler {
	return &Handler{dataset: dataset, insights: insights, renderer: renderer, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dataset/summary", h.summary)
	rg.POST("/dataset/reload", h.reload)
	rg.GET("/listings", h.listings)
	rg.GET("/filters", h.filters)

	cg := rg.Group("/charts")
	cg.GET("/body-types", h.bodyTypes)
	cg.GET("/condition-years", h.conditionYears)
	cg.GET("/price-distribution", h.priceDistribution)
	cg.GET("/depreciation", h.depreciation)
	cg.GET("/days-listed", h.daysListed)
}

func (h *Handler) health(c *gin.Context) {
	snap := h.dataset.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"listings":  len(snap.Listings),
		"loaded_at": snap.LoadedAt,
	})
}

func (h *Handler) summary(c *gin.Context) {
	listings, ok := h.narrow(c)
	if !ok {
		return
	}
	report := h.insights.Generate(listings, h.dataset.Snapshot().Diagnostics)
	success(c, "dataset summary", report)
}

func (h *Handler) reload(c *gin.Context) {
	snap, err := h.dataset.Reload(c.Request.Context())
	if err != nil {
		h.logger.Error("[api] Reload failed: %v", err)
		fail(c, err)
		return
	}
	success(c, "dataset reloaded", gin.H{
		"listings":    len(snap.Listings),
		"diagnostics": snap.Diagnostics,
		"loaded_at":   snap.LoadedAt,
	})
}

func (h *Handler) listings(c *gin.Context) {
	listings, ok := h.narrow(c)
	if !ok {
		return
	}

	limit := parseInt(c.Query("limit"), defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := max(parseInt(c.Query("offset"), 0), 0)

	page := []*models.Listing{}
	if offset < len(listings) {
		page = listings[offset:min(offset+limit, len(listings))]
	}
	success(c, "listings", gin.H{
		"total":  len(listings),
		"limit":  limit,
		"offset": offset,
		"items":  page,
	})
}

func (h *Handler) filters(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		fail(c, err)
		return
	}
	options, err := h.dataset.Options(q)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, "filter options", gin.H{
		"include_small": q.IncludeSmall,
		"threshold":     h.dataset.Threshold(),
		"filters":       options,
	})
}

func (h *Handler) bodyTypes(c *gin.Context) {
	listings, ok := h.narrow(c)
	if !ok {
		return
	}
	hist := services.BodyTypeHistogram(listings)
	h.respondChart(c, hist, func() ([]byte, error) { return h.renderer.StackedHistogram(hist) })
}

func (h *Handler) conditionYears(c *gin.Context) {
	listings, ok := h.narrow(c)
	if !ok {
		return
	}
	hist := services.ConditionHistogram(listings)
	h.respondChart(c, hist, func() ([]byte, error) { return h.renderer.StackedHistogram(hist) })
}

func (h *Handler) priceDistribution(c *gin.Context) {
	listings, ok := h.narrow(c)
	if !ok {
		return
	}
	normalize, err := parseBool(c, "normalize", true)
	if err != nil {
		fail(c, err)
		return
	}
	dist, err := services.PriceDistribution(listings, c.Query("manufacturer_1"), c.Query("manufacturer_2"), normalize)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondChart(c, dist, func() ([]byte, error) { return h.renderer.PriceDistribution(dist) })
}

func (h *Handler) depreciation(c *gin.Context) {
	listings, ok := h.narrow(c)
	if !ok {
		return
	}
	trendline, err := parseBool(c, "trendline", true)
	if err != nil {
		fail(c, err)
		return
	}
	showScatter, err := parseBool(c, "show_scatter", true)
	if err != nil {
		fail(c, err)
		return
	}
	dep, err := services.Depreciation(listings, c.Query("scatter_manufacturer"), showScatter, trendline)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondChart(c, dep, func() ([]byte, error) { return h.renderer.Depreciation(dep) })
}

func (h *Handler) daysListed(c *gin.Context) {
	listings, ok := h.narrow(c)
	if !ok {
		return
	}
	days, err := services.AverageDaysListed(listings, c.Query("days_manufacturer"), c.Query("sort"))
	if err != nil {
		fail(c, err)
		return
	}
	h.respondChart(c, days, func() ([]byte, error) { return h.renderer.DaysListed(days) })
}

// narrow applies the request's popularity toggle and filters. On failure the
// error response is already written.
func (h *Handler) narrow(c *gin.Context) ([]*models.Listing, bool) {
	q, err := parseQuery(c)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	listings, err := h.dataset.Narrow(q)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return listings, true
}

// respondChart writes the chart data as JSON, or the rendered image for format=png.
func (h *Handler) respondChart(c *gin.Context, data any, render func() ([]byte, error)) {
	switch format := strings.ToLower(c.DefaultQuery("format", "json")); format {
	case "json":
		success(c, "chart data", data)
	case "png":
		img, err := render()
		if err != nil {
			fail(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", img)
	default:
		fail(c, fmt.Errorf("%w: format=%q", errBadParam, format))
	}
}
