package http

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"workflow-runchart/internal/chart/adapter"
	"workflow-runchart/internal/chart/parser"
	"workflow-runchart/internal/chart/render"
	"workflow-runchart/internal/chart/service"
	"workflow-runchart/pkg/common"
	"workflow-runchart/pkg/logger"
	"workflow-runchart/pkg/metrics"
	"workflow-runchart/pkg/utils"
)

// DefaultChartJSURL is the charting library loaded by the page.
const DefaultChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js"

var pageTemplate = template.Must(template.New("chart").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
}).Parse(chartPageTemplate))

// ChartResponse is the JSON body of the chart API.
type ChartResponse struct {
	LoadID     string         `json:"load_id"`
	View       *adapter.View  `json:"view"`
	Summary    parser.Summary `json:"summary"`
	FetchError string         `json:"fetch_error,omitempty"`
}

type pageData struct {
	Title      string
	ChartJSURL string
	LoadID     string
	View       *adapter.View
	Summary    parser.Summary
	FetchError string
	Hover      map[string]string
}

// ChartHandler serves the chart page, its JSON API and image exports.
type ChartHandler struct {
	chartService service.ChartService
	logger       *logger.Logger
	title        string
	chartJSURL   string
	images       map[string]render.Renderer
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(chartService service.ChartService, logger *logger.Logger, title string) *ChartHandler {
	if title == "" {
		title = "Workflow run history"
	}
	return &ChartHandler{
		chartService: chartService,
		logger:       logger,
		title:        title,
		chartJSURL:   DefaultChartJSURL,
		images: map[string]render.Renderer{
			"svg": render.NewSVG(),
			"png": render.NewPNG(),
		},
	}
}

// RegisterPageRoutes registers the browser-facing page, image exports and health check.
func (h *ChartHandler) RegisterPageRoutes(g *echo.Group) {
	g.GET("/", h.GetChartPage)
	g.GET("/chart.svg", h.GetChartImage("svg"))
	g.GET("/chart.png", h.GetChartImage("png"))
	g.GET("/healthz", h.Health)
}

// RegisterRoutes registers the chart API routes.
func (h *ChartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetChart)
}

// GetChartPage renders the interactive chart page.
func (h *ChartHandler) GetChartPage(c echo.Context) error {
	page, err := h.chartService.Page(c.Request().Context(), pageRequest(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title:      h.title,
		ChartJSURL: h.chartJSURL,
		LoadID:     page.LoadID,
		View:       page.View,
		Summary:    page.Summary,
		FetchError: page.FetchError,
		Hover: map[string]string{
			"fill":    common.HoverFillColor,
			"outline": common.HoverOutlineColor,
		},
	})
	if err != nil {
		h.logger.Error("Failed to render chart page", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to render chart"})
	}

	metrics.ObserveRender("html")
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// GetChart returns the current window as JSON.
func (h *ChartHandler) GetChart(c echo.Context) error {
	page, err := h.chartService.Page(c.Request().Context(), pageRequest(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	metrics.ObserveRender("json")
	return c.JSON(http.StatusOK, ChartResponse{
		LoadID:     page.LoadID,
		View:       page.View,
		Summary:    page.Summary,
		FetchError: page.FetchError,
	})
}

// GetChartImage renders the current window through go-chart in the given format.
func (h *ChartHandler) GetChartImage(format string) echo.HandlerFunc {
	renderer := h.images[format]
	return func(c echo.Context) error {
		page, err := h.chartService.Page(c.Request().Context(), pageRequest(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}

		var buf bytes.Buffer
		if err := renderer.Render(&buf, page.View); err != nil {
			if errors.Is(err, render.ErrEmptyView) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
			}
			h.logger.Error("Failed to render chart image", logger.ErrorField(err), logger.StringField("format", format))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to render chart"})
		}

		metrics.ObserveRender(format)
		return c.Blob(http.StatusOK, renderer.ContentType(), buf.Bytes())
	}
}

// Health reports liveness.
func (h *ChartHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func pageRequest(c echo.Context) service.PageRequest {
	req := service.PageRequest{
		LoadID: c.QueryParam("load"),
		Nav:    service.Navigation(c.QueryParam("nav")),
	}
	if raw := c.QueryParam("cursor"); raw != "" {
		if cursor, err := strconv.Atoi(raw); err == nil {
			req.Cursor = utils.ToPointer(cursor)
		}
	}
	return req
}
