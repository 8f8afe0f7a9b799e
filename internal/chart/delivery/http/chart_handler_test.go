package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-runchart/internal/chart/repository"
	"workflow-runchart/internal/chart/service"
	"workflow-runchart/pkg/logger"
	"workflow-runchart/pkg/utils"
)

const feedBody = "2024-10-18T21:43:46Z,46,workflow_dispatch,success,31s,v0.2.0\n2024-10-17T10:00:00Z,45,schedule,failure,12s,v0.1.9"

type stubFeed struct {
	body string
	err  error
}

func (s stubFeed) Fetch(context.Context) (string, error) { return s.body, s.err }

func newServer(feed stubFeed) *echo.Echo {
	svc := service.NewChartService(feed, repository.NewMemorySessionRepository(time.Minute), logger.NewNop(), 24, time.UTC)
	e := echo.New()
	h := NewChartHandler(svc, logger.NewNop(), "")
	h.RegisterPageRoutes(e.Group(""))
	h.RegisterRoutes(e.Group("/api/v1").Group("/chart"))
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetChartPage(t *testing.T) {
	rec := get(newServer(stubFeed{body: feedBody}), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="prevBtn"`)
	assert.Contains(t, body, "Run number: 46")
	assert.Contains(t, body, "ArrowLeft")
	assert.Contains(t, body, "runs 1–2 of 2")
	assert.Regexp(t, `id="prevBtn" name="nav" value="prev" disabled`, body)
	assert.Regexp(t, `id="nextBtn" name="nav" value="next" disabled`, body)
}

func TestGetChartPageFetchFailure(t *testing.T) {
	rec := get(newServer(stubFeed{err: errors.New("offline")}), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be loaded")
}

func TestGetChartAPI(t *testing.T) {
	e := newServer(stubFeed{body: feedBody})
	rec := get(e, "/api/v1/chart")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.LoadID)
	assert.Equal(t, []float64{12, 31}, resp.View.Values)
	assert.Equal(t, []string{"#666", "#666"}, resp.View.TickColors)
	assert.Equal(t, 2, resp.Summary.Total)

	rec = get(e, "/api/v1/chart?load="+resp.LoadID+"&cursor=abc&nav=next")
	require.Equal(t, http.StatusOK, rec.Code)
	var again ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, resp.LoadID, again.LoadID)
	assert.Equal(t, 0, again.View.Cursor)
}

func TestGetChartImage(t *testing.T) {
	e := newServer(stubFeed{body: feedBody})

	rec := get(e, "/chart.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get(echo.HeaderContentType))

	rec = get(newServer(stubFeed{body: ""}), "/chart.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := get(newServer(stubFeed{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPageRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		cursor *int
		nav    service.Navigation
	}{
		{name: "no cursor", target: "/?load=abc", nav: service.NavNone},
		{name: "zero cursor", target: "/?load=abc&cursor=0&nav=prev", cursor: utils.ToPointer(0), nav: service.NavBackward},
		{name: "cursor", target: "/?cursor=26&nav=next", cursor: utils.ToPointer(26), nav: service.NavForward},
		{name: "invalid cursor", target: "/?cursor=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, tt.target, nil), httptest.NewRecorder())
			req := pageRequest(c)
			assert.Equal(t, tt.cursor, req.Cursor)
			assert.Equal(t, tt.nav, req.Nav)
		})
	}
}

func TestAPIRouteMountedUnderGroup(t *testing.T) {
	e := newServer(stubFeed{body: feedBody})

	assert.Equal(t, http.StatusOK, get(e, "/api/v1/chart").Code)
	assert.Equal(t, http.StatusNotFound, get(e, "/chart").Code)
}
