package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxyRoutesByLongestPrefix(t *testing.T) {
	general := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("general"))
	}))
	defer general.Close()
	reports := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("reports"))
	}))
	defer reports.Close()

	generalURL, err := url.Parse(general.URL)
	require.NoError(t, err)
	reportsURL, err := url.Parse(reports.URL)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	proxy := NewProxy([]Route{
		{Prefix: "/api/v1", Upstream: generalURL},
		{Prefix: "/api/v1/reports", Upstream: reportsURL},
	}, logger)

	rr := httptest.NewRecorder()
	proxy.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/reports/daily", nil))
	body, _ := io.ReadAll(rr.Result().Body)
	assert.Equal(t, "reports", string(body))

	rr = httptest.NewRecorder()
	proxy.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	body, _ = io.ReadAll(rr.Result().Body)
	assert.Equal(t, "general", string(body))
}

func TestProxyUnknownRoute(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	proxy := NewProxy(nil, logger)

	rr := httptest.NewRecorder()
	proxy.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProxyUpstreamDown(t *testing.T) {
	down, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	proxy := NewProxy([]Route{{Prefix: "/", Upstream: down}}, logger)

	rr := httptest.NewRecorder()
	proxy.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestParseRoutes(t *testing.T) {
	routes, err := ParseRoutes([]string{"/api/v1=http://127.0.0.1:8081", " /api/v1/reports = http://127.0.0.1:8082 "})
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "/api/v1", routes[0].Prefix)
	assert.Equal(t, "http://127.0.0.1:8082", routes[1].Upstream.String())
}

func TestParseRoutesMalformed(t *testing.T) {
	_, err := ParseRoutes([]string{"no-equals-sign"})
	assert.Error(t, err)

	_, err = ParseRoutes([]string{"/api=not a url"})
	assert.Error(t, err)
}
