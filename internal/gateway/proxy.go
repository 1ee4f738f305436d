package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/northgate-io/northgate/internal/platform/httpx"
)

// Route maps a path prefix to an upstream service.
type Route struct {
	Prefix   string
	Upstream *url.URL
}

// Proxy forwards admitted requests to the upstream matching the longest
// route prefix.
type Proxy struct {
	routes []Route
	logger *slog.Logger
}

// NewProxy constructs a Proxy. Routes are matched longest prefix first.
func NewProxy(routes []Route, logger *slog.Logger) *Proxy {
	sorted := make([]Route, len(routes))
	copy(sorted, routes)
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Proxy{routes: sorted, logger: logger}
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, ok := p.match(r.URL.Path)
	if !ok {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no route for path")
		return
	}
	proxy := httputil.NewSingleHostReverseProxy(route.Upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if p.logger != nil {
			p.logger.Error("upstream unreachable",
				slog.String("prefix", route.Prefix),
				slog.String("upstream", route.Upstream.String()),
				slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusBadGateway, "Bad Gateway", "upstream unreachable")
	}
	proxy.ServeHTTP(w, r)
}

func (p *Proxy) match(path string) (Route, bool) {
	for _, route := range p.routes {
		if strings.HasPrefix(path, route.Prefix) {
			return route, true
		}
	}
	return Route{}, false
}

// ParseRoutes parses "prefix=url" pairs into routes.
func ParseRoutes(pairs []string) ([]Route, error) {
	routes := make([]Route, 0, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		prefix, rawURL, found := strings.Cut(pair, "=")
		if !found {
			return nil, &RouteError{Pair: pair}
		}
		upstream, err := url.Parse(strings.TrimSpace(rawURL))
		if err != nil || upstream.Scheme == "" || upstream.Host == "" {
			return nil, &RouteError{Pair: pair}
		}
		routes = append(routes, Route{Prefix: strings.TrimSpace(prefix), Upstream: upstream})
	}
	return routes, nil
}

// RouteError reports a malformed route pair.
type RouteError struct {
	Pair string
}

func (e *RouteError) Error() string {
	return "malformed route, want prefix=url: " + e.Pair
}
