// Package router maps application paths to named routes and guards them on
// the session's authentication state.
package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Access tells the guard who may enter a route.
type Access int

const (
	AccessPublic Access = iota
	// AccessAuth requires a session.
	AccessAuth
	// AccessGuest is only for anonymous users.
	AccessGuest
)

// Route names.
const (
	RouteHome         = "home"
	RouteLogin        = "login"
	RouteRegister     = "register"
	RouteTickets      = "tickets"
	RouteTicketCreate = "ticket-create"
	RouteTicketDetail = "ticket-detail"
	RouteTicketEdit   = "ticket-edit"
)

// ErrRouteNotFound is returned for paths outside the route table.
var ErrRouteNotFound = errors.New("route not found")

// Route is a named path pattern in chi syntax.
type Route struct {
	Name    string
	Pattern string
	Access  Access
}

// DefaultRoutes is the application route table.
var DefaultRoutes = []Route{
	{Name: RouteHome, Pattern: "/", Access: AccessAuth},
	{Name: RouteLogin, Pattern: "/login", Access: AccessGuest},
	{Name: RouteRegister, Pattern: "/register", Access: AccessGuest},
	{Name: RouteTickets, Pattern: "/tickets", Access: AccessAuth},
	{Name: RouteTicketCreate, Pattern: "/tickets/new", Access: AccessAuth},
	{Name: RouteTicketDetail, Pattern: "/tickets/{id}", Access: AccessAuth},
	{Name: RouteTicketEdit, Pattern: "/tickets/{id}/edit", Access: AccessAuth},
}

// Table resolves paths against a set of routes.
type Table struct {
	mux       *chi.Mux
	byPattern map[string]Route
	byName    map[string]Route
}

// NewTable registers routes on a chi mux used purely for matching.
func NewTable(routes []Route) *Table {
	t := &Table{
		mux:       chi.NewRouter(),
		byPattern: make(map[string]Route, len(routes)),
		byName:    make(map[string]Route, len(routes)),
	}
	noop := func(http.ResponseWriter, *http.Request) {}
	for _, r := range routes {
		t.mux.Get(r.Pattern, noop)
		t.byPattern[r.Pattern] = r
		t.byName[r.Name] = r
	}
	return t
}

// Match returns the route for path and its URL parameters.
func (t *Table) Match(path string) (Route, map[string]string, error) {
	rctx := chi.NewRouteContext()
	pattern := t.mux.Find(rctx, http.MethodGet, path)
	route, ok := t.byPattern[pattern]
	if !ok {
		return Route{}, nil, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return route, params, nil
}

// Path builds the path of the named route, substituting params.
func (t *Table) Path(name string, params map[string]string) (string, error) {
	route, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	path := route.Pattern
	for key, val := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(val))
	}
	if strings.Contains(path, "{") {
		return "", fmt.Errorf("route %s: missing parameter in %s", name, path)
	}
	return path, nil
}
