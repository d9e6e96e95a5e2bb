package router

import (
	"fmt"
	"net/url"
)

// AuthState is the part of the session store the guard needs.
type AuthState interface {
	IsAuthenticated() bool
}

// Decision is the outcome of a navigation attempt. When Allow is false,
// Redirect holds the path to navigate to instead.
type Decision struct {
	Allow    bool
	Route    Route
	Params   map[string]string
	Redirect string
}

// Guard checks navigation against the session.
type Guard struct {
	table *Table
	auth  AuthState
}

// NewGuard builds a guard over table.
func NewGuard(table *Table, auth AuthState) *Guard {
	return &Guard{table: table, auth: auth}
}

// Resolve decides whether fullPath, which may carry a query string, can be entered.
func (g *Guard) Resolve(fullPath string) (Decision, error) {
	u, err := url.Parse(fullPath)
	if err != nil {
		return Decision{}, fmt.Errorf("parse path %q: %w", fullPath, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	route, params, err := g.table.Match(path)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{Route: route, Params: params}
	authenticated := g.auth.IsAuthenticated()
	switch {
	case route.Access == AccessAuth && !authenticated:
		login, err := g.table.Path(RouteLogin, nil)
		if err != nil {
			return Decision{}, err
		}
		d.Redirect = login + "?" + url.Values{"redirect": {fullPath}}.Encode()
	case route.Access == AccessGuest && authenticated:
		home, err := g.table.Path(RouteHome, nil)
		if err != nil {
			return Decision{}, err
		}
		d.Redirect = home
	default:
		d.Allow = true
	}
	return d, nil
}
