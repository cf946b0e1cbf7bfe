package router

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// View renders a page. The raw path is passed through so views can read
// query parameters (the change-password page takes its reset token there).
type View func(ctx context.Context, path string) error

// Router maps paths to views and runs every navigation through the guard.
type Router struct {
	guard *Guard
	views map[string]View
}

func NewRouter(guard *Guard) *Router {
	return &Router{guard: guard, views: make(map[string]View)}
}

// Handle registers a view for a path. Matching is by path prefix, so a
// registered "/alterar-senha" also serves "/alterar-senha?token=...".
func (r *Router) Handle(path string, v View) {
	r.views[path] = v
}

func (r *Router) resolve(path string) (View, bool) {
	clean := path
	if u, err := url.Parse(path); err == nil && u.Path != "" {
		clean = u.Path
	}
	if v, ok := r.views[clean]; ok {
		return v, true
	}
	// Longest registered prefix wins.
	var best string
	for p := range r.views {
		if strings.HasPrefix(clean, p) && len(p) > len(best) {
			best = p
		}
	}
	if best == "" {
		return nil, false
	}
	return r.views[best], true
}

// Open evaluates the guard for path and renders the mapped view when access
// is granted. Unregistered paths fall back to the dashboard when
// authenticated and to the login page otherwise. The returned Result tells
// the caller what happened; on RedirectToLogin no view is rendered.
func (r *Router) Open(ctx context.Context, path string) (Result, error) {
	return r.open(ctx, path, true)
}

func (r *Router) open(ctx context.Context, path string, allowFallback bool) (Result, error) {
	res := r.guard.Evaluate(path)
	if res.Decision == RedirectToLogin {
		return res, nil
	}

	view, ok := r.resolve(path)
	if !ok {
		if !allowFallback {
			return res, fmt.Errorf("no view registered for %q", path)
		}
		fallback := "/dashboard"
		if res.Decision == PublicPage {
			fallback = LoginPath
		}
		return r.open(ctx, fallback, false)
	}

	return res, view(ctx, path)
}
