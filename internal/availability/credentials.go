package availability

import (
	"context"
	"net/http"
)

type cookieKey struct{}

// WithCookie attaches the end user's Cookie header to ctx. Requests to the
// booking server made with ctx carry it, since the server only answers
// logged-in users.
func WithCookie(ctx context.Context, cookie string) context.Context {
	if cookie == "" {
		return ctx
	}
	return context.WithValue(ctx, cookieKey{}, cookie)
}

// CookieFrom returns the Cookie header attached by WithCookie.
func CookieFrom(ctx context.Context) string {
	c, _ := ctx.Value(cookieKey{}).(string)
	return c
}

// SetCookieHeader copies the cookie in ctx onto req.
func SetCookieHeader(ctx context.Context, req *http.Request) {
	if c := CookieFrom(ctx); c != "" {
		req.Header.Set("Cookie", c)
	}
}
