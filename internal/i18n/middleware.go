package i18n

import "github.com/labstack/echo/v4"

// contextKey is the Echo context key holding the request Translator.
const contextKey = "gettext"

// Middleware negotiates a locale per request and attaches the matching
// Translator to the Echo context.
func Middleware(c *Catalog) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			req := ec.Request()
			locale := c.Negotiate(req.URL.Path, req.Header.Get("Accept-Language"))
			ec.Set(contextKey, c.Translator(locale))
			return next(ec)
		}
	}
}

// FromContext returns the request's Translator, or Identity when the
// middleware is not installed (tests, background jobs).
func FromContext(ec echo.Context) Translator {
	if tr, ok := ec.Get(contextKey).(Translator); ok {
		return tr
	}
	return Identity
}
