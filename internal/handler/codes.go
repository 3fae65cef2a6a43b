// Package handler exposes the HTTP endpoints of the Cherio API.
package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/cherio/cherio-api/internal/i18n"
)

// Client-facing response codes. The enumeration is fixed: clients key
// their error dialogs off these numbers, so values never change or
// get reused.
const (
	CodeRegisterTaken = 10128 // username or mail already registered
	CodeLoginFailed   = 10020 // unknown user or wrong password (indistinguishable)
	CodeUserNotFound  = 10404 // lookup on a nonexistent account
	CodeGenericError  = 50000 // internal failure, details stay in the server log
)

// apiError is the structured error payload returned by every endpoint.
// Earlier route generations returned bare detail strings; that shape
// is superseded and must not come back.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fail writes a localized structured error response.
func fail(c echo.Context, status, code int, key string, args map[string]string) error {
	tr := i18n.FromContext(c)
	return c.JSON(status, apiError{Code: code, Message: tr(key, args)})
}
