// Package repository implements data access over the hotel MySQL
// schema. Sentinel errors defined here let handlers translate storage
// outcomes into HTTP responses without inspecting driver errors.
package repository

import "errors"

// ErrDuplicateAccount is returned when an insert collides with an
// existing username or mail address. Handlers translate this into a
// 409 response.
var ErrDuplicateAccount = errors.New("username or mail already exists")

// ErrNotFound is returned when a point lookup or update matches no
// row. Handlers translate this into a 404 response.
var ErrNotFound = errors.New("not found")
