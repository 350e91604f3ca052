// Package repository implements persistence for the chat entities with
// hand-written SQL over database/sql. Sentinel errors let handlers map
// failure modes onto HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup target does not exist. Handlers
// translate it into 404 (profile, channel) or 401 (login).
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (login or email). The storage constraint is the final arbiter for
// concurrent signups; the handler's existence checks are only advisory.
var ErrDuplicate = errors.New("duplicate entry")
