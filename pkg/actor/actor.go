// Package actor identifies the authenticated caller behind a request.
//
// An Actor is built from verified token claims by the HTTP middleware and
// travels through the request context into the services, which use it for
// ownership checks (employees act on their own records, administrators on
// anyone's).
package actor

import (
	"context"
	"fmt"
)

// Role is the caller's permission level.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Actor represents the caller performing an action.
type Actor struct {
	// UserID is the login identity from the token subject
	UserID string `json:"user_id"`

	// Role decides whether the caller may act on other employees
	Role Role `json:"role"`

	// EmployeeID links the login to an employee; empty for admins without a timecard
	EmployeeID string `json:"employee_id,omitempty"`
}

// IsAdmin reports whether the actor has administrator rights.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// CanAccessEmployee reports whether the actor may read or modify
// records belonging to employeeID.
func (a *Actor) CanAccessEmployee(employeeID string) bool {
	if a == nil {
		return false
	}
	if a.IsAdmin() {
		return true
	}
	return a.EmployeeID != "" && a.EmployeeID == employeeID
}

// String returns a string representation of the actor for logging
func (a *Actor) String() string {
	if a == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s (%s)", a.UserID, a.Role)
}

type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context.
// Returns nil if no actor is present.
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	a, ok := ctx.Value(actorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return a
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}
