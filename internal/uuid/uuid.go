// Package uuid wraps google/uuid for binding of query and path parameters.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

// UUID can be bound from query strings and path parameters.
// gin cannot bind those to google_uuid.UUID directly.
type UUID struct {
	google_uuid.UUID
}

var Nil UUID

// UnmarshalParam parses path and query parameters. The empty string
// is Nil so that filters like ?account= select records without one.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, e := google_uuid.Parse(p)
	if e != nil {
		return e
	}

	*u = UUID{parsed}
	return nil
}

// Ptr returns a pointer to the wrapped UUID, nil for Nil.
func (u UUID) Ptr() *google_uuid.UUID {
	if u == Nil {
		return nil
	}

	id := u.UUID
	return &id
}
