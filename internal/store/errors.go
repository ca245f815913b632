package store

import "errors"

var (
	// ErrNotFound is returned by every lookup that matches no record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateSlug is returned when creating a company or community
	// whose slug is already taken. Uniqueness is enforced at write time;
	// the legacy behavior of silently shadowing duplicates is not kept.
	ErrDuplicateSlug = errors.New("slug already in use")
)
