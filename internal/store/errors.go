package store

import "errors"

var (
	// ErrInvalidEdit is returned when a local edit violates a store
	// precondition, e.g. modifying a tombstoned feature or resolving a
	// feature that is not conflicted. The store is left unchanged.
	ErrInvalidEdit = errors.New("invalid local edit")

	// ErrFeatureNotFound is returned when an edit targets an id the store
	// does not hold.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrBookmarkNotFound is returned by registry lookups and deletes for
	// an unknown bookmark name.
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// ErrDuplicateBookmark is returned when saving under a name that is
	// already taken and overwrite was not requested.
	ErrDuplicateBookmark = errors.New("bookmark name already exists")
)
