package domain

import "errors"

var (
	// ErrNotFound signals a missing catalog item.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate item ID.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidItem signals an item that failed validation.
	ErrInvalidItem = errors.New("invalid item")
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidKind signals an unknown catalog collection.
	ErrInvalidKind = errors.New("invalid kind")
	// ErrUnauthorized signals a failed admin check.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidSession signals a missing or malformed client session ID.
	ErrInvalidSession = errors.New("invalid session")
	// ErrSnapshotNotReady signals that the search snapshot has not been loaded yet.
	ErrSnapshotNotReady = errors.New("search snapshot not ready")
)
