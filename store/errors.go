package store

import "errors"

var (
	// ErrAlreadyInitialized indicates the registry account already exists.
	ErrAlreadyInitialized = errors.New("store: registry already initialized")

	// ErrNotInitialized indicates the registry account was never created.
	ErrNotInitialized = errors.New("store: registry not initialized")

	// ErrGroupExists indicates the group name is already taken.
	ErrGroupExists = errors.New("store: group already exists")

	// ErrGroupNotFound indicates no group is stored under the name.
	ErrGroupNotFound = errors.New("store: group not found")
)
