package models

import "errors"

var (
	// ErrNotFound is returned when a referenced account or event does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is authenticated but not allowed
	// to perform this mutation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument is returned on malformed input, e.g. a bad RSVP value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is returned on duplicate registration.
	ErrConflict = errors.New("already exists")

	// ErrSelfRequest is returned when an account friend-requests itself.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")
	// ErrAlreadyFriends is returned when the two accounts are already mutual friends.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrDuplicateRequest is returned when an identical request is already pending.
	ErrDuplicateRequest = errors.New("friend request already pending")
	// ErrNoSuchRequest is returned when accepting or rejecting a request that
	// does not exist (possibly because it was already resolved).
	ErrNoSuchRequest = errors.New("no such friend request")
	// ErrNotFriends is returned when unfriending an account that is not a friend.
	ErrNotFriends = errors.New("not friends")
)
