package service

import "errors"

// Sentinel errors returned by the services. Handlers translate these into
// HTTP status codes; anything else is treated as a store failure.
var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("forbidden")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrSelfRetweet        = errors.New("cannot retweet your own tweet")
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyContent       = errors.New("tweet content cannot be empty")
	ErrContentTooLong     = errors.New("tweet content exceeds 280 characters")
)
