package domain

import "errors"

var (
	// ErrSubscriptionFailed is returned when subscription to chain messages fails
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrReferenceNotFound is returned when an event references a token that was never created
	ErrReferenceNotFound = errors.New("referenced entity not found")

	// ErrNegativeBalance is returned when a withdrawal would drive a token value below zero
	ErrNegativeBalance = errors.New("negative balance")

	// ErrTokenInactive is returned when a deposit, withdrawal or burn targets a burned token
	ErrTokenInactive = errors.New("token inactive")

	// ErrTokenAlreadyExists is returned when attempting to mint a token that already exists
	ErrTokenAlreadyExists = errors.New("token already exists")

	// ErrInvalidEvent is returned when an event is missing the payload for its type
	ErrInvalidEvent = errors.New("invalid event")

	// ErrUnknownEvent is returned when a chain message is not a portfolio manager event or call
	ErrUnknownEvent = errors.New("unknown event")
)
