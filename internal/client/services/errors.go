package services

import "errors"

var (
	// ErrNoHousehold means the backend reports the user is not in a
	// household. It is deliberately distinct from a failed fetch.
	ErrNoHousehold = errors.New("not in a household")

	// Input validation, rejected before any request is dispatched.
	ErrEmptyTitle      = errors.New("task title is empty")
	ErrEmptyInviteCode = errors.New("invite code is empty")
	ErrEmptyEmail      = errors.New("email is empty")
	ErrEmptyToken      = errors.New("token is empty")
)
