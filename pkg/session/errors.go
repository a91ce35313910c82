package session

import "errors"

var (
	ErrEmptyToken = errors.New("session token is empty")
)
