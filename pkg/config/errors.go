package config

import "errors"

var (
	ErrParseFailed = errors.New("failed to parse environment configuration")
)
