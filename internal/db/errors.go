package db

import "errors"

var (
	ErrUnsupportedDriver     = errors.New("unsupported database driver")
	ErrMissingURL            = errors.New("database url is empty")
	ErrMigrationsUnsupported = errors.New("store does not support migrations")
)
